/*
NAME
  filter.go

AUTHORS
  Ella Pietraroia <ella@ausocean.org>
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package filter provides the interface and implementations of the filters
// to be used on planar video frames, notably the motion-adaptive
// deinterlacer.
package filter

import (
	"github.com/pkg/errors"

	"github.com/ausocean/deinterlace/frame"
)

// ErrEndOfStream is returned by RequestFrame once the upstream source is
// exhausted and the filter's window has drained.
var ErrEndOfStream = errors.New("end of stream")

// Source supplies frames to a filter on demand. Request hands over one
// frame, transferring its reference to the caller. Poll reports how many
// frames could be produced without blocking; when flush is set the
// source has been told no further input will arrive.
type Source interface {
	Request() (*frame.Frame, error)
	Poll(flush bool) int
}

// Sink receives produced frames. For each output the filter calls
// StartFrame, DrawSlice covering the full height, then EndFrame, in that
// order. The frame reference passed to StartFrame is owned by the sink
// after EndFrame returns.
type Sink interface {
	StartFrame(*frame.Frame) error
	DrawSlice(y, h int) error
	EndFrame() error
}

// Interface for all filters.
type Filter interface {
	// Write pushes one input frame into the filter, transferring its
	// reference. Outputs are delivered to the sink; a filter may hold
	// one back and deliver it from a later RequestFrame or Write.
	Write(*frame.Frame) error

	// RequestFrame produces one output, pulling from the source as
	// needed. Returns ErrEndOfStream when drained.
	RequestFrame() error

	// PollFrame reports how many outputs are available without blocking
	// the source.
	PollFrame(flush bool) int

	Close() error
}

// The NoOp filter will perform no operation on the frames that are being
// received, it will pass them on to the sink with no changes.
type NoOp struct {
	src Source
	dst Sink
}

// NewNoOp returns a pointer to a new NoOp filter struct.
func NewNoOp(src Source, dst Sink) *NoOp { return &NoOp{src: src, dst: dst} }

func (n *NoOp) Write(f *frame.Frame) error {
	err := n.dst.StartFrame(f)
	if err != nil {
		return err
	}
	err = n.dst.DrawSlice(0, f.Height)
	if err != nil {
		return err
	}
	return n.dst.EndFrame()
}

func (n *NoOp) RequestFrame() error {
	f, err := n.src.Request()
	if err != nil {
		return err
	}
	return n.Write(f)
}

func (n *NoOp) PollFrame(flush bool) int { return n.src.Poll(flush) }

func (n *NoOp) Close() error { return nil }
