/*
NAME
  format.go

DESCRIPTION
  format.go provides the planar pixel format descriptors understood by
  the deinterlacer.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package frame provides planar video frames and the aligned buffer
// allocation and reference counting used by the deinterlace filter.
package frame

import (
	"github.com/pkg/errors"
)

// Format identifies a planar pixel format.
type Format int

// All formats accepted at negotiation.
// When adding or removing a format from this list, the descriptor
// table below must be updated.
const (
	FormatUnknown Format = iota
	YUV420P
	YUV422P
	YUV444P
	YUV410P
	YUV411P
	YUV440P
	YUVJ420P // Full-range variants of the 8-bit YUV formats.
	YUVJ422P
	YUVJ444P
	YUVJ440P
	Gray8
	Gray16
	YUV420P16
	YUV422P16
	YUV444P16
)

// ErrUnsupportedFormat is returned at negotiation for any format not in
// the descriptor table.
var ErrUnsupportedFormat = errors.New("unsupported pixel format")

// Desc describes the geometry of a Format: the number of planes, the
// sample depth, and the chroma subsampling shifts applied to the width
// and height of the non-luma planes.
type Desc struct {
	Name   string
	Planes int
	Bits   int
	HShift uint // Horizontal chroma shift.
	VShift uint // Vertical chroma shift.
}

var descs = map[Format]Desc{
	YUV420P:   {"yuv420p", 3, 8, 1, 1},
	YUV422P:   {"yuv422p", 3, 8, 1, 0},
	YUV444P:   {"yuv444p", 3, 8, 0, 0},
	YUV410P:   {"yuv410p", 3, 8, 2, 2},
	YUV411P:   {"yuv411p", 3, 8, 2, 0},
	YUV440P:   {"yuv440p", 3, 8, 0, 1},
	YUVJ420P:  {"yuvj420p", 3, 8, 1, 1},
	YUVJ422P:  {"yuvj422p", 3, 8, 1, 0},
	YUVJ444P:  {"yuvj444p", 3, 8, 0, 0},
	YUVJ440P:  {"yuvj440p", 3, 8, 0, 1},
	Gray8:     {"gray8", 1, 8, 0, 0},
	Gray16:    {"gray16", 1, 16, 0, 0},
	YUV420P16: {"yuv420p16", 3, 16, 1, 1},
	YUV422P16: {"yuv422p16", 3, 16, 1, 0},
	YUV444P16: {"yuv444p16", 3, 16, 0, 0},
}

// Desc returns the descriptor for f. The second return is false for a
// format outside the supported set.
func (f Format) Desc() (Desc, bool) {
	d, ok := descs[f]
	return d, ok
}

// Valid reports whether f is in the supported set.
func (f Format) Valid() bool {
	_, ok := descs[f]
	return ok
}

// BytesPerSample returns the byte depth of f's samples, i.e. 1 or 2.
func (f Format) BytesPerSample() int {
	d, ok := descs[f]
	if !ok {
		return 0
	}
	return (d.Bits + 7) / 8
}

func (f Format) String() string {
	d, ok := descs[f]
	if !ok {
		return "unknown"
	}
	return d.Name
}
