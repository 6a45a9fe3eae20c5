/*
NAME
  encode.go

DESCRIPTION
  encode.go provides an Encoder that writes planar frames as a
  YUV4MPEG2 stream.

AUTHORS
  Trek Hopton <trek@ausocean.org>
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package y4m

import (
	"fmt"
	"io"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/ausocean/deinterlace/frame"
)

// Encoder writes frames as a YUV4MPEG2 stream. The output is always
// marked progressive; a deinterlacer running at field rate should
// double the frame rate it passes here.
type Encoder struct {
	dst io.Writer

	width  int
	height int
	rateN  int
	rateD  int
	format frame.Format
	chroma string

	wroteHeader bool
	log         logging.Logger
}

// NewEncoder returns an Encoder writing to dst. The format must map to
// a YUV4MPEG2 chroma tag or ErrUnsupportedChroma is returned.
func NewEncoder(dst io.Writer, format frame.Format, w, h, rateN, rateD int, log logging.Logger) (*Encoder, error) {
	if log == nil {
		log = logging.New(logging.Error, io.Discard, true)
	}
	chroma, ok := formatChroma[format]
	if !ok {
		return nil, errors.Wrap(ErrUnsupportedChroma, format.String())
	}
	return &Encoder{
		dst:    dst,
		width:  w,
		height: h,
		rateN:  rateN,
		rateD:  rateD,
		format: format,
		chroma: chroma,
		log:    log,
	}, nil
}

// Encode writes one frame, preceded on first use by the stream header.
func (e *Encoder) Encode(f *frame.Frame) error {
	if !e.wroteHeader {
		_, err := fmt.Fprintf(e.dst, "%s W%d H%d F%d:%d Ip A1:1 C%s\n",
			streamMagic, e.width, e.height, e.rateN, e.rateD, e.chroma)
		if err != nil {
			return errors.Wrap(err, "could not write stream header")
		}
		e.wroteHeader = true
		e.log.Debug("wrote YUV4MPEG2 header", "chroma", e.chroma)
	}

	_, err := fmt.Fprintf(e.dst, "%s\n", frameMagic)
	if err != nil {
		return errors.Wrap(err, "could not write frame header")
	}

	desc, _ := f.Format.Desc()
	for i := 0; i < desc.Planes; i++ {
		_, h := f.PlaneDims(i)
		for y := 0; y < h; y++ {
			_, err = e.dst.Write(f.Row(i, y))
			if err != nil {
				return errors.Wrap(err, "could not write frame data")
			}
		}
	}
	return nil
}
