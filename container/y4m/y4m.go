/*
NAME
  y4m.go

DESCRIPTION
  y4m.go provides shared definitions for the YUV4MPEG2 container: the
  stream and frame magics, the error values, and the mapping between
  YUV4MPEG2 chroma tags and pixel formats.

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

// Package y4m provides decoding and encoding of uncompressed planar
// video in the YUV4MPEG2 stream format.
package y4m

import (
	"github.com/pkg/errors"

	"github.com/ausocean/deinterlace/frame"
)

const (
	streamMagic = "YUV4MPEG2"
	frameMagic  = "FRAME"
)

// Interlacing values carried by a stream's I field.
const (
	InterlacingProgressive = 'p'
	InterlacingTFF         = 't'
	InterlacingBFF         = 'b'
	InterlacingMixed       = 'm'
)

var (
	ErrNotY4M            = errors.New("not a YUV4MPEG2 stream")
	ErrBadHeader         = errors.New("malformed YUV4MPEG2 header")
	ErrUnsupportedChroma = errors.New("unsupported chroma tag")
)

// Chroma tags are matched case-sensitively, as written by common tools.
// The three 4:2:0 siting variants share a pixel format; siting does not
// affect sample layout.
var chromaFormats = map[string]frame.Format{
	"420jpeg":  frame.YUV420P,
	"420mpeg2": frame.YUV420P,
	"420paldv": frame.YUV420P,
	"420":      frame.YUV420P,
	"422":      frame.YUV422P,
	"444":      frame.YUV444P,
	"411":      frame.YUV411P,
	"410":      frame.YUV410P,
	"440":      frame.YUV440P,
	"mono":     frame.Gray8,
	"mono16":   frame.Gray16,
	"420p16":   frame.YUV420P16,
	"422p16":   frame.YUV422P16,
	"444p16":   frame.YUV444P16,
}

var formatChroma = map[frame.Format]string{
	frame.YUV420P:   "420jpeg",
	frame.YUVJ420P:  "420jpeg",
	frame.YUV422P:   "422",
	frame.YUVJ422P:  "422",
	frame.YUV444P:   "444",
	frame.YUVJ444P:  "444",
	frame.YUV411P:   "411",
	frame.YUV410P:   "410",
	frame.YUV440P:   "440",
	frame.YUVJ440P:  "440",
	frame.Gray8:     "mono",
	frame.Gray16:    "mono16",
	frame.YUV420P16: "420p16",
	frame.YUV422P16: "422p16",
	frame.YUV444P16: "444p16",
}
