/*
NAME
  decode.go

DESCRIPTION
  decode.go provides a Decoder that reads YUV4MPEG2 streams into planar
  frames.

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
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/ausocean/deinterlace/frame"
)

// Decoder reads frames from a YUV4MPEG2 stream. The stream header is
// parsed on construction; Decode then returns one frame per call until
// io.EOF.
type Decoder struct {
	r *bufio.Reader

	Width       int
	Height      int
	RateN       int
	RateD       int
	Format      frame.Format
	Interlacing byte

	log logging.Logger
	n   int64 // Frames decoded so far.
}

// NewDecoder returns a Decoder for the stream on r, having parsed and
// validated the stream header.
func NewDecoder(r io.Reader, log logging.Logger) (*Decoder, error) {
	if log == nil {
		log = logging.New(logging.Error, io.Discard, true)
	}
	d := &Decoder{
		r:           bufio.NewReader(r),
		RateN:       25,
		RateD:       1,
		Format:      frame.YUV420P,
		Interlacing: InterlacingProgressive,
		log:         log,
	}
	err := d.parseStreamHeader()
	if err != nil {
		return nil, err
	}
	d.log.Info("parsed YUV4MPEG2 header", "width", d.Width, "height", d.Height, "format", d.Format.String(), "interlacing", string(d.Interlacing))
	return d, nil
}

func (d *Decoder) parseStreamHeader() error {
	line, err := d.r.ReadString('\n')
	if err != nil {
		return errors.Wrap(err, "could not read stream header")
	}
	line = strings.TrimSuffix(line, "\n")

	fields := strings.Split(line, " ")
	if fields[0] != streamMagic {
		return ErrNotY4M
	}

	for _, f := range fields[1:] {
		if f == "" {
			continue
		}
		tag, val := f[0], f[1:]
		switch tag {
		case 'W':
			d.Width, err = strconv.Atoi(val)
		case 'H':
			d.Height, err = strconv.Atoi(val)
		case 'F':
			d.RateN, d.RateD, err = parseRatio(val)
		case 'I':
			if val == "" {
				return ErrBadHeader
			}
			d.Interlacing = val[0]
		case 'C':
			var ok bool
			d.Format, ok = chromaFormats[val]
			if !ok {
				return errors.Wrap(ErrUnsupportedChroma, val)
			}
		case 'A', 'X':
			// Aspect ratio and comments do not affect decoding.
		default:
			return errors.Wrap(ErrBadHeader, "unknown field tag "+string(tag))
		}
		if err != nil {
			return errors.Wrap(ErrBadHeader, err.Error())
		}
	}

	if d.Width <= 0 || d.Height <= 0 {
		return errors.Wrap(ErrBadHeader, "missing or invalid dimensions")
	}
	return nil
}

func parseRatio(s string) (n, den int, err error) {
	i := strings.IndexByte(s, ':')
	if i < 0 {
		return 0, 0, errors.New("ratio missing separator")
	}
	n, err = strconv.Atoi(s[:i])
	if err != nil {
		return 0, 0, err
	}
	den, err = strconv.Atoi(s[i+1:])
	if err != nil {
		return 0, 0, err
	}
	return n, den, nil
}

// Decode reads the next frame from the stream. The returned frame's
// timestamp is its index in the stream, and its interlacing flags
// follow the stream's I field. Returns io.EOF at the end of the stream.
func (d *Decoder) Decode() (*frame.Frame, error) {
	line, err := d.r.ReadString('\n')
	if err == io.EOF && line == "" {
		return nil, io.EOF
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not read frame header")
	}
	if !strings.HasPrefix(line, frameMagic) {
		return nil, errors.Wrap(ErrBadHeader, "expected FRAME marker")
	}

	f, err := frame.Alloc(d.Format, d.Width, d.Height)
	if err != nil {
		return nil, err
	}

	desc, _ := d.Format.Desc()
	for i := 0; i < desc.Planes; i++ {
		_, h := f.PlaneDims(i)
		for y := 0; y < h; y++ {
			_, err = io.ReadFull(d.r, f.Row(i, y))
			if err != nil {
				return nil, errors.Wrap(err, "short frame data")
			}
		}
	}

	f.PTS = d.n
	d.n++
	f.Interlaced = d.Interlacing != InterlacingProgressive
	f.TFF = d.Interlacing == InterlacingTFF
	return f, nil
}
