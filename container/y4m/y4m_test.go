/*
NAME
  y4m_test.go

DESCRIPTION
  y4m_test.go contains tests for YUV4MPEG2 decoding and encoding.

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
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/ausocean/deinterlace/frame"
)

// stream420 builds a 4x4 4:2:0 stream of n frames whose luma samples
// count up from base.
func stream420(n int, base byte) []byte {
	var b bytes.Buffer
	b.WriteString("YUV4MPEG2 W4 H4 F25:1 It A1:1 C420jpeg\n")
	for k := 0; k < n; k++ {
		b.WriteString("FRAME\n")
		for i := 0; i < 16; i++ { // Luma.
			b.WriteByte(base + byte(k*16+i))
		}
		for i := 0; i < 8; i++ { // Two 2x2 chroma planes.
			b.WriteByte(128)
		}
	}
	return b.Bytes()
}

func TestDecode(t *testing.T) {
	d, err := NewDecoder(bytes.NewReader(stream420(2, 10)), nil)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	if d.Width != 4 || d.Height != 4 {
		t.Errorf("dims %dx%d, want 4x4", d.Width, d.Height)
	}
	if d.RateN != 25 || d.RateD != 1 {
		t.Errorf("rate %d:%d, want 25:1", d.RateN, d.RateD)
	}
	if d.Format != frame.YUV420P {
		t.Errorf("format %v, want yuv420p", d.Format)
	}
	if d.Interlacing != InterlacingTFF {
		t.Errorf("interlacing %c, want t", d.Interlacing)
	}

	for k := 0; k < 2; k++ {
		f, err := d.Decode()
		if err != nil {
			t.Fatalf("Decode frame %d: %v", k, err)
		}
		if f.PTS != int64(k) {
			t.Errorf("frame %d: pts %d", k, f.PTS)
		}
		if !f.Interlaced || !f.TFF {
			t.Errorf("frame %d: interlacing flags not set", k)
		}
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				want := byte(10 + k*16 + y*4 + x)
				if got := f.Row(0, y)[x]; got != want {
					t.Errorf("frame %d luma (%d,%d): got %d, want %d", k, x, y, got, want)
				}
			}
		}
		for i := 1; i < 3; i++ {
			for y := 0; y < 2; y++ {
				for x := 0; x < 2; x++ {
					if got := f.Row(i, y)[x]; got != 128 {
						t.Errorf("frame %d plane %d (%d,%d): got %d, want 128", k, i, x, y, got)
					}
				}
			}
		}
	}

	_, err = d.Decode()
	if err != io.EOF {
		t.Errorf("got %v, want io.EOF after last frame", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{name: "not y4m", in: "RIFF1234\n", want: ErrNotY4M},
		{name: "bad chroma", in: "YUV4MPEG2 W4 H4 F25:1 Cnot-a-chroma\n", want: ErrUnsupportedChroma},
		{name: "bad width", in: "YUV4MPEG2 Wx H4\n", want: ErrBadHeader},
		{name: "missing dims", in: "YUV4MPEG2 F25:1\n", want: ErrBadHeader},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewDecoder(strings.NewReader(test.in), nil)
			if errors.Cause(err) != test.want {
				t.Errorf("got %v, want %v", err, test.want)
			}
		})
	}
}

func TestDecodeShortFrame(t *testing.T) {
	in := stream420(1, 0)
	d, err := NewDecoder(bytes.NewReader(in[:len(in)-4]), nil)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	_, err = d.Decode()
	if err == nil {
		t.Error("truncated frame decoded without error")
	}
}

func TestRoundTrip(t *testing.T) {
	d, err := NewDecoder(bytes.NewReader(stream420(2, 30)), nil)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	var out bytes.Buffer
	e, err := NewEncoder(&out, d.Format, d.Width, d.Height, d.RateN, d.RateD, nil)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}

	for {
		f, err := d.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		err = e.Encode(f)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	// Re-decode the encoded stream and compare sample data with the
	// original. The stream header will differ in its interlacing field,
	// since encoded output is progressive.
	d2, err := NewDecoder(bytes.NewReader(out.Bytes()), nil)
	if err != nil {
		t.Fatalf("NewDecoder (round trip): %v", err)
	}
	if d2.Interlacing != InterlacingProgressive {
		t.Errorf("re-encoded stream interlacing %c, want p", d2.Interlacing)
	}
	d1, _ := NewDecoder(bytes.NewReader(stream420(2, 30)), nil)
	for {
		f1, err1 := d1.Decode()
		f2, err2 := d2.Decode()
		if err1 == io.EOF {
			if err2 != io.EOF {
				t.Error("round-tripped stream has extra frames")
			}
			break
		}
		if err1 != nil || err2 != nil {
			t.Fatalf("decode: %v, %v", err1, err2)
		}
		for i := 0; i < 3; i++ {
			_, h := f1.PlaneDims(i)
			for y := 0; y < h; y++ {
				if !bytes.Equal(f1.Row(i, y), f2.Row(i, y)) {
					t.Errorf("plane %d row %d differs after round trip", i, y)
				}
			}
		}
	}
}

func TestEncodeMono16(t *testing.T) {
	f, err := frame.Alloc(frame.Gray16, 4, 2)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	for y := 0; y < 2; y++ {
		row := f.Row(0, y)
		for x := 0; x < 4; x++ {
			row[2*x] = byte(x)
			row[2*x+1] = byte(y)
		}
	}

	var out bytes.Buffer
	e, err := NewEncoder(&out, frame.Gray16, 4, 2, 25, 1, nil)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	err = e.Encode(f)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	want := "YUV4MPEG2 W4 H2 F25:1 Ip A1:1 Cmono16\nFRAME\n" +
		string([]byte{0, 0, 1, 0, 2, 0, 3, 0, 0, 1, 1, 1, 2, 1, 3, 1})
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestEncoderUnsupported(t *testing.T) {
	_, err := NewEncoder(io.Discard, frame.FormatUnknown, 4, 4, 25, 1, nil)
	if errors.Cause(err) != ErrUnsupportedChroma {
		t.Errorf("got %v, want ErrUnsupportedChroma", err)
	}
}
