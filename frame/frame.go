/*
NAME
  frame.go

DESCRIPTION
  frame.go provides the reference counted planar Frame type and the
  aligned allocation required by the deinterlace filter's line kernels.

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

package frame

// MaxPlanes is the plane capacity of a Frame; planar YUV uses three,
// grayscale uses one.
const MaxPlanes = 3

// Buffer rows are aligned up to this many samples, and each plane
// carries one padding row above and below the image so that the line
// kernels may reference rows -1 and H through negated strides.
const sampleAlign = 32

// NoPTS marks a frame whose presentation timestamp is unknown.
const NoPTS int64 = -1 << 63

// Frame is a planar video frame. Data holds each plane's full padded
// buffer and Off the byte offset of the plane's row 0 within it, so
// that row y of plane i begins at Data[i][Off[i]+y*Stride[i]].
type Frame struct {
	Width  int
	Height int
	Format Format

	PTS        int64
	Interlaced bool
	TFF        bool // Top field first.

	Stride [MaxPlanes]int // Bytes per row.
	Data   [MaxPlanes][]byte
	Off    [MaxPlanes]int

	refs int
}

// align rounds n up to the next multiple of a.
func align(n, a int) int { return (n + a - 1) / a * a }

// PlaneDims returns the sample dimensions of plane i, accounting for
// chroma subsampling on the non-luma planes.
func (f *Frame) PlaneDims(i int) (w, h int) {
	d, _ := f.Format.Desc()
	w, h = f.Width, f.Height
	if i > 0 {
		w >>= d.HShift
		h >>= d.VShift
	}
	return
}

// Alloc returns a new Frame of the given format and dimensions with a
// single reference held by the caller. Plane rows are aligned to 32
// samples and each plane is allocated taller than the image so the
// kernels' out-of-image row references stay inside the buffer.
func Alloc(format Format, w, h int) (*Frame, error) {
	d, ok := format.Desc()
	if !ok {
		return nil, ErrUnsupportedFormat
	}
	df := (d.Bits + 7) / 8

	f := &Frame{Width: w, Height: h, Format: format, PTS: NoPTS, refs: 1}
	for i := 0; i < d.Planes; i++ {
		pw, ph := f.PlaneDims(i)
		stride := align(pw, sampleAlign) * df
		rows := align(ph+2, sampleAlign)
		f.Stride[i] = stride
		f.Data[i] = make([]byte, stride*rows)
		f.Off[i] = stride
	}
	return f, nil
}

// Ref takes an additional reference to f and returns f.
func (f *Frame) Ref() *Frame {
	f.refs++
	return f
}

// Release drops one reference. Releasing a frame that holds no
// references is a caller bug.
func (f *Frame) Release() {
	if f == nil {
		return
	}
	if f.refs <= 0 {
		panic("frame: release of unreferenced frame")
	}
	f.refs--
}

// Refs returns the current reference count.
func (f *Frame) Refs() int { return f.refs }

// Row returns the image row y of plane i.
func (f *Frame) Row(i, y int) []byte {
	pw, _ := f.PlaneDims(i)
	df := f.Format.BytesPerSample()
	base := f.Off[i] + y*f.Stride[i]
	return f.Data[i][base : base+pw*df]
}

// CopyProps copies frame metadata, but not sample data, from src to dst.
func CopyProps(dst, src *Frame) {
	dst.PTS = src.PTS
	dst.Interlaced = src.Interlaced
	dst.TFF = src.TFF
}
