/*
NAME
  frame_test.go

DESCRIPTION
  frame_test.go contains tests for frame allocation geometry and
  reference counting.

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

import (
	"testing"
)

func TestAllocGeometry(t *testing.T) {
	tests := []struct {
		format     Format
		w, h       int
		plane      int
		wantStride int
		wantRows   int
	}{
		{format: Gray8, w: 100, h: 100, plane: 0, wantStride: 128, wantRows: 128},
		{format: Gray16, w: 100, h: 100, plane: 0, wantStride: 256, wantRows: 128},
		{format: YUV420P, w: 100, h: 100, plane: 1, wantStride: 64, wantRows: 64},
		{format: YUV420P, w: 8, h: 8, plane: 0, wantStride: 32, wantRows: 32},
		{format: YUV411P, w: 64, h: 64, plane: 2, wantStride: 32, wantRows: 96},
		{format: YUV420P16, w: 64, h: 64, plane: 1, wantStride: 64, wantRows: 64},
	}

	for _, test := range tests {
		f, err := Alloc(test.format, test.w, test.h)
		if err != nil {
			t.Fatalf("Alloc(%v): %v", test.format, err)
		}
		if f.Stride[test.plane] != test.wantStride {
			t.Errorf("%v %dx%d plane %d: stride %d, want %d", test.format, test.w, test.h, test.plane, f.Stride[test.plane], test.wantStride)
		}
		if got := len(f.Data[test.plane]) / f.Stride[test.plane]; got != test.wantRows {
			t.Errorf("%v %dx%d plane %d: %d rows, want %d", test.format, test.w, test.h, test.plane, got, test.wantRows)
		}
		if f.Off[test.plane] != f.Stride[test.plane] {
			t.Errorf("plane %d: row 0 offset %d, want one row in (%d)", test.plane, f.Off[test.plane], f.Stride[test.plane])
		}
	}
}

// Row -1 and row H must be addressable so the kernels can reflect at
// the image edges through negated strides.
func TestAllocOverhang(t *testing.T) {
	f, err := Alloc(YUV420P, 96, 96)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	d, _ := f.Format.Desc()
	for i := 0; i < d.Planes; i++ {
		_, ph := f.PlaneDims(i)
		lo := f.Off[i] - f.Stride[i]
		hi := f.Off[i] + ph*f.Stride[i] + f.Stride[i]
		if lo < 0 || hi > len(f.Data[i]) {
			t.Errorf("plane %d: padding rows [%d, %d) outside buffer of %d bytes", i, lo, hi, len(f.Data[i]))
		}
	}
}

func TestAllocUnsupported(t *testing.T) {
	_, err := Alloc(FormatUnknown, 8, 8)
	if err != ErrUnsupportedFormat {
		t.Errorf("got %v, want ErrUnsupportedFormat", err)
	}
}

func TestRefCounting(t *testing.T) {
	f, err := Alloc(Gray8, 8, 8)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if f.Refs() != 1 {
		t.Errorf("fresh frame has %d refs, want 1", f.Refs())
	}
	if g := f.Ref(); g != f {
		t.Error("Ref returned a different frame")
	}
	if f.Refs() != 2 {
		t.Errorf("got %d refs, want 2", f.Refs())
	}
	f.Release()
	f.Release()

	defer func() {
		if recover() == nil {
			t.Error("over-release did not panic")
		}
	}()
	f.Release()
}

func TestCopyProps(t *testing.T) {
	src, err := Alloc(Gray8, 8, 8)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	src.PTS = 42
	src.Interlaced = true
	src.TFF = true
	src.Row(0, 0)[0] = 200

	dst, err := Alloc(Gray8, 8, 8)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	CopyProps(dst, src)

	if dst.PTS != 42 || !dst.Interlaced || !dst.TFF {
		t.Errorf("props not copied: pts %d interlaced %v tff %v", dst.PTS, dst.Interlaced, dst.TFF)
	}
	if dst.Row(0, 0)[0] != 0 {
		t.Error("CopyProps copied sample data")
	}
}

func TestPlaneDims(t *testing.T) {
	f, err := Alloc(YUV420P, 100, 60)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	w, h := f.PlaneDims(0)
	if w != 100 || h != 60 {
		t.Errorf("luma dims %dx%d, want 100x60", w, h)
	}
	w, h = f.PlaneDims(1)
	if w != 50 || h != 30 {
		t.Errorf("chroma dims %dx%d, want 50x30", w, h)
	}
}
