/*
NAME
  deinterlace.go

DESCRIPTION
  deinterlace.go provides a motion-adaptive deinterlace filter. The
  filter keeps a three frame sliding window over its input and
  reconstructs the missing field of each frame by fusing an
  edge-directed spatial prediction with a temporal difference clip,
  emitting one progressive frame per input frame, or one per field when
  field-rate output is selected.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package filter

import (
	"io"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/deinterlace/frame"
)

// Deinterlacer is a filter that converts interlaced frames to
// progressive frames. It holds one frame of latency; the first Write
// produces no output.
type Deinterlacer struct {
	mode   int // Bit 0 selects field-rate output, bit 1 skips the spatial interlacing check.
	parity int // -1 auto, 0 bottom field first, 1 top field first.
	auto   bool

	framePending bool
	flush        bool

	prev *frame.Frame
	cur  *frame.Frame
	next *frame.Frame
	out  *frame.Frame

	filterLine lineFilter

	format frame.Format
	width  int
	height int

	src Source
	dst Sink
	log logging.Logger
}

// NewDeinterlacer returns a pointer to a new Deinterlacer. The kernel is
// selected once here from the negotiated format; formats outside the
// supported set are rejected with frame.ErrUnsupportedFormat. The opts
// string takes the form "mode:parity:autoEnable" with missing fields
// keeping their defaults.
func NewDeinterlacer(src Source, dst Sink, format frame.Format, w, h int, opts string, log logging.Logger) (*Deinterlacer, error) {
	if log == nil {
		log = logging.New(logging.Error, io.Discard, true)
	}
	if !format.Valid() {
		return nil, frame.ErrUnsupportedFormat
	}

	o := ParseOptions(opts)
	d := &Deinterlacer{
		mode:   o.Mode,
		parity: o.Parity,
		auto:   o.AutoEnable != 0,
		format: format,
		width:  w,
		height: h,
		src:    src,
		dst:    dst,
		log:    log,
	}

	d.filterLine = filterLine8
	if format.BytesPerSample() == 2 {
		d.filterLine = filterLine16
	}

	log.Info("deinterlacer configured", "mode", d.mode, "parity", d.parity, "autoEnable", o.AutoEnable, "format", format.String())
	return d, nil
}

// tff resolves the top-field-first bit for the current frame. With
// parity auto, an uninterlaced frame is treated as top field first.
func (d *Deinterlacer) tff() int {
	if d.parity == -1 {
		if d.cur.Interlaced && !d.cur.TFF {
			return 0
		}
		return 1
	}
	return d.parity ^ 1
}

// render produces every line of dst from the current window. Lines of
// the kept field are copied from the current frame; the rest are
// reconstructed by the line kernel. At the top and bottom image edges
// the out-of-image line stride is negated so the kernel reads the line
// reflected, and on the outermost reconstructed lines the spatial
// interlacing check is skipped because its two-line reach would leave
// the image.
func (d *Deinterlacer) render(dst *frame.Frame, parity, tff int) {
	p, c, n := d.prev, d.cur, d.next
	if p == nil {
		p = c
	}
	if n == nil {
		n = c
	}

	desc, _ := c.Format.Desc()
	df := c.Format.BytesPerSample()

	for i := 0; i < desc.Planes; i++ {
		w, h := c.PlaneDims(i)
		refs := c.Stride[i]

		for y := 0; y < h; y++ {
			if (y^parity)&1 != 0 {
				mode := d.mode
				if y == 1 || y+2 == h {
					mode = 2
				}
				prefs := refs
				if y+1 >= h {
					prefs = -refs
				}
				mrefs := -refs
				if y == 0 {
					mrefs = refs
				}
				d.filterLine(dst.Data[i], dst.Off[i]+y*dst.Stride[i],
					p.Data[i], c.Data[i], n.Data[i],
					p.Off[i]+y*refs, c.Off[i]+y*refs, n.Off[i]+y*refs,
					w, prefs, mrefs, parity^tff, mode)
			} else {
				db := dst.Off[i] + y*dst.Stride[i]
				cb := c.Off[i] + y*refs
				copy(dst.Data[i][db:db+w*df], c.Data[i][cb:cb+w*df])
			}
		}
	}
}

// returnFrame completes production of one output. For the second output
// of a field-rate pair a fresh frame is allocated here and its
// timestamp derived from the window: the midpoint of cur and next when
// next is known, otherwise cur advanced by half the prev-to-cur
// interval (prev 100, cur 200 gives 250). Both use the overflow-safe
// bitwise average.
func (d *Deinterlacer) returnFrame(isSecond bool) error {
	tff := d.tff()

	if isSecond {
		out, err := frame.Alloc(d.format, d.width, d.height)
		if err != nil {
			return err
		}
		d.out = out
	}

	parity := tff
	if !isSecond {
		parity = tff ^ 1
	}
	d.render(d.out, parity, tff)

	if isSecond {
		d.out.PTS = frame.NoPTS
		if d.cur.PTS != frame.NoPTS {
			if d.next != nil && d.next.PTS != frame.NoPTS {
				d.out.PTS = (d.next.PTS & d.cur.PTS) + ((d.next.PTS ^ d.cur.PTS) >> 1)
			} else if d.prev != nil && d.prev.PTS != frame.NoPTS {
				d.out.PTS = d.cur.PTS - d.prev.PTS +
					(d.cur.PTS & d.prev.PTS) + ((d.cur.PTS ^ d.prev.PTS) >> 1)
			}
		}
		err := d.dst.StartFrame(d.out)
		if err != nil {
			return err
		}
	}
	err := d.dst.DrawSlice(0, d.height)
	if err != nil {
		return err
	}
	err = d.dst.EndFrame()
	if err != nil {
		return err
	}

	d.framePending = d.mode&1 == 1 && !isSecond
	d.out = nil
	return nil
}

// Write pushes one input frame, advancing the window. A nil frame
// advances the window without new input, which drains the trailing
// frame during flush. The first (or only) output for the new window
// position is delivered to the sink before Write returns; a pending
// second field-rate output for the previous window is delivered first.
// In field-rate mode the second output for the new window stays pending
// until the next RequestFrame or Write.
func (d *Deinterlacer) Write(f *frame.Frame) error {
	if d.framePending {
		err := d.returnFrame(true)
		if err != nil {
			return err
		}
	}

	if d.prev != nil {
		d.prev.Release()
	}
	d.prev = d.cur
	d.cur = d.next
	d.next = f

	if d.cur == nil {
		return nil
	}

	if d.auto && !d.cur.Interlaced {
		d.log.Debug("uninterlaced frame, passing through")
		d.out = d.cur.Ref()
		if d.prev != nil {
			d.prev.Release()
			d.prev = nil
		}
		err := d.dst.StartFrame(d.out)
		if err != nil {
			return err
		}
		err = d.dst.DrawSlice(0, d.height)
		if err != nil {
			return err
		}
		err = d.dst.EndFrame()
		if err != nil {
			return err
		}
		d.out = nil
		return nil
	}

	out, err := frame.Alloc(d.format, d.width, d.height)
	if err != nil {
		return err
	}
	d.out = out
	frame.CopyProps(d.out, d.cur)
	d.out.Interlaced = false

	err = d.dst.StartFrame(d.out)
	if err != nil {
		return err
	}
	return d.returnFrame(false)
}

// RequestFrame produces one output. A pending second field-rate output
// is emitted without consuming input; during flush the window advances
// empty until drained, after which ErrEndOfStream is returned. Source
// errors are surfaced unchanged.
func (d *Deinterlacer) RequestFrame() error {
	if d.framePending {
		return d.returnFrame(true)
	}

	if d.flush {
		if d.next == nil {
			return ErrEndOfStream
		}
		return d.Write(nil)
	}

	f, err := d.src.Request()
	if err != nil {
		return err
	}
	return d.Write(f)
}

// PollFrame reports how many frames a RequestFrame caller may collect.
// The count from the source is doubled in field-rate mode, except while
// the bypass for uninterlaced input is active. Polling with flush set
// arms the drain of the trailing window.
func (d *Deinterlacer) PollFrame(flush bool) int {
	if d.framePending {
		return 1
	}

	val := d.src.Poll(flush)

	if val == 1 && d.next == nil {
		f, err := d.src.Request()
		if err != nil {
			d.log.Error("source request during poll failed", "error", err.Error())
			return 0
		}
		err = d.Write(f)
		if err != nil {
			d.log.Error("write during poll failed", "error", err.Error())
			return 0
		}
		val = d.src.Poll(flush)
		if d.next == nil {
			panic("filter: source polled ready but provided no frame")
		}
	}

	if val == 0 && flush && d.next != nil {
		d.flush = true
		val = 1
	}
	if val != 0 && d.next == nil {
		panic("filter: poll positive with empty window")
	}

	if d.auto && d.next != nil && !d.next.Interlaced {
		return val
	}

	return val * (d.mode&1 + 1)
}

// Close releases the window. Any in-flight output has already been
// surrendered to the sink.
func (d *Deinterlacer) Close() error {
	for _, f := range []*frame.Frame{d.prev, d.cur, d.next} {
		if f != nil {
			f.Release()
		}
	}
	d.prev, d.cur, d.next = nil, nil, nil
	return nil
}
