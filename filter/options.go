/*
NAME
  options.go

DESCRIPTION
  options.go provides parsing of the deinterlacer's option string.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package filter

import (
	"fmt"
)

// Deinterlacer modes.
const (
	// ModeFrame emits one frame per input frame.
	ModeFrame = 0
	// ModeField emits one frame per input field.
	ModeField = 1
	// ModeFrameNoSpatial is ModeFrame without the spatial interlacing check.
	ModeFrameNoSpatial = 2
	// ModeFieldNoSpatial is ModeField without the spatial interlacing check.
	ModeFieldNoSpatial = 3
)

// Field parities.
const (
	ParityAuto   = -1
	ParityBottom = 0
	ParityTop    = 1
)

// Options holds the deinterlacer configuration.
type Options struct {
	Mode       int
	Parity     int
	AutoEnable int
}

// ParseOptions parses an option string of colon-separated decimal
// integers, "mode:parity:autoEnable". Fields may be omitted from the
// right; omitted fields keep their defaults of mode 0, parity auto,
// auto-enable off. Values are not range checked.
func ParseOptions(s string) Options {
	o := Options{Mode: ModeFrame, Parity: ParityAuto, AutoEnable: 0}
	if s != "" {
		fmt.Sscanf(s, "%d:%d:%d", &o.Mode, &o.Parity, &o.AutoEnable)
	}
	return o
}
