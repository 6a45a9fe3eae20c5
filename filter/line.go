/*
NAME
  line.go

DESCRIPTION
  line.go provides the scalar line kernels used by the deinterlacer to
  reconstruct one missing line from its spatial neighbours in the
  current frame and its temporal neighbours in the adjacent frames.

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

// lineFilter computes w output samples of one missing line. dst, prev,
// cur and next are full plane buffers; di, pi, ci and ni are the byte
// offsets of the line within each. prefs and mrefs are signed byte
// offsets to the lines below and above within the current frame; the
// caller negates them at the image edges so the out-of-image line is
// read reflected. parity selects which of prev/next carries the
// temporally aligned field, and a mode of 2 or above skips the spatial
// interlacing check.
type lineFilter func(dst []byte, di int, prev, cur, next []byte, pi, ci, ni, w, prefs, mrefs, parity, mode int)

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// filterLine8 is the 8-bit reference kernel.
func filterLine8(dst []byte, di int, prev, cur, next []byte, pi, ci, ni, w, prefs, mrefs, parity, mode int) {
	p2, p2i := cur, ci
	n2, n2i := next, ni
	if parity != 0 {
		p2, p2i = prev, pi
		n2, n2i = cur, ci
	}

	for x := 0; x < w; x++ {
		c := int(cur[ci+mrefs])
		d := (int(p2[p2i]) + int(n2[n2i])) >> 1
		e := int(cur[ci+prefs])
		temporalDiff0 := abs(int(p2[p2i]) - int(n2[n2i]))
		temporalDiff1 := (abs(int(prev[pi+mrefs])-c) + abs(int(prev[pi+prefs])-e)) >> 1
		temporalDiff2 := (abs(int(next[ni+mrefs])-c) + abs(int(next[ni+prefs])-e)) >> 1
		diff := max(temporalDiff0>>1, temporalDiff1, temporalDiff2)
		spatialPred := (c + e) >> 1
		spatialScore := abs(int(cur[ci+mrefs-1])-int(cur[ci+prefs-1])) + abs(c-e) +
			abs(int(cur[ci+mrefs+1])-int(cur[ci+prefs+1])) - 1

		// Edge-directed search. The j=-2 and j=+2 probes only run when
		// j=-1 and j=+1 respectively improved the score.
		score := func(j int) int {
			return abs(int(cur[ci+mrefs-1+j])-int(cur[ci+prefs-1-j])) +
				abs(int(cur[ci+mrefs+j])-int(cur[ci+prefs-j])) +
				abs(int(cur[ci+mrefs+1+j])-int(cur[ci+prefs+1-j]))
		}
		pred := func(j int) int { return (int(cur[ci+mrefs+j]) + int(cur[ci+prefs-j])) >> 1 }

		if s := score(-1); s < spatialScore {
			spatialScore = s
			spatialPred = pred(-1)
			if s := score(-2); s < spatialScore {
				spatialScore = s
				spatialPred = pred(-2)
			}
		}
		if s := score(1); s < spatialScore {
			spatialScore = s
			spatialPred = pred(1)
			if s := score(2); s < spatialScore {
				spatialScore = s
				spatialPred = pred(2)
			}
		}

		if mode < 2 {
			b := (int(p2[p2i+2*mrefs]) + int(n2[n2i+2*mrefs])) >> 1
			f := (int(p2[p2i+2*prefs]) + int(n2[n2i+2*prefs])) >> 1
			hi := max(d-e, d-c, min(b-c, f-e))
			lo := min(d-e, d-c, max(b-c, f-e))
			diff = max(diff, lo, -hi)
		}

		if spatialPred > d+diff {
			spatialPred = d + diff
		} else if spatialPred < d-diff {
			spatialPred = d - diff
		}

		dst[di] = uint8(spatialPred)

		di++
		ci++
		pi++
		ni++
		p2i++
		n2i++
	}
}

// filterLine16 is the 16-bit reference kernel. Samples are native
// little endian. Offsets stay in bytes, so a one-sample step is two and
// the line strides are used as passed.
func filterLine16(dst []byte, di int, prev, cur, next []byte, pi, ci, ni, w, prefs, mrefs, parity, mode int) {
	r := func(p []byte, i int) int { return int(p[i]) | int(p[i+1])<<8 }

	p2, p2i := cur, ci
	n2, n2i := next, ni
	if parity != 0 {
		p2, p2i = prev, pi
		n2, n2i = cur, ci
	}

	for x := 0; x < w; x++ {
		c := r(cur, ci+mrefs)
		d := (r(p2, p2i) + r(n2, n2i)) >> 1
		e := r(cur, ci+prefs)
		temporalDiff0 := abs(r(p2, p2i) - r(n2, n2i))
		temporalDiff1 := (abs(r(prev, pi+mrefs)-c) + abs(r(prev, pi+prefs)-e)) >> 1
		temporalDiff2 := (abs(r(next, ni+mrefs)-c) + abs(r(next, ni+prefs)-e)) >> 1
		diff := max(temporalDiff0>>1, temporalDiff1, temporalDiff2)
		spatialPred := (c + e) >> 1
		spatialScore := abs(r(cur, ci+mrefs-2)-r(cur, ci+prefs-2)) + abs(c-e) +
			abs(r(cur, ci+mrefs+2)-r(cur, ci+prefs+2)) - 1

		score := func(j int) int {
			return abs(r(cur, ci+mrefs-2+2*j)-r(cur, ci+prefs-2-2*j)) +
				abs(r(cur, ci+mrefs+2*j)-r(cur, ci+prefs-2*j)) +
				abs(r(cur, ci+mrefs+2+2*j)-r(cur, ci+prefs+2-2*j))
		}
		pred := func(j int) int { return (r(cur, ci+mrefs+2*j) + r(cur, ci+prefs-2*j)) >> 1 }

		if s := score(-1); s < spatialScore {
			spatialScore = s
			spatialPred = pred(-1)
			if s := score(-2); s < spatialScore {
				spatialScore = s
				spatialPred = pred(-2)
			}
		}
		if s := score(1); s < spatialScore {
			spatialScore = s
			spatialPred = pred(1)
			if s := score(2); s < spatialScore {
				spatialScore = s
				spatialPred = pred(2)
			}
		}

		if mode < 2 {
			b := (r(p2, p2i+2*mrefs) + r(n2, n2i+2*mrefs)) >> 1
			f := (r(p2, p2i+2*prefs) + r(n2, n2i+2*prefs)) >> 1
			hi := max(d-e, d-c, min(b-c, f-e))
			lo := min(d-e, d-c, max(b-c, f-e))
			diff = max(diff, lo, -hi)
		}

		if spatialPred > d+diff {
			spatialPred = d + diff
		} else if spatialPred < d-diff {
			spatialPred = d - diff
		}

		dst[di] = uint8(spatialPred)
		dst[di+1] = uint8(spatialPred >> 8)

		di += 2
		ci += 2
		pi += 2
		ni += 2
		p2i += 2
		n2i += 2
	}
}
