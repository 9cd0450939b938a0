// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grouping

import "fmt"

// A Window blends each range with GrabLeft ranges to its left and
// GrabRight ranges to its right. A grab count of -1 takes every range
// in that direction, so {GrabLeft: -1, GrabRight: 0} produces
// cumulative bins. The zero Window is the identity.
type Window struct {
	GrabLeft, GrabRight int

	// IncludeIncomplete causes ranges near the ends that lack a
	// full window to be aggregated over what is available. If it is
	// false, those positions are nil.
	IncludeIncomplete bool
}

// NewWindow returns a Window after checking that left and right are
// -1 or non-negative.
func NewWindow(left, right int, includeIncomplete bool) (Window, error) {
	if left < -1 || right < -1 {
		return Window{}, fmt.Errorf("%w: grab left %d, grab right %d", ErrInvalidWindow, left, right)
	}
	return Window{left, right, includeIncomplete}, nil
}

// IsIdentity reports whether w leaves ranges unchanged.
func (w Window) IsIdentity() bool {
	return w.GrabLeft == 0 && w.GrabRight == 0
}

// Apply returns the windowed version of rs. The result has the same
// length as rs, and its i'th element is the window centered on rs[i]:
// an *Aggregate of the ranges in the window, rs[i] itself if the
// window holds nothing else, or nil if the window is incomplete and
// w.IncludeIncomplete is false.
func (w Window) Apply(rs []Range) []Range {
	out := make([]Range, 0, len(rs))
	var left, right []Range
	var cur Range

	// advance shifts the window one range to the right.
	advance := func() {
		if cur != nil {
			left = append(left, cur)
			if w.GrabLeft >= 0 && len(left) > w.GrabLeft {
				left = left[1:]
			}
		}
		cur, right = right[0], right[1:]
	}
	emit := func() {
		if w.IncludeIncomplete || w.GrabLeft == -1 || len(left) >= w.GrabLeft {
			out = append(out, aggregate(left, cur, right))
		} else {
			out = append(out, nil)
		}
	}

	for _, r := range rs {
		right = append(right, r)
		if w.GrabRight >= 0 && len(right) > w.GrabRight {
			advance()
			emit()
		}
	}
	if w.IncludeIncomplete || w.GrabRight == -1 {
		for len(right) > 0 {
			advance()
			emit()
		}
	}
	for len(out) < len(rs) {
		out = append(out, nil)
	}
	return out
}

func aggregate(left []Range, cur Range, right []Range) Range {
	if len(left) == 0 && len(right) == 0 {
		return cur
	}
	sub := make([]Range, 0, len(left)+1+len(right))
	sub = append(sub, left...)
	sub = append(sub, cur)
	sub = append(sub, right...)
	return &Aggregate{Ranges: sub}
}
