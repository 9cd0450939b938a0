// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grouping

import (
	"bytes"
	"math"
	"strconv"
	"strings"
)

// InfinitePrecision is returned by OptimalPrecision when no number of
// digits can tell two values apart.
const InfinitePrecision = math.MaxInt32

// maxDigits bounds the precision search. Formatting any two distinct
// float64 values with this many decimal digits yields different text.
const maxDigits = 1080

// maxFallbackDigits caps the precision assigned to a range whose
// bounds give no precision on their own.
const maxFallbackDigits = 6

// OptimalPrecision returns the smallest number of decimal digits d
// such that a and b formatted with d digits are different strings, and
// stay different when formatted with any number of digits beyond d.
// If a == b it returns InfinitePrecision.
//
// The second condition matters for values near a rounding midpoint:
// 0.5 and 0.54 format differently with 0 digits ("0" and "1") but
// identically with 1 digit, so their precision is 2.
func OptimalPrecision(a, b float64) int {
	if a == b || (math.IsNaN(a) && math.IsNaN(b)) {
		return InfinitePrecision
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) || math.IsNaN(a) || math.IsNaN(b) {
		return 0
	}
	var abuf, bbuf [64]byte
	differ := func(d int) bool {
		as := strconv.AppendFloat(abuf[:0], a, 'f', d, 64)
		bs := strconv.AppendFloat(bbuf[:0], b, 'f', d, 64)
		return !bytes.Equal(as, bs)
	}

	// Rounding moves each value by at most half a unit in the last
	// digit, so once a unit is smaller than |a-b| the texts differ.
	d := 0
	if diff := math.Abs(a - b); diff < 1 {
		d = int(math.Ceil(-math.Log10(diff))) + 1
	}
	if d > maxDigits {
		d = maxDigits
	}
	for d < maxDigits && !differ(d) {
		d++
	}
	for d > 0 && differ(d-1) {
		d--
	}
	return d
}

// fallbackPrecision returns the number of decimal digits in the
// shortest representation of x, capped at maxFallbackDigits.
func fallbackPrecision(x float64) int {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return 0
	}
	s := strconv.FormatFloat(x, 'f', -1, 64)
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return 0
	}
	if d := len(s) - dot - 1; d < maxFallbackDigits {
		return d
	}
	return maxFallbackDigits
}

// tighter combines two precision requirements. An infinite
// requirement places no constraint, so the result is infinite only
// if both are.
func tighter(p, q int) int {
	switch {
	case p == InfinitePrecision:
		return q
	case q == InfinitePrecision:
		return p
	case p > q:
		return p
	}
	return q
}

// AdaptPrecision assigns display precisions to rs, which must be the
// ascending *Interval or *SinglePoint ranges built by a single
// grouping call. It modifies rs in place.
//
// Each boundary gets the fewest digits that keep a range's own bounds
// apart and keep the boundary apart from the adjoining boundary of
// its neighbor. Boundaries that are shared with a neighbor impose no
// constraint. When both requirements apply, the tighter one wins,
// meaning the one with more digits.
//
// If df is non-nil the values are dates and every range is stamped
// with df instead.
func AdaptPrecision(rs []Range, df *DateFormat) {
	if df != nil {
		for _, r := range rs {
			switch r := r.(type) {
			case *Interval:
				r.DateFormat = df
			case *SinglePoint:
				r.DateFormat = df
			}
		}
		return
	}

	for i, r := range rs {
		lo, hi := r.Bounds()
		own := OptimalPrecision(lo, hi)
		plo, phi := own, own
		if i > 0 {
			_, prev := rs[i-1].Bounds()
			plo = tighter(own, OptimalPrecision(prev, lo))
		}
		if i+1 < len(rs) {
			next, _ := rs[i+1].Bounds()
			phi = tighter(own, OptimalPrecision(hi, next))
		}
		if phi == InfinitePrecision {
			phi = plo
		}

		switch r := r.(type) {
		case *Interval:
			if plo == InfinitePrecision {
				plo = fallbackPrecision(lo)
			}
			if phi == InfinitePrecision {
				phi = fallbackPrecision(hi)
			}
			r.PrecisionLower, r.PrecisionUpper = plo, phi
		case *SinglePoint:
			p := tighter(plo, phi)
			if p == InfinitePrecision {
				p = fallbackPrecision(r.Value)
			}
			r.Precision = p
		}
	}
}
