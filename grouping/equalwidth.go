// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grouping

import (
	"fmt"
	"math"

	"github.com/aclements/go-moremath/stats"
)

// EqualWidth splits a value range into a fixed number of bins of the
// same width.
//
// Bins are closed on the left and open on the right, except for the
// last bin, which is closed on both sides so it captures the maximum.
type EqualWidth struct {
	col         Column
	bins        int
	min, max    float64
	autoRange   bool
	categorical bool
	dateLayout  string
}

// NewEqualWidth returns an EqualWidth grouping of col into bins bins
// spanning [min, max]. If min or max is NaN, that bound is taken from
// the data. It returns an error wrapping ErrIncompatibleKind if col is
// Nominal.
func NewEqualWidth(col Column, bins int, min, max float64) (*EqualWidth, error) {
	if err := checkNumeric(col, "equal-width bins"); err != nil {
		return nil, err
	}
	if bins < 1 {
		return nil, fmt.Errorf("equal-width bins: %w, got %d", ErrInvalidBins, bins)
	}
	return &EqualWidth{col: col, bins: bins, min: min, max: max}, nil
}

func (*EqualWidth) isGrouping() {}

func (g *EqualWidth) Column() Column    { return g.col }
func (g *EqualWidth) Categorical() bool { return g.categorical }
func (g *EqualWidth) Bins() int         { return g.bins }

// Range returns the configured bounds. Either may be NaN.
func (g *EqualWidth) Range() (min, max float64) { return g.min, g.max }

// AutoRange reports whether the bounds are always taken from the
// data, regardless of the configured bounds.
func (g *EqualWidth) AutoRange() bool { return g.autoRange }

// WithBins returns a copy of g with n bins.
func (g *EqualWidth) WithBins(n int) (*EqualWidth, error) {
	if n < 1 {
		return nil, fmt.Errorf("equal-width bins: %w, got %d", ErrInvalidBins, n)
	}
	g2 := *g
	g2.bins = n
	return &g2, nil
}

// WithRange returns a copy of g spanning [min, max].
func (g *EqualWidth) WithRange(min, max float64) *EqualWidth {
	g2 := *g
	g2.min, g2.max = min, max
	return &g2
}

// WithAutoRange returns a copy of g with auto-ranging set to auto.
func (g *EqualWidth) WithAutoRange(auto bool) *EqualWidth {
	g2 := *g
	g2.autoRange = auto
	return &g2
}

// WithCategorical returns a copy of g with the categorical flag set
// to cat. Categorical groupings with configured bounds add an
// underflow and an overflow bin for values outside the bounds.
func (g *EqualWidth) WithCategorical(cat bool) *EqualWidth {
	g2 := *g
	g2.categorical = cat
	return &g2
}

// WithDateLayout returns a copy of g that formats date values with
// layout.
func (g *EqualWidth) WithDateLayout(layout string) *EqualWidth {
	g2 := *g
	g2.dateLayout = layout
	return &g2
}

func (g *EqualWidth) Model(src Source, lower, upper float64) ([]Range, error) {
	ci, err := lookup(src, g.col, "equal-width bins", true)
	if err != nil {
		return nil, err
	}

	min, max := g.min, g.max
	if g.autoRange || math.IsNaN(min) || math.IsNaN(max) {
		var xs []float64
		scan(src, ci, lower, upper, func(x float64) {
			xs = append(xs, x)
		})
		dmin, dmax := lower, upper
		if len(xs) > 0 {
			dmin, dmax = stats.Bounds(xs)
		}
		if g.autoRange || math.IsNaN(min) {
			min = dmin
		}
		if g.autoRange || math.IsNaN(max) {
			max = dmax
		}
		// Never range looser than a finite filter bound.
		if !math.IsInf(lower, 0) && min < lower {
			min = lower
		}
		if !math.IsInf(upper, 0) && max > upper {
			max = upper
		}
	}
	if math.IsInf(min, 0) || math.IsInf(max, 0) || !(min <= max) {
		// No data and no finite filter to range over.
		return nil, nil
	}

	rs := make([]Range, 0, g.bins+2)
	flank := g.categorical && (!g.autoRange || math.IsNaN(g.min))
	if flank {
		rs = append(rs, &Interval{Lower: math.Inf(-1), Upper: min, LowerInclusive: true})
	}
	if min == max {
		rs = append(rs, &Interval{Lower: min, Upper: max, LowerInclusive: true, UpperInclusive: true})
	} else {
		step := (max - min) / float64(g.bins)
		for i := 0; i < g.bins; i++ {
			r := &Interval{
				Lower:          min + float64(i)*step,
				Upper:          min + float64(i+1)*step,
				LowerInclusive: true,
			}
			if i == g.bins-1 {
				r.Upper, r.UpperInclusive = max, true
			}
			rs = append(rs, r)
		}
	}
	if flank {
		rs = append(rs, &Interval{Lower: max, Upper: math.Inf(1), UpperInclusive: true})
	}
	return finish(rs, src.Kind(ci), g.dateLayout), nil
}
