// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grouping

import (
	"fmt"
	"math"
	"sort"
)

// EqualFrequency splits a column into bins that hold roughly the same
// number of rows.
//
// Bin boundaries are always data values. The first bin is closed on
// both sides; every later bin is open on the left, since its lower
// bound is the last value of the previous bin, and closed on the
// right.
type EqualFrequency struct {
	col        Column
	bins       int
	dateLayout string
}

// NewEqualFrequency returns an EqualFrequency grouping of col into at
// most bins bins. It returns an error wrapping ErrIncompatibleKind if
// col is Nominal.
func NewEqualFrequency(col Column, bins int) (*EqualFrequency, error) {
	if err := checkNumeric(col, "equal-frequency bins"); err != nil {
		return nil, err
	}
	if bins < 1 {
		return nil, fmt.Errorf("equal-frequency bins: %w, got %d", ErrInvalidBins, bins)
	}
	return &EqualFrequency{col: col, bins: bins}, nil
}

func (*EqualFrequency) isGrouping() {}

func (g *EqualFrequency) Column() Column    { return g.col }
func (g *EqualFrequency) Categorical() bool { return false }
func (g *EqualFrequency) Bins() int         { return g.bins }

// WithBins returns a copy of g with at most n bins.
func (g *EqualFrequency) WithBins(n int) (*EqualFrequency, error) {
	if n < 1 {
		return nil, fmt.Errorf("equal-frequency bins: %w, got %d", ErrInvalidBins, n)
	}
	g2 := *g
	g2.bins = n
	return &g2, nil
}

// WithDateLayout returns a copy of g that formats date values with
// layout.
func (g *EqualFrequency) WithDateLayout(layout string) *EqualFrequency {
	g2 := *g
	g2.dateLayout = layout
	return &g2
}

// Model returns at most g.Bins() intervals over the values in
// [lower, upper]. If there are fewer distinct values than bins, it
// returns one interval per distinct value.
//
// Bins are filled greedily in ascending order. Bin k ends when the
// cumulative row count reaches round(k*total/n), or earlier if taking
// the next distinct value would overshoot that target by more than
// stopping undershoots it. A bin also ends when the remaining distinct
// values are just enough to give each remaining bin one value.
func (g *EqualFrequency) Model(src Source, lower, upper float64) ([]Range, error) {
	ci, err := lookup(src, g.col, "equal-frequency bins", true)
	if err != nil {
		return nil, err
	}

	freq := make(map[float64]int)
	total := 0
	scan(src, ci, lower, upper, func(x float64) {
		if x == 0 {
			x = 0
		}
		freq[x]++
		total++
	})
	if total == 0 {
		return nil, nil
	}
	values := make([]float64, 0, len(freq))
	for x := range freq {
		values = append(values, x)
	}
	sort.Float64s(values)

	n := g.bins
	if n > len(values) {
		n = len(values)
	}
	avg := float64(total) / float64(n)

	rs := make([]Range, 0, n)
	lo := values[0]
	next, cum := 0, 0
	for k := 1; k <= n; k++ {
		// Every bin takes at least one value.
		hi := values[next]
		cum += freq[hi]
		next++

		if k == n {
			for ; next < len(values); next++ {
				hi = values[next]
				cum += freq[hi]
			}
		} else {
			target := int(math.Round(float64(k) * avg))
			for next < len(values) {
				if len(values)-next <= n-k {
					// Reserve one value for each
					// remaining bin.
					break
				}
				if cum >= target {
					break
				}
				f := freq[values[next]]
				if over, under := cum+f-target, target-cum; over > under {
					break
				}
				hi = values[next]
				cum += f
				next++
			}
		}

		rs = append(rs, &Interval{
			Lower:          lo,
			Upper:          hi,
			LowerInclusive: k == 1,
			UpperInclusive: true,
		})
		lo = hi
	}
	return finish(rs, src.Kind(ci), g.dateLayout), nil
}
