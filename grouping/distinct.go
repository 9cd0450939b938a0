// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grouping

import "sort"

// Distinct groups a column by its distinct values. It accepts columns
// of every kind; for Nominal columns each category becomes one
// range.
type Distinct struct {
	col        Column
	dateLayout string
}

func NewDistinct(col Column) *Distinct {
	return &Distinct{col: col}
}

// WithDateLayout returns a copy of g that formats date values with
// layout.
func (g *Distinct) WithDateLayout(layout string) *Distinct {
	g2 := *g
	g2.dateLayout = layout
	return &g2
}

func (*Distinct) isGrouping() {}

func (g *Distinct) Column() Column { return g.col }

// Categorical always returns true.
func (g *Distinct) Categorical() bool { return true }

// Model returns one *SinglePoint per distinct value in [lower, upper],
// in ascending order.
func (g *Distinct) Model(src Source, lower, upper float64) ([]Range, error) {
	ci, err := lookup(src, g.col, "distinct", false)
	if err != nil {
		return nil, err
	}

	seen := make(map[float64]bool)
	var values []float64
	scan(src, ci, lower, upper, func(x float64) {
		if x == 0 {
			// Fold -0 into 0.
			x = 0
		}
		if !seen[x] {
			seen[x] = true
			values = append(values, x)
		}
	})
	sort.Float64s(values)

	rs := make([]Range, len(values))
	for i, x := range values {
		rs[i] = &SinglePoint{Value: x}
	}
	return finish(rs, src.Kind(ci), g.dateLayout), nil
}
