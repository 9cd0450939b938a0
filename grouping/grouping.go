// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grouping partitions the values of a column into bins.
//
// A Grouping turns a Source and a value filter into an ascending
// sequence of Ranges. There are three strategies: Distinct emits one
// range per distinct value, EqualWidth splits the value range into
// bins of the same width, and EqualFrequency splits it into bins that
// hold roughly the same number of rows. All strategies label their
// bins with the fewest decimal digits that keep neighboring bins
// distinguishable (see AdaptPrecision).
//
// A Window blends each range with its neighbors for cumulative or
// moving-window displays.
//
// Groupings, Windows and Ranges are immutable values.
package grouping

import (
	"fmt"
	"math"
)

// A Grouping partitions the values of one column. It is one of
// *Distinct, *EqualWidth, or *EqualFrequency.
type Grouping interface {
	// Model returns the ranges for the rows of src whose value
	// lies in [lower, upper]. Either bound may be infinite.
	Model(src Source, lower, upper float64) ([]Range, error)

	// Column returns the column this grouping partitions.
	Column() Column

	// Categorical reports whether the grouping's ranges are
	// displayed as discrete categories rather than on a continuous
	// axis.
	Categorical() bool

	isGrouping()
}

// Equal reports whether a and b are the same strategy with the same
// configuration. NaN bounds are equal to each other.
func Equal(a, b Grouping) bool {
	switch a := a.(type) {
	case *Distinct:
		b, ok := b.(*Distinct)
		return ok && *a == *b
	case *EqualWidth:
		b, ok := b.(*EqualWidth)
		return ok && a.col == b.col && a.bins == b.bins &&
			sameFloat(a.min, b.min) && sameFloat(a.max, b.max) &&
			a.autoRange == b.autoRange && a.categorical == b.categorical &&
			a.dateLayout == b.dateLayout
	case *EqualFrequency:
		b, ok := b.(*EqualFrequency)
		return ok && *a == *b
	}
	return false
}

func sameFloat(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

// lookup returns the index of col in src. If numeric is set, it
// rejects columns that src reports as Nominal.
func lookup(src Source, col Column, strategy string, numeric bool) (int, error) {
	ci := src.ColumnIndex(col.Name)
	if ci < 0 {
		return -1, fmt.Errorf("%s: %w %q", strategy, ErrUnknownColumn, col.Name)
	}
	if numeric && src.Kind(ci).IsNominal() {
		return -1, fmt.Errorf("%s: column %q is nominal: %w", strategy, col.Name, ErrIncompatibleKind)
	}
	return ci, nil
}

func checkNumeric(col Column, strategy string) error {
	if col.Kind.IsNominal() {
		return fmt.Errorf("%s: column %q is nominal: %w", strategy, col.Name, ErrIncompatibleKind)
	}
	return nil
}

// scan calls fn for every non-missing value of column ci in
// [lower, upper].
func scan(src Source, ci int, lower, upper float64, fn func(x float64)) {
	for row, n := 0, src.Rows(); row < n; row++ {
		x := src.Value(ci, row)
		if math.IsNaN(x) || x < lower || x > upper {
			continue
		}
		fn(x)
	}
}

// finish runs the precision pass over rs, which hold values of the
// given kind.
func finish(rs []Range, kind Kind, layout string) []Range {
	switch {
	case kind.IsNominal():
	case kind.IsDateTime():
		AdaptPrecision(rs, &DateFormat{Layout: layout})
	default:
		AdaptPrecision(rs, nil)
	}
	return rs
}
