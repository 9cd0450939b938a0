// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grouping

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// A Range is one group of values, displayed as one bin. It is one of
// *Interval, *SinglePoint, or *Aggregate.
//
// Ranges returned by this package are not modified after they are
// returned and may be shared freely.
type Range interface {
	// Bounds returns the smallest and largest value the range
	// spans.
	Bounds() (lo, hi float64)

	// Contains reports whether x belongs to the range.
	Contains(x float64) bool

	// Label formats the range for display using its assigned
	// precision or date format.
	Label() string

	isRange()
}

// An Interval is a range of values between Lower and Upper.
type Interval struct {
	Lower, Upper                   float64
	LowerInclusive, UpperInclusive bool

	// PrecisionLower and PrecisionUpper are the number of decimal
	// digits used to display Lower and Upper.
	PrecisionLower, PrecisionUpper int

	// DateFormat, if non-nil, formats the bounds as dates instead.
	DateFormat *DateFormat
}

func (*Interval) isRange() {}

func (r *Interval) Bounds() (lo, hi float64) {
	return r.Lower, r.Upper
}

func (r *Interval) Contains(x float64) bool {
	if x < r.Lower || x > r.Upper {
		return false
	}
	if x == r.Lower && !r.LowerInclusive {
		return false
	}
	if x == r.Upper && !r.UpperInclusive {
		return false
	}
	return true
}

func (r *Interval) Label() string {
	lb, rb := "(", ")"
	if r.LowerInclusive {
		lb = "["
	}
	if r.UpperInclusive {
		rb = "]"
	}
	return lb + formatValue(r.Lower, r.PrecisionLower, r.DateFormat) + ", " +
		formatValue(r.Upper, r.PrecisionUpper, r.DateFormat) + rb
}

func (r *Interval) String() string {
	return r.Label()
}

// A SinglePoint is a range consisting of exactly one value.
type SinglePoint struct {
	Value      float64
	Precision  int
	DateFormat *DateFormat
}

func (*SinglePoint) isRange() {}

func (r *SinglePoint) Bounds() (lo, hi float64) {
	return r.Value, r.Value
}

func (r *SinglePoint) Contains(x float64) bool {
	return x == r.Value
}

func (r *SinglePoint) Label() string {
	return formatValue(r.Value, r.Precision, r.DateFormat)
}

func (r *SinglePoint) String() string {
	return r.Label()
}

// An Aggregate is the union of several ranges treated as one group.
type Aggregate struct {
	Ranges []Range
}

func (*Aggregate) isRange() {}

func (r *Aggregate) Bounds() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, sub := range r.Ranges {
		if sub == nil {
			continue
		}
		slo, shi := sub.Bounds()
		lo = math.Min(lo, slo)
		hi = math.Max(hi, shi)
	}
	return lo, hi
}

func (r *Aggregate) Contains(x float64) bool {
	for _, sub := range r.Ranges {
		if sub != nil && sub.Contains(x) {
			return true
		}
	}
	return false
}

func (r *Aggregate) Label() string {
	labels := make([]string, 0, len(r.Ranges))
	for _, sub := range r.Ranges {
		if sub != nil {
			labels = append(labels, sub.Label())
		}
	}
	return strings.Join(labels, " ∪ ")
}

func (r *Aggregate) String() string {
	return r.Label()
}

// DefaultDateLayout is the layout used for date columns when a
// grouping does not specify one.
const DefaultDateLayout = "2006-01-02 15:04:05"

// DateFormat formats millisecond Unix timestamps.
type DateFormat struct {
	Layout string
}

// Format formats ms, a number of milliseconds since the Unix epoch,
// in UTC.
func (f *DateFormat) Format(ms float64) string {
	if math.IsInf(ms, 0) || math.IsNaN(ms) {
		return strconv.FormatFloat(ms, 'f', -1, 64)
	}
	layout := f.Layout
	if layout == "" {
		layout = DefaultDateLayout
	}
	return time.UnixMilli(int64(ms)).UTC().Format(layout)
}

func formatValue(x float64, prec int, df *DateFormat) string {
	if df != nil {
		return df.Format(x)
	}
	if prec == InfinitePrecision || prec < 0 {
		prec = -1
	}
	return strconv.FormatFloat(x, 'f', prec, 64)
}

// Counts returns the number of rows of src whose value in column col
// falls in each of rs. Nil ranges count 0.
func Counts(src Source, col Column, rs []Range) ([]int, error) {
	return CountsWithin(src, col, rs, math.Inf(-1), math.Inf(1))
}

// CountsWithin is like Counts, but ignores rows whose value lies
// outside [lower, upper], as Model does.
func CountsWithin(src Source, col Column, rs []Range, lower, upper float64) ([]int, error) {
	ci := src.ColumnIndex(col.Name)
	if ci < 0 {
		return nil, fmt.Errorf("%w %q", ErrUnknownColumn, col.Name)
	}
	counts := make([]int, len(rs))
	for row, n := 0, src.Rows(); row < n; row++ {
		x := src.Value(ci, row)
		if math.IsNaN(x) || x < lower || x > upper {
			continue
		}
		for i, r := range rs {
			if r != nil && r.Contains(x) {
				counts[i]++
			}
		}
	}
	return counts, nil
}
