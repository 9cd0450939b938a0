// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grouping

import "fmt"

// Kind is the value kind of a column.
type Kind int

const (
	Invalid Kind = iota
	Nominal
	Numerical
	DateTime
)

func (k Kind) String() string {
	switch k {
	case Nominal:
		return "nominal"
	case Numerical:
		return "numerical"
	case DateTime:
		return "date-time"
	}
	return fmt.Sprintf("invalid(%d)", int(k))
}

func (k Kind) IsNominal() bool   { return k == Nominal }
func (k Kind) IsNumerical() bool { return k == Numerical }
func (k Kind) IsDateTime() bool  { return k == DateTime }

// Column identifies a column of a Source. Two Columns are equal if
// both their names and kinds are equal. The empty name denotes an
// unnamed column.
type Column struct {
	Name string
	Kind Kind
}

func (c Column) String() string {
	return fmt.Sprintf("%q (%v)", c.Name, c.Kind)
}

// Source is a tabular data source. Groupings read a Source but never
// modify or retain it.
//
// Values of Nominal columns are indexes into the column's category
// dictionary. Values of DateTime columns are milliseconds since the
// Unix epoch. NaN denotes a missing value.
type Source interface {
	// ColumnIndex returns the index of the named column, or -1 if
	// there is no such column.
	ColumnIndex(name string) int

	// Value returns the value of column col in row row.
	Value(col, row int) float64

	// Rows returns the number of rows. Rows are numbered from 0.
	Rows() int

	// Kind returns the value kind of column col.
	Kind(col int) Kind
}
