// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grouping

import (
	"math"
	"reflect"
	"time"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
)

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
)

// TableSource is a Source backed by a go-gg table.
//
// Columns are converted when the TableSource is created: numeric and
// time.Duration columns become Numerical (durations in nanoseconds),
// time.Time columns become DateTime, and string columns become
// Nominal with values indexing the sorted category dictionary
// returned by Categories. Columns of other types are Invalid and read
// as NaN.
type TableSource struct {
	names      []string
	index      map[string]int
	kinds      []Kind
	cols       [][]float64
	categories [][]string
	rows       int
}

// NewTableSource converts t into a Source.
func NewTableSource(t *table.Table) *TableSource {
	s := &TableSource{
		index: make(map[string]int),
		rows:  t.Len(),
	}
	for _, name := range t.Columns() {
		kind, col, cats := convertColumn(t.Column(name), s.rows)
		s.index[name] = len(s.names)
		s.names = append(s.names, name)
		s.kinds = append(s.kinds, kind)
		s.cols = append(s.cols, col)
		s.categories = append(s.categories, cats)
	}
	return s
}

func convertColumn(seq slice.T, n int) (Kind, []float64, []string) {
	et := reflect.TypeOf(seq).Elem()
	switch {
	case et == timeType:
		rv := reflect.ValueOf(seq)
		col := make([]float64, n)
		for i := range col {
			t := rv.Index(i).Interface().(time.Time)
			if t.IsZero() {
				col[i] = math.NaN()
			} else {
				col[i] = float64(t.UnixMilli())
			}
		}
		return DateTime, col, nil

	case et.Kind() == reflect.String:
		var strs []string
		slice.Convert(&strs, seq)
		cats := slice.Nub(append([]string(nil), strs...)).([]string)
		slice.Sort(cats)
		codes := make(map[string]int, len(cats))
		for i, c := range cats {
			codes[c] = i
		}
		col := make([]float64, n)
		for i, s := range strs {
			col[i] = float64(codes[s])
		}
		return Nominal, col, cats

	case et == durationType, isNumeric(et.Kind()):
		var col []float64
		slice.Convert(&col, seq)
		return Numerical, col, nil
	}

	col := make([]float64, n)
	for i := range col {
		col[i] = math.NaN()
	}
	return Invalid, col, nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func (s *TableSource) ColumnIndex(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

func (s *TableSource) Value(col, row int) float64 { return s.cols[col][row] }
func (s *TableSource) Rows() int                  { return s.rows }
func (s *TableSource) Kind(col int) Kind          { return s.kinds[col] }

// Column returns the Column descriptor for the named column.
func (s *TableSource) Column(name string) (Column, bool) {
	i, ok := s.index[name]
	if !ok {
		return Column{}, false
	}
	return Column{Name: name, Kind: s.kinds[i]}, true
}

// Columns returns the descriptors of all columns in table order.
func (s *TableSource) Columns() []Column {
	cols := make([]Column, len(s.names))
	for i, name := range s.names {
		cols[i] = Column{Name: name, Kind: s.kinds[i]}
	}
	return cols
}

// Categories returns the category dictionary of a Nominal column, or
// nil for other columns.
func (s *TableSource) Categories(col int) []string {
	return s.categories[col]
}

// Category returns the category named by value x of Nominal column
// col, or "" if x is not a category index.
func (s *TableSource) Category(col int, x float64) string {
	cats := s.categories[col]
	if x < 0 || x != math.Trunc(x) || int(x) >= len(cats) {
		return ""
	}
	return cats[int(x)]
}
