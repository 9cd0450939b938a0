// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"

	"github.com/aclements/binconf/dimconfig"
	"github.com/aclements/binconf/grouping"
)

// A report summarizes one dimension, one row per range.
type report struct {
	title      string
	meanCol    string
	labels     []string
	counts     []int
	means      []string
	cumulative []int
}

// summarize groups src by d and computes, for each range, the number
// of rows in it, the mean of column meanCol over those rows, and the
// number of rows up to the end of it. If meanCol is "", the grouped
// column is averaged.
func summarize(d *dimconfig.Dimension, src *grouping.TableSource, meanCol string) (*report, error) {
	col := d.Column()
	if meanCol == "" {
		meanCol = col.Name
	}
	ci, mi := src.ColumnIndex(col.Name), src.ColumnIndex(meanCol)
	if mi < 0 {
		return nil, fmt.Errorf("%w %q", grouping.ErrUnknownColumn, meanCol)
	}

	// Rows outside the bounds are not grouped, so they are not
	// counted or averaged either.
	lo, hi := d.Bounds()
	rs, err := d.Ranges(src)
	if err != nil {
		return nil, err
	}
	counts, err := grouping.CountsWithin(src, col, rs, lo, hi)
	if err != nil {
		return nil, err
	}

	// Cumulative counts run over the unwindowed ranges.
	base, err := d.Grouping().Model(src, lo, hi)
	if err != nil {
		return nil, err
	}
	cum, err := grouping.CountsWithin(src, col, grouping.Window{GrabLeft: -1}.Apply(base), lo, hi)
	if err != nil {
		return nil, err
	}

	vals := make([][]float64, len(rs))
	for row := 0; row < src.Rows(); row++ {
		x, y := src.Value(ci, row), src.Value(mi, row)
		if math.IsNaN(x) || math.IsNaN(y) || x < lo || x > hi {
			continue
		}
		for i, r := range rs {
			if r != nil && r.Contains(x) {
				vals[i] = append(vals[i], y)
			}
		}
	}

	rep := &report{
		title:      d.Label(),
		meanCol:    meanCol,
		counts:     counts,
		cumulative: cum,
	}
	for i, r := range rs {
		rep.labels = append(rep.labels, rangeLabel(src, ci, r))
		rep.means = append(rep.means, formatMean(src.Kind(mi), vals[i]))
	}
	return rep, nil
}

// rangeLabel labels r, naming categories of Nominal columns.
func rangeLabel(src *grouping.TableSource, ci int, r grouping.Range) string {
	switch r := r.(type) {
	case nil:
		return "-"
	case *grouping.SinglePoint:
		if src.Kind(ci).IsNominal() {
			return src.Category(ci, r.Value)
		}
	case *grouping.Aggregate:
		parts := make([]string, len(r.Ranges))
		for i, sub := range r.Ranges {
			parts[i] = rangeLabel(src, ci, sub)
		}
		return strings.Join(parts, " ∪ ")
	}
	return r.Label()
}

func formatMean(kind grouping.Kind, xs []float64) string {
	if len(xs) == 0 || kind.IsNominal() || kind == grouping.Invalid {
		return ""
	}
	m := stats.Mean(xs)
	if kind.IsDateTime() {
		return (&grouping.DateFormat{}).Format(math.Round(m))
	}
	return strconv.FormatFloat(m, 'g', 6, 64)
}

// table returns r as a go-gg table.
func (r *report) table() *table.Table {
	return new(table.Builder).
		Add(r.title, r.labels).
		Add("count", r.counts).
		Add("mean "+r.meanCol, r.means).
		Add("cumulative", r.cumulative).
		Done()
}

// write prints r, aligned if pretty is set and tab-separated
// otherwise.
func (r *report) write(w io.Writer, pretty bool) {
	if pretty {
		table.Fprint(w, r.table())
		return
	}
	fmt.Fprintf(w, "%s\tcount\tmean %s\tcumulative\n", r.title, r.meanCol)
	for i := range r.labels {
		fmt.Fprintf(w, "%s\t%d\t%s\t%d\n", r.labels[i], r.counts[i], r.means[i], r.cumulative[i])
	}
}
