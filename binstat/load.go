// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"reflect"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/kballard/go-shellquote"
	_ "github.com/mattn/go-sqlite3"

	"github.com/aclements/binconf/bench"
)

// openInputs calls fn with each input path, or with stdin if there
// are none.
func openInputs(paths []string, fn func(r io.Reader) error) error {
	if len(paths) == 0 {
		return fn(os.Stdin)
	}
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		err = fn(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// loadBench reads Go benchmark results from paths.
func loadBench(paths []string) (*table.Table, error) {
	var bs []*bench.Benchmark
	err := openInputs(paths, func(r io.Reader) error {
		b, err := bench.Parse(r)
		bs = append(bs, b...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return benchTable(bs), nil
}

// loadExec runs cmdline and reads Go benchmark results from its
// standard output.
func loadExec(ctx context.Context, cmdline string) (*table.Table, error) {
	args, err := shellquote.Split(cmdline)
	if err != nil {
		return nil, fmt.Errorf("parsing command %q: %w", cmdline, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stderr = os.Stderr
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	bs, perr := bench.Parse(out)
	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", shellquote.Join(args...), err)
	}
	if perr != nil {
		return nil, perr
	}
	return benchTable(bs), nil
}

func benchTable(bs []*bench.Benchmark) *table.Table {
	bench.ParseValues(bs, nil)
	return bench.Table(bs)
}

// loadCSV reads CSV files with a header row. Each column gets the
// type of the first bench.DefaultValueParsers parser that accepts all
// of its non-empty cells.
func loadCSV(paths []string) (*table.Table, error) {
	var header []string
	var cells [][]string
	err := openInputs(paths, func(r io.Reader) error {
		records, err := csv.NewReader(r).ReadAll()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return fmt.Errorf("missing header row")
		}
		if header == nil {
			header = records[0]
			cells = make([][]string, len(header))
		} else if !reflect.DeepEqual(header, records[0]) {
			return fmt.Errorf("header %q does not match %q", records[0], header)
		}
		for _, rec := range records[1:] {
			for i := range header {
				cells[i] = append(cells[i], rec[i])
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	tab := new(table.Builder)
	for i, name := range header {
		tab.Add(name, typeCells(cells[i]))
	}
	return tab.Done(), nil
}

func typeCells(cells []string) slice.T {
	vals := make([]interface{}, len(cells))
nextParser:
	for _, vp := range bench.DefaultValueParsers {
		for i, s := range cells {
			if s == "" {
				vals[i] = nil
				continue
			}
			v, err := vp(s)
			if err != nil {
				continue nextParser
			}
			vals[i] = v
		}
		return buildColumn(vals)
	}
	return cells
}

// loadSQLite runs query against the sqlite database at path.
func loadSQLite(ctx context.Context, path, query string) (*table.Table, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	cols := make([][]interface{}, len(names))
	for rows.Next() {
		row := make([]interface{}, len(names))
		ptrs := make([]interface{}, len(names))
		for i := range row {
			ptrs[i] = &row[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range row {
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			cols[i] = append(cols[i], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tab := new(table.Builder)
	for i, name := range names {
		tab.Add(name, buildColumn(cols[i]))
	}
	return tab.Done(), nil
}

// buildColumn converts dynamically typed values into a typed slice.
// Nil values are missing. Numeric columns that mix types or have
// missing values become []float64 with NaN for missing values. Other
// columns take the type of their values, with the zero value for
// missing values, or become []string if their types are mixed.
func buildColumn(vals []interface{}) slice.T {
	var et reflect.Type
	mixed, numeric, missing := false, true, false
	for _, v := range vals {
		if v == nil {
			missing = true
			continue
		}
		switch v.(type) {
		case int, int64, float64:
		default:
			numeric = false
		}
		if t := reflect.TypeOf(v); et == nil {
			et = t
		} else if t != et {
			mixed = true
		}
	}

	switch {
	case et == nil, numeric && (mixed || missing):
		col := make([]float64, len(vals))
		for i, v := range vals {
			switch v := v.(type) {
			case int:
				col[i] = float64(v)
			case int64:
				col[i] = float64(v)
			case float64:
				col[i] = v
			default:
				col[i] = math.NaN()
			}
		}
		return col

	case mixed:
		col := make([]string, len(vals))
		for i, v := range vals {
			if v != nil {
				col[i] = fmt.Sprint(v)
			}
		}
		return col
	}

	col := reflect.MakeSlice(reflect.SliceOf(et), len(vals), len(vals))
	for i, v := range vals {
		if v != nil {
			col.Index(i).Set(reflect.ValueOf(v))
		}
	}
	return col.Interface()
}
