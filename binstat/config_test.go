// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/aclements/binconf/grouping"
)

const testConfig = `
[input]
format = "csv"

[[dimension]]
column = "latency"
strategy = "freq"
bins = 4
window = { left = 1 }

[[dimension]]
column = "size"
label = "Size (bytes)"
min = 0.0
max = 100.0
lower = 10.0
categorical = true
`

func TestLoadFromReader(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(testConfig))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Input.Format != "csv" {
		t.Errorf("format = %q, want csv", cfg.Input.Format)
	}
	if len(cfg.Dimensions) != 2 {
		t.Fatalf("got %d dimensions, want 2", len(cfg.Dimensions))
	}

	lat := cfg.Dimensions[0]
	want := DimensionConfig{Column: "latency", Strategy: "freq", Bins: 4, Window: WindowConfig{Left: 1}}
	if !reflect.DeepEqual(lat, want) {
		t.Errorf("latency dimension = %+v, want %+v", lat, want)
	}

	size := cfg.Dimensions[1]
	if size.Strategy != "width" || size.Bins != 10 {
		t.Errorf("size dimension defaults: strategy %q, %d bins", size.Strategy, size.Bins)
	}
	if size.Min == nil || *size.Min != 0 || size.Max == nil || *size.Max != 100 {
		t.Errorf("size range = %v, %v", size.Min, size.Max)
	}
	if lo, hi := size.Bounds(); lo != 10 || !math.IsInf(hi, 1) {
		t.Errorf("size bounds = [%v, %v], want [10, +Inf]", lo, hi)
	}
}

func TestLoadFromReaderErrors(t *testing.T) {
	for _, test := range []struct {
		input string
		want  string
	}{
		{"[input]\nfromat = \"csv\"", "unknown configuration key"},
		{"[input]\nformat = \"xml\"", "unknown input format"},
		{"[input]\nformat = \"sqlite\"\nsqlite = \"x.db\"", "needs a database and a query"},
		{"[[dimension]]\nstrategy = \"width\"", "without a column"},
		{"[[dimension]]\ncolumn = \"x\"\nstrategy = \"log\"", "unknown strategy"},
		{"[input", ""},
	} {
		_, err := LoadFromReader(strings.NewReader(test.input))
		if err == nil {
			t.Errorf("%q: want error", test.input)
		} else if !strings.Contains(err.Error(), test.want) {
			t.Errorf("%q: error %q does not mention %q", test.input, err, test.want)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFromFile(filepath.Join(dir, "missing.toml"))
	if err != nil || !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("missing file: got %+v, %v; want the default configuration", cfg, err)
	}

	path := filepath.Join(dir, "binstat.toml")
	if err := os.WriteFile(path, []byte(testConfig), 0666); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Dimensions) != 2 {
		t.Errorf("got %d dimensions, want 2", len(cfg.Dimensions))
	}

	if err := os.WriteFile(path, []byte("[input]\nformat = 1"), 0666); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil || !strings.Contains(err.Error(), path) {
		t.Errorf("bad file error %v does not name the file", err)
	}
}

func TestDimensionGrouping(t *testing.T) {
	num := grouping.Column{Name: "x", Kind: grouping.Numerical}
	str := grouping.Column{Name: "s", Kind: grouping.Nominal}
	upper := 8.0

	g, err := DimensionConfig{Strategy: "width", Bins: 4, Max: &upper, Categorical: true}.Grouping(num)
	if err != nil {
		t.Fatal(err)
	}
	ew, ok := g.(*grouping.EqualWidth)
	if !ok {
		t.Fatalf("width strategy gave %T", g)
	}
	if lo, hi := ew.Range(); !math.IsNaN(lo) || hi != 8 || ew.Bins() != 4 || !ew.Categorical() {
		t.Errorf("equal-width grouping: range [%v, %v], %d bins, categorical %v", lo, hi, ew.Bins(), ew.Categorical())
	}

	g, err = DimensionConfig{Strategy: "freq", Bins: 3}.Grouping(num)
	if ef, ok := g.(*grouping.EqualFrequency); err != nil || !ok || ef.Bins() != 3 {
		t.Errorf("freq strategy gave %v, %v", g, err)
	}
	if _, err := (DimensionConfig{Strategy: "freq", Bins: 3}).Grouping(str); err == nil {
		t.Errorf("freq strategy accepted a nominal column")
	}
	if _, err := (DimensionConfig{Strategy: "width", Bins: -1}).Grouping(num); err == nil {
		t.Errorf("width strategy accepted -1 bins")
	}

	g, err = DimensionConfig{Strategy: "distinct"}.Grouping(str)
	if _, ok := g.(*grouping.Distinct); err != nil || !ok {
		t.Errorf("distinct strategy gave %v, %v", g, err)
	}
}
