// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command binstat groups the values of table columns into ranges and
// summarizes each range.
//
// Input is Go benchmark format [1] by default, or CSV with a header
// row, or the result of a query against a sqlite database. With
// -exec, binstat runs a command and reads benchmark results from its
// output. Given no columns to group, binstat lists the columns of its
// input.
//
// For each grouped column binstat prints each range's label, the
// number of rows in it, the mean of a column over those rows, and the
// number of rows up to the end of the range.
//
// Dimensions can also be described in a TOML file given with -config:
//
//	[input]
//	format = "csv"
//
//	[[dimension]]
//	column = "latency"
//	strategy = "freq"
//	bins = 4
//	window = { left = 1 }
//
// Flags override the file's input settings, and -col replaces its
// dimensions.
//
// [1] https://github.com/golang/proposal/blob/master/design/14313-benchmark-format.md
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/aclements/go-gg/table"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/aclements/binconf/changebus"
	"github.com/aclements/binconf/dimconfig"
	"github.com/aclements/binconf/grouping"
)

func main() {
	log.SetPrefix("binstat: ")
	log.SetFlags(0)

	def := DefaultDimension()
	var (
		flagConfig   = flag.String("config", "", "read settings from TOML `file`")
		flagFormat   = flag.String("format", "bench", "input `format`: bench, csv, or sqlite")
		flagSQLite   = flag.String("sqlite", "", "sqlite database `file`")
		flagQuery    = flag.String("query", "", "sqlite `query` to group")
		flagExec     = flag.String("exec", "", "run `command` and read benchmark results from its output")
		flagCols     = flag.String("col", "", "group each of the comma-separated `columns`")
		flagStrategy = flag.String("strategy", def.Strategy, "grouping `strategy`: width, freq, or distinct")
		flagBins     = flag.Int("n", def.Bins, "number of bins")
		flagMin      = flag.Float64("min", math.NaN(), "lower end of equal-width bins (default from data)")
		flagMax      = flag.Float64("max", math.NaN(), "upper end of equal-width bins (default from data)")
		flagAuto     = flag.Bool("auto", false, "always take equal-width bounds from the data")
		flagCat      = flag.Bool("categorical", false, "add bins for values outside -min and -max")
		flagLayout   = flag.String("layout", "", "Go time `layout` for date columns")
		flagLower    = flag.Float64("lower", math.Inf(-1), "ignore values below `x`")
		flagUpper    = flag.Float64("upper", math.Inf(1), "ignore values above `x`")
		flagLeft     = flag.Int("left", 0, "aggregate each bin with `n` bins to its left (-1 for all)")
		flagRight    = flag.Int("right", 0, "aggregate each bin with `n` bins to its right (-1 for all)")
		flagIncomp   = flag.Bool("incomplete", false, "keep aggregates cut short by the ends")
		flagMean     = flag.String("mean", "", "average `column` per bin (default the grouped column)")
		flagOut      = flag.String("o", "", "write output to `file` (default: stdout)")
		flagVerbose  = flag.Bool("v", false, "trace configuration changes to stderr")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [inputs...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := DefaultConfig()
	if *flagConfig != "" {
		var err error
		cfg, err = LoadFromFile(*flagConfig)
		if err != nil {
			log.Fatal(err)
		}
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["format"] {
		cfg.Input.Format = *flagFormat
	}
	if set["sqlite"] {
		cfg.Input.SQLite = *flagSQLite
		if !set["format"] {
			cfg.Input.Format = "sqlite"
		}
	}
	if set["query"] {
		cfg.Input.Query = *flagQuery
	}
	if set["exec"] {
		cfg.Input.Exec = *flagExec
	}
	if *flagCols != "" {
		cfg.Dimensions = nil
		for _, col := range strings.Split(*flagCols, ",") {
			d := DimensionConfig{
				Column:      strings.TrimSpace(col),
				Strategy:    *flagStrategy,
				Bins:        *flagBins,
				AutoRange:   *flagAuto,
				Categorical: *flagCat,
				DateLayout:  *flagLayout,
				Window:      WindowConfig{*flagLeft, *flagRight, *flagIncomp},
				Mean:        *flagMean,
			}
			if set["min"] {
				d.Min = flagMin
			}
			if set["max"] {
				d.Max = flagMax
			}
			if set["lower"] {
				d.Lower = flagLower
			}
			if set["upper"] {
				d.Upper = flagUpper
			}
			cfg.Dimensions = append(cfg.Dimensions, d)
		}
	}
	if err := cfg.validate(); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	tab, err := load(ctx, cfg.Input, flag.Args())
	if err != nil {
		log.Fatal(err)
	}
	src := grouping.NewTableSource(tab)

	f := os.Stdout
	if *flagOut != "" {
		f, err = os.Create(*flagOut)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
	}
	pretty := term.IsTerminal(int(f.Fd()))

	if len(cfg.Dimensions) == 0 {
		listColumns(f, src, pretty)
		return
	}

	var logger *slog.Logger
	if *flagVerbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	reports, err := summarizeAll(ctx, src, cfg.Dimensions, logger)
	if err != nil {
		log.Fatal(err)
	}
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(f)
		}
		r.write(f, pretty)
	}
}

func load(ctx context.Context, in InputConfig, paths []string) (*table.Table, error) {
	switch {
	case in.Exec != "":
		return loadExec(ctx, in.Exec)
	case in.Format == "csv":
		return loadCSV(paths)
	case in.Format == "sqlite":
		return loadSQLite(ctx, in.SQLite, in.Query)
	}
	return loadBench(paths)
}

// summarizeAll summarizes each dimension concurrently. Each dimension
// has its own bus.
func summarizeAll(ctx context.Context, src *grouping.TableSource, dims []DimensionConfig, logger *slog.Logger) ([]*report, error) {
	reports := make([]*report, len(dims))
	g, ctx := errgroup.WithContext(ctx)
	for i, dc := range dims {
		i, dc := i, dc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := newDimension(src, dc, logger)
			if err != nil {
				return fmt.Errorf("dimension %s: %w", dc.Column, err)
			}
			defer d.Close()
			reports[i], err = summarize(d, src, dc.Mean)
			if err != nil {
				return fmt.Errorf("dimension %s: %w", dc.Column, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// newDimension configures a Dimension over src as dc describes.
func newDimension(src *grouping.TableSource, dc DimensionConfig, logger *slog.Logger) (*dimconfig.Dimension, error) {
	col, ok := src.Column(dc.Column)
	if !ok {
		return nil, fmt.Errorf("%w %q", grouping.ErrUnknownColumn, dc.Column)
	}
	g, err := dc.Grouping(col)
	if err != nil {
		return nil, err
	}
	w, err := grouping.NewWindow(dc.Window.Left, dc.Window.Right, dc.Window.Incomplete)
	if err != nil {
		return nil, err
	}

	bus := changebus.New()
	if logger != nil {
		bus.SetLogger(logger.With("column", dc.Column))
	}
	d := dimconfig.New(bus, g)
	lower, upper := dc.Bounds()
	d.Update(func() {
		err = d.SetBounds(lower, upper)
		if dc.Label != "" {
			d.SetLabel(dc.Label)
		}
		d.SetWindow(w)
	})
	if err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// listColumns prints the columns of src and their kinds.
func listColumns(w io.Writer, src *grouping.TableSource, pretty bool) {
	var names, kinds []string
	for _, c := range src.Columns() {
		names = append(names, c.Name)
		kinds = append(kinds, c.Kind.String())
	}
	if pretty {
		table.Fprint(w, new(table.Builder).Add("column", names).Add("kind", kinds).Done())
		return
	}
	for i := range names {
		fmt.Fprintf(w, "%s\t%s\n", names[i], kinds[i])
	}
}
