// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/aclements/binconf/grouping"
)

// Config is the contents of a binstat configuration file.
type Config struct {
	Input      InputConfig       `toml:"input"`
	Dimensions []DimensionConfig `toml:"dimension"`
}

// InputConfig selects the data source.
type InputConfig struct {
	// Format is "bench", "csv", or "sqlite".
	Format string `toml:"format"`

	// SQLite is the database file for the sqlite format and Query
	// the query whose result is grouped.
	SQLite string `toml:"sqlite"`
	Query  string `toml:"query"`

	// Exec is a command line whose output is read in the bench
	// format instead of the input files.
	Exec string `toml:"exec"`
}

// DimensionConfig describes how to group one column.
type DimensionConfig struct {
	Column string `toml:"column"`
	Label  string `toml:"label"`

	// Strategy is "width", "freq", or "distinct".
	Strategy    string   `toml:"strategy"`
	Bins        int      `toml:"bins"`
	Min         *float64 `toml:"min"`
	Max         *float64 `toml:"max"`
	AutoRange   bool     `toml:"auto_range"`
	Categorical bool     `toml:"categorical"`
	DateLayout  string   `toml:"date_layout"`

	// Lower and Upper filter the values before grouping.
	Lower *float64 `toml:"lower"`
	Upper *float64 `toml:"upper"`

	Window WindowConfig `toml:"window"`

	// Mean names a column to average per bin. By default the
	// grouped column is averaged.
	Mean string `toml:"mean"`
}

type WindowConfig struct {
	Left       int  `toml:"left"`
	Right      int  `toml:"right"`
	Incomplete bool `toml:"incomplete"`
}

// DefaultConfig returns the configuration used without a
// configuration file.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{Format: "bench"},
	}
}

// DefaultDimension returns the settings for a dimension that the
// configuration leaves unset.
func DefaultDimension() DimensionConfig {
	return DimensionConfig{Strategy: "width", Bins: 10}
}

// LoadFromFile reads a configuration file. A missing file yields
// DefaultConfig.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	defer f.Close()
	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader reads a configuration from r.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, err
	}
	if un := md.Undecoded(); len(un) > 0 {
		return nil, fmt.Errorf("unknown configuration key %q", un[0].String())
	}
	// Unset dimension keys take their defaults.
	for i := range cfg.Dimensions {
		d := &cfg.Dimensions[i]
		if d.Strategy == "" {
			d.Strategy = DefaultDimension().Strategy
		}
		if d.Bins == 0 {
			d.Bins = DefaultDimension().Bins
		}
	}
	return cfg, cfg.validate()
}

func (cfg *Config) validate() error {
	switch cfg.Input.Format {
	case "bench", "csv":
	case "sqlite":
		if cfg.Input.SQLite == "" || cfg.Input.Query == "" {
			return fmt.Errorf("sqlite input needs a database and a query")
		}
	default:
		return fmt.Errorf("unknown input format %q", cfg.Input.Format)
	}
	for _, d := range cfg.Dimensions {
		if d.Column == "" {
			return fmt.Errorf("dimension without a column")
		}
		switch d.Strategy {
		case "width", "freq", "distinct":
		default:
			return fmt.Errorf("dimension %s: unknown strategy %q", d.Column, d.Strategy)
		}
	}
	return nil
}

// Grouping returns the grouping d describes over col.
func (d DimensionConfig) Grouping(col grouping.Column) (grouping.Grouping, error) {
	layout := d.DateLayout
	switch d.Strategy {
	case "distinct":
		return grouping.NewDistinct(col).WithDateLayout(layout), nil
	case "freq":
		g, err := grouping.NewEqualFrequency(col, d.Bins)
		if err != nil {
			return nil, err
		}
		return g.WithDateLayout(layout), nil
	}
	g, err := grouping.NewEqualWidth(col, d.Bins, orNaN(d.Min), orNaN(d.Max))
	if err != nil {
		return nil, err
	}
	return g.WithAutoRange(d.AutoRange).WithCategorical(d.Categorical).WithDateLayout(layout), nil
}

// Bounds returns the value filter, unrestricted where unset.
func (d DimensionConfig) Bounds() (lower, upper float64) {
	lower, upper = math.Inf(-1), math.Inf(1)
	if d.Lower != nil {
		lower = *d.Lower
	}
	if d.Upper != nil {
		upper = *d.Upper
	}
	return
}

func orNaN(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}
