// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bench reads Go benchmark result files.
//
// This format is specified at:
// https://github.com/golang/proposal/blob/master/design/14313-benchmark-format.md
package bench

import (
	"bufio"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Benchmark records the configuration and results of a single
// benchmark run (a single line of a benchmark results file).
type Benchmark struct {
	// Name is the name of the benchmark, without the "Benchmark"
	// prefix, the GOMAXPROCS suffix, or any key:value sub-benchmark
	// components.
	Name string

	// Iterations is the number of times this benchmark executed.
	Iterations int

	// Config is the set of configuration pairs for this
	// Benchmark, from both configuration lines and key:value
	// components of the benchmark name. A "-N" name suffix is
	// stored as "gomaxprocs".
	Config map[string]*Config

	// Result maps units to measured values.
	Result map[string]float64
}

// Config is a single key/value configuration pair.
type Config struct {
	// Value is the parsed value, set by ParseValues.
	Value interface{}

	// RawValue is the value exactly as written in the file.
	RawValue string

	// InBlock indicates that this pair came from a configuration
	// line rather than from the benchmark name.
	InBlock bool
}

var configRe = regexp.MustCompile(`^(\p{Ll}[^\p{Lu}\s\x85\xa0\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}]*):(?:[ \t]+(.*))?$`)

// Parse parses a Go benchmark results file from r. It returns a
// *Benchmark for each result line, in file order. A benchmark run
// several times produces several results.
//
// Values are left nil. Use ParseValues to type them.
func Parse(r io.Reader) ([]*Benchmark, error) {
	p := parser{config: make(map[string]*Config), out: []*Benchmark{}}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.line(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p.out, nil
}

type parser struct {
	config map[string]*Config
	out    []*Benchmark
}

func (p *parser) line(line string) {
	if m := configRe.FindStringSubmatch(line); m != nil {
		// Later blocks replace earlier values, but benchmarks
		// already read keep the pair they saw.
		p.config[m[1]] = &Config{RawValue: m[2], InBlock: true}
		return
	}
	if !strings.HasPrefix(line, "Benchmark") {
		return
	}
	if b := p.benchmark(strings.Fields(line)); b != nil {
		p.out = append(p.out, b)
	}
}

// benchmark parses the fields of a result line, or returns nil if the
// line is not a well-formed result.
func (p *parser) benchmark(f []string) *Benchmark {
	if len(f) < 4 {
		return nil
	}
	name := strings.TrimPrefix(f[0], "Benchmark")
	if r, _ := utf8.DecodeRuneInString(name); name != "" && !unicode.IsUpper(r) {
		return nil
	}
	iters, err := strconv.Atoi(f[1])
	if err != nil || iters <= 0 {
		return nil
	}

	b := &Benchmark{
		Iterations: iters,
		Config:     make(map[string]*Config, len(p.config)+1),
		Result:     make(map[string]float64),
	}
	for k, v := range p.config {
		b.Config[k] = v
	}

	// The GOMAXPROCS suffix follows the last name component.
	procs := "1"
	if i := strings.LastIndex(name, "-"); i > 0 && name[i-1] != ':' {
		if _, err := strconv.Atoi(name[i+1:]); err == nil {
			name, procs = name[:i], name[i+1:]
		}
	}
	b.Config["gomaxprocs"] = &Config{RawValue: procs}

	parts := strings.Split(name, "/")
	b.Name = parts[0]
	for _, part := range parts[1:] {
		if k, v, ok := strings.Cut(part, ":"); ok {
			b.Config[k] = &Config{RawValue: v}
		}
	}

	for i := 2; i+1 < len(f); i += 2 {
		val, err := strconv.ParseFloat(f[i], 64)
		if err != nil {
			continue
		}
		b.Result[f[i+1]] = val
	}
	return b
}

// ValueParser parses a raw configuration value into a structured type
// or returns an error if it cannot.
type ValueParser func(string) (interface{}, error)

// DefaultValueParsers is the sequence of value parsers ParseValues
// uses if none are given.
var DefaultValueParsers = []ValueParser{
	func(s string) (interface{}, error) { return strconv.Atoi(s) },
	func(s string) (interface{}, error) { return strconv.ParseFloat(s, 64) },
	func(s string) (interface{}, error) { return time.ParseDuration(s) },
	func(s string) (interface{}, error) { return time.Parse(time.RFC3339, s) },
}

// ParseValues sets the Value of every configuration pair in
// benchmarks.
//
// For each key, it uses the earliest parser in valueParsers that can
// parse every raw value of that key, so all values of a key have the
// same type. If no parser can, the values are the raw strings. If
// valueParsers is nil, it uses DefaultValueParsers.
func ParseValues(benchmarks []*Benchmark, valueParsers []ValueParser) {
	if valueParsers == nil {
		valueParsers = DefaultValueParsers
	}

	// Distinct raw values of each key.
	raw := map[string]map[string]interface{}{}
	for _, b := range benchmarks {
		for k, c := range b.Config {
			if raw[k] == nil {
				raw[k] = map[string]interface{}{}
			}
			raw[k][c.RawValue] = nil
		}
	}

	for key, vals := range raw {
		parsed := parseAll(vals, valueParsers)
		for _, b := range benchmarks {
			if c, ok := b.Config[key]; ok {
				c.Value = parsed[c.RawValue]
			}
		}
	}
}

// parseAll parses every key of vals with the first parser that
// accepts them all. Otherwise it maps each value to itself.
func parseAll(vals map[string]interface{}, valueParsers []ValueParser) map[string]interface{} {
	keys := make([]string, 0, len(vals))
	for s := range vals {
		keys = append(keys, s)
	}
	sort.Strings(keys)

nextParser:
	for _, vp := range valueParsers {
		out := make(map[string]interface{}, len(keys))
		for _, s := range keys {
			v, err := vp(s)
			if err != nil {
				continue nextParser
			}
			out[s] = v
		}
		return out
	}

	out := make(map[string]interface{}, len(keys))
	for _, s := range keys {
		out[s] = s
	}
	return out
}
