// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bench

import (
	"math"
	"reflect"
	"sort"
	"time"

	"github.com/aclements/go-gg/table"
)

// Table returns a table with one row per benchmark result. The "name"
// column is followed by one column per configuration key and one per
// result unit, each in sorted order.
//
// Configuration columns have the type of their parsed values, or
// string if ParseValues has not been called. Rows lacking a key hold
// the zero value. Result columns are float64 with NaN for missing
// units. If every result has an "ns/op" value, that column is a
// time.Duration column named "time/op" instead.
func Table(bs []*Benchmark) *table.Table {
	nan := math.NaN()
	names := make([]string, len(bs))
	configs, results := map[string]reflect.Value{}, map[string][]float64{}
	for i, b := range bs {
		names[i] = b.Name

		for k, c := range b.Config {
			v := c.Value
			if v == nil {
				v = c.RawValue
			}
			seq, ok := configs[k]
			if !ok {
				seq = reflect.MakeSlice(reflect.SliceOf(reflect.TypeOf(v)), len(bs), len(bs))
				configs[k] = seq
			}
			if rv := reflect.ValueOf(v); rv.Type() == seq.Type().Elem() {
				seq.Index(i).Set(rv)
			}
		}

		for k, v := range b.Result {
			seq, ok := results[k]
			if !ok {
				seq = make([]float64, len(bs))
				for i := range seq {
					seq[i] = nan
				}
				results[k] = seq
			}
			seq[i] = v
		}
	}

	tab := new(table.Builder).Add("name", names)
	for _, key := range sortedKeys(configs) {
		tab.Add(key, configs[key].Interface())
	}
	for _, key := range sortedKeys(results) {
		if key == "ns/op" {
			if d, ok := durations(results[key]); ok {
				tab.Add("time/op", d)
				continue
			}
		}
		tab.Add(key, results[key])
	}
	return tab.Done()
}

func durations(ns []float64) ([]time.Duration, bool) {
	out := make([]time.Duration, len(ns))
	for i, x := range ns {
		if math.IsNaN(x) {
			return nil, false
		}
		out[i] = time.Duration(x)
	}
	return out, true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
