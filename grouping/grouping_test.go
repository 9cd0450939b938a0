// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grouping

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"sort"
	"testing"
)

// memSource is a single-column Source.
type memSource struct {
	name string
	kind Kind
	xs   []float64
}

func (s *memSource) ColumnIndex(name string) int {
	if name == s.name {
		return 0
	}
	return -1
}
func (s *memSource) Value(col, row int) float64 { return s.xs[row] }
func (s *memSource) Rows() int                  { return len(s.xs) }
func (s *memSource) Kind(col int) Kind          { return s.kind }

var (
	inf  = math.Inf(1)
	ninf = math.Inf(-1)
	xcol = Column{"x", Numerical}
)

func numbers(xs ...float64) *memSource {
	return &memSource{"x", Numerical, xs}
}

func seq(n int) *memSource {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return numbers(xs...)
}

type bound struct {
	lo, hi       float64
	loInc, hiInc bool
}

func intervals(t *testing.T, rs []Range) []bound {
	t.Helper()
	var bs []bound
	for i, r := range rs {
		iv, ok := r.(*Interval)
		if !ok {
			t.Fatalf("range %d is %T, want *Interval", i, r)
		}
		bs = append(bs, bound{iv.Lower, iv.Upper, iv.LowerInclusive, iv.UpperInclusive})
	}
	return bs
}

func mustModel(t *testing.T, g Grouping, src Source, lower, upper float64) []Range {
	t.Helper()
	rs, err := g.Model(src, lower, upper)
	if err != nil {
		t.Fatalf("Model: %v", err)
	}
	return rs
}

func mustCounts(t *testing.T, src Source, rs []Range) []int {
	t.Helper()
	counts, err := Counts(src, xcol, rs)
	if err != nil {
		t.Fatal(err)
	}
	return counts
}

func TestEqualWidthAuto(t *testing.T) {
	g, err := NewEqualWidth(xcol, 2, math.NaN(), math.NaN())
	if err != nil {
		t.Fatal(err)
	}
	src := seq(10)
	rs := mustModel(t, g, src, ninf, inf)
	want := []bound{{0, 4.5, true, false}, {4.5, 9, true, true}}
	if got := intervals(t, rs); !reflect.DeepEqual(got, want) {
		t.Errorf("bins = %v, want %v", got, want)
	}
	if got, want := mustCounts(t, src, rs), []int{5, 5}; !reflect.DeepEqual(got, want) {
		t.Errorf("counts = %v, want %v", got, want)
	}
}

func TestEqualWidthCoverage(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for iter := 0; iter < 100; iter++ {
		xs := make([]float64, 1+r.Intn(200))
		for i := range xs {
			xs[i] = r.NormFloat64()*10 + 3
		}
		src := numbers(xs...)
		n := 1 + r.Intn(12)
		g, err := NewEqualWidth(xcol, n, math.NaN(), math.NaN())
		if err != nil {
			t.Fatal(err)
		}
		rs := mustModel(t, g, src, ninf, inf)
		if len(xs) > 1 && len(rs) != n {
			t.Fatalf("got %d bins, want %d", len(rs), n)
		}
		bs := intervals(t, rs)
		sorted := append([]float64(nil), xs...)
		sort.Float64s(sorted)
		if bs[0].lo != sorted[0] || bs[len(bs)-1].hi != sorted[len(sorted)-1] {
			t.Errorf("bins span [%v, %v], want [%v, %v]", bs[0].lo, bs[len(bs)-1].hi, sorted[0], sorted[len(sorted)-1])
		}
		for i := 1; i < len(bs); i++ {
			if bs[i-1].hi != bs[i].lo {
				t.Errorf("bin %d ends at %v but bin %d starts at %v", i-1, bs[i-1].hi, i, bs[i].lo)
			}
		}
		for _, x := range xs {
			in := 0
			for _, r := range rs {
				if r.Contains(x) {
					in++
				}
			}
			if in != 1 {
				t.Errorf("%v is in %d bins of %v, want 1", x, in, bs)
			}
		}
	}
}

func TestEqualWidthClampsToFilter(t *testing.T) {
	g, _ := NewEqualWidth(xcol, 5, math.NaN(), math.NaN())
	g = g.WithAutoRange(true)
	rs := mustModel(t, g, seq(10), 2.5, 7)
	bs := intervals(t, rs)
	if bs[0].lo != 3 || bs[len(bs)-1].hi != 7 {
		t.Errorf("bins span [%v, %v], want [3, 7]", bs[0].lo, bs[len(bs)-1].hi)
	}

	// No data in range falls back to the finite filter.
	rs = mustModel(t, g, seq(10), 20, 30)
	bs = intervals(t, rs)
	if bs[0].lo != 20 || bs[len(bs)-1].hi != 30 {
		t.Errorf("bins span [%v, %v], want [20, 30]", bs[0].lo, bs[len(bs)-1].hi)
	}
}

func TestEqualWidthCategorical(t *testing.T) {
	g, _ := NewEqualWidth(xcol, 5, 0, 10)
	g = g.WithCategorical(true)
	src := numbers(-5, 0, 1, 9.5, 10, 15, 20)
	rs := mustModel(t, g, src, ninf, inf)
	bs := intervals(t, rs)
	if len(bs) != 7 {
		t.Fatalf("got %d bins, want 7: %v", len(bs), bs)
	}
	if want := (bound{ninf, 0, true, false}); bs[0] != want {
		t.Errorf("underflow bin = %v, want %v", bs[0], want)
	}
	if want := (bound{10, inf, false, true}); bs[6] != want {
		t.Errorf("overflow bin = %v, want %v", bs[6], want)
	}
	if got, want := mustCounts(t, src, rs), []int{1, 2, 0, 0, 0, 2, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("counts = %v, want %v", got, want)
	}
	got, err := CountsWithin(src, xcol, rs, 1, 15)
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{0, 1, 0, 0, 0, 2, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("counts within [1, 15] = %v, want %v", got, want)
	}

	// Auto-ranged categorical groupings have no flanking bins.
	rs = mustModel(t, g.WithAutoRange(true), src, ninf, inf)
	if len(rs) != 5 {
		t.Errorf("auto-ranged categorical: got %d bins, want 5", len(rs))
	}
}

func TestEqualWidthDegenerate(t *testing.T) {
	g, _ := NewEqualWidth(xcol, 4, math.NaN(), math.NaN())
	if rs := mustModel(t, g, numbers(), ninf, inf); len(rs) != 0 {
		t.Errorf("empty source: got %v, want no bins", rs)
	}
	if rs := mustModel(t, g, numbers(math.NaN(), math.NaN()), ninf, inf); len(rs) != 0 {
		t.Errorf("all missing: got %v, want no bins", rs)
	}
	rs := mustModel(t, g, numbers(3, 3, 3), ninf, inf)
	if want := []bound{{3, 3, true, true}}; !reflect.DeepEqual(intervals(t, rs), want) {
		t.Errorf("single value: got %v, want %v", intervals(t, rs), want)
	}
	if iv := rs[0].(*Interval); iv.PrecisionLower != 0 || iv.PrecisionUpper != 0 {
		t.Errorf("single value precision = %d, %d, want 0, 0", iv.PrecisionLower, iv.PrecisionUpper)
	}
}

func TestNominalRejected(t *testing.T) {
	nom := Column{"c", Nominal}
	if _, err := NewEqualWidth(nom, 3, 0, 1); !errors.Is(err, ErrIncompatibleKind) {
		t.Errorf("NewEqualWidth(nominal) error = %v, want ErrIncompatibleKind", err)
	}
	if _, err := NewEqualFrequency(nom, 3); !errors.Is(err, ErrIncompatibleKind) {
		t.Errorf("NewEqualFrequency(nominal) error = %v, want ErrIncompatibleKind", err)
	}
	if _, err := NewEqualWidth(xcol, 0, 0, 1); !errors.Is(err, ErrInvalidBins) {
		t.Errorf("NewEqualWidth(0 bins) error = %v, want ErrInvalidBins", err)
	}

	// The source's kind is checked too.
	src := &memSource{"x", Nominal, []float64{0, 1, 2}}
	g, _ := NewEqualFrequency(xcol, 2)
	if _, err := g.Model(src, ninf, inf); !errors.Is(err, ErrIncompatibleKind) {
		t.Errorf("Model(nominal source) error = %v, want ErrIncompatibleKind", err)
	}
	if _, err := g.Model(&memSource{name: "y"}, ninf, inf); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("Model(missing column) error = %v, want ErrUnknownColumn", err)
	}
}

func TestEqualFrequency(t *testing.T) {
	rep := func(x float64, n int) []float64 {
		xs := make([]float64, n)
		for i := range xs {
			xs[i] = x
		}
		return xs
	}
	cat := func(xss ...[]float64) *memSource {
		var all []float64
		for _, xs := range xss {
			all = append(all, xs...)
		}
		return numbers(all...)
	}

	for _, test := range []struct {
		name   string
		src    *memSource
		bins   int
		want   []bound
		counts []int
	}{
		{"iota", seq(10), 2,
			[]bound{{0, 4, true, true}, {4, 9, false, true}},
			[]int{5, 5}},
		{"balanced", seq(100), 4,
			[]bound{{0, 24, true, true}, {24, 49, false, true}, {49, 74, false, true}, {74, 99, false, true}},
			[]int{25, 25, 25, 25}},
		{"few distinct", numbers(1, 1, 1, 2, 2, 3), 5,
			[]bound{{1, 1, true, true}, {1, 2, false, true}, {2, 3, false, true}},
			[]int{3, 2, 1}},
		{"heavy head", cat(rep(1, 10), rep(2, 1), rep(3, 1), rep(4, 1)), 3,
			[]bound{{1, 1, true, true}, {1, 2, false, true}, {2, 4, false, true}},
			[]int{10, 1, 2}},
		{"reserve", cat(rep(1, 1), rep(2, 1), rep(3, 1), rep(4, 10)), 3,
			[]bound{{1, 2, true, true}, {2, 3, false, true}, {3, 4, false, true}},
			[]int{2, 1, 10}},
		{"stop short", cat(rep(1, 3), rep(2, 5), rep(3, 2)), 2,
			[]bound{{1, 1, true, true}, {1, 3, false, true}},
			[]int{3, 7}},
		{"one value", numbers(7), 3,
			[]bound{{7, 7, true, true}},
			[]int{1}},
	} {
		t.Run(test.name, func(t *testing.T) {
			g, err := NewEqualFrequency(xcol, test.bins)
			if err != nil {
				t.Fatal(err)
			}
			rs := mustModel(t, g, test.src, ninf, inf)
			if got := intervals(t, rs); !reflect.DeepEqual(got, test.want) {
				t.Errorf("bins = %v, want %v", got, test.want)
			}
			if got := mustCounts(t, test.src, rs); !reflect.DeepEqual(got, test.counts) {
				t.Errorf("counts = %v, want %v", got, test.counts)
			}
		})
	}

	g, _ := NewEqualFrequency(xcol, 3)
	if rs := mustModel(t, g, numbers(), ninf, inf); len(rs) != 0 {
		t.Errorf("empty source: got %v, want no bins", rs)
	}
}

func TestEqualFrequencyBalance(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for iter := 0; iter < 100; iter++ {
		xs := make([]float64, 50+r.Intn(500))
		for i := range xs {
			xs[i] = r.Float64()
		}
		n := 1 + r.Intn(10)
		g, _ := NewEqualFrequency(xcol, n)
		src := numbers(xs...)
		rs := mustModel(t, g, src, ninf, inf)
		if len(rs) != n {
			t.Fatalf("got %d bins, want %d", len(rs), n)
		}
		avg := float64(len(xs)) / float64(n)
		total := 0
		for i, c := range mustCounts(t, src, rs) {
			total += c
			// With all values distinct the greedy walk
			// never strays more than one row from its target.
			if math.Abs(float64(total)-math.Round(float64(i+1)*avg)) > 1 {
				t.Errorf("after bin %d: cumulative count %d, target %v", i, total, float64(i+1)*avg)
			}
		}
		if total != len(xs) {
			t.Errorf("bins hold %d values, want %d", total, len(xs))
		}
	}
}

func TestDistinct(t *testing.T) {
	src := numbers(3, 1, 2, 3, math.NaN(), 1, 10, -4, 2)
	g := NewDistinct(xcol)
	rs := mustModel(t, g, src, ninf, 5)
	var got []float64
	for _, r := range rs {
		got = append(got, r.(*SinglePoint).Value)
	}
	if want := []float64{-4, 1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("distinct values = %v, want %v", got, want)
	}
	if !g.Categorical() {
		t.Errorf("Distinct is not categorical")
	}

	nom := &memSource{"c", Nominal, []float64{2, 0, 2, 1}}
	rs = mustModel(t, NewDistinct(Column{"c", Nominal}), nom, ninf, inf)
	if len(rs) != 3 {
		t.Fatalf("got %d categories, want 3", len(rs))
	}
	for i, r := range rs {
		if p := r.(*SinglePoint); p.Value != float64(i) || p.Precision != 0 {
			t.Errorf("category %d = %+v", i, p)
		}
	}
}

func TestGroupingEqual(t *testing.T) {
	a, _ := NewEqualWidth(xcol, 3, math.NaN(), 10)
	b, _ := NewEqualWidth(xcol, 3, math.NaN(), 10)
	if !Equal(a, b) {
		t.Errorf("identical equal-width groupings are not equal")
	}
	if Equal(a, b.WithCategorical(true)) {
		t.Errorf("groupings differing in categorical flag are equal")
	}
	c, _ := a.WithBins(4)
	if Equal(a, c) {
		t.Errorf("groupings differing in bin count are equal")
	}
	f3, _ := NewEqualFrequency(xcol, 3)
	if Equal(a, f3) {
		t.Errorf("groupings of different strategies are equal")
	}
	f3b, _ := NewEqualFrequency(xcol, 3)
	if !Equal(f3, f3b) {
		t.Errorf("identical equal-frequency groupings are not equal")
	}
	if !Equal(NewDistinct(xcol), NewDistinct(xcol)) {
		t.Errorf("identical distinct groupings are not equal")
	}
	if Equal(NewDistinct(xcol), NewDistinct(Column{"x", DateTime})) {
		t.Errorf("distinct groupings of different columns are equal")
	}
}
