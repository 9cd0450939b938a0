// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dimconfig holds the configuration of one chart dimension:
// which column it displays, how that column is grouped into ranges,
// and how those ranges are presented.
//
// Every mutation is announced on a changebus.Bus. A Dimension also
// subscribes to its own bus so that a column change resets the value
// filter and the default label.
package dimconfig

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/aclements/binconf/changebus"
	"github.com/aclements/binconf/grouping"
)

var (
	// ErrNotBinned is returned by SetBins if the grouping has no
	// bin count.
	ErrNotBinned = errors.New("grouping has no bin count")

	// ErrInvalidBounds is returned by SetBounds for NaN or inverted
	// bounds.
	ErrInvalidBounds = errors.New("invalid bounds")
)

// A Dimension is the configuration of one chart dimension.
//
// Its methods may be called from any goroutine, but subscribers of its
// bus run on whichever goroutine triggered delivery.
type Dimension struct {
	bus    *changebus.Bus
	handle changebus.Handle

	mu           sync.Mutex
	grouping     grouping.Grouping
	window       grouping.Window
	lower, upper float64
	label        string
	logScale     bool
}

// New returns a Dimension that groups values with g and announces
// changes on bus. Its bounds are unrestricted, its window is the
// identity, and its label is the name of g's column.
func New(bus *changebus.Bus, g grouping.Grouping) *Dimension {
	d := &Dimension{
		bus:      bus,
		grouping: g,
		lower:    math.Inf(-1),
		upper:    math.Inf(1),
		label:    g.Column().Name,
	}
	d.handle = bus.Subscribe(d, true)
	return d
}

// Close unsubscribes d from its bus. Setters still announce changes
// after Close, but d no longer reacts to them.
func (d *Dimension) Close() {
	d.bus.Unsubscribe(d.handle)
}

// Bus returns the bus d announces changes on.
func (d *Dimension) Bus() *changebus.Bus { return d.bus }

func (d *Dimension) Column() grouping.Column {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.grouping.Column()
}

func (d *Dimension) Grouping() grouping.Grouping {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.grouping
}

func (d *Dimension) Window() grouping.Window {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.window
}

// Bounds returns the value filter applied before grouping.
func (d *Dimension) Bounds() (lower, upper float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lower, d.upper
}

func (d *Dimension) Label() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.label
}

func (d *Dimension) LogScale() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.logScale
}

// Update calls fn with delivery on d's bus held, so that every change
// fn makes is delivered as a single batch when it returns. Updates may
// nest or run concurrently; the batch is delivered when the last one
// returns.
func (d *Dimension) Update(fn func()) {
	release := d.bus.Hold()
	defer release()
	fn()
}

// SetGrouping replaces the grouping. If g groups a different column,
// a ColumnChanged event precedes the GroupingReset.
func (d *Dimension) SetGrouping(g grouping.Grouping) {
	d.mu.Lock()
	old := d.grouping
	if grouping.Equal(old, g) {
		d.mu.Unlock()
		return
	}
	d.grouping = g
	d.mu.Unlock()

	d.Update(func() {
		if old.Column() != g.Column() {
			d.bus.Enqueue(changebus.ColumnChanged{Old: old.Column(), New: g.Column()})
		}
		d.bus.Enqueue(changebus.GroupingReset{Grouping: g})
	})
}

// SetBins changes the bin count of an EqualWidth or EqualFrequency
// grouping. It returns ErrNotBinned for other groupings.
func (d *Dimension) SetBins(n int) error {
	d.mu.Lock()
	var (
		g   grouping.Grouping
		err error
	)
	switch old := d.grouping.(type) {
	case *grouping.EqualWidth:
		if old.Bins() == n {
			d.mu.Unlock()
			return nil
		}
		g, err = old.WithBins(n)
	case *grouping.EqualFrequency:
		if old.Bins() == n {
			d.mu.Unlock()
			return nil
		}
		g, err = old.WithBins(n)
	default:
		err = fmt.Errorf("%T: %w", old, ErrNotBinned)
	}
	if err != nil {
		d.mu.Unlock()
		return err
	}
	d.grouping = g
	d.mu.Unlock()

	d.bus.Enqueue(changebus.GroupingReset{Grouping: g})
	return nil
}

// SetColumn switches d to column c, keeping the grouping strategy
// where c's kind allows it. Numeric strategies fall back to Distinct
// for Nominal columns, and EqualWidth bounds are re-derived from the
// data.
func (d *Dimension) SetColumn(c grouping.Column) {
	d.mu.Lock()
	old := d.grouping
	if old.Column() == c {
		d.mu.Unlock()
		return
	}
	g := rebind(old, c)
	d.grouping = g
	d.mu.Unlock()

	d.Update(func() {
		d.bus.Enqueue(changebus.ColumnChanged{Old: old.Column(), New: c})
		d.bus.Enqueue(changebus.GroupingReset{Grouping: g})
	})
}

func rebind(g grouping.Grouping, c grouping.Column) grouping.Grouping {
	switch g := g.(type) {
	case *grouping.EqualWidth:
		nan := math.NaN()
		if ew, err := grouping.NewEqualWidth(c, g.Bins(), nan, nan); err == nil {
			return ew.WithCategorical(g.Categorical())
		}
	case *grouping.EqualFrequency:
		if ef, err := grouping.NewEqualFrequency(c, g.Bins()); err == nil {
			return ef
		}
	}
	return grouping.NewDistinct(c)
}

// SetBounds sets the value filter. Either bound may be infinite.
func (d *Dimension) SetBounds(lower, upper float64) error {
	if math.IsNaN(lower) || math.IsNaN(upper) || lower > upper {
		return fmt.Errorf("%w [%v, %v]", ErrInvalidBounds, lower, upper)
	}
	d.mu.Lock()
	if d.lower == lower && d.upper == upper {
		d.mu.Unlock()
		return nil
	}
	d.lower, d.upper = lower, upper
	d.mu.Unlock()

	d.bus.Enqueue(changebus.BoundsChanged{Lower: lower, Upper: upper})
	return nil
}

func (d *Dimension) SetLabel(label string) {
	d.mu.Lock()
	if d.label == label {
		d.mu.Unlock()
		return
	}
	d.label = label
	d.mu.Unlock()

	d.bus.Enqueue(changebus.LabelChanged{Label: label})
}

func (d *Dimension) SetLogScale(log bool) {
	d.mu.Lock()
	if d.logScale == log {
		d.mu.Unlock()
		return
	}
	d.logScale = log
	d.mu.Unlock()

	d.bus.Enqueue(changebus.ScalingChanged{Log: log})
}

func (d *Dimension) SetWindow(w grouping.Window) {
	d.mu.Lock()
	if d.window == w {
		d.mu.Unlock()
		return
	}
	d.window = w
	d.mu.Unlock()

	d.bus.Enqueue(changebus.WindowChanged{Window: w})
}

// HandleChange resets the bounds and a default label when the column
// changes.
func (d *Dimension) HandleChange(e changebus.Event) bool {
	for _, e := range changebus.Flatten(e) {
		cc, ok := e.(changebus.ColumnChanged)
		if !ok {
			continue
		}
		d.mu.Lock()
		resetLabel := d.label == cc.Old.Name
		d.mu.Unlock()

		d.Update(func() {
			// Infinite bounds are always valid.
			_ = d.SetBounds(math.Inf(-1), math.Inf(1))
			if resetLabel {
				d.SetLabel(cc.New.Name)
			}
		})
	}
	return true
}

// Ranges groups the column of src and applies the window.
func (d *Dimension) Ranges(src grouping.Source) ([]grouping.Range, error) {
	d.mu.Lock()
	g, w, lo, hi := d.grouping, d.window, d.lower, d.upper
	d.mu.Unlock()

	rs, err := g.Model(src, lo, hi)
	if err != nil {
		return nil, err
	}
	return w.Apply(rs), nil
}

// Clone returns a copy of d announcing changes on bus.
func (d *Dimension) Clone(bus *changebus.Bus) *Dimension {
	d.mu.Lock()
	c := &Dimension{
		bus:      bus,
		grouping: d.grouping,
		window:   d.window,
		lower:    d.lower,
		upper:    d.upper,
		label:    d.label,
		logScale: d.logScale,
	}
	d.mu.Unlock()
	c.handle = bus.Subscribe(c, true)
	return c
}
