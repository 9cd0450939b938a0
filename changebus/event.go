// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package changebus

import (
	"fmt"
	"strings"

	"github.com/aclements/binconf/grouping"
)

// An Event describes one configuration change. It is one of
// GroupingReset, BoundsChanged, LabelChanged, ScalingChanged,
// ColumnChanged, WindowChanged, or Batch.
type Event interface {
	fmt.Stringer
	isEvent()
}

// GroupingReset reports that the grouping was replaced or one of its
// parameters changed, so previously computed ranges are stale.
type GroupingReset struct {
	Grouping grouping.Grouping
}

// BoundsChanged reports a new value filter.
type BoundsChanged struct {
	Lower, Upper float64
}

// LabelChanged reports a new axis label.
type LabelChanged struct {
	Label string
}

// ScalingChanged reports that logarithmic scaling was toggled.
type ScalingChanged struct {
	Log bool
}

// ColumnChanged reports that the configuration now displays a
// different column.
type ColumnChanged struct {
	Old, New grouping.Column
}

// WindowChanged reports a new aggregation window.
type WindowChanged struct {
	Window grouping.Window
}

// A Batch is a sequence of events that were coalesced into one
// delivery, in the order they were enqueued. Batches never contain
// other batches.
type Batch struct {
	Events []Event
}

func (GroupingReset) isEvent()  {}
func (BoundsChanged) isEvent()  {}
func (LabelChanged) isEvent()   {}
func (ScalingChanged) isEvent() {}
func (ColumnChanged) isEvent()  {}
func (WindowChanged) isEvent()  {}
func (Batch) isEvent()          {}

func (e GroupingReset) String() string {
	if e.Grouping == nil {
		return "grouping reset"
	}
	return fmt.Sprintf("grouping reset (%T of %v)", e.Grouping, e.Grouping.Column())
}

func (e BoundsChanged) String() string {
	return fmt.Sprintf("bounds changed [%v, %v]", e.Lower, e.Upper)
}

func (e LabelChanged) String() string {
	return fmt.Sprintf("label changed %q", e.Label)
}

func (e ScalingChanged) String() string {
	return fmt.Sprintf("scaling changed log=%v", e.Log)
}

func (e ColumnChanged) String() string {
	return fmt.Sprintf("column changed %v -> %v", e.Old, e.New)
}

func (e WindowChanged) String() string {
	return fmt.Sprintf("window changed left=%d right=%d incomplete=%v",
		e.Window.GrabLeft, e.Window.GrabRight, e.Window.IncludeIncomplete)
}

func (e Batch) String() string {
	parts := make([]string, len(e.Events))
	for i, sub := range e.Events {
		parts[i] = sub.String()
	}
	return "batch{" + strings.Join(parts, "; ") + "}"
}

// Flatten returns the events carried by e: the contents of a Batch,
// or e itself.
func Flatten(e Event) []Event {
	if b, ok := e.(Batch); ok {
		return b.Events
	}
	return []Event{e}
}
