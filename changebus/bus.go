// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package changebus delivers configuration change events to
// subscribers one at a time.
//
// A Bus holds at most one pending event. Events enqueued while another
// is pending are coalesced into a single Batch, so a burst of
// mutations produces one delivery. A delivery is in flight from the
// moment the first subscriber is called until every subscriber has
// acknowledged the event, either by returning true from HandleChange
// or by later calling Bus.Acknowledge. No other delivery starts while
// one is in flight; events enqueued meanwhile are delivered when it
// completes.
//
// Subscribers are called on the goroutine that triggered delivery and
// may call back into the Bus. Prioritized subscribers see each event
// before default subscribers; within each group subscribers are called
// in the order they subscribed.
package changebus

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// A Subscriber receives delivered events.
type Subscriber interface {
	// HandleChange is called with each delivered event. It returns
	// true if it is done with e. Otherwise it must call
	// Bus.Acknowledge exactly once when it is done.
	HandleChange(e Event) bool
}

// SubscriberFunc adapts a function to the Subscriber interface.
type SubscriberFunc func(e Event) bool

func (f SubscriberFunc) HandleChange(e Event) bool {
	return f(e)
}

// A Handle identifies a subscription. The zero Handle identifies no
// subscription.
type Handle struct {
	id          uint64
	prioritized bool
}

type slot struct {
	id  uint64
	sub Subscriber // nil once unsubscribed
}

// A Bus delivers events to subscribers. The zero Bus is not usable;
// call New.
type Bus struct {
	id     uuid.UUID
	logger *slog.Logger

	mu         sync.Mutex
	enabled    bool
	holds      int // outstanding Hold calls
	pending    Event
	inFlight   Event
	acks       int  // outstanding acknowledgements for inFlight
	delivering bool // subscribers of inFlight are being called
	nextID     uint64

	prioritized, others []*slot
}

// New returns a Bus with processing enabled.
func New() *Bus {
	return &Bus{id: uuid.New(), enabled: true}
}

// ID returns the unique ID of b. It identifies b in log records.
func (b *Bus) ID() uuid.UUID {
	return b.id
}

// SetLogger sets the logger for debug traces of b's activity. A nil
// logger disables tracing.
func (b *Bus) SetLogger(l *slog.Logger) {
	b.mu.Lock()
	b.logger = l
	b.mu.Unlock()
}

func (b *Bus) debug(msg string, args ...any) {
	if b.logger == nil {
		return
	}
	b.logger.Debug(msg, append([]any{"bus", b.id.String()}, args...)...)
}

// Subscribe registers sub and returns a handle for Unsubscribe.
// Subscribers registered during a delivery do not receive the event
// in flight.
func (b *Bus) Subscribe(sub Subscriber, prioritized bool) Handle {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	s := &slot{id: b.nextID, sub: sub}
	if prioritized {
		b.prioritized = append(b.prioritized, s)
	} else {
		b.others = append(b.others, s)
	}
	b.debug("subscribe", "id", s.id, "prioritized", prioritized)
	return Handle{s.id, prioritized}
}

// Unsubscribe removes the subscription identified by h. It reports
// whether h was subscribed. A subscriber removed during a delivery is
// not called for the rest of that delivery.
func (b *Bus) Unsubscribe(h Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	slots := b.others
	if h.prioritized {
		slots = b.prioritized
	}
	for _, s := range slots {
		if s.id == h.id && s.sub != nil {
			// The slot is dropped on the next delivery.
			s.sub = nil
			b.debug("unsubscribe", "id", h.id)
			return true
		}
	}
	return false
}

// Enqueue queues e for delivery and, if processing is enabled,
// delivers it unless a delivery is already in flight. If an event is
// already pending, e is coalesced with it into a Batch.
func (b *Bus) Enqueue(e Event) {
	if e == nil {
		return
	}
	events := Flatten(e)
	if len(events) == 0 {
		return
	}
	b.mu.Lock()
	switch p := b.pending.(type) {
	case nil:
		if _, ok := e.(Batch); ok {
			e = Batch{Events: append([]Event(nil), events...)}
		}
		b.pending = e
	case Batch:
		b.pending = Batch{Events: append(p.Events, events...)}
	default:
		b.pending = Batch{Events: append([]Event{p}, events...)}
	}
	b.debug("enqueue", "event", e, "pending", b.pending)
	b.mu.Unlock()

	b.deliver()
}

// SetProcessingEnabled enables or disables delivery. While disabled,
// enqueued events accumulate into one pending Batch; enabling delivers
// it. Disabling does not affect a delivery already in flight.
func (b *Bus) SetProcessingEnabled(enabled bool) {
	b.mu.Lock()
	b.enabled = enabled
	b.debug("processing", "enabled", enabled)
	b.mu.Unlock()

	if enabled {
		b.deliver()
	}
}

// Hold suspends delivery until the matching call to the function it
// returns. Holds nest and may be taken from several goroutines; the
// pending Batch is delivered when the last one is released, provided
// processing is enabled. Hold does not change ProcessingEnabled.
func (b *Bus) Hold() (release func()) {
	b.mu.Lock()
	b.holds++
	b.debug("hold", "holds", b.holds)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			b.holds--
			b.debug("release", "holds", b.holds)
			b.mu.Unlock()
			b.deliver()
		})
	}
}

// ProcessingEnabled reports whether delivery is enabled.
func (b *Bus) ProcessingEnabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enabled
}

// Acknowledge reports that a subscriber that returned false from
// HandleChange is done with the event in flight. When the last
// outstanding acknowledgement arrives, the delivery completes and any
// pending event is delivered.
func (b *Bus) Acknowledge() {
	b.mu.Lock()
	if b.inFlight == nil {
		b.debug("acknowledge with nothing in flight")
		b.mu.Unlock()
		return
	}
	b.acks--
	if b.acks > 0 || b.delivering {
		b.mu.Unlock()
		return
	}
	b.completeLocked()
	b.mu.Unlock()

	b.deliver()
}

// Pending returns the event waiting for delivery, or nil.
func (b *Bus) Pending() Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending
}

// InFlight returns the event being delivered, or nil.
func (b *Bus) InFlight() Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inFlight
}

// deliver delivers pending events until there is none, processing is
// disabled or held, or a delivery is left waiting for acknowledgements.
//
// b.mu is released while subscribers run. If a subscriber panics the
// delivery never completes.
func (b *Bus) deliver() {
	b.mu.Lock()
	for b.enabled && b.holds == 0 && b.inFlight == nil && b.pending != nil {
		e := b.pending
		b.pending = nil
		b.inFlight = e
		b.delivering = true
		b.debug("deliver", "event", e)

		for _, s := range b.snapshotLocked() {
			sub := s.sub
			if sub == nil {
				continue
			}
			b.acks++
			b.mu.Unlock()
			done := sub.HandleChange(e)
			b.mu.Lock()
			if done {
				b.acks--
			}
		}

		b.delivering = false
		if b.acks > 0 {
			b.debug("awaiting acknowledgements", "outstanding", b.acks)
			break
		}
		b.completeLocked()
	}
	b.mu.Unlock()
}

func (b *Bus) completeLocked() {
	b.debug("delivered", "event", b.inFlight)
	b.inFlight = nil
	b.acks = 0
}

// snapshotLocked drops unsubscribed slots and returns the subscribers
// in delivery order.
func (b *Bus) snapshotLocked() []*slot {
	b.prioritized = prune(b.prioritized)
	b.others = prune(b.others)
	subs := make([]*slot, 0, len(b.prioritized)+len(b.others))
	subs = append(subs, b.prioritized...)
	return append(subs, b.others...)
}

func prune(slots []*slot) []*slot {
	live := slots[:0]
	for _, s := range slots {
		if s.sub != nil {
			live = append(live, s)
		}
	}
	for i := len(live); i < len(slots); i++ {
		slots[i] = nil
	}
	return live
}
