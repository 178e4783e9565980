// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package observable

import (
	"reflect"
	"sync"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/worker/v4"
)

var logger = loggo.GetLogger("observable")

var _ worker.Worker = (*Subscription)(nil)

type mode int

const (
	scalarMode mode = iota
	listMode
	mapMode
)

func (m mode) String() string {
	switch m {
	case listMode:
		return "list"
	case mapMode:
		return "map"
	}
	return "scalar"
}

// Config holds the dependencies of a Value that callers may want to
// override. A nil Config, or any nil field, selects the default.
type Config struct {
	// Clock is used to time handler callbacks so that slow handlers
	// can be logged. Defaults to clock.WallClock.
	Clock clock.Clock
}

// Value is an observable holder of a single mutable value: a scalar, an
// ordered list of elements, or a map of comparable keys to values.
// Every mutation is reported to the subscriptions registered with
// Listen as a typed Change event, delivered asynchronously and in
// mutation order.
//
// The value's mode is fixed at construction from the shape of the
// initial value and never changes. Mutation methods belonging to a
// different mode fail with a NotValid error.
//
// The mutation API is not serialised against concurrent mutators; as
// with an ordinary Go value, writers need their own coordination.
// Listen and Cancel may be called from any goroutine, including from
// within a handler callback.
type Value struct {
	clock clock.Clock

	mu       sync.Mutex
	mode     mode
	scalar   any
	list     []any
	entries  map[any]any
	subs     []*Subscription
	nextID   int
	buffer   []Change
	depth    int
	disposed bool
}

// New creates an observable Value holding the given initial value. The
// mode is inferred from its shape: a slice or array makes a list value,
// a map makes a map value, and anything else (including nil) makes a
// scalar value. Collection contents are copied, so the caller's slice
// or map is not aliased.
//
// Map keys must be comparable, as for any Go map. List elements may be
// of any type; Remove matches them with reflect.DeepEqual.
func New(initial any, config *Config) *Value {
	v := &Value{clock: clock.WallClock}
	if config != nil && config.Clock != nil {
		v.clock = config.Clock
	}
	switch r := reflect.ValueOf(initial); r.Kind() {
	case reflect.Slice, reflect.Array:
		v.mode = listMode
		v.list = make([]any, r.Len())
		for i := 0; i < r.Len(); i++ {
			v.list[i] = r.Index(i).Interface()
		}
	case reflect.Map:
		v.mode = mapMode
		v.entries = make(map[any]any, r.Len())
		iter := r.MapRange()
		for iter.Next() {
			v.entries[iter.Key().Interface()] = iter.Value().Interface()
		}
	default:
		v.mode = scalarMode
		v.scalar = initial
	}
	return v
}

// Listen registers a handler to be called for every subsequent change
// event. Each registered subscription receives every event
// independently of the others. The handler runs on a goroutine owned
// by the returned subscription, never inline with the mutating call.
//
// Listening on a disposed value is allowed but inert: the returned
// subscription is already retired and will never receive an event.
func (v *Value) Listen(handler func(Change)) *Subscription {
	v.mu.Lock()
	v.nextID++
	sub := newSubscription(v, v.nextID, handler)
	if v.disposed {
		v.mu.Unlock()
		sub.tomb.Kill(nil)
		return sub
	}
	v.subs = append(v.subs, sub)
	v.mu.Unlock()
	return sub
}

// Get returns the current value. For list and map values the returned
// collection is a copy; mutating it does not affect the Value.
func (v *Value) Get() any {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch v.mode {
	case listMode:
		return append([]any(nil), v.list...)
	case mapMode:
		entries := make(map[any]any, len(v.entries))
		for k, val := range v.entries {
			entries[k] = val
		}
		return entries
	}
	return v.scalar
}

// Set replaces a scalar value and emits a ValueChange carrying the old
// and new values. Emission is unconditional: setting a value equal to
// the current one still notifies. On a disposed value Set does
// nothing.
func (v *Value) Set(value any) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.disposed {
		return nil
	}
	if err := v.checkMode(scalarMode); err != nil {
		return err
	}
	old := v.scalar
	v.scalar = value
	v.emitOne(ValueChange{Old: old, New: value})
	return nil
}

// Disposed reports whether Dispose has been called.
func (v *Value) Disposed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.disposed
}

// Dispose retires the value. All live subscriptions are cancelled, any
// open transaction buffer is discarded undelivered, and every
// subsequent mutation is a silent no-op that leaves the value as it
// was at dispose time. Dispose is idempotent, and disposal is one-way.
func (v *Value) Dispose() {
	v.mu.Lock()
	if v.disposed {
		v.mu.Unlock()
		return
	}
	v.disposed = true
	subs := v.subs
	v.subs = nil
	v.buffer = nil
	v.mu.Unlock()

	for _, sub := range subs {
		sub.tomb.Kill(nil)
	}
}

// cancel removes the subscription from the registry. Events already
// queued to the subscription are abandoned when its loop stops.
func (v *Value) cancel(sub *Subscription) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, s := range v.subs {
		if s == sub {
			v.subs = append(v.subs[:i], v.subs[i+1:]...)
			return
		}
	}
}

// checkMode is called at the top of every mutation with v.mu held.
func (v *Value) checkMode(want mode) error {
	if v.mode != want {
		return errors.NotValidf("%s operation on %s value", want, v.mode)
	}
	return nil
}

// emitOne routes a single-mutation event: into the transaction buffer
// if one is open, otherwise straight to delivery. Caller holds v.mu.
func (v *Value) emitOne(change Change) {
	if v.depth > 0 {
		v.buffer = append(v.buffer, change)
		return
	}
	v.broadcast(change)
}

// emitBulk routes the events of a multi-element mutation. Outside a
// transaction they are delivered as a single BulkChange; inside one
// they are flattened into the buffer so the eventual aggregate never
// nests. An empty set emits nothing. Caller holds v.mu.
func (v *Value) emitBulk(changes []Change) {
	if len(changes) == 0 {
		return
	}
	if v.depth > 0 {
		v.buffer = append(v.buffer, changes...)
		return
	}
	v.broadcast(BulkChange{Changes: changes})
}

// broadcast queues one event to every active subscription. Queueing
// never blocks and never runs a handler, so the mutating call returns
// before any subscriber observes the event. Caller holds v.mu.
func (v *Value) broadcast(change Change) {
	logger.Tracef("broadcasting %T to %d subscription(s)", change, len(v.subs))
	for _, sub := range v.subs {
		sub.notify(change)
	}
}
