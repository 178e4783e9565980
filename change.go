// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package observable

// ChangeType represents the type of mutation recorded by a collection
// change event.
type ChangeType int

const (
	// Added represents an element appended to a list value.
	Added ChangeType = iota
	// Removed represents an element removed from a list value, or an
	// entry removed from a map value.
	Removed
	// Put represents an entry inserted into, or overwritten in, a map
	// value.
	Put
)

// String is used in log messages and test failures.
func (t ChangeType) String() string {
	switch t {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Put:
		return "put"
	}
	return "unknown"
}

// Change is implemented by every change event emitted by a Value. The
// set of implementations is fixed: ValueChange, ListChange, MapChange
// and BulkChange. Events are immutable snapshots of a single mutation;
// they are constructed by the mutation methods and never modified
// afterwards.
type Change interface {
	// changeEvent restricts implementations to this package, so code
	// switching on the concrete type can be exhaustive.
	changeEvent()
}

// ValueChange records the replacement of a scalar value. It is emitted
// on every Set call, whether or not the new value differs from the old
// one.
type ValueChange struct {
	Old any
	New any
}

// ListChange records a single list mutation. For Added events New holds
// the appended element and Index its position; for Removed events Old
// holds the removed element and Index its position prior to removal.
type ListChange struct {
	Type  ChangeType
	Index int
	Old   any
	New   any
}

// MapChange records a single map mutation. For Put events New holds the
// inserted value and Old the previous value for the key, if there was
// one; for Removed events Old holds the removed value.
type MapChange struct {
	Type ChangeType
	Key  any
	Old  any
	New  any
}

// BulkChange aggregates the events of a multi-element mutation or a
// transaction into a single notification. Changes holds the
// constituent events in the order they were produced; it is never
// empty, and never contains a nested BulkChange.
type BulkChange struct {
	Changes []Change
}

func (ValueChange) changeEvent() {}
func (ListChange) changeEvent()  {}
func (MapChange) changeEvent()   {}
func (BulkChange) changeEvent()  {}
