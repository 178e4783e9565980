// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package observable

import (
	"reflect"
)

// Add appends an element to a list value and emits a ListChange with
// the element's new index.
func (v *Value) Add(element any) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.disposed {
		return nil
	}
	if err := v.checkMode(listMode); err != nil {
		return err
	}
	v.list = append(v.list, element)
	v.emitOne(ListChange{Type: Added, Index: len(v.list) - 1, New: element})
	return nil
}

// AddAll appends the given elements in order and emits one BulkChange
// containing an Added event per element. Adding no elements emits
// nothing.
func (v *Value) AddAll(elements ...any) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.disposed {
		return nil
	}
	if err := v.checkMode(listMode); err != nil {
		return err
	}
	changes := make([]Change, 0, len(elements))
	for _, element := range elements {
		v.list = append(v.list, element)
		changes = append(changes, ListChange{
			Type:  Added,
			Index: len(v.list) - 1,
			New:   element,
		})
	}
	v.emitBulk(changes)
	return nil
}

// Remove removes the first element deeply equal to the given one,
// reporting whether anything was removed. On success a Removed event
// carries the element and the index it occupied; a missing element
// emits nothing.
func (v *Value) Remove(element any) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.disposed {
		return false, nil
	}
	if err := v.checkMode(listMode); err != nil {
		return false, err
	}
	for i, e := range v.list {
		if reflect.DeepEqual(e, element) {
			v.list = append(v.list[:i], v.list[i+1:]...)
			v.emitOne(ListChange{Type: Removed, Index: i, Old: e})
			return true, nil
		}
	}
	return false, nil
}

// ReplaceAll replaces the entire list contents, emitting one
// BulkChange that removes every current element at its original index,
// in order, then adds every new element. No positional diffing is
// attempted: replacing a 3 element list with 2 elements produces 5
// events.
func (v *Value) ReplaceAll(elements ...any) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.disposed {
		return nil
	}
	if err := v.checkMode(listMode); err != nil {
		return err
	}
	changes := make([]Change, 0, len(v.list)+len(elements))
	for i, e := range v.list {
		changes = append(changes, ListChange{Type: Removed, Index: i, Old: e})
	}
	for i, e := range elements {
		changes = append(changes, ListChange{Type: Added, Index: i, New: e})
	}
	v.list = append([]any(nil), elements...)
	v.emitBulk(changes)
	return nil
}
