// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package observable

// Put inserts or overwrites a map entry and emits a Put event. When
// the key was already present the event's Old field carries the value
// it had.
func (v *Value) Put(key, value any) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.disposed {
		return nil
	}
	if err := v.checkMode(mapMode); err != nil {
		return err
	}
	v.emitOne(v.putEntry(key, value))
	return nil
}

// PutAll inserts or overwrites the given entries and emits one
// BulkChange containing a Put event per entry. The entries are applied
// in no particular order. An empty set of entries emits nothing.
func (v *Value) PutAll(entries map[any]any) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.disposed {
		return nil
	}
	if err := v.checkMode(mapMode); err != nil {
		return err
	}
	changes := make([]Change, 0, len(entries))
	for key, value := range entries {
		changes = append(changes, v.putEntry(key, value))
	}
	v.emitBulk(changes)
	return nil
}

// putEntry applies one put and constructs its event. Caller holds v.mu.
func (v *Value) putEntry(key, value any) Change {
	change := MapChange{Type: Put, Key: key, New: value}
	if old, ok := v.entries[key]; ok {
		change.Old = old
	}
	v.entries[key] = value
	return change
}

// RemoveKey removes the entry for the given key, returning the removed
// value and whether the key was present. Removing an absent key emits
// nothing.
func (v *Value) RemoveKey(key any) (any, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.disposed {
		return nil, false, nil
	}
	if err := v.checkMode(mapMode); err != nil {
		return nil, false, err
	}
	old, ok := v.entries[key]
	if !ok {
		return nil, false, nil
	}
	delete(v.entries, key)
	v.emitOne(MapChange{Type: Removed, Key: key, Old: old})
	return old, true, nil
}

// Clear removes every entry, emitting one BulkChange with a Removed
// event per entry. Clearing an already empty map emits nothing.
func (v *Value) Clear() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.disposed {
		return nil
	}
	if err := v.checkMode(mapMode); err != nil {
		return err
	}
	changes := make([]Change, 0, len(v.entries))
	for key, old := range v.entries {
		changes = append(changes, MapChange{Type: Removed, Key: key, Old: old})
	}
	v.entries = make(map[any]any)
	v.emitBulk(changes)
	return nil
}
