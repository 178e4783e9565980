// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package observable

// Transaction runs body with event delivery suspended for this value.
// Every event produced by mutations inside the scope is buffered, and
// on exit the buffer is flushed as a single BulkChange. Multi-element
// mutations contribute their individual events to the buffer, so the
// flushed aggregate never contains a nested BulkChange.
//
// The buffered events are flushed even when body returns an error; the
// error is then returned to the caller. A body that performs no
// mutations emits nothing. Nested Transaction calls on the same value
// share the outermost buffer, producing one aggregate for the whole
// outermost scope.
//
// The scope only covers mutations made on this value; other values
// mutated by body deliver their events as usual.
func (v *Value) Transaction(body func() error) error {
	v.begin()
	defer v.end()
	return body()
}

func (v *Value) begin() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.depth++
}

// end closes one transaction scope, flushing the buffer when the
// outermost scope exits. Deferred from Transaction so the flush also
// happens when body fails or panics. A value disposed mid-transaction
// has already dropped its buffer, and delivers nothing.
func (v *Value) end() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.depth--
	if v.depth > 0 {
		return
	}
	buffered := v.buffer
	v.buffer = nil
	if v.disposed || len(buffered) == 0 {
		return
	}
	v.broadcast(BulkChange{Changes: buffered})
}
