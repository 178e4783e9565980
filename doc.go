// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package observable provides a mutable value holder that reports
// every mutation to its subscribers as a structured change event.
//
// A Value holds a scalar, an ordered list, or a key to value map; the
// mode is fixed when the value is created, inferred from the shape of
// the initial value. Mutations go through typed methods (Set for
// scalars; Add, AddAll, Remove and ReplaceAll for lists; Put, PutAll,
// RemoveKey and Clear for maps) and each produces an immutable Change
// event: a ValueChange, ListChange or MapChange carrying the old and
// new values involved, or a BulkChange aggregating the events of a
// multi-element mutation.
//
// Handlers are registered with Listen and receive events
// asynchronously: a mutation returns to its caller before any handler
// runs, and each subscription sees the events of a value in exactly
// the order the mutations produced them. A panicking handler is logged
// and isolated; it affects neither other subscriptions nor later
// events.
//
// Several mutations can be collapsed into a single notification with
// Transaction:
//
//	v := observable.New([]any{}, nil)
//	sub := v.Listen(func(change observable.Change) {
//		// Called once, with a BulkChange holding three events.
//	})
//	defer sub.Cancel()
//	_ = v.Transaction(func() error {
//		_ = v.Add(1)
//		_ = v.Add(2)
//		_ = v.Add(3)
//		return nil
//	})
//
// Dispose retires a value: its subscriptions are cancelled and any
// further mutation is accepted but does nothing, silently. This makes
// teardown ordering between a value and the code mutating it a
// non-issue.
package observable
