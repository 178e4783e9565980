// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package observable_test

import (
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/observable"
)

type MapSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&MapSuite{})

func (s *MapSuite) TestPutNewKey(c *gc.C) {
	v := observable.New(map[any]any{}, nil)
	rec := record(v)
	defer rec.sub.Cancel()

	c.Assert(v.Put("a", 1), jc.ErrorIsNil)
	c.Assert(v.Get(), jc.DeepEquals, map[any]any{"a": 1})
	c.Assert(rec.next(c), jc.DeepEquals, observable.MapChange{
		Type: observable.Put,
		Key:  "a",
		New:  1,
	})
	rec.assertNoChange(c)
}

func (s *MapSuite) TestPutOverwriteCarriesOldValue(c *gc.C) {
	v := observable.New(map[any]any{"a": 1}, nil)
	rec := record(v)
	defer rec.sub.Cancel()

	c.Assert(v.Put("a", 2), jc.ErrorIsNil)
	c.Assert(rec.next(c), jc.DeepEquals, observable.MapChange{
		Type: observable.Put,
		Key:  "a",
		Old:  1,
		New:  2,
	})
}

func (s *MapSuite) TestPutAllDeliversOneBulkChange(c *gc.C) {
	v := observable.New(map[any]any{"a": 1}, nil)
	rec := record(v)
	defer rec.sub.Cancel()

	c.Assert(v.PutAll(map[any]any{"a": 10, "b": 2}), jc.ErrorIsNil)
	c.Assert(v.Get(), jc.DeepEquals, map[any]any{"a": 10, "b": 2})

	change := rec.next(c)
	bulk, ok := change.(observable.BulkChange)
	c.Assert(ok, jc.IsTrue, gc.Commentf("expected BulkChange, got %#v", change))
	// Entries are applied in no particular order.
	c.Assert(bulk.Changes, jc.SameContents, []observable.Change{
		observable.MapChange{Type: observable.Put, Key: "a", Old: 1, New: 10},
		observable.MapChange{Type: observable.Put, Key: "b", New: 2},
	})
	rec.assertNoChange(c)
}

func (s *MapSuite) TestPutAllNothingEmitsNothing(c *gc.C) {
	v := observable.New(map[any]any{}, nil)
	rec := record(v)
	defer rec.sub.Cancel()

	c.Assert(v.PutAll(nil), jc.ErrorIsNil)
	rec.assertNoChange(c)
}

func (s *MapSuite) TestRemoveKeyPresent(c *gc.C) {
	v := observable.New(map[any]any{"a": 1}, nil)
	rec := record(v)
	defer rec.sub.Cancel()

	old, found, err := v.RemoveKey("a")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(found, jc.IsTrue)
	c.Assert(old, gc.Equals, 1)
	c.Assert(v.Get(), jc.DeepEquals, map[any]any{})
	c.Assert(rec.next(c), jc.DeepEquals, observable.MapChange{
		Type: observable.Removed,
		Key:  "a",
		Old:  1,
	})
}

func (s *MapSuite) TestRemoveKeyAbsent(c *gc.C) {
	v := observable.New(map[any]any{"a": 1}, nil)
	rec := record(v)
	defer rec.sub.Cancel()

	old, found, err := v.RemoveKey("missing")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(found, jc.IsFalse)
	c.Assert(old, gc.IsNil)
	rec.assertNoChange(c)
}

func (s *MapSuite) TestClear(c *gc.C) {
	v := observable.New(map[any]any{"a": 1, "b": 2}, nil)
	rec := record(v)
	defer rec.sub.Cancel()

	c.Assert(v.Clear(), jc.ErrorIsNil)
	c.Assert(v.Get(), jc.DeepEquals, map[any]any{})

	change := rec.next(c)
	bulk, ok := change.(observable.BulkChange)
	c.Assert(ok, jc.IsTrue, gc.Commentf("expected BulkChange, got %#v", change))
	c.Assert(bulk.Changes, jc.SameContents, []observable.Change{
		observable.MapChange{Type: observable.Removed, Key: "a", Old: 1},
		observable.MapChange{Type: observable.Removed, Key: "b", Old: 2},
	})
	rec.assertNoChange(c)
}

func (s *MapSuite) TestClearEmptyEmitsNothing(c *gc.C) {
	v := observable.New(map[any]any{}, nil)
	rec := record(v)
	defer rec.sub.Cancel()

	c.Assert(v.Clear(), jc.ErrorIsNil)
	rec.assertNoChange(c)
}

func (s *MapSuite) TestMapOperationsOnListNotValid(c *gc.C) {
	v := observable.New([]any{}, nil)
	err := v.Put("k", 1)
	c.Check(err, gc.ErrorMatches, "map operation on list value not valid")
	c.Check(err, jc.Satisfies, errors.IsNotValid)
}
