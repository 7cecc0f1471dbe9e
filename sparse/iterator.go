// Copyright 2026 The entt authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sparse

import (
	"github.com/cjhowedev/entt"
	"github.com/cjhowedev/entt/entity"
)

// Iterator walks a Set's packed array from last (Begin) to first (End), the
// reverse order the set's own Each uses. It is a plain position handle: a
// Set's packed positions are not relocated by Reserve, but erase, Compact,
// and the sort operations move entities to other positions, so after any of
// them an outstanding Iterator may refer to a different entity.
type Iterator struct {
	set *Set
	pos int
}

// Begin returns an Iterator at the last packed position (size()-1), or an
// invalid Iterator if the set is empty.
func (s *Set) Begin() Iterator { return Iterator{set: s, pos: len(s.packed) - 1} }

// End returns the sentinel Iterator one before the first packed position.
func (s *Set) End() Iterator { return Iterator{set: s, pos: -1} }

// Iter returns an Iterator positioned at pos.
func (s *Set) Iter(pos int) Iterator { return Iterator{set: s, pos: pos} }

// Valid reports whether the iterator currently refers to a packed slot.
func (it Iterator) Valid() bool {
	return it.set != nil && it.pos >= 0 && it.pos < len(it.set.packed)
}

// Index returns the iterator's packed position.
func (it Iterator) Index() int { return it.pos }

// Entity dereferences the iterator. Precondition: Valid().
func (it Iterator) Entity() entity.ID {
	if !it.Valid() {
		var null entity.ID
		if it.set != nil {
			null = it.set.family.Null()
		}
		entt.Precondition("sparse.Iterator.Entity", null, "dereference out of range")
	}
	return it.set.packed[it.pos]
}

// Next moves the iterator one step toward End (i.e. decrements position,
// matching the set's last-to-first traversal order).
func (it *Iterator) Next() { it.pos-- }

// Prev moves the iterator one step toward Begin.
func (it *Iterator) Prev() { it.pos++ }
