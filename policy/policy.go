// Copyright 2026 The entt authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package policy defines the deletion policies shared by the sparse set and
// the typed component storage built on top of it.
package policy

// Policy selects how a sparse set (and the storage built on it) behaves when
// an element is erased.
type Policy int

const (
	// SwapAndPop swaps the erased element with the last packed element and
	// pops it, keeping the packed array contiguous at all times. This is
	// the default policy.
	SwapAndPop Policy = iota

	// InPlace replaces the erased slot with a tombstone threaded onto an
	// intrusive free list, so existing packed positions of other elements
	// never move. A later Compact call eliminates tombstones.
	InPlace

	// SwapOnly defers destruction: the erased element is swapped into a
	// "reserved" region at the tail of the packed array and its stored
	// version is bumped, so the old identifier no longer matches but the
	// slot (and, for typed storage, the component) remains physically
	// present for later reuse without re-construction.
	SwapOnly
)

// String returns a lower_snake_case name matching the spec's vocabulary.
func (p Policy) String() string {
	switch p {
	case SwapAndPop:
		return "swap_and_pop"
	case InPlace:
		return "in_place"
	case SwapOnly:
		return "swap_only"
	default:
		return "unknown"
	}
}
