// Copyright 2026 The entt authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package xtype implements the stable type identifier returned by
// component.Storage[T].Type(): a hash of the element's reflected type name
// folded together with a monotonically assigned, process-local type index,
// so two storages instantiated for the same T agree on Type() while
// storages for different types, empty structs included, disagree.
package xtype

import (
	"reflect"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ID is a stable, per-process identifier for an element type.
type ID uint64

var (
	mu      sync.Mutex
	indices = map[string]uint32{}
	next    uint32
)

// Of returns the type identifier for T, keyed by T's reflected type name
// (e.g. "xtype.probeA"), so Of[T]() equals Named of that same name.
func Of[T any]() ID {
	var zero T
	name := reflect.TypeOf(&zero).Elem().String()
	return named(name)
}

// Named returns the type identifier for an explicit name, for a caller that
// has no T to reflect on.
func Named(name string) ID {
	return named(name)
}

func named(name string) ID {
	mu.Lock()
	idx, ok := indices[name]
	if !ok {
		idx = next
		next++
		indices[name] = idx
	}
	mu.Unlock()

	h := xxhash.Sum64String(name)
	// Fold the monotonic index into the low bits: two names that happen to
	// collide under xxhash still disagree on idx (registration order), and
	// the common case (no collision) keeps the hash's full entropy in the
	// high bits.
	return ID(h) ^ ID(idx)
}
