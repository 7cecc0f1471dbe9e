// Copyright 2026 The entt authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package component

import (
	"sync"

	"github.com/cjhowedev/entt/internal/xtype"
	"github.com/cjhowedev/entt/policy"
)

// Traits configures the storage behavior for a single component type T. Go
// has no template specialization, so where entt lets a user specialize
// component_traits<T>, New[T] instead consults a process-wide registry
// keyed by T's xtype.ID, populated by ConfigureTraits[T].
type Traits struct {
	// PageSize overrides the sparse page granularity. Zero means
	// sparse.DefaultPageSize.
	PageSize int

	// InPlaceDelete selects policy.InPlace over policy.SwapAndPop. Ignored
	// if Policy is explicitly set.
	InPlaceDelete bool

	// Policy, if non-zero (SwapAndPop is the zero value, so this only ever
	// overrides to InPlace or SwapOnly), takes precedence over
	// InPlaceDelete.
	Policy policy.Policy
}

var (
	traitsMu sync.RWMutex
	traits   = map[xtype.ID]Traits{}
)

// ConfigureTraits installs t as the default construction Traits for every
// future New[T] call; options passed to New override it field by field. Typically called
// once from an init function near a component type's definition.
func ConfigureTraits[T any](t Traits) {
	traitsMu.Lock()
	traits[xtype.Of[T]()] = t
	traitsMu.Unlock()
}

func traitsFor[T any]() (Traits, bool) {
	traitsMu.RLock()
	t, ok := traits[xtype.Of[T]()]
	traitsMu.RUnlock()
	return t, ok
}

func (t Traits) resolvePolicy() policy.Policy {
	if t.Policy != policy.SwapAndPop {
		return t.Policy
	}
	if t.InPlaceDelete {
		return policy.InPlace
	}
	return policy.SwapAndPop
}
