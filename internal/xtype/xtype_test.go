// Copyright 2026 The entt authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package xtype

import "testing"

type probeA struct{ x int }
type probeB struct{ y string }

func TestOfIsStableForSameType(t *testing.T) {
	if Of[probeA]() != Of[probeA]() {
		t.Error("Of[T] must return the same id across calls for the same T")
	}
}

func TestOfDistinguishesTypes(t *testing.T) {
	if Of[probeA]() == Of[probeB]() {
		t.Error("Of[T] must distinguish different element types")
	}
	if Of[int]() == Of[probeA]() {
		t.Error("Of[T] must distinguish a builtin type from a struct type")
	}
}

func TestOfDistinguishesEmptyFromInt(t *testing.T) {
	type empty struct{}
	if Of[empty]() == Of[int]() {
		t.Error("an empty-struct element type must hash differently from any other type")
	}
}

func TestNamedIsStableAndDistinct(t *testing.T) {
	a := Named("entt.void")
	b := Named("entt.void")
	if a != b {
		t.Error("Named must return the same id for the same name across calls")
	}
	if Named("entt.void") == Named("entt.other") {
		t.Error("Named must distinguish different names")
	}
}

func TestNamedAndOfShareTheSameNamespace(t *testing.T) {
	// A type whose reflected name collides with a name registered via
	// Named should still resolve consistently: both routes fold in the
	// same monotonic registration index for a given name.
	name := "xtype.probeA"
	first := Named(name)
	second := Of[probeA]()
	if first != second {
		t.Error("Of[probeA] and Named of its reflected name must resolve to the same id")
	}
}
