// Copyright 2026 The entt authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sparse

import (
	"testing"

	"github.com/cjhowedev/entt/entity"
	"github.com/cjhowedev/entt/policy"
	"github.com/google/go-cmp/cmp"
)

func packedOf(s *Set) []entity.ID {
	out := make([]entity.ID, s.Len())
	for i := range out {
		out[i] = s.Packed(i)
	}
	return out
}

// S1: basic push/erase on swap_and_pop.
func TestSwapAndPopBasicPushErase(t *testing.T) {
	s := New()
	e3, e42, e9 := entity.ID(3), entity.ID(42), entity.ID(9)
	s.Push(e3)
	s.Push(e42)
	s.Push(e9)

	if diff := cmp.Diff([]entity.ID{e3, e42, e9}, packedOf(s)); diff != "" {
		t.Fatalf("packed order mismatch (-want +got):\n%s", diff)
	}

	s.Erase(e42)
	if diff := cmp.Diff([]entity.ID{e3, e9}, packedOf(s)); diff != "" {
		t.Fatalf("packed order after erase mismatch (-want +got):\n%s", diff)
	}
	if got := s.Index(e9); got != 1 {
		t.Errorf("Index(e9) = %d, want 1", got)
	}
	if !s.Contiguous() {
		t.Error("swap_and_pop set should always be contiguous")
	}
}

// S2: in_place delete keeps indices and threads a free list.
func TestInPlaceKeepsIndices(t *testing.T) {
	s := New(WithPolicy(policy.InPlace))
	e3, e42, e9 := entity.ID(3), entity.ID(42), entity.ID(9)
	s.Push(e3)
	s.Push(e42)
	s.Push(e9)

	s.Erase(e42)
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 (in_place counts tombstones)", s.Len())
	}
	if got := s.FreeList(); got != 1 {
		t.Errorf("FreeList() = %d, want 1", got)
	}
	if !s.family.IsTombstone(s.Packed(1)) {
		t.Error("at(1) should be a tombstone after erase")
	}

	s.Push(entity.ID(0))
	if got := s.Index(entity.ID(0)); got != 1 {
		t.Errorf("push after erase should reuse position 1, got %d", got)
	}
	if got := s.FreeList(); got != s.family.EntityMask() {
		t.Errorf("FreeList() after refill = %d, want entity mask sentinel", got)
	}
}

// S3: swap_only versions the erased entity instead of destroying it.
func TestSwapOnlyVersioning(t *testing.T) {
	s := New(WithPolicy(policy.SwapOnly))
	e3, e42 := entity.ID(3), entity.ID(42)
	s.Push(e3)
	s.Push(e42)

	s.Erase(e3)
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if s.FreeList() != 1 {
		t.Errorf("head = %d, want 1", s.FreeList())
	}
	if s.Contains(e3) {
		t.Error("original e3 should no longer be contained")
	}
	bumped := s.family.Next(e3)
	if !s.Contains(bumped) {
		t.Error("version-bumped e3 should be contained")
	}
	if got := s.Index(bumped); got != 1 {
		t.Errorf("Index(bumped) = %d, want 1", got)
	}
}

// S4: sort_as reorders rhs to match lhs's relative order.
func TestSortAsRespectsOtherOrder(t *testing.T) {
	lhs := New()
	for _, e := range []entity.ID{5, 4, 3, 2, 1} {
		lhs.Push(e)
	}
	// lhs iteration (last-to-first) is [1,2,3,4,5].

	rhs := New()
	for _, e := range []entity.ID{6, 5, 4, 3, 2, 1} {
		rhs.Push(e)
	}
	// rhs packed is [6,5,4,3,2,1]; iteration order is [1,2,3,4,5,6], which
	// already respects lhs.

	rhs.SortAs(lhs)

	var order []entity.ID
	rhs.Each(func(e entity.ID) bool {
		order = append(order, e)
		return false
	})
	if diff := cmp.Diff([]entity.ID{1, 2, 3, 4, 5, 6}, order); diff != "" {
		t.Fatalf("iteration order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortAsReordersDivergentRHS(t *testing.T) {
	lhs := New()
	for _, e := range []entity.ID{5, 4, 3, 2, 1} {
		lhs.Push(e)
	}

	rhs := New()
	for _, e := range []entity.ID{1, 2, 3, 4, 5, 6} {
		// packed = [1,2,3,4,5,6], iteration order [6,5,4,3,2,1]
		rhs.Push(e)
	}

	rhs.SortAs(lhs)

	var order []entity.ID
	rhs.Each(func(e entity.ID) bool {
		order = append(order, e)
		return false
	})
	// Shared elements now follow lhs's iteration order [1,2,3,4,5]; the
	// unique 6 is packed before them, so it is visited last.
	if diff := cmp.Diff([]entity.ID{1, 2, 3, 4, 5, 6}, order); diff != "" {
		t.Fatalf("iteration order mismatch (-want +got):\n%s", diff)
	}
}

func TestMembershipRoundTrip(t *testing.T) {
	s := New()
	e := entity.ID(7)
	s.Push(e)
	if !s.Contains(e) {
		t.Fatal("pushed entity should be contained")
	}
	if got := s.Packed(s.Index(e)); got != e {
		t.Errorf("packed[index(e)] = %v, want %v", got, e)
	}
}

func TestVersionIsolation(t *testing.T) {
	s := New()
	base := s.family.Construct(entity.ID(3), entity.ID(1))
	s.Push(base)

	other := s.family.Construct(entity.ID(3), entity.ID(2))
	if s.Contains(other) {
		t.Error("a different version of the same index must not be reported contained")
	}
}

func TestNextVersionNeverProducesTombstone(t *testing.T) {
	f := entity.NewFamily(4, 4)
	v := entity.ID(0)
	for i := 0; i < 64; i++ {
		v = f.ToVersion(f.Next(f.Construct(0, v)))
		if v == f.VersionMask() {
			t.Fatalf("next() produced the tombstone version after %d iterations", i)
		}
	}
}

func TestPushPrecondition(t *testing.T) {
	s := New()
	e := entity.ID(1)
	s.Push(e)

	defer func() {
		if recover() == nil {
			t.Error("expected Push of an already-contained entity to panic")
		}
	}()
	s.Push(e)
}

func TestErasePrecondition(t *testing.T) {
	s := New()
	defer func() {
		if recover() == nil {
			t.Error("expected Erase of a non-contained entity to panic")
		}
	}()
	s.Erase(entity.ID(1))
}

func TestRemoveToleratesAbsence(t *testing.T) {
	s := New()
	if s.Remove(entity.ID(1)) {
		t.Error("Remove of an absent entity should report false")
	}
}

func TestReserveStability(t *testing.T) {
	s := New()
	s.Push(entity.ID(1))
	s.Reserve(1024)
	if !s.Contains(entity.ID(1)) {
		t.Fatal("reserve must not disturb already-inserted entities")
	}
	if got := s.Index(entity.ID(1)); got != 0 {
		t.Errorf("Index after reserve = %d, want 0", got)
	}
}

func TestPagedSparseShrinkToFit(t *testing.T) {
	s := New(WithPageSize(4))
	e := entity.ID(10)
	s.Push(e)
	if s.Extent() < 11 {
		t.Fatalf("Extent() = %d, want at least 11", s.Extent())
	}
	s.Clear()
	s.ShrinkToFit()
	if s.Extent() != 0 {
		t.Errorf("Extent() after clear+shrink = %d, want 0", s.Extent())
	}
}

// Compact must preserve the relative order of surviving elements, not just
// remove tombstones: packed=[A,TOMB,B,TOMB,C] (gaps at two non-adjacent
// positions) must compact to [A,B,C], never [A,C,B].
func TestCompactPreservesOrder(t *testing.T) {
	s := New(WithPolicy(policy.InPlace))
	a, b, c, x, y := entity.ID(1), entity.ID(2), entity.ID(3), entity.ID(4), entity.ID(5)
	s.Push(a)
	s.Push(x)
	s.Push(b)
	s.Push(y)
	s.Push(c)

	s.Erase(x)
	s.Erase(y)
	if diff := cmp.Diff([]entity.ID{a, b, c}, []entity.ID{s.Packed(0), s.Packed(2), s.Packed(4)}); diff != "" {
		t.Fatalf("unexpected packed layout before compact (-want +got):\n%s", diff)
	}

	s.Compact()
	if diff := cmp.Diff([]entity.ID{a, b, c}, packedOf(s)); diff != "" {
		t.Fatalf("Compact must preserve relative order (-want +got):\n%s", diff)
	}
	if !s.Contiguous() {
		t.Error("Contiguous() should be true after Compact")
	}
	for _, e := range []entity.ID{a, b, c} {
		if !s.Contains(e) {
			t.Errorf("Contains(%v) = false after Compact, want true", e)
		}
	}
}

func TestSortNSortsOnlyThePrefix(t *testing.T) {
	s := New()
	for _, e := range []entity.ID{3, 1, 2, 9, 8} {
		s.Push(e)
	}
	// packed = [3,1,2,9,8]; sort the first three ascending by raw id.
	s.SortN(3, func(a, b entity.ID) bool { return a < b })
	if diff := cmp.Diff([]entity.ID{1, 2, 3, 9, 8}, packedOf(s)); diff != "" {
		t.Fatalf("SortN mismatch (-want +got):\n%s", diff)
	}
}

func TestBindRoundTrip(t *testing.T) {
	s := New()
	if s.Bound() != nil {
		t.Fatal("Bound() should start nil")
	}
	mixin := struct{ name string }{name: "reactive"}
	s.Bind(mixin)
	if s.Bound() != mixin {
		t.Errorf("Bound() = %v, want %v", s.Bound(), mixin)
	}
}

func TestBitmapMatchesContains(t *testing.T) {
	s := New(WithPolicy(policy.InPlace))
	live := []entity.ID{1, 2, 3, 4}
	for _, e := range live {
		s.Push(e)
	}
	s.Erase(entity.ID(2))

	bm := s.Bitmap()
	if got, want := bm.GetCardinality(), uint64(3); got != want {
		t.Fatalf("Bitmap cardinality = %d, want %d", got, want)
	}
	for _, e := range []entity.ID{1, 3, 4} {
		if !bm.Contains(uint32(e)) {
			t.Errorf("Bitmap should contain entity index %d", e)
		}
	}
	if bm.Contains(uint32(2)) {
		t.Error("Bitmap should not contain the erased entity's index")
	}
}

func TestSwapElements(t *testing.T) {
	s := New()
	a, b := entity.ID(1), entity.ID(2)
	s.Push(a)
	s.Push(b)
	s.SwapElements(a, b)
	if s.Index(a) != 1 || s.Index(b) != 0 {
		t.Errorf("SwapElements did not exchange positions: index(a)=%d index(b)=%d", s.Index(a), s.Index(b))
	}
}
