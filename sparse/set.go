// Copyright 2026 The entt authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package sparse implements the type-erased sparse set: a dense packed
// array of entities backed by a paged sparse index, supporting O(1)
// membership, insertion, and removal under any of three deletion policies.
// component.Storage[T] embeds a Set and layers a parallel paged component
// array on top of it.
package sparse

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/cjhowedev/entt"
	"github.com/cjhowedev/entt/entity"
	"github.com/cjhowedev/entt/internal/diag"
	"github.com/cjhowedev/entt/metrics"
	"github.com/cjhowedev/entt/policy"
	"github.com/sirupsen/logrus"
)

// DefaultPageSize is the sparse page granularity used when no WithPageSize
// option is supplied, matching the spec's default.
const DefaultPageSize = 4096

// Base documents the contract a registry (out of scope for this module)
// would use to treat any Set or Storage[T] uniformly, per the
// "type-erased base" described in the spec's external-interfaces section.
// Set satisfies it directly, with Value always nil. component.Storage[T]
// exposes the same method names and shadows Push/PushValue/PushRange/
// Erase/Value with component-aware versions, but also offers a richer
// Each(func(entity.ID, *T) bool) that Go's type system can't unify with
// this interface's Each, so Storage[T] is Base-shaped by convention rather
// than by static assertion.
type Base interface {
	Push(e entity.ID) Iterator
	PushValue(e entity.ID, value any) Iterator
	PushRange(ids []entity.ID) Iterator
	Erase(e entity.ID)
	Index(e entity.ID) int
	Contains(e entity.ID) bool
	Find(e entity.ID) (Iterator, bool)
	Each(yield func(entity.ID) bool) bool
	Value(e entity.ID) any
	Bind(mixin any)
}

// Set is the type-erased sparse set.
type Set struct {
	family   *entity.Family
	pageSize int
	pol      policy.Policy
	rec      metrics.Recorder

	packed []entity.ID
	sp     *pageTable

	// head means different things depending on pol:
	//   SwapAndPop: unused.
	//   InPlace:    packed position of the first free tombstone, or -1 when the list is empty.
	//   SwapOnly:   size of the live prefix packed[0:head).
	head int

	bound any
	obs   Observer
}

// Observer lets component.Storage[T] mirror a Set's packed-position changes
// into its own parallel payload array, the Go stand-in for the virtualized
// swap/move hooks a type-erased storage installs on its base set.
// OnSwap reports that packed[i] and packed[j] exchanged contents. OnMove
// reports that packed[dst] now holds what used to be at packed[src], and
// that src no longer holds a live element (SwapAndPop's erase pops it;
// Compact either fills it from a later position or truncates it away).
type Observer interface {
	OnSwap(i, j int)
	OnMove(dst, src int)
}

// Observe installs o as the Set's Observer, replacing any previous one. A
// nil Observer disables notification.
func (s *Set) Observe(o Observer) { s.obs = o }

func (s *Set) notifySwap(i, j int) {
	if s.obs != nil {
		s.obs.OnSwap(i, j)
	}
}

func (s *Set) notifyMove(dst, src int) {
	if s.obs != nil {
		s.obs.OnMove(dst, src)
	}
}

// Option configures a Set at construction time.
type Option func(*Set)

// WithFamily sets the entity identifier family. Defaults to entity.Default.
func WithFamily(f *entity.Family) Option {
	return func(s *Set) { s.family = f }
}

// WithPolicy sets the deletion policy. Defaults to policy.SwapAndPop.
func WithPolicy(p policy.Policy) Option {
	return func(s *Set) { s.pol = p }
}

// WithPageSize overrides the sparse page size. Defaults to DefaultPageSize.
func WithPageSize(n int) Option {
	return func(s *Set) { s.pageSize = n }
}

// WithRecorder attaches optional instrumentation.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Set) { s.rec = r }
}

// New returns an empty Set configured by opts.
func New(opts ...Option) *Set {
	s := &Set{
		family:   entity.Default,
		pageSize: DefaultPageSize,
		pol:      policy.SwapAndPop,
		head:     -1,
		rec:      metrics.Nop,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pol == policy.SwapOnly {
		s.head = 0
	}
	s.sp = newPageTable(s.family, s.pageSize)
	s.rec = metrics.OrNop(s.rec)
	return s
}

// Family returns the entity family this set was constructed with.
func (s *Set) Family() *entity.Family { return s.family }

// Policy returns the deletion policy this set was constructed with.
func (s *Set) Policy() policy.Policy { return s.pol }

// Len returns the packed length. Under InPlace this counts tombstones;
// under SwapOnly it counts both the live prefix and the reserved tail.
func (s *Set) Len() int { return len(s.packed) }

// Cap returns the current packed capacity.
func (s *Set) Cap() int { return cap(s.packed) }

// Extent returns pageCount * pageSize for the sparse index.
func (s *Set) Extent() int { return s.sp.extent() }

// Bind stores an opaque mixin hook. It is a default no-op: consumers that
// install a reactive mixin type-assert the value themselves.
func (s *Set) Bind(mixin any) { s.bound = mixin }

// Bound returns the value last passed to Bind, or nil.
func (s *Set) Bound() any { return s.bound }

// Value always returns nil for a plain sparse set; component.Storage[T]
// overrides this to return a pointer to the live component.
func (s *Set) Value(entity.ID) any { return nil }

func (s *Set) occupiedIndex(idx entity.ID) bool {
	slot := s.sp.get(idx)
	if s.family.IsTombstone(slot) {
		return false
	}
	if s.pol == policy.SwapOnly {
		return int(s.family.ToEntity(slot)) < s.head
	}
	return true
}

// Contains reports whether e occupies packed under its current version.
// Under SwapOnly this stays true for a version-bumped identity even after
// its position has fallen into the reserved tail (deferred destruction:
// see policy.SwapOnly), up until the
// slot is actually recycled by a later Push of a different entity.
func (s *Set) Contains(e entity.ID) bool {
	idx := s.family.ToEntity(e)
	slot := s.sp.get(idx)
	if slot == s.family.Null() {
		return false
	}
	return s.family.ToVersion(slot) == s.family.ToVersion(e)
}

// Current returns the version currently associated with to_entity(e) in the
// set, or the tombstone version if to_entity(e) was never pushed.
func (s *Set) Current(e entity.ID) entity.ID {
	idx := s.family.ToEntity(e)
	slot := s.sp.get(idx)
	if slot == s.family.Null() {
		return s.family.VersionMask()
	}
	return s.family.ToVersion(slot)
}

// Index returns e's position in packed. Precondition: Contains(e).
func (s *Set) Index(e entity.ID) int {
	if !s.Contains(e) {
		entt.Precondition("sparse.Set.Index", e, "entity not contained")
	}
	slot := s.sp.get(s.family.ToEntity(e))
	return int(s.family.ToEntity(slot))
}

// At returns packed[pos] if pos is in range and not a tombstone, else null.
func (s *Set) At(pos int) entity.ID {
	if pos < 0 || pos >= len(s.packed) {
		return s.family.Null()
	}
	id := s.packed[pos]
	if s.pol == policy.InPlace && s.family.IsTombstone(id) {
		return s.family.Null()
	}
	return id
}

// Packed returns packed[pos] unchecked, the analogue of operator[].
func (s *Set) Packed(pos int) entity.ID { return s.packed[pos] }

// Find returns an Iterator positioned at e, or ok=false if e is not
// contained.
func (s *Set) Find(e entity.ID) (Iterator, bool) {
	if !s.Contains(e) {
		return Iterator{}, false
	}
	return Iterator{set: s, pos: s.Index(e)}, true
}

// Bump overwrites the stored version for to_entity(e) with to_version(e)
// and returns the previous version. Precondition: to_entity(e) must already
// have a sparse mapping (live or erased), and to_version(e) must not equal
// the tombstone version.
func (s *Set) Bump(e entity.ID) entity.ID {
	idx := s.family.ToEntity(e)
	slot := s.sp.get(idx)
	if slot == s.family.Null() {
		entt.Precondition("sparse.Set.Bump", e, "entity field not present")
	}
	if s.family.ToVersion(e) == s.family.VersionMask() {
		entt.Precondition("sparse.Set.Bump", e, "new version must not be the tombstone version")
	}
	prev := s.family.ToVersion(slot)
	s.sp.set(idx, s.family.Construct(s.family.ToEntity(slot), s.family.ToVersion(e)))
	return prev
}

func (s *Set) setSparsePosition(idx entity.ID, pos int) {
	old := s.sp.get(idx)
	s.sp.set(idx, s.family.Construct(entity.ID(pos), s.family.ToVersion(old)))
}

// Push inserts e. Precondition: to_entity(e) must not already be occupied.
func (s *Set) Push(e entity.ID) Iterator {
	idx := s.family.ToEntity(e)
	if s.occupiedIndex(idx) {
		entt.Precondition("sparse.Set.Push", e, "entity already contained")
	}

	var pos int
	switch s.pol {
	case policy.InPlace:
		if s.head != -1 {
			pos = s.head
			tomb := s.packed[pos]
			next := s.family.ToEntity(tomb)
			if next == s.family.EntityMask() {
				s.head = -1
			} else {
				s.head = int(next)
			}
			s.packed[pos] = e
		} else {
			pos = len(s.packed)
			s.packed = append(s.packed, e)
		}
	case policy.SwapOnly:
		if s.head < len(s.packed) {
			pos = s.head
			// The slot being reused still names whatever entity was last
			// reserved here; that entity's mapping must now be finally
			// retired, or it would keep reading back as contained once
			// head grows past pos again.
			stale := s.packed[pos]
			staleIdx := s.family.ToEntity(stale)
			s.sp.set(staleIdx, s.family.Construct(s.family.ToEntity(s.sp.get(staleIdx)), s.family.VersionMask()))
			s.packed[pos] = e
		} else {
			pos = len(s.packed)
			s.packed = append(s.packed, e)
		}
		s.head++
	default: // SwapAndPop
		pos = len(s.packed)
		s.packed = append(s.packed, e)
	}

	s.sp.set(idx, s.family.Construct(entity.ID(pos), s.family.ToVersion(e)))
	s.rec.Counter("push")
	s.rec.Observe("size", float64(len(s.packed)))
	return Iterator{set: s, pos: pos}
}

// PushValue inserts e, ignoring value. It exists so Set satisfies Base;
// component.Storage[T] overrides it to construct the component from value.
func (s *Set) PushValue(e entity.ID, _ any) Iterator {
	return s.Push(e)
}

// PushRange inserts every entity in ids, none of which may already be
// contained, and returns an Iterator to the first inserted position.
func (s *Set) PushRange(ids []entity.ID) Iterator {
	var first Iterator
	for i, e := range ids {
		it := s.Push(e)
		if i == 0 {
			first = it
		}
	}
	return first
}

// Erase removes e. Precondition: Contains(e).
func (s *Set) Erase(e entity.ID) {
	if !s.Contains(e) {
		entt.Precondition("sparse.Set.Erase", e, "entity not contained")
	}
	s.eraseContained(e)
	s.rec.Counter("erase")
	s.rec.Observe("size", float64(len(s.packed)))
}

// eraseContained performs the policy-specific erase bookkeeping for an
// entity already known to be contained.
func (s *Set) eraseContained(e entity.ID) {
	idx := s.family.ToEntity(e)
	i := s.Index(e)

	switch s.pol {
	case policy.InPlace:
		var nextField entity.ID
		if s.head == -1 {
			nextField = s.family.EntityMask()
		} else {
			nextField = entity.ID(s.head)
		}
		s.packed[i] = s.family.Construct(nextField, s.family.VersionMask())
		s.head = i
		s.sp.set(idx, s.family.Construct(entity.ID(i), s.family.VersionMask()))

	case policy.SwapOnly:
		s.head--
		if i != s.head {
			other := s.packed[s.head]
			s.packed[s.head], s.packed[i] = s.packed[i], s.packed[s.head]
			s.setSparsePosition(s.family.ToEntity(other), i)
			s.notifySwap(i, s.head)
		}
		bumped := s.family.Next(e)
		s.packed[s.head] = bumped
		s.sp.set(idx, s.family.Construct(entity.ID(s.head), s.family.ToVersion(bumped)))

	default: // SwapAndPop
		last := len(s.packed) - 1
		if i != last {
			moved := s.packed[last]
			s.packed[i] = moved
			s.setSparsePosition(s.family.ToEntity(moved), i)
			s.notifyMove(i, last)
		}
		s.packed = s.packed[:last]
		s.sp.set(idx, s.family.Construct(s.family.ToEntity(s.sp.get(idx)), s.family.VersionMask()))
	}
}

// Remove is Erase tolerant of absence; it reports whether e was removed.
func (s *Set) Remove(e entity.ID) bool {
	if !s.Contains(e) {
		diag.Debug("sparse.Set.Remove", logrus.Fields{"entity": uint64(e), "present": false})
		return false
	}
	s.eraseContained(e)
	s.rec.Counter("erase")
	s.rec.Observe("size", float64(len(s.packed)))
	return true
}

// RemoveRange removes every contained entity in ids and returns the count
// actually removed.
func (s *Set) RemoveRange(ids []entity.ID) int {
	n := 0
	for _, e := range ids {
		if s.Remove(e) {
			n++
		}
	}
	return n
}

// SwapElements exchanges the packed positions of a and b. Both must be
// contained.
func (s *Set) SwapElements(a, b entity.ID) {
	s.swapPositions(s.Index(a), s.Index(b))
}

// swapPositions exchanges packed[i] and packed[j], updates the sparse index
// for both, and notifies the Observer so a Storage[T] can mirror the swap
// into its payload. Callers are responsible for ensuring i and j name live,
// in-range positions.
func (s *Set) swapPositions(i, j int) {
	if i == j {
		return
	}
	s.packed[i], s.packed[j] = s.packed[j], s.packed[i]
	s.setSparsePosition(s.family.ToEntity(s.packed[i]), i)
	s.setSparsePosition(s.family.ToEntity(s.packed[j]), j)
	s.notifySwap(i, j)
}

// Clear empties the set, dropping the sparse index entirely so no stale
// (position, version) mapping can be mistaken for live membership. Under
// InPlace, the free list is reset to empty.
func (s *Set) Clear() {
	s.packed = s.packed[:0]
	s.sp = newPageTable(s.family, s.pageSize)
	s.head = -1
	if s.pol == policy.SwapOnly {
		s.head = 0
	}
}

// Contiguous reports whether packed contains no tombstones: always true for
// SwapAndPop; for InPlace, true iff the free list is empty; for SwapOnly,
// true iff the live prefix spans the whole packed array.
func (s *Set) Contiguous() bool {
	switch s.pol {
	case policy.InPlace:
		return s.head == -1
	case policy.SwapOnly:
		return s.head == len(s.packed)
	default:
		return true
	}
}

// FreeList returns the InPlace free-list head packed position, the SwapOnly
// live-region boundary, or the family's entity mask sentinel for
// SwapAndPop (and for an empty InPlace free list).
func (s *Set) FreeList() entity.ID {
	switch s.pol {
	case policy.InPlace:
		if s.head == -1 {
			return s.family.EntityMask()
		}
		return entity.ID(s.head)
	case policy.SwapOnly:
		return entity.ID(s.head)
	default:
		return s.family.EntityMask()
	}
}

// Compact removes all tombstones from packed, preserving the relative
// order of live elements: a stable forward two-pointer partition, not a
// swap-from-the-tail partition, since the latter would reorder surviving
// elements relative to each other.
func (s *Set) Compact() {
	if s.pol != policy.InPlace {
		return
	}
	write := 0
	for read := 0; read < len(s.packed); read++ {
		if s.family.IsTombstone(s.packed[read]) {
			continue
		}
		moved := s.packed[read]
		if write != read {
			s.packed[write] = moved
			s.setSparsePosition(s.family.ToEntity(moved), write)
			s.notifyMove(write, read)
		}
		write++
	}
	s.packed = s.packed[:write]
	s.head = -1
	s.rec.Counter("compact")
}

// ShrinkToFit releases trailing sparse pages that are entirely unused.
func (s *Set) ShrinkToFit() {
	s.sp.shrinkToFit()
}

// Reserve grows packed's capacity to at least n without disturbing any
// already-inserted position. Reserve never shrinks capacity; a call that
// asks for less than the current capacity is logged and otherwise ignored.
func (s *Set) Reserve(n int) {
	if cap(s.packed) >= n {
		if n < cap(s.packed) {
			diag.Warn("sparse.Set.Reserve", logrus.Fields{"requested": n, "cap": cap(s.packed)})
		}
		return
	}
	grown := make([]entity.ID, len(s.packed), n)
	copy(grown, s.packed)
	s.packed = grown
}

// sortView adapts a packed-position range to sort.Interface, routing every
// swap the algorithm performs through Set.swapPositions so the sparse index
// (and any Observer) stays consistent mid-sort.
type sortView struct {
	s    *Set
	n    int
	less func(a, b entity.ID) bool
}

func (v sortView) Len() int           { return v.n }
func (v sortView) Less(i, j int) bool { return v.less(v.s.packed[i], v.s.packed[j]) }
func (v sortView) Swap(i, j int)      { v.s.swapPositions(i, j) }

// Sort reorders packed so that cmp defines the ordering. Invalid (panics)
// on a non-contiguous InPlace set; compact first.
func (s *Set) Sort(cmp func(a, b entity.ID) bool) {
	s.assertContiguousForSort("sparse.Set.Sort")
	sort.Stable(sortView{s: s, n: len(s.packed), less: cmp})
}

// SortN sorts only packed[0:n). The prefix must be tombstone-free.
func (s *Set) SortN(n int, cmp func(a, b entity.ID) bool) {
	if n > len(s.packed) {
		entt.Precondition("sparse.Set.SortN", s.family.Null(), "n exceeds size()")
	}
	for i := 0; i < n; i++ {
		if s.pol == policy.InPlace && s.family.IsTombstone(s.packed[i]) {
			entt.Precondition("sparse.Set.SortN", s.packed[i], "prefix contains a tombstone")
		}
	}
	sort.Stable(sortView{s: s, n: n, less: cmp})
}

func (s *Set) assertContiguousForSort(op string) {
	if s.pol == policy.InPlace && !s.Contiguous() {
		entt.Precondition(op, s.family.Null(), "set holds tombstones; call Compact first")
	}
}

// SortAs reorders this set so that elements shared with other appear in
// the same relative order as in other, with elements unique to this set
// placed before them. Concretely: walking other from end to begin, each
// shared element is swapped to a decreasing position starting at
// size()-1 in this set.
func (s *Set) SortAs(other *Set) {
	s.assertContiguousForSort("sparse.Set.SortAs")
	pos := len(s.packed) - 1
	other.Each(func(e entity.ID) bool {
		if pos < 0 {
			return true
		}
		if s.Contains(e) {
			from := s.Index(e)
			s.swapPositions(from, pos)
			pos--
		}
		return false
	})
}

// Each walks packed from last to first, invoking yield for every live
// entity. If yield returns true, iteration stops early and Each returns
// true.
func (s *Set) Each(yield func(entity.ID) bool) bool {
	for i := len(s.packed) - 1; i >= 0; i-- {
		if s.pol == policy.InPlace && s.family.IsTombstone(s.packed[i]) {
			continue
		}
		if s.pol == policy.SwapOnly && i >= s.head {
			continue
		}
		if yield(s.packed[i]) {
			return true
		}
	}
	return false
}

// Reach walks packed from first to last (the reverse of Each's order).
func (s *Set) Reach(yield func(entity.ID) bool) bool {
	for i := 0; i < len(s.packed); i++ {
		if s.pol == policy.InPlace && s.family.IsTombstone(s.packed[i]) {
			continue
		}
		if s.pol == policy.SwapOnly && i >= s.head {
			continue
		}
		if yield(s.packed[i]) {
			return true
		}
	}
	return false
}

// Bitmap exports the set's current live membership as a roaring bitmap
// keyed by entity index, for out-of-core bulk set algebra (union,
// intersection) across several sets or storages. It is an additive,
// read-only view: Contains/Index remain the authoritative O(1) membership
// check, and a bumped-but-not-yet-recycled SwapOnly identity (which Each
// already skips) is excluded the same way. Exporting is O(size()) per call;
// no incremental bitmap is kept in sync with push/erase.
func (s *Set) Bitmap() *roaring.Bitmap {
	bm := roaring.New()
	s.Each(func(e entity.ID) bool {
		bm.Add(uint32(s.family.ToEntity(e)))
		return false
	})
	return bm
}
