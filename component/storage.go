// Copyright 2026 The entt authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package component implements Storage[T], a strongly-typed component pool
// built on top of a sparse.Set: the set owns entity membership and the
// deletion-policy bookkeeping, and Storage layers a parallel paged array of
// T, kept in lockstep with the set's packed positions via the
// sparse.Observer swap/move hooks.
package component

import (
	"github.com/cjhowedev/entt"
	"github.com/cjhowedev/entt/entity"
	"github.com/cjhowedev/entt/internal/xtype"
	"github.com/cjhowedev/entt/metrics"
	"github.com/cjhowedev/entt/policy"
	"github.com/cjhowedev/entt/sparse"
)

// destroyer is implemented by component types that need to release
// resources (close a handle, unregister from a side table) when their
// owning entity is erased. It plays the role of entt's on-destroy hook.
type destroyer interface {
	OnRemove()
}

// Storage is a strongly-typed component pool for T.
type Storage[T any] struct {
	*sparse.Set

	payload  [][]T
	pageSize int
	typ      xtype.ID
}

// Option configures a Storage[T] at construction time.
type Option[T any] func(*storageConfig[T])

type storageConfig[T any] struct {
	pageSize int
	policy   policy.Policy
	family   *entity.Family
	recorder metrics.Recorder
}

// WithPageSize overrides the sparse/payload page granularity.
func WithPageSize[T any](n int) Option[T] {
	return func(c *storageConfig[T]) { c.pageSize = n }
}

// WithPolicy overrides the deletion policy.
func WithPolicy[T any](p policy.Policy) Option[T] {
	return func(c *storageConfig[T]) { c.policy = p }
}

// WithFamily overrides the entity identifier family.
func WithFamily[T any](f *entity.Family) Option[T] {
	return func(c *storageConfig[T]) { c.family = f }
}

// WithRecorder attaches optional instrumentation.
func WithRecorder[T any](r metrics.Recorder) Option[T] {
	return func(c *storageConfig[T]) { c.recorder = r }
}

// New returns an empty Storage[T]. Any Traits registered for T via
// ConfigureTraits[T] supply the defaults; explicit options override them
// field by field.
func New[T any](opts ...Option[T]) *Storage[T] {
	cfg := storageConfig[T]{pageSize: sparse.DefaultPageSize, family: entity.Default}
	if t, ok := traitsFor[T](); ok {
		if t.PageSize > 0 {
			cfg.pageSize = t.PageSize
		}
		cfg.policy = t.resolvePolicy()
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	st := &Storage[T]{
		pageSize: cfg.pageSize,
		typ:      xtype.Of[T](),
	}
	st.Set = sparse.New(
		sparse.WithFamily(cfg.family),
		sparse.WithPolicy(cfg.policy),
		sparse.WithPageSize(cfg.pageSize),
		sparse.WithRecorder(cfg.recorder),
	)
	st.Set.Observe(st)
	return st
}

// Type returns a stable identifier for T, distinguishing this storage's
// element type from every other instantiation of Storage in the process.
func (s *Storage[T]) Type() xtype.ID { return s.typ }

func (s *Storage[T]) ensurePage(pos int) {
	for len(s.payload)*s.pageSize <= pos {
		s.payload = append(s.payload, make([]T, s.pageSize))
	}
}

func (s *Storage[T]) payloadAt(pos int) *T {
	return &s.payload[pos/s.pageSize][pos%s.pageSize]
}

// OnSwap implements sparse.Observer: packed[i] and packed[j] exchanged, so
// mirror the same exchange in payload.
func (s *Storage[T]) OnSwap(i, j int) {
	pi, pj := s.payloadAt(i), s.payloadAt(j)
	*pi, *pj = *pj, *pi
}

// OnMove implements sparse.Observer: packed[dst] now holds what used to be
// at packed[src] (src is about to be truncated away), so copy the payload
// across the same way.
func (s *Storage[T]) OnMove(dst, src int) {
	*s.payloadAt(dst) = *s.payloadAt(src)
}

func (s *Storage[T]) destroyAt(pos int) {
	v := s.payloadAt(pos)
	if d, ok := any(v).(destroyer); ok {
		d.OnRemove()
	}
	var zero T
	*v = zero
}

// destroyEntity destroys e's component by identity rather than fixed
// position: OnRemove may reenter this storage (e.g. erasing another
// entity), which can relocate e's own packed position first under
// swap_and_pop or swap_only, so the position is re-resolved afterward
// before the slot is cleared.
func (s *Storage[T]) destroyEntity(e entity.ID) {
	pos := s.Set.Index(e)
	v := s.payloadAt(pos)
	if d, ok := any(v).(destroyer); ok {
		d.OnRemove()
	}
	if s.Set.Contains(e) {
		var zero T
		*s.payloadAt(s.Set.Index(e)) = zero
	}
}

// insert pushes e onto the embedded Set and writes value at its packed
// position. Under SwapOnly, destruction is deferred (per the spec's
// "deferred destruction" design note): erase never destroys the
// component, only the next push that actually reuses the reserved slot
// does, right before the slot is overwritten.
func (s *Storage[T]) insert(e entity.ID, value T) int {
	before := s.Set.Len()
	it := s.Set.Push(e)
	pos := it.Index()
	reused := s.Set.Len() == before
	s.ensurePage(pos)
	if reused && s.Policy() == policy.SwapOnly {
		s.destroyAt(pos)
	}
	*s.payloadAt(pos) = value
	return pos
}

// Emplace inserts e with the given component value. Precondition:
// !Contains(e).
func (s *Storage[T]) Emplace(e entity.ID, value T) int {
	return s.insert(e, value)
}

// Push inserts e with T's zero value. It shadows sparse.Set.Push so a push
// through Storage[T] also writes a real (if empty) component.
func (s *Storage[T]) Push(e entity.ID) sparse.Iterator {
	var zero T
	pos := s.insert(e, zero)
	return s.Set.Iter(pos)
}

// PushValue inserts e with value, which must be a T (or nil, meaning the
// zero value). It shadows sparse.Set.PushValue so a caller holding the
// value as an untyped any can still insert a component.
func (s *Storage[T]) PushValue(e entity.ID, value any) sparse.Iterator {
	var v T
	if value != nil {
		v = value.(T)
	}
	pos := s.insert(e, v)
	return s.Set.Iter(pos)
}

// PushRange inserts every entity in ids with T's zero value. It shadows
// sparse.Set.PushRange, which would otherwise call the embedded Set's own
// Push directly and leave the payload pages short.
func (s *Storage[T]) PushRange(ids []entity.ID) sparse.Iterator {
	var first sparse.Iterator
	var zero T
	for i, e := range ids {
		pos := s.insert(e, zero)
		if i == 0 {
			first = s.Set.Iter(pos)
		}
	}
	return first
}

// InsertRange inserts each (ids[i], values[i]) pair. Precondition:
// len(ids) == len(values), and none of ids may already be contained.
func (s *Storage[T]) InsertRange(ids []entity.ID, values []T) {
	if len(ids) != len(values) {
		entt.Precondition("component.Storage.InsertRange", s.Family().Null(), "ids and values length mismatch")
	}
	for i, e := range ids {
		s.insert(e, values[i])
	}
}

// InsertRangeValue inserts every entity in ids with the same value.
func (s *Storage[T]) InsertRangeValue(ids []entity.ID, value T) {
	for _, e := range ids {
		s.insert(e, value)
	}
}

// Erase removes e, invoking OnRemove on its component first if it
// implements destroyer. Precondition: Contains(e). Under SwapOnly,
// destruction is deferred: see insert.
func (s *Storage[T]) Erase(e entity.ID) {
	if s.Policy() != policy.SwapOnly {
		s.destroyEntity(e)
	}
	s.Set.Erase(e)
}

// Remove is Erase tolerant of absence; it reports whether e was removed.
func (s *Storage[T]) Remove(e entity.ID) bool {
	if !s.Contains(e) {
		return false
	}
	s.Erase(e)
	return true
}

// RemoveRange removes every contained entity in ids and returns the count
// actually removed.
func (s *Storage[T]) RemoveRange(ids []entity.ID) int {
	n := 0
	for _, e := range ids {
		if s.Remove(e) {
			n++
		}
	}
	return n
}

// Get returns a pointer to e's component. Precondition: Contains(e).
func (s *Storage[T]) Get(e entity.ID) *T {
	return s.payloadAt(s.Set.Index(e))
}

// GetAsTuple returns e's component alongside its identifier, e.g. for
// callers iterating a join across several storages.
func (s *Storage[T]) GetAsTuple(e entity.ID) (entity.ID, *T) {
	return e, s.Get(e)
}

// Value is the Base-shaped accessor (see sparse.Base): a type-erased pointer
// to e's component, or nil if e is not contained.
func (s *Storage[T]) Value(e entity.ID) any {
	if !s.Contains(e) {
		return nil
	}
	return s.Get(e)
}

// Patch applies fn to e's component in place and returns the updated
// value. Precondition: Contains(e).
func (s *Storage[T]) Patch(e entity.ID, fn func(*T)) T {
	v := s.Get(e)
	fn(v)
	return *v
}

// Raw returns the live component values as packed-position-ordered slices,
// one per page; callers must not retain them across a structural mutation.
func (s *Storage[T]) Raw() [][]T { return s.payload }

// Each invokes yield with every (entity, component) pair, walking packed
// from last to first like the embedded Set's Each. If yield returns true,
// iteration stops early and Each returns true.
func (s *Storage[T]) Each(yield func(entity.ID, *T) bool) bool {
	return s.Set.Each(func(e entity.ID) bool {
		return yield(e, s.Get(e))
	})
}

// Reach is Each in first-to-last order.
func (s *Storage[T]) Reach(yield func(entity.ID, *T) bool) bool {
	return s.Set.Reach(func(e entity.ID) bool {
		return yield(e, s.Get(e))
	})
}

// Reserve grows both the sparse set's packed capacity and the payload page
// count so that positions [0,n) are addressable without further page
// allocation, without disturbing any already-issued component address.
func (s *Storage[T]) Reserve(n int) {
	s.Set.Reserve(n)
	if n > 0 {
		s.ensurePage(n - 1)
	}
}

// ShrinkToFit releases trailing sparse pages; payload pages are left in
// place since released sparse capacity doesn't imply released positions.
func (s *Storage[T]) ShrinkToFit() {
	s.Set.ShrinkToFit()
}

// Clear empties the storage, invoking OnRemove on every component first.
// Under SwapOnly this includes the reserved, not-yet-destroyed tail.
func (s *Storage[T]) Clear() {
	if s.Policy() == policy.SwapOnly {
		for i := 0; i < s.Set.Len(); i++ {
			s.destroyAt(i)
		}
	} else {
		s.Set.Each(func(e entity.ID) bool {
			s.destroyEntity(e)
			return false
		})
	}
	s.Set.Clear()
}
