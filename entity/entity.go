// Copyright 2026 The entt authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package entity implements the generational entity identifier algebra: a
// fixed-width integer split into an index field (used to address the sparse
// table) and a version field (used to detect use-after-free references).
package entity

import "fmt"

// ID is an opaque, trivially copyable entity identifier. Its bit layout is
// defined by the Family that produced it; callers never manipulate the bits
// directly.
type ID uint64

// Family defines the bitfield split for an entity identifier: how many of
// the low bits belong to the entity (index) field, with the remainder
// belonging to the version field. Family values are immutable once built
// with NewFamily and are safe to share across sparse sets and storages.
type Family struct {
	entityBits  uint
	versionBits uint
	entityMask  ID
	versionMask ID
}

// Default is the 32-bit family used when a caller does not need a custom
// split: 20 entity bits (>= 2^20 indices, matching the spec's minimum) and
// 12 version bits, fitting a uint32-sized identifier.
var Default = NewFamily(20, 12)

// Wide is a 64-bit family with a 32/32 split, for callers who need more than
// 2^20 live indices or more than 4096 version wraps before reuse.
var Wide = NewFamily(32, 32)

// NewFamily builds a Family with entityBits bits in the index field and
// versionBits bits in the version field. entityBits+versionBits must fit in
// 64 bits.
func NewFamily(entityBits, versionBits uint) *Family {
	if entityBits+versionBits > 64 {
		panic(fmt.Sprintf("entity: family with %d entity bits and %d version bits exceeds 64 bits", entityBits, versionBits))
	}
	return &Family{
		entityBits:  entityBits,
		versionBits: versionBits,
		entityMask:  ID(1)<<entityBits - 1,
		versionMask: ID(1)<<versionBits - 1,
	}
}

// EntityMask returns the all-ones mask over the entity (index) bits.
func (f *Family) EntityMask() ID { return f.entityMask }

// VersionMask returns the all-ones mask over the version bits, not shifted
// into position (i.e. the value that ToVersion returns for a fully-versioned
// tombstone).
func (f *Family) VersionMask() ID { return f.versionMask }

// Construct builds an identifier from an entity (index) field and a version
// field. The entity value is masked to EntityMask; the version value is
// masked to VersionMask.
func (f *Family) Construct(e, v ID) ID {
	return (v&f.versionMask)<<f.entityBits | (e & f.entityMask)
}

// ToEntity extracts the entity (index) field of id.
func (f *Family) ToEntity(id ID) ID {
	return id & f.entityMask
}

// ToVersion extracts the version field of id.
func (f *Family) ToVersion(id ID) ID {
	return (id >> f.entityBits) & f.versionMask
}

// Null returns the null sentinel for this family: an identifier whose
// entity field is all-ones. Its version field is also all-ones, so that
// ToVersion(Null()) equals VersionMask, matching Tombstone's version field.
func (f *Family) Null() ID {
	return f.Construct(f.entityMask, f.versionMask)
}

// Tombstone returns the tombstone sentinel for this family: an identifier
// whose version field is all-ones and whose entity field is zero.
func (f *Family) Tombstone() ID {
	return f.Construct(0, f.versionMask)
}

// Next returns id with its version field advanced by one, wrapping to 0
// instead of ever producing VersionMask (the tombstone version). The entity
// field is unchanged.
func (f *Family) Next(id ID) ID {
	v := f.ToVersion(id) + 1
	if v == f.versionMask {
		v = 0
	}
	return f.Construct(f.ToEntity(id), v)
}

// IsNull reports whether id's entity field matches the null sentinel's.
func (f *Family) IsNull(id ID) bool {
	return f.ToEntity(id) == f.entityMask
}

// IsTombstone reports whether id's version field matches the tombstone
// sentinel's.
func (f *Family) IsTombstone(id ID) bool {
	return f.ToVersion(id) == f.versionMask
}
