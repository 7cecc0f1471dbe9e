// Copyright 2026 The entt authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package entt is the root of the entity-component storage engine. It holds
// only the error types shared by the entity, sparse, and component
// packages; the storage engine itself lives in those subpackages.
package entt

import (
	"fmt"

	"github.com/cjhowedev/entt/entity"
)

// PreconditionError reports a violated precondition, such as Index on an
// entity that is not contained, or Push of an entity that already is. Per
// the spec, precondition violations are always fatal: every exported
// operation that documents a precondition panics with a *PreconditionError
// rather than returning a zero value, so the failure cannot be silently
// ignored in either a "debug" or "release" build.
type PreconditionError struct {
	Op     string
	Entity entity.ID
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("entt: %s: %s (entity=%#x)", e.Op, e.Reason, uint64(e.Entity))
}

// Precondition panics with a *PreconditionError built from the given
// operation name, entity, and reason. It is the single call site every
// precondition check in this module funnels through.
func Precondition(op string, e entity.ID, reason string) {
	panic(&PreconditionError{Op: op, Entity: e, Reason: reason})
}
