// Copyright 2026 The entt authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics provides optional instrumentation for the sparse set and
// storage packages. A Recorder is attached at construction time via
// WithRecorder; when nil (the default), recording is a no-op. This mirrors
// the teacher's metrics/internal-metrics-provider split: a small interface
// that production code depends on, with a Prometheus-backed implementation
// and a dummy one.
package metrics

// Recorder receives counter increments and distribution observations from a
// sparse set or storage instance. Implementations must be safe to call from
// a single goroutine at a time, matching the single-threaded contract of
// the packages that use it.
type Recorder interface {
	// Counter increments the named monotonic counter by one, e.g.
	// "push", "erase", "compact".
	Counter(name string)

	// Observe records a point value for the named distribution, e.g. the
	// packed size immediately after a push or erase.
	Observe(name string, v float64)
}

// Nop is a Recorder that discards everything. It is the implicit default
// for sparse.Set and component.Storage[T] when no Recorder is supplied.
var Nop Recorder = nopRecorder{}

type nopRecorder struct{}

func (nopRecorder) Counter(string)          {}
func (nopRecorder) Observe(string, float64) {}

// orNop returns r, or Nop if r is nil, so call sites never need a nil check.
func orNop(r Recorder) Recorder {
	if r == nil {
		return Nop
	}
	return r
}

// OrNop returns r, or Nop if r is nil. Exported for use by packages that
// accept an optional Recorder from a caller (sparse.WithRecorder,
// component.WithRecorder).
func OrNop(r Recorder) Recorder {
	return orNop(r)
}
