// Copyright 2026 The entt authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNopRecorderIsDefault(t *testing.T) {
	if OrNop(nil) != Nop {
		t.Error("OrNop(nil) should return the shared Nop recorder")
	}
}

func TestPrometheusRecorderRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusRecorder("entt_test", reg)
	rec.Counter("push")
	rec.Counter("push")
	rec.Observe("size", 3)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatal("expected at least one registered metric family")
	}
}
