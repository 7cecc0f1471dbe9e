// Copyright 2026 The entt authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder on top of a prometheus.Registerer,
// registering a CounterVec and a SummaryVec (both labeled by the metric
// name passed to Counter/Observe) up front.
type PrometheusRecorder struct {
	counters *prometheus.CounterVec
	observes *prometheus.SummaryVec
}

// NewPrometheusRecorder registers a CounterVec and SummaryVec named
// "<namespace>_ops_total" and "<namespace>_observations" on reg and returns
// a Recorder backed by them.
func NewPrometheusRecorder(namespace string, reg prometheus.Registerer) *PrometheusRecorder {
	counters := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ops_total",
		Help:      "Count of sparse set / storage operations by name.",
	}, []string{"op"})

	observes := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace: namespace,
		Name:      "observations",
		Help:      "Point-in-time observations (e.g. packed size) by name.",
	}, []string{"op"})

	reg.MustRegister(counters, observes)

	return &PrometheusRecorder{
		counters: counters,
		observes: observes,
	}
}

func (p *PrometheusRecorder) Counter(name string) {
	p.counters.WithLabelValues(name).Inc()
}

func (p *PrometheusRecorder) Observe(name string, v float64) {
	p.observes.WithLabelValues(name).Observe(v)
}
