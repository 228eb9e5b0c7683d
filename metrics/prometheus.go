// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// latencyBuckets resolve sub-10ms attempts while still covering the
// default-timeout tail.
var latencyBuckets = []float64{
	.005, .01, .025, .05, .075, .1, .15, .2, .25, .3, .35, .4, .45, .5,
	.75, 1, 5, 10, 15, 20,
}

// Prometheus is a Sink backed by prometheus/client_golang collectors.
type Prometheus struct {
	latency     *prometheus.HistogramVec
	transitions *prometheus.CounterVec
}

// NewPrometheus constructs a Prometheus sink and registers its
// collectors with reg. Pass prometheus.DefaultRegisterer to use the
// process-wide default registry.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reqx_transport_latency_seconds",
				Help:    "Duration of transport request attempts.",
				Buckets: latencyBuckets,
			},
			[]string{"endpoint", "method", "result"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reqx_circuit_breaker_transitions_total",
				Help: "Circuit breaker state transitions.",
			},
			[]string{"key", "from", "to"},
		),
	}
	reg.MustRegister(p.latency, p.transitions)
	return p
}

// ObserveRequest implements Sink.
func (p *Prometheus) ObserveRequest(endpoint, method, result string, elapsed time.Duration) {
	p.latency.WithLabelValues(endpoint, method, result).Observe(elapsed.Seconds())
}

// ObserveBreakerTransition implements Sink.
func (p *Prometheus) ObserveBreakerTransition(key, from, to string) {
	p.transitions.WithLabelValues(key, from, to).Inc()
}
