// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqx

import (
	"net/http"

	"github.com/soluda/reqx/breaker"
	"github.com/soluda/reqx/metrics"
	"github.com/soluda/reqx/strategy"
)

// DefaultStrategy returns the recommended method-based wiring: safe
// methods (GET, HEAD, OPTIONS) hedge through the parallel strategy,
// while methods with side effects retry sequentially so at most one
// attempt is ever in flight. Methods outside the map fall back to a
// single attempt.
//
// Both sub-strategies use their default configuration; build the
// map explicitly with strategy.NewMethodBased to tune attempt counts
// or delays per method.
func DefaultStrategy() strategy.Strategy {
	safe := strategy.NewParallel(strategy.ParallelConfig{})
	unsafe := strategy.NewSequential(strategy.SequentialConfig{})
	return strategy.NewMethodBased(map[string]strategy.Strategy{
		http.MethodGet:     safe,
		http.MethodHead:    safe,
		http.MethodOptions: safe,
		http.MethodPost:    unsafe,
		http.MethodPut:     unsafe,
		http.MethodPatch:   unsafe,
		http.MethodDelete:  unsafe,
	}, strategy.SingleAttempt)
}

// BreakerTransitions adapts a metrics sink into a breaker
// state-change callback, so transitions land in the same sink as
// request observations:
//
//	sink := metrics.NewPrometheus(prometheus.DefaultRegisterer)
//	b := breaker.New(breaker.Config{
//		...,
//		OnStateChange: reqx.BreakerTransitions(sink),
//	})
func BreakerTransitions(sink metrics.Sink) func(key string, from, to breaker.State) {
	return func(key string, from, to breaker.State) {
		sink.ObserveBreakerTransition(key, from.String(), to.String())
	}
}
