// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics defines the observation sink the client emits into.
//
// The client always emits request observations: every transport attempt
// produces one, even when the configured sink is Noop. Circuit breaker
// transitions reach a sink only through a breaker whose OnStateChange
// is set to reqx.BreakerTransitions(sink); the client does not forward
// them on its own. The
// sink is the integration point for whatever metrics system the host
// application runs; NewPrometheus provides a ready implementation.
package metrics

import "time"

// A Sink receives the client's observations.
//
// Implementations of Sink must be safe for concurrent use by multiple
// goroutines and must not block: observations are emitted from the
// request hot path.
type Sink interface {
	// ObserveRequest records one transport attempt. result is the
	// response status code in decimal, or the error kind (timeout,
	// connect_error, transport_error) when no response was produced.
	ObserveRequest(endpoint, method, result string, elapsed time.Duration)

	// ObserveBreakerTransition records one circuit breaker state
	// transition for the given key.
	ObserveBreakerTransition(key, from, to string)
}

// Noop is a Sink that discards all observations.
var Noop Sink = noop{}

type noop struct{}

func (noop) ObserveRequest(_, _, _ string, _ time.Duration) {}

func (noop) ObserveBreakerTransition(_, _, _ string) {}
