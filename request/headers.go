// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

// Propagation and control header names. The names are stable and part
// of the wire contract; servers that do not understand them must
// ignore them.
const (
	// HeaderDeadlineAt carries the sender's remaining deadline as
	// fractional seconds, serialized at the moment of the send. The
	// receiver reconstructs an absolute point against its own
	// monotonic clock; absolute wall time is never transmitted. A
	// received value of zero or less means the budget is exhausted and
	// the server should reject immediately with a timeout status.
	HeaderDeadlineAt = "X-Request-Deadline-At"

	// HeaderPriority carries the request priority as an integer;
	// smaller is higher.
	HeaderPriority = "X-Request-Priority"

	// HeaderDoNotRetry marks a synthetic response that must not be
	// retried regardless of its classification, for example the
	// low-timeout guard's 408.
	HeaderDoNotRetry = "X-Do-Not-Retry"

	// HeaderCircuitBreaker marks a fallback response produced by an
	// open circuit breaker instead of the remote service.
	HeaderCircuitBreaker = "X-Circuit-Breaker"

	// HeaderServiceName identifies the calling service.
	HeaderServiceName = "X-Service-Name"
)
