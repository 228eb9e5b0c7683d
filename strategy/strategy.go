// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package strategy coordinates transport attempts under a shared
// deadline.
//
// A Strategy decides how many attempts to make, when to make them, and
// which outcome to surface: SingleAttempt issues exactly one,
// NewSequential retries rejected outcomes one after another within
// per-attempt budgets carved from the shared deadline, and NewParallel
// hedges by racing staggered attempts and keeping the first accepted
// response. NewMethodBased composes them per HTTP method, and
// RetryUntilDeadlineExpired wraps any of them in an outer loop bounded
// only by the deadline.
//
// Strategies do not talk to the network themselves: they drive a
// SendFunc supplied by the client, which owns per-attempt enrichment,
// classification, metrics, and breaker feedback. The strategies' own
// obligations are the concurrency ones — attempts observe cancellation
// at their next suspension point, exactly one response is surfaced per
// execution, and every other response is closed before Execute
// returns.
package strategy

import (
	"context"
	"time"

	"github.com/soluda/reqx/classify"
	"github.com/soluda/reqx/deadline"
	"github.com/soluda/reqx/priority"
	"github.com/soluda/reqx/request"
)

// A Result is the classified outcome of one attempt, or of a whole
// strategy execution. Exactly one of Response and Err is meaningful.
type Result struct {
	// Response is the attempt's response, nil if the attempt ended in
	// an error.
	Response *request.Response

	// Err is the attempt's error, nil if a response was produced.
	Err error

	// Verdict is the classifier's decision for this outcome.
	Verdict classify.Verdict
}

// release closes the result's response, if any. Strategies call it on
// every result they do not surface.
func (r *Result) release() {
	if r != nil && r.Response != nil {
		_ = r.Response.Close()
	}
}

// retryable reports whether a strategy may follow this result with
// another attempt.
func (r *Result) retryable() bool {
	if r.Verdict == classify.Accept {
		return false
	}
	if r.Response != nil && r.Response.Header.Get(request.HeaderDoNotRetry) != "" {
		return false
	}
	return true
}

// A SendFunc performs one classified transport attempt. The client
// constructs it; strategies only schedule calls to it.
//
// The deadline passed in is the attempt's own budget, which may be a
// child of the execution deadline. The returned Result is never nil.
// A SendFunc must observe ctx cancellation promptly and must return a
// Result whose response body is still open; ownership of the body
// passes to the caller.
type SendFunc func(ctx context.Context, req *request.Request, d deadline.Deadline, p priority.Priority) *Result

// A Strategy executes a logical request as one or more transport
// attempts under a shared deadline.
//
// Execute returns the final Result and, for convenience, the same
// error carried in Result.Err. The returned Result is never nil. On
// every exit path — accept, reject, deadline expiry, cancellation —
// all responses other than the surfaced one have been closed before
// Execute returns; the surfaced response is the caller's to close.
//
// Implementations of Strategy must be safe for concurrent use by
// multiple goroutines.
type Strategy interface {
	Execute(ctx context.Context, send SendFunc, req *request.Request, d deadline.Deadline, p priority.Priority) (*Result, error)
}

// DefaultMinAttemptTimeout is the minimum per-attempt budget below
// which the sequential strategy refuses to launch an attempt, to avoid
// issuing requests doomed to time out.
const DefaultMinAttemptTimeout = 5 * time.Millisecond

func fail(err error) (*Result, error) {
	return &Result{Err: err, Verdict: classify.Reject}, err
}

// sleep waits for d, returning false if ctx is done first. A
// non-positive d returns true immediately.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func minDuration(a, b time.Duration) time.Duration {
	if a <= b {
		return a
	}
	return b
}
