// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package classify decides whether an attempt outcome terminates a
// request strategy or is eligible for retry.
//
// A classifier produces a Verdict, not an error: Reject is a decision
// that the outcome is a retryable failure, while Accept terminates the
// strategy with that outcome. The circuit breaker consumes the same
// verdicts to maintain its failure window, so the classifier is the
// single point of truth for what counts as a failure.
package classify

import (
	"net/http"

	"github.com/soluda/reqx/request"
)

// A Verdict is a classifier's decision on an attempt outcome.
type Verdict int

const (
	// Accept terminates the strategy with this outcome.
	Accept Verdict = iota
	// Reject marks the outcome as a retryable failure. The strategy
	// may issue another attempt if its budget allows.
	Reject
)

func (v Verdict) String() string {
	if v == Accept {
		return "accept"
	}
	return "reject"
}

// A Classifier decides the verdict for a (response, error) pair
// produced by one transport attempt. Exactly one of resp and err is
// meaningful: err non-nil means no usable response was produced.
//
// Implementations of Classifier must be safe for concurrent use by
// multiple goroutines.
type Classifier interface {
	Classify(resp *request.Response, err error) Verdict
}

// The ClassifierFunc type is an adapter to allow the use of ordinary
// functions as classifiers.
type ClassifierFunc func(resp *request.Response, err error) Verdict

// Classify returns the verdict for the attempt outcome.
func (f ClassifierFunc) Classify(resp *request.Response, err error) Verdict {
	return f(resp, err)
}

// NetworkErrorsStatus is the synthetic status code some proxies and
// transports use to represent a client-side network failure. The
// default classifier rejects it alongside genuine transport errors.
const NetworkErrorsStatus = 499

// Default is the default classification policy:
//
// • any transport error is Reject;
//
// • 5xx, 429 (Too Many Requests), 408 (Request Timeout), and the
// synthetic network-error status 499 are Reject;
//
// • everything else — 2xx, 3xx, and the remaining 4xx — is Accept.
//
// 429 carries retry semantics and is therefore rejected, but the
// strategies refuse to spend a nearly-exhausted deadline on a retry, so
// a low-budget 429 still surfaces to the caller.
var Default Classifier = NewDefault(NetworkErrorsStatus)

// NewDefault returns the default classification policy with a custom
// synthetic network-error status code. Use it when the infrastructure
// in front of the remote service reports network failures with a
// different status than 499.
func NewDefault(networkErrorsStatus int) Classifier {
	return ClassifierFunc(func(resp *request.Response, err error) Verdict {
		if err != nil {
			return Reject
		}
		if resp.IsServerError() {
			return Reject
		}
		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusRequestTimeout, networkErrorsStatus:
			return Reject
		}
		return Accept
	})
}
