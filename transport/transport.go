// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transport abstracts the single-shot HTTP send underneath the
// request strategies.
//
// A Transport makes exactly one attempt: no retries, no hedging, no
// circuit breaking. All coordination between attempts belongs to the
// strategies and the client. The contract a Transport must honor is
// narrow but strict: return no later than the deadline allows, observe
// context cancellation promptly at I/O boundaries, and release the
// response body when an attempt is abandoned mid-flight.
package transport

import (
	"context"
	"net/url"

	"github.com/soluda/reqx/deadline"
	"github.com/soluda/reqx/request"
)

// A Transport sends a single HTTP request attempt.
//
// Send must honor the deadline: if the attempt cannot complete within
// deadline.Remaining(), it must return a timeout error no later than
// that. Send must also be cancellable through ctx: when the caller
// abandons the attempt, in-flight network I/O is aborted and any
// response body already produced is released.
//
// Send returns either a Response (with any status code) or an error.
// Errors are categorized by Categorize into Timeout, Connect, and
// Other kinds; the strategies never retry an accepted Response but
// may retry any rejected outcome.
//
// Implementations of Transport must be safe for concurrent use by
// multiple goroutines.
type Transport interface {
	Send(ctx context.Context, endpoint *url.URL, req *request.Request, d deadline.Deadline) (*request.Response, error)
}
