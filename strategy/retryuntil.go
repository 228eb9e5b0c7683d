// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package strategy

import (
	"context"
	"errors"

	"github.com/soluda/reqx/classify"
	"github.com/soluda/reqx/deadline"
	"github.com/soluda/reqx/delays"
	"github.com/soluda/reqx/priority"
	"github.com/soluda/reqx/request"
)

// RetryUntilDeadlineExpired wraps a base strategy in an outer retry
// loop bounded only by the deadline: each time the base execution ends
// in a rejected outcome with budget still remaining, the wrapper waits
// the provided delay and runs the base strategy again.
//
// Use it for requests that must eventually go through as long as the
// caller is still waiting, for example polling a dependency during its
// deployment window. The delay index is the outer iteration number,
// starting at 1 for the first re-run.
func RetryUntilDeadlineExpired(base Strategy, dp delays.Provider) Strategy {
	if base == nil {
		panic("reqx/strategy: nil base strategy")
	}
	if dp == nil {
		panic("reqx/strategy: nil delays provider")
	}
	return &retryUntil{base: base, delays: dp}
}

type retryUntil struct {
	base   Strategy
	delays delays.Provider
}

func (s *retryUntil) Execute(ctx context.Context, send SendFunc, req *request.Request, d deadline.Deadline, p priority.Priority) (*Result, error) {
	for iteration := 1; ; iteration++ {
		r, err := s.base.Execute(ctx, send, req, d, p)
		if r.Verdict == classify.Accept || d.Expired() || !r.retryable() {
			return r, err
		}
		var ce ConfigurationError
		if errors.As(err, &ce) {
			return r, err
		}
		r.release()
		if !sleep(ctx, minDuration(s.delays(iteration), d.Remaining())) {
			return fail(ctx.Err())
		}
	}
}
