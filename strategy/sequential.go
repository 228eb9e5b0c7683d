// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package strategy

import (
	"context"
	"time"

	"github.com/soluda/reqx/classify"
	"github.com/soluda/reqx/deadline"
	"github.com/soluda/reqx/delays"
	"github.com/soluda/reqx/priority"
	"github.com/soluda/reqx/request"
)

// SequentialConfig parameterizes a sequential strategy. The zero value
// is a valid configuration making 3 attempts with linear backoff and
// evenly split per-attempt deadlines.
type SequentialConfig struct {
	// Attempts is the maximum number of attempts.
	//
	// Default: 3.
	Attempts int

	// Delays supplies the wait before each attempt. The delay is
	// honored even for attempt 0 if the provider returns a nonzero
	// value for it, and is always bounded by the remaining deadline.
	//
	// Default: delays.Linear(0, 50*time.Millisecond).
	Delays delays.Provider

	// Deadlines derives each attempt's budget from the execution
	// deadline.
	//
	// Default: SplitDeadlineBetweenAttempts(1.0, 0).
	Deadlines DeadlineProvider

	// MinAttemptTimeout is the smallest per-attempt budget worth
	// spending. When the derived budget falls below it, the strategy
	// stops and surfaces the current outcome rather than issue a
	// request doomed to time out.
	//
	// Default: DefaultMinAttemptTimeout.
	MinAttemptTimeout time.Duration
}

// NewSequential constructs a strategy that issues attempts one after
// another, stopping at the first accepted outcome, at the configured
// attempt count, or when the deadline no longer funds a meaningful
// attempt. It panics if cfg.Attempts is negative.
func NewSequential(cfg SequentialConfig) Strategy {
	if cfg.Attempts < 0 {
		panic("reqx/strategy: Attempts must be >= 1")
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = 3
	}
	if cfg.Delays == nil {
		cfg.Delays = delays.Linear(0, 50*time.Millisecond)
	}
	if cfg.Deadlines == nil {
		cfg.Deadlines = SplitDeadlineBetweenAttempts(1.0, 0)
	}
	if cfg.MinAttemptTimeout == 0 {
		cfg.MinAttemptTimeout = DefaultMinAttemptTimeout
	}
	return &sequential{cfg: cfg}
}

type sequential struct {
	cfg SequentialConfig
}

func (s *sequential) Execute(ctx context.Context, send SendFunc, req *request.Request, d deadline.Deadline, p priority.Priority) (*Result, error) {
	var last *Result
	for attempt := 0; attempt < s.cfg.Attempts; attempt++ {
		if d.Expired() {
			break
		}
		if wait := s.cfg.Delays(attempt); wait > 0 {
			if !sleep(ctx, minDuration(wait, d.Remaining())) {
				last.release()
				return fail(ctx.Err())
			}
			if d.Expired() {
				break
			}
		}
		ad := s.cfg.Deadlines(d, attempt, s.cfg.Attempts)
		if ad.Remaining() < s.cfg.MinAttemptTimeout {
			break
		}
		r := send(ctx, req, ad, p)
		last.release()
		last = r
		if r.Verdict == classify.Accept || !r.retryable() {
			break
		}
	}
	if last == nil {
		return fail(context.DeadlineExceeded)
	}
	return last, last.Err
}
