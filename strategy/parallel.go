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

// ParallelConfig parameterizes a parallel (hedged) strategy. The zero
// value is a valid configuration making up to 3 staggered attempts.
type ParallelConfig struct {
	// Attempts is the maximum number of attempts in the race.
	//
	// Default: 3.
	Attempts int

	// Delays supplies each attempt's launch offset from the start of
	// the race. Attempt 0 launches immediately; attempt i launches
	// after Delays(i), bounded by the remaining deadline. Set it near
	// the downstream's tail latency — a delays.Percentile provider
	// tracks that automatically — so hedges cost only the tail
	// percentage of extra requests.
	//
	// Default: delays.Linear(0, 50*time.Millisecond).
	Delays delays.Provider
}

// NewParallel constructs a hedged strategy: attempts launch in index
// order at their configured offsets, every attempt gets the whole
// remaining deadline, and the first accepted outcome wins the race.
//
// On a win all other in-flight attempts are cancelled and their
// responses, including any that complete after the cancellation
// signal, are closed before Execute returns — a loser never leaks to
// the caller. If no attempt is accepted, the most recently completed
// outcome is surfaced once every attempt has finished. It panics if
// cfg.Attempts is negative.
func NewParallel(cfg ParallelConfig) Strategy {
	if cfg.Attempts < 0 {
		panic("reqx/strategy: Attempts must be >= 1")
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = 3
	}
	if cfg.Delays == nil {
		cfg.Delays = delays.Linear(0, 50*time.Millisecond)
	}
	return &parallel{cfg: cfg}
}

type parallel struct {
	cfg ParallelConfig
}

func (s *parallel) Execute(ctx context.Context, send SendFunc, req *request.Request, d deadline.Deadline, p priority.Priority) (*Result, error) {
	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered to the attempt count so a finishing attempt never
	// blocks after the race has been decided.
	results := make(chan *Result, s.cfg.Attempts)
	for attempt := 0; attempt < s.cfg.Attempts; attempt++ {
		go func(attempt int) {
			if wait := s.cfg.Delays(attempt); wait > 0 {
				if !sleep(raceCtx, minDuration(wait, d.Remaining())) {
					results <- nil // cancelled before launch
					return
				}
			}
			results <- send(raceCtx, req, d, p)
		}(attempt)
	}

	var last *Result
	for n := 0; n < s.cfg.Attempts; n++ {
		r := <-results
		if r == nil {
			continue
		}
		if r.Verdict == classify.Accept {
			cancel()
			for m := n + 1; m < s.cfg.Attempts; m++ {
				(<-results).release()
			}
			last.release()
			return r, r.Err
		}
		last.release()
		last = r
	}
	if last == nil {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		return fail(context.DeadlineExceeded)
	}
	return last, last.Err
}
