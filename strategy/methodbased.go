// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package strategy

import (
	"context"
	"fmt"

	"github.com/soluda/reqx/deadline"
	"github.com/soluda/reqx/priority"
	"github.com/soluda/reqx/request"
)

// A ConfigurationError reports an invalid strategy setup, for example
// a request method no strategy is mapped to. It is fatal to the call:
// no attempt is made and the error surfaces directly to the caller.
type ConfigurationError string

func (e ConfigurationError) Error() string {
	return "reqx/strategy: " + string(e)
}

// NewMethodBased constructs a strategy that dispatches on the request
// method: safe methods typically map to a hedging strategy while
// non-idempotent ones map to a sequential or single-attempt strategy.
//
// A method absent from byMethod falls back to fallback; with a nil
// fallback, executing an unmapped method fails with a
// ConfigurationError.
func NewMethodBased(byMethod map[string]Strategy, fallback Strategy) Strategy {
	m := make(map[string]Strategy, len(byMethod))
	for method, s := range byMethod {
		m[method] = s
	}
	return &methodBased{byMethod: m, fallback: fallback}
}

type methodBased struct {
	byMethod map[string]Strategy
	fallback Strategy
}

func (s *methodBased) Execute(ctx context.Context, send SendFunc, req *request.Request, d deadline.Deadline, p priority.Priority) (*Result, error) {
	target := s.byMethod[req.Method]
	if target == nil {
		target = s.fallback
	}
	if target == nil {
		return fail(ConfigurationError(fmt.Sprintf("no strategy for method %s", req.Method)))
	}
	return target.Execute(ctx, send, req, d, p)
}
