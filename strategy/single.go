// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package strategy

import (
	"context"

	"github.com/soluda/reqx/deadline"
	"github.com/soluda/reqx/priority"
	"github.com/soluda/reqx/request"
)

// SingleAttempt is the strategy that makes exactly one transport
// attempt and returns its outcome verbatim, whatever the verdict.
var SingleAttempt Strategy = singleAttempt{}

type singleAttempt struct{}

func (singleAttempt) Execute(ctx context.Context, send SendFunc, req *request.Request, d deadline.Deadline, p priority.Priority) (*Result, error) {
	r := send(ctx, req, d, p)
	return r, r.Err
}
