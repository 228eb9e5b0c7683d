// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package strategy

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soluda/reqx/deadline"
	"github.com/soluda/reqx/delays"
	"github.com/soluda/reqx/priority"
	"github.com/soluda/reqx/request"
)

func TestRetryUntilDeadlineExpiredEventuallyAccepts(t *testing.T) {
	s := &script{outcomes: []outcome{{status: 503}, {status: 503}, {status: 200}}}
	strat := RetryUntilDeadlineExpired(SingleAttempt, delays.Constant(10*time.Millisecond))

	res, err := strat.Execute(context.Background(), s.send, request.Get("/a"), deadline.FromTimeout(5*time.Second), priority.Normal)
	require.NoError(t, err)
	assert.Equal(t, 200, res.Response.StatusCode)
	assert.Equal(t, 3, s.callCount())
	assert.Equal(t, 1, s.openBodies())
	res.Response.Close()
}

func TestRetryUntilDeadlineExpiredStopsAtDeadline(t *testing.T) {
	s := &script{outcomes: []outcome{{status: 503, latency: 30 * time.Millisecond}}}
	strat := RetryUntilDeadlineExpired(SingleAttempt, delays.Constant(30*time.Millisecond))

	start := time.Now()
	res, err := strat.Execute(context.Background(), s.send, request.Get("/a"), deadline.FromTimeout(150*time.Millisecond), priority.Normal)
	require.NoError(t, err)
	assert.Equal(t, 503, res.Response.StatusCode)
	assert.Less(t, time.Since(start), time.Second)
	assert.GreaterOrEqual(t, s.callCount(), 2)
	res.Response.Close()
}

func TestRetryUntilDeadlineExpiredStopsOnDoNotRetry(t *testing.T) {
	s := &script{outcomes: []outcome{{status: 408, header: doNotRetryHeader()}}}
	strat := RetryUntilDeadlineExpired(SingleAttempt, delays.Constant(0))

	res, err := strat.Execute(context.Background(), s.send, request.Get("/a"), deadline.FromTimeout(time.Second), priority.Normal)
	require.NoError(t, err)
	assert.Equal(t, 408, res.Response.StatusCode)
	assert.Equal(t, 1, s.callCount())
	res.Response.Close()
}

func TestRetryUntilDeadlineExpiredConfigurationError(t *testing.T) {
	s := &script{outcomes: []outcome{{status: 200}}}
	base := NewMethodBased(map[string]Strategy{http.MethodGet: SingleAttempt}, nil)
	strat := RetryUntilDeadlineExpired(base, delays.Constant(0))

	req, err := request.Post("/a", nil)
	require.NoError(t, err)
	_, execErr := strat.Execute(context.Background(), s.send, req, deadline.FromTimeout(time.Second), priority.Normal)
	var ce ConfigurationError
	assert.ErrorAs(t, execErr, &ce)
	assert.Equal(t, 0, s.callCount())
}

func TestRetryUntilDeadlineExpiredCancellation(t *testing.T) {
	s := &script{outcomes: []outcome{{status: 503}}}
	strat := RetryUntilDeadlineExpired(SingleAttempt, delays.Constant(300*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	_, err := strat.Execute(ctx, s.send, request.Get("/a"), deadline.FromTimeout(5*time.Second), priority.Normal)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, s.openBodies())
}

func TestRetryUntilDeadlineExpiredPanics(t *testing.T) {
	assert.Panics(t, func() { RetryUntilDeadlineExpired(nil, delays.Constant(0)) })
	assert.Panics(t, func() { RetryUntilDeadlineExpired(SingleAttempt, nil) })
}
