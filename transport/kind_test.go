// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string { return "i/o timeout" }

func (timeoutErr) Timeout() bool { return true }

func TestCategorize(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Equal(t, None, Categorize(nil))
	})
	t.Run("context deadline", func(t *testing.T) {
		assert.Equal(t, Timeout, Categorize(context.DeadlineExceeded))
		assert.Equal(t, Timeout, Categorize(fmt.Errorf("send: %w", context.DeadlineExceeded)))
	})
	t.Run("net timeout", func(t *testing.T) {
		assert.Equal(t, Timeout, Categorize(timeoutErr{}))
		assert.Equal(t, Timeout, Categorize(&url.Error{Op: "Get", URL: "http://x", Err: timeoutErr{}}))
	})
	t.Run("dns failure", func(t *testing.T) {
		err := &net.DNSError{Err: "no such host", Name: "users.internal"}
		assert.Equal(t, Connect, Categorize(err))
	})
	t.Run("dial failure", func(t *testing.T) {
		err := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("unreachable")}
		assert.Equal(t, Connect, Categorize(err))
	})
	t.Run("connection refused", func(t *testing.T) {
		assert.Equal(t, Connect, Categorize(fmt.Errorf("read: %w", syscall.ECONNREFUSED)))
	})
	t.Run("connection reset", func(t *testing.T) {
		assert.Equal(t, Connect, Categorize(syscall.ECONNRESET))
	})
	t.Run("timeout wins over connect", func(t *testing.T) {
		err := &net.OpError{Op: "dial", Net: "tcp", Err: timeoutErr{}}
		assert.Equal(t, Timeout, Categorize(err))
	})
	t.Run("other", func(t *testing.T) {
		assert.Equal(t, Other, Categorize(errors.New("malformed response")))
	})
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "timeout", Timeout.String())
	assert.Equal(t, "connect_error", Connect.String())
	assert.Equal(t, "transport_error", Other.String())
}
