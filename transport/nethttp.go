// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/soluda/reqx/deadline"
	"github.com/soluda/reqx/request"
)

// An HTTPDoer implements a Do method in the same manner as the Go
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	Do(r *http.Request) (*http.Response, error)
}

// NetHTTP is a Transport backed by a standard net/http client. Its
// zero value is a valid configuration using http.DefaultClient.
//
// NetHTTP is lower-level than the reqx client: it is responsible for
// connection pooling, redirects, cookies, and TLS, while the client
// builds attempt coordination on top. Consult the HTTPDoer's
// documentation for how those lower-level concerns are handled.
type NetHTTP struct {
	// Client specifies the mechanics of sending HTTP requests and
	// receiving responses.
	//
	// If Client is nil, http.DefaultClient from the standard net/http
	// package is used.
	Client HTTPDoer
}

// Send implements Transport. The attempt's context is derived from ctx
// with the deadline applied, and the derived context stays alive until
// the returned response body is closed, so callers may stream the body
// after Send returns. On error the body, if any was produced, has
// already been released.
func (t *NetHTTP) Send(ctx context.Context, endpoint *url.URL, req *request.Request, d deadline.Deadline) (*request.Response, error) {
	u, err := req.ResolveURL(endpoint)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithDeadline(ctx, d.Time())

	hr, err := http.NewRequestWithContext(ctx, req.Method, u.String(), nil)
	if err != nil {
		cancel()
		return nil, err
	}
	if req.Header != nil {
		hr.Header = req.Header
	}
	if len(req.Body) > 0 {
		hr.Body = io.NopCloser(bytes.NewReader(req.Body))
		hr.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(req.Body)), nil
		}
		hr.ContentLength = int64(len(req.Body))
	}

	resp, err := t.doer().Do(hr)
	if err != nil {
		cancel()
		return nil, err
	}

	return request.NewResponse(resp.StatusCode, resp.Header, &cancelBody{rc: resp.Body, cancel: cancel}), nil
}

func (t *NetHTTP) doer() HTTPDoer {
	if t.Client == nil {
		return http.DefaultClient
	}
	return t.Client
}

// cancelBody ties the lifetime of the per-attempt context to the
// response body: the deadline must keep running while the caller
// streams the body, and must be released exactly when the body is
// closed.
type cancelBody struct {
	rc     io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Read(p []byte) (int, error) {
	return b.rc.Read(p)
}

func (b *cancelBody) Close() error {
	err := b.rc.Close()
	b.cancel()
	return err
}
