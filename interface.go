// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqx

import (
	"context"
	"net/http"

	"github.com/soluda/reqx/request"
)

// Requester is the interface that wraps the basic Request method.
//
// Request executes a logical request and returns the final response.
// Client implements the Requester interface, and any other Requester
// implementation must behave substantially the same as Client.Request.
type Requester interface {
	Request(ctx context.Context, req *request.Request, opts ...RequestOption) (*request.Response, error)
}

// Get uses the specified Requester to issue a GET for the specified
// relative URL, using the same policies as r.Request.
//
// To make a request with custom headers, path, or query parameters,
// build it with package request and call r.Request.
func Get(ctx context.Context, r Requester, url string, opts ...RequestOption) (*request.Response, error) {
	return r.Request(ctx, request.Get(url), opts...)
}

// Head uses the specified Requester to issue a HEAD for the specified
// relative URL, using the same policies as r.Request.
func Head(ctx context.Context, r Requester, url string, opts ...RequestOption) (*request.Response, error) {
	return r.Request(ctx, request.Head(url), opts...)
}

// Delete uses the specified Requester to issue a DELETE for the
// specified relative URL, using the same policies as r.Request.
func Delete(ctx context.Context, r Requester, url string, opts ...RequestOption) (*request.Response, error) {
	return r.Request(ctx, request.Delete(url), opts...)
}

// Post uses the specified Requester to issue a POST for the specified
// relative URL, using the same policies as r.Request.
//
// The body parameter may be nil for an empty body, or may be any of
// the types supported by request.New and request.BodyBytes, namely:
// string; []byte; io.Reader; and io.ReadCloser.
func Post(ctx context.Context, r Requester, url, contentType string, body interface{}, opts ...RequestOption) (*request.Response, error) {
	req, err := request.Post(url, body)
	if err != nil {
		return nil, err
	}
	h := make(http.Header)
	h.Set("Content-Type", contentType)
	return r.Request(ctx, req.UpdateHeaders(h), opts...)
}

// Put uses the specified Requester to issue a PUT for the specified
// relative URL, using the same policies as r.Request. The body
// parameter follows the same rules as Post.
func Put(ctx context.Context, r Requester, url, contentType string, body interface{}, opts ...RequestOption) (*request.Response, error) {
	req, err := request.Put(url, body)
	if err != nil {
		return nil, err
	}
	h := make(http.Header)
	h.Set("Content-Type", contentType)
	return r.Request(ctx, req.UpdateHeaders(h), opts...)
}

// Get issues a GET for the specified relative URL, using the same
// policies followed by Request.
func (c *Client) Get(ctx context.Context, url string, opts ...RequestOption) (*request.Response, error) {
	return Get(ctx, c, url, opts...)
}

// Head issues a HEAD for the specified relative URL, using the same
// policies followed by Request.
func (c *Client) Head(ctx context.Context, url string, opts ...RequestOption) (*request.Response, error) {
	return Head(ctx, c, url, opts...)
}

// Delete issues a DELETE for the specified relative URL, using the
// same policies followed by Request.
func (c *Client) Delete(ctx context.Context, url string, opts ...RequestOption) (*request.Response, error) {
	return Delete(ctx, c, url, opts...)
}

// Post issues a POST for the specified relative URL, using the same
// policies followed by Request. The body parameter follows the same
// rules as the package-level Post.
func (c *Client) Post(ctx context.Context, url, contentType string, body interface{}, opts ...RequestOption) (*request.Response, error) {
	return Post(ctx, c, url, contentType, body, opts...)
}

// Put issues a PUT for the specified relative URL, using the same
// policies followed by Request.
func (c *Client) Put(ctx context.Context, url, contentType string, body interface{}, opts ...RequestOption) (*request.Response, error) {
	return Put(ctx, c, url, contentType, body, opts...)
}
