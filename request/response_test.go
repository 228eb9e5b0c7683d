// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusPredicates(t *testing.T) {
	assert.True(t, NewEmptyResponse(200, nil).IsSuccess())
	assert.True(t, NewEmptyResponse(204, nil).IsSuccess())
	assert.False(t, NewEmptyResponse(301, nil).IsSuccess())
	assert.True(t, NewEmptyResponse(429, nil).IsThrottling())
	assert.False(t, NewEmptyResponse(428, nil).IsThrottling())
	assert.True(t, NewEmptyResponse(500, nil).IsServerError())
	assert.True(t, NewEmptyResponse(503, nil).IsServerError())
	assert.False(t, NewEmptyResponse(499, nil).IsServerError())
}

func TestIsJSON(t *testing.T) {
	mk := func(contentType string) *Response {
		h := make(http.Header)
		h.Set("Content-Type", contentType)
		return NewEmptyResponse(200, h)
	}
	assert.True(t, mk("application/json").IsJSON())
	assert.True(t, mk("application/json; charset=utf-8").IsJSON())
	assert.True(t, mk("APPLICATION/JSON").IsJSON())
	assert.True(t, mk("application/problem+json").IsJSON())
	assert.False(t, mk("text/html").IsJSON())
	assert.False(t, mk("application/jsonx").IsJSON())
	assert.False(t, NewEmptyResponse(200, nil).IsJSON())
}

func TestJSON(t *testing.T) {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	r := NewResponse(200, h, io.NopCloser(strings.NewReader(`{"id":42}`)))

	var v struct {
		ID int `json:"id"`
	}
	require.NoError(t, r.JSON(&v))
	assert.Equal(t, 42, v.ID)
}

func TestJSONRejectsWrongContentType(t *testing.T) {
	h := make(http.Header)
	h.Set("Content-Type", "text/plain")
	r := NewResponse(200, h, io.NopCloser(strings.NewReader(`{}`)))
	var v interface{}
	assert.Error(t, r.JSON(&v))
}

func TestReadAll(t *testing.T) {
	r := NewResponse(200, nil, io.NopCloser(strings.NewReader("hello")))
	b, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), b)
}

func TestEmptyResponse(t *testing.T) {
	r := NewEmptyResponse(408, nil)
	assert.Equal(t, 408, r.StatusCode)
	b, err := r.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, b)
	assert.NoError(t, r.Close())
}

func TestResponseString(t *testing.T) {
	assert.Equal(t, "<Response [502]>", NewEmptyResponse(502, nil).String())
}
