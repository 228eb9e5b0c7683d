// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"fmt"
	"net/http"
	urlpkg "net/url"
	"strings"
)

// A QueryParam is a single name/value pair appended to the request
// query string. Pairs keep their order; a name may repeat.
type QueryParam struct {
	Name  string
	Value string
}

// A Request describes a logical HTTP request to an endpoint, not yet
// bound to a particular attempt. One Request may produce several
// lower-level request attempts if the executing strategy retries or
// hedges.
//
// A Request is immutable once constructed: the derivation methods
// (UpdateHeaders, ExtendHeaders, WithBody, WithQuery, WithPathParam)
// return shallow copies with the changed field replaced, and never
// touch the receiver. Callers must follow the same rule and not mutate
// the exported fields of a Request they have shared.
type Request struct {
	// Method is the HTTP method: GET, POST, PUT, PATCH, DELETE, HEAD
	// or OPTIONS.
	Method string

	// URL is the path of the request relative to the client's
	// endpoint. It may contain placeholders of the form {name} to be
	// substituted from PathParams.
	URL string

	// Header contains the request header fields. Header names are
	// case-insensitive per http.Header.
	Header http.Header

	// Body is the pre-buffered request body. A nil or empty body means
	// no request body is sent.
	Body []byte

	// PathParams maps placeholder names appearing in URL to their
	// values. Values are substituted verbatim, without URL-encoding:
	// encoding is deliberately the caller's decision, since some
	// services require pre-encoded segments and some require raw ones.
	PathParams map[string]string

	// Query holds query parameters as ordered pairs, appended to any
	// query string already present in URL.
	Query []QueryParam
}

var methods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// New constructs a Request with the given method, relative URL, and
// optional body.
//
// Parameter body may be nil (empty body), or it may be a string,
// []byte, io.Reader, or io.ReadCloser, per BodyBytes.
func New(method, url string, body interface{}) (*Request, error) {
	if !methods[method] {
		return nil, fmt.Errorf("reqx/request: invalid method %q", method)
	}
	b, err := BodyBytes(body)
	if err != nil {
		return nil, err
	}
	return &Request{
		Method: method,
		URL:    url,
		Header: make(http.Header),
		Body:   b,
	}, nil
}

// Get constructs a GET Request for the given relative URL.
func Get(url string) *Request {
	return mustNew(http.MethodGet, url, nil)
}

// Head constructs a HEAD Request for the given relative URL.
func Head(url string) *Request {
	return mustNew(http.MethodHead, url, nil)
}

// Options constructs an OPTIONS Request for the given relative URL.
func Options(url string) *Request {
	return mustNew(http.MethodOptions, url, nil)
}

// Delete constructs a DELETE Request for the given relative URL.
func Delete(url string) *Request {
	return mustNew(http.MethodDelete, url, nil)
}

// Post constructs a POST Request for the given relative URL and body.
// The body parameter follows the same rules as New.
func Post(url string, body interface{}) (*Request, error) {
	return New(http.MethodPost, url, body)
}

// Put constructs a PUT Request for the given relative URL and body.
func Put(url string, body interface{}) (*Request, error) {
	return New(http.MethodPut, url, body)
}

// Patch constructs a PATCH Request for the given relative URL and body.
func Patch(url string, body interface{}) (*Request, error) {
	return New(http.MethodPatch, url, body)
}

// UpdateHeaders returns a copy of r whose headers have each key from h
// replacing the same key in r. Keys absent from h are carried over
// unchanged.
func (r *Request) UpdateHeaders(h http.Header) *Request {
	r2 := r.shallowCopy()
	r2.Header = cloneHeader(r.Header)
	for k, vs := range h {
		r2.Header[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
	}
	return r2
}

// ExtendHeaders returns a copy of r with each value from h appended to
// the same key in r, preserving any values already present.
func (r *Request) ExtendHeaders(h http.Header) *Request {
	r2 := r.shallowCopy()
	r2.Header = cloneHeader(r.Header)
	for k, vs := range h {
		ck := http.CanonicalHeaderKey(k)
		r2.Header[ck] = append(r2.Header[ck], vs...)
	}
	return r2
}

// WithBody returns a copy of r with its body replaced.
func (r *Request) WithBody(body []byte) *Request {
	r2 := r.shallowCopy()
	r2.Body = body
	return r2
}

// WithQuery returns a copy of r with the given query parameters
// appended after any parameters already present, preserving order.
func (r *Request) WithQuery(params ...QueryParam) *Request {
	r2 := r.shallowCopy()
	r2.Query = make([]QueryParam, 0, len(r.Query)+len(params))
	r2.Query = append(r2.Query, r.Query...)
	r2.Query = append(r2.Query, params...)
	return r2
}

// WithPathParam returns a copy of r with the {name} placeholder bound
// to value. The value is substituted verbatim; see PathParams.
func (r *Request) WithPathParam(name, value string) *Request {
	r2 := r.shallowCopy()
	r2.PathParams = make(map[string]string, len(r.PathParams)+1)
	for k, v := range r.PathParams {
		r2.PathParams[k] = v
	}
	r2.PathParams[name] = value
	return r2
}

// ResolveURL materializes the absolute URL of the request against the
// given endpoint base URL: path placeholders are substituted from
// PathParams and ordered query parameters are appended to the query
// string.
func (r *Request) ResolveURL(endpoint *urlpkg.URL) (*urlpkg.URL, error) {
	rel := r.URL
	for name, value := range r.PathParams {
		rel = strings.ReplaceAll(rel, "{"+name+"}", value)
	}
	ref, err := urlpkg.Parse(rel)
	if err != nil {
		return nil, fmt.Errorf("reqx/request: invalid url %q: %w", r.URL, err)
	}
	u := endpoint.ResolveReference(ref)
	if len(r.Query) > 0 {
		var b strings.Builder
		b.WriteString(u.RawQuery)
		for _, p := range r.Query {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(urlpkg.QueryEscape(p.Name))
			b.WriteByte('=')
			b.WriteString(urlpkg.QueryEscape(p.Value))
		}
		u.RawQuery = b.String()
	}
	return u, nil
}

func (r *Request) shallowCopy() *Request {
	r2 := new(Request)
	*r2 = *r
	return r2
}

func cloneHeader(h http.Header) http.Header {
	h2 := make(http.Header, len(h))
	for k, vs := range h {
		h2[k] = append([]string(nil), vs...)
	}
	return h2
}

func mustNew(method, url string, body interface{}) *Request {
	r, err := New(method, url, body)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Request) String() string {
	return fmt.Sprintf("<Request [%s %s]>", r.Method, r.URL)
}
