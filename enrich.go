// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqx

import (
	"net/http"

	"github.com/soluda/reqx/request"
)

// A RequestEnricher transforms a request before execution. Enrichers
// installed on a Client run once per logical request, in order; they
// must derive a new request rather than mutate the one passed in.
//
// Typical enrichers attach authentication or identification headers.
// Deadline and priority propagation headers are not enricher work: the
// client emits those per attempt so they carry the budget remaining at
// that attempt, not at enrichment time.
type RequestEnricher func(req *request.Request) *request.Request

// A ResponseEnricher transforms each attempt's response before it is
// classified. Enrichers run in order; each must return a usable
// response, typically the one passed in.
type ResponseEnricher func(resp *request.Response) *request.Response

// ServiceName returns an enricher that identifies the calling service
// to the remote side via the X-Service-Name header.
func ServiceName(name string) RequestEnricher {
	h := make(http.Header)
	h.Set(request.HeaderServiceName, name)
	return func(req *request.Request) *request.Request {
		return req.UpdateHeaders(h)
	}
}
