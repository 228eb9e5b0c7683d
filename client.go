// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqx

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/soluda/reqx/breaker"
	"github.com/soluda/reqx/classify"
	"github.com/soluda/reqx/deadline"
	"github.com/soluda/reqx/metrics"
	"github.com/soluda/reqx/priority"
	"github.com/soluda/reqx/request"
	"github.com/soluda/reqx/strategy"
	"github.com/soluda/reqx/transport"
)

// DefaultTimeout is the execution deadline applied when neither the
// caller nor the context supplies one.
const DefaultTimeout = 20 * time.Second

// A KeyFunc derives the circuit breaker key for a request. The default
// keys per (endpoint host, method).
type KeyFunc func(endpoint *url.URL, req *request.Request) string

// DefaultKey keys breaker state per endpoint host and request method.
func DefaultKey(endpoint *url.URL, req *request.Request) string {
	return endpoint.Host + " " + req.Method
}

// A LatencyObserver is fed the latency of every successful transport
// attempt. A delays.Percentile provider is the typical observer: wired
// here, it keeps the hedging offset tracking the live latency tail.
type LatencyObserver interface {
	Observe(latency time.Duration)
}

// A Client executes logical requests against one endpoint, wiring
// together a transport, a default strategy, an optional circuit
// breaker, and the request/response enrichers. Only Endpoint is
// required; every other field has a working default.
//
// A Client has no internal state of its own, but its Transport
// typically does (cached TCP connections), so Client values should be
// reused rather than created per request. A Client is safe for
// concurrent use by multiple goroutines.
type Client struct {
	// Endpoint is the base URL requests are resolved against.
	// Required.
	Endpoint *url.URL

	// Transport sends individual attempts.
	//
	// If Transport is nil, a zero transport.NetHTTP (backed by
	// http.DefaultClient) is used.
	Transport transport.Transport

	// Strategy coordinates attempts for requests that do not override
	// it per call.
	//
	// If Strategy is nil, strategy.SingleAttempt is used. See
	// DefaultStrategy for the recommended method-based wiring.
	Strategy strategy.Strategy

	// Breaker, when non-nil, gates execution per BreakerKey and is fed
	// the classified outcome of every attempt that reaches the
	// transport. When a key is open, Request
	// returns a synthetic fallback response carrying the
	// X-Circuit-Breaker header instead of touching the network.
	Breaker *breaker.Breaker

	// BreakerKey derives the breaker key. Nil means DefaultKey.
	BreakerKey KeyFunc

	// FallbackStatus is the status code of the breaker fallback
	// response. Zero means 503 Service Unavailable.
	FallbackStatus int

	// Classifier decides which outcomes terminate a strategy and which
	// are retryable failures. Nil means classify.Default.
	Classifier classify.Classifier

	// RequestEnrichers run once per logical request, in order, before
	// the strategy starts. Propagation headers are not their job: the
	// client emits those itself on every attempt, so they always carry
	// the current remaining deadline rather than the original one.
	RequestEnrichers []RequestEnricher

	// ResponseEnrichers run on every attempt's response, in order,
	// before classification.
	ResponseEnrichers []ResponseEnricher

	// Metrics receives an observation for every attempt that reaches
	// the transport and for every short-circuited request. Attempts
	// answered by the MinAttemptTimeout guard are not observed. Nil
	// means metrics.Noop; observations are emitted regardless.
	Metrics metrics.Sink

	// LatencyObservers are fed the latency of every successful
	// attempt.
	LatencyObservers []LatencyObserver

	// Logger, when non-nil, receives debug-level notes on fallbacks
	// and failed attempts. Nil means no logging.
	Logger *zap.Logger

	// DefaultTimeout is the execution deadline applied when neither
	// the caller nor the context supplies one. Zero means the package
	// DefaultTimeout.
	DefaultTimeout time.Duration

	// DefaultPriority substitutes for priority.Unspecified. Zero means
	// priority.Normal.
	DefaultPriority priority.Priority

	// MinAttemptTimeout is the smallest remaining budget for which an
	// attempt still touches the network; below it the attempt is
	// answered with a synthetic 408 carrying X-Do-Not-Retry. Zero
	// means strategy.DefaultMinAttemptTimeout.
	MinAttemptTimeout time.Duration

	// OmitSystemHeaders disables emission of the propagation headers
	// (X-Request-Deadline-At, X-Request-Priority) on outgoing
	// attempts.
	OmitSystemHeaders bool
}

// Request executes the logical request and returns the final response.
//
// The execution deadline is taken from a WithDeadline or WithTimeout
// option, else from the context's deadline, else from DefaultTimeout.
// The breaker, if configured and open for the request's key, answers
// with the fallback response immediately. Otherwise the configured (or
// per-call) strategy drives one or more transport attempts; each
// attempt is enriched with propagation headers encoding the remaining
// deadline at that moment, observed into Metrics, classified, and
// reported to the breaker.
//
// The returned response's body is the caller's to close, on every path
// out of the caller's scope. Exactly one response is returned per
// call; all other attempt responses have been closed before Request
// returns. An error is returned instead of a response only for
// timeouts with no usable outcome, transport errors on the final
// attempt, and configuration errors.
func (c *Client) Request(ctx context.Context, req *request.Request, opts ...RequestOption) (*request.Response, error) {
	if c.Endpoint == nil {
		return nil, strategy.ConfigurationError("client has no endpoint")
	}
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}

	for _, enrich := range c.RequestEnrichers {
		req = enrich(req)
	}

	d := o.deadline
	if d.IsZero() {
		if t, ok := ctx.Deadline(); ok {
			d = deadline.At(t)
		} else {
			d = deadline.FromTimeout(c.defaultTimeout())
		}
	}
	p := o.priority
	if p == priority.Unspecified {
		p = c.defaultPriority()
	}
	strat := o.strategy
	if strat == nil {
		strat = c.Strategy
	}
	if strat == nil {
		strat = strategy.SingleAttempt
	}

	key := c.breakerKey()(c.Endpoint, req)
	if c.Breaker != nil && !c.Breaker.Allow(key) {
		c.metrics().ObserveRequest(c.Endpoint.String(), req.Method, "circuit_open", 0)
		if c.Logger != nil {
			c.Logger.Debug("circuit open, serving fallback", zap.String("key", key))
		}
		return c.fallback(), nil
	}

	res, err := strat.Execute(ctx, c.send(key), req, d, p)
	if err != nil {
		return nil, err
	}
	return res.Response, nil
}

// send builds the per-attempt send function handed to the strategy.
func (c *Client) send(key string) strategy.SendFunc {
	return func(ctx context.Context, req *request.Request, d deadline.Deadline, p priority.Priority) *strategy.Result {
		if d.Remaining() < c.minAttemptTimeout() {
			h := make(http.Header)
			h.Set(request.HeaderDoNotRetry, "1")
			return &strategy.Result{
				Response: request.NewEmptyResponse(http.StatusRequestTimeout, h),
				Verdict:  classify.Reject,
			}
		}

		attempt := req
		if !c.OmitSystemHeaders {
			h := make(http.Header)
			h.Set(request.HeaderDeadlineAt, d.Header())
			h.Set(request.HeaderPriority, p.Header())
			attempt = attempt.UpdateHeaders(h)
		}

		start := time.Now()
		resp, err := c.transport().Send(ctx, c.Endpoint, attempt, d)
		elapsed := time.Since(start)

		var result string
		if err != nil {
			result = transport.Categorize(err).String()
		} else {
			result = strconv.Itoa(resp.StatusCode)
		}
		c.metrics().ObserveRequest(c.Endpoint.String(), attempt.Method, result, elapsed)

		if err != nil {
			if c.Logger != nil {
				c.Logger.Debug("attempt failed",
					zap.String("method", attempt.Method),
					zap.String("kind", result),
					zap.Error(err))
			}
		} else {
			for _, enrich := range c.ResponseEnrichers {
				resp = enrich(resp)
			}
			if resp.IsSuccess() {
				for _, ob := range c.LatencyObservers {
					ob.Observe(elapsed)
				}
			}
		}

		verdict := c.classifier().Classify(resp, err)
		if c.Breaker != nil {
			c.Breaker.Observe(key, verdict == classify.Accept)
		}
		return &strategy.Result{Response: resp, Err: err, Verdict: verdict}
	}
}

func (c *Client) fallback() *request.Response {
	h := make(http.Header)
	h.Set(request.HeaderCircuitBreaker, "1")
	h.Set(request.HeaderDoNotRetry, "1")
	status := c.FallbackStatus
	if status == 0 {
		status = http.StatusServiceUnavailable
	}
	return request.NewEmptyResponse(status, h)
}

func (c *Client) transport() transport.Transport {
	if c.Transport == nil {
		return &transport.NetHTTP{}
	}
	return c.Transport
}

func (c *Client) classifier() classify.Classifier {
	if c.Classifier == nil {
		return classify.Default
	}
	return c.Classifier
}

func (c *Client) metrics() metrics.Sink {
	if c.Metrics == nil {
		return metrics.Noop
	}
	return c.Metrics
}

func (c *Client) breakerKey() KeyFunc {
	if c.BreakerKey == nil {
		return DefaultKey
	}
	return c.BreakerKey
}

func (c *Client) defaultTimeout() time.Duration {
	if c.DefaultTimeout == 0 {
		return DefaultTimeout
	}
	return c.DefaultTimeout
}

func (c *Client) defaultPriority() priority.Priority {
	if c.DefaultPriority == priority.Unspecified {
		return priority.Normal
	}
	return c.DefaultPriority
}

func (c *Client) minAttemptTimeout() time.Duration {
	if c.MinAttemptTimeout == 0 {
		return strategy.DefaultMinAttemptTimeout
	}
	return c.MinAttemptTimeout
}

// A RequestOption adjusts a single Request call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	deadline deadline.Deadline
	priority priority.Priority
	strategy strategy.Strategy
}

// WithDeadline sets the execution deadline for this call.
func WithDeadline(d deadline.Deadline) RequestOption {
	return func(o *requestOptions) {
		o.deadline = d
	}
}

// WithTimeout sets the execution deadline to the given duration from
// now.
func WithTimeout(timeout time.Duration) RequestOption {
	return func(o *requestOptions) {
		o.deadline = deadline.FromTimeout(timeout)
	}
}

// WithPriority sets the request priority for this call.
func WithPriority(p priority.Priority) RequestOption {
	return func(o *requestOptions) {
		o.priority = p
	}
}

// WithStrategy overrides the client's strategy for this call.
func WithStrategy(s strategy.Strategy) RequestOption {
	return func(o *requestOptions) {
		o.strategy = s
	}
}
