// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package reqx provides a resilient HTTP client for service-to-service
calls: deadline budgets that propagate across hops, retrying and
hedging request strategies, and a circuit breaker over a rolling
failure window.

Create a Client bound to an endpoint to begin making requests.

	endpoint, _ := url.Parse("https://users.internal")
	client := &reqx.Client{
		Endpoint: endpoint,
		Strategy: reqx.DefaultStrategy(),
	}
	resp, err := client.Get(ctx, "/v1/users/{id}/profile")
	if err != nil {
		...
	}
	defer resp.Close()

Every request runs under a Deadline, an absolute monotonic point in
time shared by all attempts the client makes for it. The deadline
comes from a per-call option, the context, or the client default, and
is re-encoded into the X-Request-Deadline-At header on every attempt
so the remote side always sees the budget actually remaining. The
companion X-Request-Priority header carries an opaque priority,
smaller meaning higher.

	resp, err := client.Get(ctx, "/v1/users/42",
		reqx.WithTimeout(800*time.Millisecond),
		reqx.WithPriority(priority.High))

How attempts are made is the strategy's business. The strategies in
package strategy cover the single attempt, sequential retries under
split per-attempt budgets, and hedged parallel races where the first
accepted response wins and the losers are cancelled and drained.
DefaultStrategy wires them per HTTP method: hedging for safe methods,
sequential retries for the rest.

For protection against a failing downstream, install a circuit
breaker from package breaker; while a key's failure ratio stays over
the threshold the client answers from a synthetic fallback response
without touching the network.

	client.Breaker = breaker.New(breaker.Config{
		BreakDuration:     30 * time.Second,
		SamplingDuration:  10 * time.Second,
		MinimumThroughput: 10,
		FailureThreshold:  0.5,
	})

Whether an outcome counts as a failure — for both retry eligibility
and the breaker — is decided by one classifier (package classify):
Reject for transport errors, 5xx, 429, 408, and the synthetic
network-error status 499; Accept otherwise.

The pieces downstream of the client are all replaceable through small
interfaces: package transport abstracts the single-shot HTTP send over
net/http, package metrics receives per-attempt and breaker-transition
observations (a Prometheus sink is included), and package delays
computes retry backoff and hedging offsets, including a provider that
tracks a percentile of observed latency.
*/
package reqx
