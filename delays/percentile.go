// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package delays

import (
	"sync"
	"time"

	"github.com/caio/go-tdigest/v4"
	"github.com/jonboulle/clockwork"
)

// PercentileConfig configures a Percentile provider.
type PercentileConfig struct {
	// Percentile is the latency quantile, in (0, 1), at which to hedge.
	// A good starting point is 0.95 or 0.99: hedging at the tail keeps
	// the extra load between one and five percent of requests.
	//
	// Default: 0.95.
	Percentile float64

	// MinDelay floors the per-attempt delay, and is also returned while
	// no latency has been observed yet.
	//
	// Default: 50ms.
	MinDelay time.Duration

	// MaxDelay caps the per-attempt delay.
	//
	// Default: 10s.
	MaxDelay time.Duration

	// WindowSize bounds how far back observed latencies influence the
	// delay. Observations older than roughly WindowSize are discarded.
	//
	// Default: 5m.
	WindowSize time.Duration

	// BucketsCount is the number of rotating digest buckets the window
	// is divided into. More buckets expire old observations more
	// smoothly at the cost of memory.
	//
	// Default: 2.
	BucketsCount int

	// Clock supplies the time. Leave nil outside of tests.
	Clock clockwork.Clock
}

// A Percentile provider derives the hedging delay from latencies
// recently observed on the wire, so the parallel strategy launches its
// hedge attempt right where the latency tail begins instead of at a
// guessed fixed offset.
//
// Feed it through Observe — the client does this automatically for
// every successful attempt when the provider is registered as a
// latency observer. Observations are aggregated into t-digest sketches
// over a rolling window of buckets, so memory stays constant no matter
// the traffic volume.
//
// A Percentile is safe for concurrent use by multiple goroutines.
type Percentile struct {
	cfg  PercentileConfig
	ttl  time.Duration
	size time.Duration

	lock    sync.Mutex
	buckets []*digestBucket
}

type digestBucket struct {
	startedAt time.Time
	digest    *tdigest.TDigest
}

// NewPercentile constructs a Percentile provider. Zero-valued fields of
// cfg take the documented defaults. NewPercentile panics if a non-zero
// field is out of range.
func NewPercentile(cfg PercentileConfig) *Percentile {
	if cfg.Percentile == 0 {
		cfg.Percentile = 0.95
	}
	if cfg.Percentile <= 0 || cfg.Percentile >= 1 {
		panic("reqx/delays: percentile must be in (0, 1)")
	}
	if cfg.MinDelay == 0 {
		cfg.MinDelay = 50 * time.Millisecond
	}
	if cfg.MaxDelay == 0 {
		cfg.MaxDelay = 10 * time.Second
	}
	if cfg.MinDelay < 0 || cfg.MaxDelay < 0 || cfg.MinDelay > cfg.MaxDelay {
		panic("reqx/delays: need 0 <= MinDelay <= MaxDelay")
	}
	if cfg.WindowSize == 0 {
		cfg.WindowSize = 5 * time.Minute
	}
	if cfg.WindowSize < 0 {
		panic("reqx/delays: WindowSize must be positive")
	}
	if cfg.BucketsCount == 0 {
		cfg.BucketsCount = 2
	}
	if cfg.BucketsCount < 0 {
		panic("reqx/delays: BucketsCount must be positive")
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	size := cfg.WindowSize / time.Duration(cfg.BucketsCount)
	return &Percentile{
		cfg:  cfg,
		size: size,
		ttl:  cfg.WindowSize + size,
	}
}

// Delay returns the delay before the attempt with the given zero-based
// index: the chosen latency percentile, clamped to [MinDelay, MaxDelay],
// multiplied by the attempt index. Attempt 0 always gets zero. Delay is
// a Provider.
func (p *Percentile) Delay(attempt int) time.Duration {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.expire(p.cfg.Clock.Now())

	perAttempt := p.cfg.MinDelay
	if len(p.buckets) > 0 {
		observed := time.Duration(p.buckets[0].digest.Quantile(p.cfg.Percentile) * float64(time.Second))
		if observed > perAttempt {
			perAttempt = observed
		}
		if perAttempt > p.cfg.MaxDelay {
			perAttempt = p.cfg.MaxDelay
		}
	}
	return perAttempt * time.Duration(attempt)
}

// Observe records the latency of a completed attempt. Only successful
// attempts should be fed in: a hedge offset derived from failure
// latencies would chase the wrong distribution.
func (p *Percentile) Observe(latency time.Duration) {
	p.lock.Lock()
	defer p.lock.Unlock()
	now := p.cfg.Clock.Now()
	p.expire(now)

	if len(p.buckets) == 0 || now.Sub(p.buckets[len(p.buckets)-1].startedAt) >= p.size {
		t, _ := tdigest.New()
		p.buckets = append(p.buckets, &digestBucket{startedAt: now, digest: t})
	}
	// Every open bucket sees every observation; expiry of the oldest
	// bucket then forgets the oldest slice of the window at once.
	for _, b := range p.buckets {
		_ = b.digest.Add(latency.Seconds())
	}
}

func (p *Percentile) expire(now time.Time) {
	i := 0
	for i < len(p.buckets) && now.Sub(p.buckets[i].startedAt) > p.ttl {
		i++
	}
	if i > 0 {
		p.buckets = append(p.buckets[:0], p.buckets[i:]...)
	}
}
