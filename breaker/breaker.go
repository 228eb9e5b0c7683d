// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package breaker gates request execution on the observed failure rate
// of a downstream service.
//
// A Breaker keeps an independent state machine per key — by convention
// one key per (endpoint, method) pair, though the caller chooses the
// key function. While a key is Closed all requests pass and every
// outcome updates a rolling failure window; once failures cross the
// configured threshold the key Opens and requests short-circuit until
// the break duration elapses, after which a single probe is admitted
// (HalfOpen) to test whether the downstream has recovered.
package breaker

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// A State is the position of one key's state machine.
type State int

const (
	// Closed lets all requests pass.
	Closed State = iota
	// Open short-circuits all requests until the break duration
	// elapses.
	Open
	// HalfOpen admits a single probe request; all others
	// short-circuit.
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	default:
		return "half_open"
	}
}

// Config parameterizes a Breaker. BreakDuration, SamplingDuration,
// MinimumThroughput and FailureThreshold must be set; the rest have
// working defaults.
type Config struct {
	// BreakDuration is how long a key stays Open before a probe is
	// admitted.
	BreakDuration time.Duration

	// SamplingDuration is the width of the rolling window over which
	// the failure ratio is assessed.
	SamplingDuration time.Duration

	// MinimumThroughput is the minimum number of observations that
	// must fall within the window before the breaker may open. It
	// keeps a single early failure from opening an idle key.
	MinimumThroughput int

	// FailureThreshold is the failure ratio in (0, 1] at which the
	// key opens.
	FailureThreshold float64

	// WindowsCount is the number of ring buckets the sampling window
	// is divided into.
	//
	// Default: 10.
	WindowsCount int

	// OnStateChange, if non-nil, is called after every state
	// transition, outside the per-key critical section.
	OnStateChange func(key string, from, to State)

	// Clock supplies the time. Leave nil outside of tests.
	Clock clockwork.Clock
}

// A Breaker is a keyed circuit breaker. It is safe for concurrent use
// by multiple goroutines; observations and transitions for one key are
// serialized against each other.
type Breaker struct {
	cfg Config

	lock    sync.Mutex
	entries map[string]*entry
	allows  int
}

type entry struct {
	lock        sync.Mutex
	state       State
	blockedTill time.Time
	win         *window
	touched     time.Time
}

// Idle keys are dropped after this many sampling windows without
// traffic; the registry is scanned once per pruneEvery calls to Allow
// and Observe combined.
const (
	pruneEvery       = 256
	pruneIdleWindows = 10
)

// New constructs a Breaker. It panics if a required Config field is
// missing or out of range.
func New(cfg Config) *Breaker {
	if cfg.BreakDuration <= 0 {
		panic("reqx/breaker: BreakDuration must be positive")
	}
	if cfg.SamplingDuration <= 0 {
		panic("reqx/breaker: SamplingDuration must be positive")
	}
	if cfg.MinimumThroughput <= 0 {
		panic("reqx/breaker: MinimumThroughput must be positive")
	}
	if cfg.FailureThreshold <= 0 || cfg.FailureThreshold > 1 {
		panic("reqx/breaker: FailureThreshold must be in (0, 1]")
	}
	if cfg.WindowsCount == 0 {
		cfg.WindowsCount = 10
	}
	if cfg.WindowsCount < 0 {
		panic("reqx/breaker: WindowsCount must be positive")
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return &Breaker{cfg: cfg, entries: make(map[string]*entry)}
}

// Allow reports whether a request for the given key may proceed.
//
// In Closed state Allow always returns true. In Open state it returns
// false until the break duration has elapsed, at which point the key
// moves to HalfOpen and exactly one caller — the winner of this Allow —
// receives true as the probe; concurrent callers keep receiving false
// until the probe's outcome is reported via Observe.
func (b *Breaker) Allow(key string) bool {
	e := b.entry(key)
	now := b.cfg.Clock.Now()

	e.lock.Lock()
	e.touched = now
	if e.state == Closed {
		e.lock.Unlock()
		return true
	}
	if e.blockedTill.After(now) {
		e.lock.Unlock()
		return false
	}
	// Re-arm the block before admitting the probe so that exactly one
	// caller wins the transition to HalfOpen.
	from := e.state
	e.blockedTill = now.Add(b.cfg.BreakDuration)
	e.state = HalfOpen
	e.lock.Unlock()

	b.transitioned(key, from, HalfOpen)
	return true
}

// Observe records the outcome of a request previously admitted for the
// key. ok true counts as a success, false as a failure.
//
// A failure in Closed state may open the key if the window's failure
// ratio crosses the threshold with at least MinimumThroughput
// observations. A probe outcome in HalfOpen state either closes the
// key (resetting its window) or re-opens it for another break
// duration.
func (b *Breaker) Observe(key string, ok bool) {
	e := b.entry(key)
	now := b.cfg.Clock.Now()

	e.lock.Lock()
	e.touched = now
	from, to := e.state, e.state
	switch {
	case ok && e.state == HalfOpen:
		e.win.reset()
		e.state = Closed
		e.blockedTill = time.Time{}
		to = Closed
		e.win.observe(now, false)
	case ok:
		e.win.observe(now, false)
	case e.state == Closed:
		e.win.observe(now, true)
		total, failures := e.win.snapshot(now)
		if total >= b.cfg.MinimumThroughput && float64(failures)/float64(total) >= b.cfg.FailureThreshold {
			e.state = Open
			e.blockedTill = now.Add(b.cfg.BreakDuration)
			to = Open
		}
	case e.state == HalfOpen:
		e.state = Open
		e.blockedTill = now.Add(b.cfg.BreakDuration)
		to = Open
		e.win.observe(now, true)
	default: // Open: a late attempt admitted before the key opened.
		e.win.observe(now, true)
	}
	e.lock.Unlock()

	if from != to {
		b.transitioned(key, from, to)
	}
}

// State returns the current state of the key. A key with no recorded
// traffic is Closed.
func (b *Breaker) State(key string) State {
	b.lock.Lock()
	e := b.entries[key]
	b.lock.Unlock()
	if e == nil {
		return Closed
	}
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.state
}

func (b *Breaker) entry(key string) *entry {
	b.lock.Lock()
	defer b.lock.Unlock()
	e := b.entries[key]
	if e == nil {
		e = &entry{win: newWindow(b.cfg.SamplingDuration, b.cfg.WindowsCount)}
		b.entries[key] = e
	}
	b.allows++
	if b.allows%pruneEvery == 0 {
		b.prune(b.cfg.Clock.Now())
	}
	return e
}

// prune drops Closed keys that have been idle long enough for their
// window to be indistinguishable from a fresh one. Called with b.lock
// held.
func (b *Breaker) prune(now time.Time) {
	cutoff := now.Add(-time.Duration(pruneIdleWindows) * b.cfg.SamplingDuration)
	for key, e := range b.entries {
		e.lock.Lock()
		idle := e.state == Closed && e.touched.Before(cutoff)
		e.lock.Unlock()
		if idle {
			delete(b.entries, key)
		}
	}
}

func (b *Breaker) transitioned(key string, from, to State) {
	if b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(key, from, to)
	}
}
