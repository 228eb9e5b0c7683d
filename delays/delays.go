// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package delays computes how long to wait before issuing an attempt.
//
// A Provider maps a zero-based attempt index to the delay that must
// elapse before that attempt is issued. The sequential strategy sleeps
// the delay between consecutive attempts; the parallel strategy
// interprets it as the hedging offset from the start of the race.
// Index 0 usually maps to zero so the first attempt launches
// immediately.
package delays

import (
	"math/rand"
	"sync"
	"time"
)

// A Provider returns the delay to wait before issuing the attempt with
// the given zero-based index.
//
// Implementations of Provider must be safe for concurrent use by
// multiple goroutines.
type Provider func(attempt int) time.Duration

// Constant returns a provider yielding the same delay for every
// attempt after the first. Attempt 0 gets zero delay.
func Constant(d time.Duration) Provider {
	return func(attempt int) time.Duration {
		if attempt == 0 {
			return 0
		}
		return d
	}
}

// Linear returns a provider yielding min + multiplier*attempt, the
// classic linear backoff. With min zero the first attempt launches
// immediately.
func Linear(min, multiplier time.Duration) Provider {
	return func(attempt int) time.Duration {
		return min + time.Duration(attempt)*multiplier
	}
}

// Jitter wraps a provider so that each returned delay is perturbed by
// up to ±fraction of its value. Jitter panics if fraction is negative
// or greater than 1.
//
// Parameter jitter seeds the perturbation. Pass nil for a jitter
// source seeded from the current time, or specify either a seed value
// (as a time.Time, int, or int64) or a random number generator (as a
// rand.Source or *rand.Rand).
func Jitter(p Provider, fraction float64, jitter interface{}) Provider {
	if fraction < 0 || fraction > 1 {
		panic("reqx/delays: fraction must be in [0, 1]")
	}
	r := jitterToRand(jitter)
	var lock sync.Mutex
	return func(attempt int) time.Duration {
		d := p(attempt)
		if d <= 0 || fraction == 0 {
			return d
		}
		lock.Lock()
		f := r.Float64()
		sign := r.Float64() < 0.5
		lock.Unlock()
		amount := time.Duration(float64(d) * f * fraction)
		if sign {
			return d - amount
		}
		return d + amount
	}
}

func jitterToRand(jitter interface{}) *rand.Rand {
	var s rand.Source
	switch j := jitter.(type) {
	case nil:
		s = rand.NewSource(time.Now().UnixNano())
	case time.Time:
		s = rand.NewSource(j.UnixNano())
	case int:
		s = rand.NewSource(int64(j))
	case int64:
		s = rand.NewSource(j)
	case *rand.Rand:
		if j == nil {
			panic("reqx/delays: jitter may not be a typed nil")
		}
		return j
	case rand.Source:
		s = j
	default:
		panic("reqx/delays: invalid jitter type")
	}
	return rand.New(s)
}
