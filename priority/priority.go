// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package priority defines the request priority propagated between
// services alongside the deadline.
//
// A priority is an opaque small nonnegative integer. Smaller values
// mean higher priority; this convention is stable and part of the wire
// contract, but the values themselves carry no canonical semantics
// beyond it, so callers and servers must agree on the levels they use.
// The named levels High, Normal, and Low cover the common case.
package priority

import (
	"fmt"
	"strconv"
)

// A Priority orders requests competing for the same downstream
// capacity. Smaller values mean higher priority. Priorities are
// immutable values.
type Priority int

const (
	// Unspecified is the zero value. A client substitutes its default
	// priority for it before emitting headers.
	Unspecified Priority = 0
	// High marks latency-critical requests.
	High Priority = 1
	// Normal is the default for interactive traffic.
	Normal Priority = 2
	// Low marks background and batch traffic.
	Low Priority = 3
)

// Header encodes the priority as a decimal integer for transmission in
// the X-Request-Priority header.
func (p Priority) Header() string {
	return strconv.Itoa(int(p))
}

// Parse reconstructs a Priority from a header value produced by Header.
// Negative and non-numeric values are errors; servers that receive one
// should fall back to treating the request as Normal.
func Parse(value string) (Priority, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return Unspecified, fmt.Errorf("reqx/priority: malformed header value %q: %w", value, err)
	}
	if n < 0 {
		return Unspecified, fmt.Errorf("reqx/priority: negative value %d", n)
	}
	return Priority(n), nil
}

// Normalize combines a caller-requested priority with one propagated
// from the surrounding request context. A contextual priority pulls the
// extremes toward Normal: a Low request inside a High context, or a
// High request inside a Low context, both become Normal. Otherwise the
// caller's priority wins.
func Normalize(p, contextual Priority) Priority {
	if contextual == Unspecified {
		return p
	}
	if p == Low && contextual == High {
		return Normal
	}
	if p == High && contextual == Low {
		return Normal
	}
	return p
}

func (p Priority) String() string {
	switch p {
	case Unspecified:
		return "unspecified"
	case High:
		return "high"
	case Normal:
		return "normal"
	case Low:
		return "low"
	default:
		return strconv.Itoa(int(p))
	}
}
