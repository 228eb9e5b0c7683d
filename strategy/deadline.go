// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package strategy

import "github.com/soluda/reqx/deadline"

// A DeadlineProvider derives the budget for one attempt from the
// execution deadline. attempt is the zero-based attempt index and
// attempts the configured total.
//
// Implementations must return a deadline that never exceeds d.
type DeadlineProvider func(d deadline.Deadline, attempt, attempts int) deadline.Deadline

// SplitDeadlineBetweenAttempts returns a provider that divides the
// remaining budget evenly between the attempts still to come, so a
// fast early attempt leaves a larger share for the later ones. With 3
// attempts and 9 seconds, attempts that each spend their full share
// see 3s → 3s → 3s; if the first two fail in 1s each, the last sees
// the redistributed 7s.
//
// factor caps how much of the total budget one attempt may consume:
// with factor 2.0 an attempt may use up to twice its even share.
// SplitDeadlineBetweenAttempts panics unless factor >= 1.
//
// attemptsToSplit, when nonzero, bounds how many attempts share the
// budget: the deadline is split between the first attemptsToSplit
// attempts and passed through whole from then on. It panics if nonzero
// and less than 2.
func SplitDeadlineBetweenAttempts(factor float64, attemptsToSplit int) DeadlineProvider {
	if factor < 1 {
		panic("reqx/strategy: factor must be >= 1")
	}
	if attemptsToSplit != 0 && attemptsToSplit < 2 {
		panic("reqx/strategy: attemptsToSplit must be >= 2")
	}
	return func(d deadline.Deadline, attempt, attempts int) deadline.Deadline {
		if d.Expired() {
			return d
		}
		left := attempts - attempt
		if attemptsToSplit != 0 && attemptsToSplit < attempts {
			left = attemptsToSplit - attempt
		}
		if left <= 1 {
			return d
		}
		return d.Split(left, factor)
	}
}

// PassDeadlineThrough returns a provider that gives every attempt the
// whole remaining deadline.
func PassDeadlineThrough() DeadlineProvider {
	return func(d deadline.Deadline, _, _ int) deadline.Deadline {
		return d
	}
}
