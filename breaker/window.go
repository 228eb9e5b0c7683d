// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package breaker

import "time"

// window is a rolling failure-accounting window: a fixed ring of
// buckets, each covering a slice of the sampling duration and holding
// (total, failures) counters.
//
// A bucket is addressed by aligning the current time down to the
// bucket width; a bucket whose stamp no longer matches its slot is
// stale and is zeroed before use, so no timer is needed to expire old
// observations. The caller provides mutual exclusion.
type window struct {
	buckets  []bucket
	width    time.Duration
	sampling time.Duration
}

type bucket struct {
	start    time.Time
	total    int
	failures int
}

func newWindow(sampling time.Duration, count int) *window {
	return &window{
		buckets:  make([]bucket, count),
		width:    sampling / time.Duration(count),
		sampling: sampling,
	}
}

func (w *window) observe(now time.Time, failure bool) {
	b := w.current(now)
	b.total++
	if failure {
		b.failures++
	}
}

// snapshot sums the buckets whose stamp falls within the sampling
// window ending at now.
func (w *window) snapshot(now time.Time) (total, failures int) {
	for i := range w.buckets {
		b := &w.buckets[i]
		if b.start.IsZero() {
			continue
		}
		age := now.Sub(b.start)
		if age >= 0 && age < w.sampling {
			total += b.total
			failures += b.failures
		}
	}
	return total, failures
}

// empty reports whether no live observation remains in the window.
func (w *window) empty(now time.Time) bool {
	total, _ := w.snapshot(now)
	return total == 0
}

func (w *window) reset() {
	for i := range w.buckets {
		w.buckets[i] = bucket{}
	}
}

func (w *window) current(now time.Time) *bucket {
	start := now.Truncate(w.width)
	i := int(start.UnixNano()/int64(w.width)) % len(w.buckets)
	if i < 0 {
		i += len(w.buckets)
	}
	b := &w.buckets[i]
	if !b.start.Equal(start) {
		*b = bucket{start: start}
	}
	return b
}
