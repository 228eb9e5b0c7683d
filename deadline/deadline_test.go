// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package deadline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTimeout(t *testing.T) {
	d := FromTimeout(time.Second)
	assert.False(t, d.Expired())
	assert.Greater(t, d.Remaining(), 900*time.Millisecond)
	assert.LessOrEqual(t, d.Remaining(), time.Second)
}

func TestFromTimeoutClampsNegative(t *testing.T) {
	d := FromTimeout(-time.Second)
	assert.True(t, d.Expired())
	assert.Equal(t, time.Duration(0), d.Remaining())
}

func TestZeroValueIsExpired(t *testing.T) {
	var d Deadline
	assert.True(t, d.IsZero())
	assert.True(t, d.Expired())
	assert.Equal(t, time.Duration(0), d.Remaining())
	assert.False(t, FromTimeout(time.Second).IsZero())
}

func TestExpiredEquivalentToZeroRemaining(t *testing.T) {
	d := FromTimeout(10 * time.Millisecond)
	assert.False(t, d.Expired())
	time.Sleep(15 * time.Millisecond)
	assert.True(t, d.Expired())
	assert.Equal(t, time.Duration(0), d.Remaining())
}

func TestSplit(t *testing.T) {
	t.Run("even split", func(t *testing.T) {
		parent := FromTimeout(900 * time.Millisecond)
		child := parent.Split(3, 1.0)
		assert.LessOrEqual(t, child.Remaining(), parent.Remaining())
		assert.InDelta(t, float64(300*time.Millisecond), float64(child.Remaining()), float64(20*time.Millisecond))
	})
	t.Run("factor widens the share", func(t *testing.T) {
		parent := FromTimeout(900 * time.Millisecond)
		child := parent.Split(3, 2.0)
		assert.InDelta(t, float64(600*time.Millisecond), float64(child.Remaining()), float64(20*time.Millisecond))
	})
	t.Run("share never exceeds remaining", func(t *testing.T) {
		parent := FromTimeout(900 * time.Millisecond)
		child := parent.Split(2, 100.0)
		assert.GreaterOrEqual(t, parent.Remaining(), child.Remaining())
		assert.False(t, child.Time().After(parent.Time()))
	})
	t.Run("single part is the whole budget", func(t *testing.T) {
		parent := FromTimeout(900 * time.Millisecond)
		child := parent.Split(1, 1.0)
		assert.InDelta(t, float64(parent.Remaining()), float64(child.Remaining()), float64(20*time.Millisecond))
	})
	t.Run("expired parent yields expired child", func(t *testing.T) {
		parent := FromTimeout(0)
		child := parent.Split(3, 1.0)
		assert.True(t, child.Expired())
	})
}

func TestSplitMonotonicity(t *testing.T) {
	parent := FromTimeout(time.Second)
	for parts := 1; parts <= 5; parts++ {
		for _, factor := range []float64{1.0, 1.5, 2.0, 10.0} {
			child := parent.Split(parts, factor)
			assert.GreaterOrEqual(t, parent.Remaining(), child.Remaining())
			assert.False(t, child.Time().After(parent.Time()))
		}
	}
}

func TestSplitPanics(t *testing.T) {
	d := FromTimeout(time.Second)
	assert.Panics(t, func() { d.Split(0, 1.0) }, "zero parts")
	assert.Panics(t, func() { d.Split(-1, 1.0) }, "negative parts")
	assert.Panics(t, func() { d.Split(2, 0.5) }, "factor below 1")
}

func TestHeaderRoundTrip(t *testing.T) {
	d := FromTimeout(3 * time.Second)
	got, err := Parse(d.Header())
	require.NoError(t, err)
	assert.InDelta(t, float64(3*time.Second), float64(got.Remaining()), float64(50*time.Millisecond))
}

func TestHeaderEncodesRemainingSeconds(t *testing.T) {
	assert.Equal(t, "0.000", FromTimeout(0).Header())
	h := FromTimeout(2500 * time.Millisecond).Header()
	seconds, err := Parse(h)
	require.NoError(t, err)
	assert.False(t, seconds.Expired())
}

func TestParse(t *testing.T) {
	t.Run("malformed", func(t *testing.T) {
		_, err := Parse("soon")
		assert.Error(t, err)
	})
	t.Run("zero is expired", func(t *testing.T) {
		d, err := Parse("0")
		require.NoError(t, err)
		assert.True(t, d.Expired())
	})
	t.Run("negative is expired", func(t *testing.T) {
		d, err := Parse("-1.5")
		require.NoError(t, err)
		assert.True(t, d.Expired())
	})
	t.Run("fractional", func(t *testing.T) {
		d, err := Parse("0.250")
		require.NoError(t, err)
		assert.Greater(t, d.Remaining(), 200*time.Millisecond)
	})
}

func TestString(t *testing.T) {
	assert.Equal(t, "<Deadline [expired]>", FromTimeout(0).String())
	assert.Contains(t, FromTimeout(time.Minute).String(), "timeout=")
}
