package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestFixedWindowSequence(t *testing.T) {
	t.Parallel()

	clock := newClock()
	fw := NewFixedWindow(5, time.Hour, WithClock(clock.Now))

	for i := 1; i <= 5; i++ {
		res := fw.Check("1.2.3.4")
		require.True(t, res.Allowed, "request %d", i)
		assert.Equal(t, 5-i, res.Remaining)
		assert.Equal(t, 5, res.Limit)
		assert.Equal(t, clock.Now().Add(time.Hour), res.ResetAt)
	}

	denied := fw.Check("1.2.3.4")
	assert.False(t, denied.Allowed)
	assert.Equal(t, 0, denied.Remaining)
	assert.Equal(t, time.Hour, denied.RetryAfter)

	clock.Advance(time.Hour + time.Second)

	res := fw.Check("1.2.3.4")
	assert.True(t, res.Allowed)
	assert.Equal(t, 4, res.Remaining)
}

func TestFixedWindowBoundaryIsInclusive(t *testing.T) {
	t.Parallel()

	clock := newClock()
	fw := NewFixedWindow(1, time.Minute, WithClock(clock.Now))

	require.True(t, fw.Check("k").Allowed)

	clock.Advance(time.Minute)
	assert.False(t, fw.Check("k").Allowed, "window still open at exactly resetAt")

	clock.Advance(time.Nanosecond)
	assert.True(t, fw.Check("k").Allowed)
}

func TestFixedWindowKeysAreIndependent(t *testing.T) {
	t.Parallel()

	fw := NewFixedWindow(1, time.Hour, WithClock(newClock().Now))

	assert.True(t, fw.Check("a").Allowed)
	assert.False(t, fw.Check("a").Allowed)
	assert.True(t, fw.Check("b").Allowed)
}

func TestFixedWindowEmptyKey(t *testing.T) {
	t.Parallel()

	fw := NewFixedWindow(1, time.Hour, WithClock(newClock().Now))

	assert.True(t, fw.Check("").Allowed)
	assert.False(t, fw.Check(UnknownKey).Allowed)
}

func TestSweep(t *testing.T) {
	t.Parallel()

	clock := newClock()
	fw := NewFixedWindow(5, time.Hour, WithClock(clock.Now))

	fw.Check("old")
	clock.Advance(30 * time.Minute)
	fw.Check("new")

	clock.Advance(31 * time.Minute)

	assert.Equal(t, 1, fw.Sweep())
	assert.Equal(t, 1, fw.Len())

	res := fw.Check("new")
	assert.Equal(t, 3, res.Remaining)
}

func TestConcurrentChecksNeverExceedLimit(t *testing.T) {
	t.Parallel()

	fw := NewFixedWindow(50, time.Hour)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if fw.Check("shared").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 50, allowed)
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	clock := newClock()
	fw := NewFixedWindow(5, time.Millisecond, WithClock(clock.Now))

	for i := 0; i < 3; i++ {
		fw.Check(fmt.Sprintf("client-%d", i))
	}
	clock.Advance(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- fw.Run(ctx, time.Millisecond)
	}()

	assert.Eventually(t, func() bool { return fw.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
