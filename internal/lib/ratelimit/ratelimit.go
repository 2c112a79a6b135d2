// Package ratelimit implements a process-local fixed-window request limiter.
//
// Counts live in memory only. Running several instances gives each one its
// own budget.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// UnknownKey buckets requests whose client address could not be determined.
const UnknownKey = "unknown"

type Result struct {
	Allowed   bool
	Remaining int
	Limit     int
	ResetAt   time.Time
	// RetryAfter is set on denial. It is the full window, not the time left.
	RetryAfter time.Duration
}

type Limiter interface {
	Check(key string) Result
}

type record struct {
	count   int
	resetAt time.Time
}

type FixedWindow struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	records map[string]*record
}

type Option func(*FixedWindow)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(fw *FixedWindow) {
		fw.now = now
	}
}

func NewFixedWindow(limit int, window time.Duration, opts ...Option) *FixedWindow {
	fw := &FixedWindow{
		limit:   limit,
		window:  window,
		now:     time.Now,
		records: make(map[string]*record),
	}

	for _, opt := range opts {
		opt(fw)
	}

	return fw
}

func (fw *FixedWindow) Limit() int {
	return fw.limit
}

func (fw *FixedWindow) Window() time.Duration {
	return fw.window
}

func (fw *FixedWindow) Check(key string) Result {
	if key == "" {
		key = UnknownKey
	}

	now := fw.now()

	fw.mu.Lock()
	defer fw.mu.Unlock()

	rec, ok := fw.records[key]
	if !ok || now.After(rec.resetAt) {
		rec = &record{count: 1, resetAt: now.Add(fw.window)}
		fw.records[key] = rec

		return Result{
			Allowed:   true,
			Remaining: fw.limit - 1,
			Limit:     fw.limit,
			ResetAt:   rec.resetAt,
		}
	}

	if rec.count < fw.limit {
		rec.count++

		return Result{
			Allowed:   true,
			Remaining: fw.limit - rec.count,
			Limit:     fw.limit,
			ResetAt:   rec.resetAt,
		}
	}

	return Result{
		Allowed:    false,
		Remaining:  0,
		Limit:      fw.limit,
		ResetAt:    rec.resetAt,
		RetryAfter: fw.window,
	}
}

// Sweep drops every record whose window has ended and returns how many were
// removed.
func (fw *FixedWindow) Sweep() int {
	now := fw.now()

	fw.mu.Lock()
	defer fw.mu.Unlock()

	removed := 0
	for key, rec := range fw.records {
		if now.After(rec.resetAt) {
			delete(fw.records, key)
			removed++
		}
	}

	return removed
}

// Len returns the number of tracked keys.
func (fw *FixedWindow) Len() int {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	return len(fw.records)
}

// Run sweeps every interval until ctx is done.
func (fw *FixedWindow) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			fw.Sweep()
		}
	}
}
