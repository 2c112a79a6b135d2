// Package pagecache holds rendered CMS payloads keyed by request path so the
// webhook can drop stale pages.
package pagecache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

var ErrInvalidPath = errors.New("path must start with /")

type entry struct {
	value     []byte
	expiresAt time.Time
}

type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]entry
}

type Option func(*Cache)

func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

func New(ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get returns the cached value for key if it has not expired.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false
	}

	return e.value, true
}

func (c *Cache) Set(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: value, expiresAt: c.now().Add(c.ttl)}
}

// Invalidate removes path and every cached variant of it that differs only
// by query string.
func (c *Cache) Invalidate(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !strings.HasPrefix(path, "/") {
		return ErrInvalidPath
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if key == path || strings.HasPrefix(key, path+"?") {
			delete(c.entries, key)
		}
	}

	return nil
}

// Sweep drops every expired entry and returns how many were removed.
func (c *Cache) Sweep() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}

	return removed
}

// Run sweeps every interval until ctx is done.
func (c *Cache) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.Sweep()
		}
	}
}

// Len counts entries, including expired ones not yet swept.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
