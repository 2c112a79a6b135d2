// Package mwthrottle slows down repeated requests from one client with a
// token bucket per address. It guards the login endpoint.
package mwthrottle

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"chapterSite/internal/lib/api/response"
	"chapterSite/internal/lib/clientip"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type Store struct {
	every time.Duration
	burst int
	now   func() time.Time

	mu       sync.Mutex
	limiters map[string]*entry
}

// NewStore allows burst requests at once per key and refills one token
// every interval.
func NewStore(every time.Duration, burst int) *Store {
	return &Store{
		every:    every,
		burst:    burst,
		now:      time.Now,
		limiters: make(map[string]*entry),
	}
}

// Allow consumes a token for key. When none is left it reports how long
// until the next one.
func (s *Store) Allow(key string) (bool, time.Duration) {
	now := s.now()

	s.mu.Lock()
	e, ok := s.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(rate.Every(s.every), s.burst)}
		s.limiters[key] = e
	}
	e.lastSeen = now
	s.mu.Unlock()

	if e.limiter.AllowN(now, 1) {
		return true, 0
	}

	r := e.limiter.ReserveN(now, 1)
	wait := r.DelayFrom(now)
	r.CancelAt(now)

	return false, wait
}

// Sweep removes keys idle for longer than idle.
func (s *Store) Sweep(idle time.Duration) int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.limiters {
		if now.Sub(e.lastSeen) > idle {
			delete(s.limiters, key)
			removed++
		}
	}

	return removed
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.limiters)
}

func (s *Store) Run(ctx context.Context, interval, idle time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep(idle)
		}
	}
}

func New(log *slog.Logger, store *Store) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		log := log.With(
			slog.String("component", "middleware/throttle"),
		)

		fn := func(w http.ResponseWriter, r *http.Request) {
			key := clientip.FromRequest(r)

			ok, wait := store.Allow(key)
			if !ok {
				log.Warn("request throttled",
					slog.String("client", key),
					slog.String("path", r.URL.Path),
				)

				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many attempts, try again later"))

				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}
