package mwthrottle

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chapterSite/internal/lib/logger/handlers/slogdiscard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAllowsBurstThenRefills(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(3*time.Minute, 5)
	s.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		ok, _ := s.Allow("1.2.3.4")
		require.True(t, ok, "attempt %d", i+1)
	}

	ok, wait := s.Allow("1.2.3.4")
	assert.False(t, ok)
	assert.InDelta(t, (3 * time.Minute).Seconds(), wait.Seconds(), 0.01)

	ok, _ = s.Allow("5.6.7.8")
	assert.True(t, ok, "other clients keep their own bucket")

	now = now.Add(3*time.Minute + time.Second)
	ok, _ = s.Allow("1.2.3.4")
	assert.True(t, ok)

	ok, _ = s.Allow("1.2.3.4")
	assert.False(t, ok)
}

func TestStoreSweep(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(time.Minute, 1)
	s.now = func() time.Time { return now }

	s.Allow("old")
	now = now.Add(10 * time.Minute)
	s.Allow("new")
	now = now.Add(6 * time.Minute)

	assert.Equal(t, 1, s.Sweep(15*time.Minute))
	assert.Equal(t, 1, s.Len())
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	s := NewStore(time.Hour, 2)
	h := New(slogdiscard.NewDiscardLogger(), s)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.Header.Set("X-Forwarded-For", "9.9.9.9")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusOK, do().Code)
	assert.Equal(t, http.StatusOK, do().Code)

	rr := do()
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"status":"Error","error":"too many attempts, try again later"}`, rr.Body.String())
}
