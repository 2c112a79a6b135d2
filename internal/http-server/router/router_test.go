package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chapterSite/internal/auth"
	"chapterSite/internal/http-server/handlers/webhook/revalidate"
	"chapterSite/internal/lib/logger/handlers/slogdiscard"
	"chapterSite/internal/lib/pagecache"
	"chapterSite/internal/lib/ratelimit"
	"chapterSite/internal/lib/validation"
	"chapterSite/internal/models"
	"chapterSite/internal/storage/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	jwtSecret = "router-test-secret"
	audience  = "authenticated"
)

type testServer struct {
	handler http.Handler
	token   string
	cache   *pagecache.Cache
}

func newTestServer(t *testing.T, webhookSecret string) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "chapter.db"), 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	sessions := auth.NewJWTManager(jwtSecret, audience)
	token, err := sessions.Generate(auth.User{ID: "officer-1", Email: "officer@example.org", Role: "authenticated"}, time.Hour)
	require.NoError(t, err)

	cache := pagecache.New(time.Hour)

	handler := New(slogdiscard.NewDiscardLogger(), Deps{
		Storage:       store,
		Sessions:      sessions,
		Limiter:       ratelimit.NewFixedWindow(5, time.Hour),
		Cache:         cache,
		WebhookSecret: webhookSecret,
		CookieName:    "session",
		Timeout:       5 * time.Second,
	})

	return &testServer{handler: handler, token: token, cache: cache}
}

func (s *testServer) do(t *testing.T, method, path, body string, authed bool, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)

	return rr
}

func TestEventsRequireSession(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, "")

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/events"},
		{http.MethodPost, "/events"},
		{http.MethodGet, "/events/7b0e9a8e-4f55-4c9e-9f1b-2f6f1a8f0d11"},
		{http.MethodPut, "/events/7b0e9a8e-4f55-4c9e-9f1b-2f6f1a8f0d11"},
		{http.MethodDelete, "/events/7b0e9a8e-4f55-4c9e-9f1b-2f6f1a8f0d11"},
	} {
		rr := srv.do(t, tc.method, tc.path, "", false, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", tc.method, tc.path)
		assert.JSONEq(t, `{"status":"Error","error":"unauthorized"}`, rr.Body.String())
	}

	rr := srv.do(t, http.MethodGet, "/events", "", false, map[string]string{"Authorization": "Bearer not-a-jwt"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestEventLifecycle(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, "")

	rr := srv.do(t, http.MethodPost, "/events", `{
		"title": "District Competition",
		"description": "Regional competition for all chapters in the district.",
		"date": "2026-04-12T15:00:00Z",
		"location": "Main Hall",
		"category": "competition",
		"registration_url": "https://example.org/register"
	}`, true, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created struct {
		Status string       `json:"status"`
		Event  models.Event `json:"event"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	id := created.Event.ID.String()

	rr = srv.do(t, http.MethodGet, "/events/"+id, "", true, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var fetched struct {
		Event models.Event `json:"event"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fetched))

	assert.Equal(t, "District Competition", fetched.Event.Title)
	assert.Equal(t, "Main Hall", fetched.Event.Location)
	assert.Equal(t, models.CategoryCompetition, fetched.Event.Category)
	assert.True(t, fetched.Event.Date.Equal(time.Date(2026, 4, 12, 15, 0, 0, 0, time.UTC)))
	require.NotNil(t, fetched.Event.RegistrationURL)
	assert.Equal(t, "https://example.org/register", *fetched.Event.RegistrationURL)
	assert.Nil(t, fetched.Event.ImageURL)
	assert.False(t, fetched.Event.IsFeatured)

	rr = srv.do(t, http.MethodPut, "/events/"+id, `{"is_featured":true,"registration_url":null}`, true, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var updated struct {
		Event models.Event `json:"event"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.True(t, updated.Event.IsFeatured)
	assert.Nil(t, updated.Event.RegistrationURL)
	assert.Equal(t, "District Competition", updated.Event.Title)

	rr = srv.do(t, http.MethodGet, "/events", "", true, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var listed struct {
		Events []models.Event `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	require.Len(t, listed.Events, 1)

	rr = srv.do(t, http.MethodDelete, "/events/"+id, "", true, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	for i := 0; i < 2; i++ {
		rr = srv.do(t, http.MethodDelete, "/events/"+id, "", true, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	}

	rr = srv.do(t, http.MethodGet, "/events/"+id, "", true, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateEventValidation(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, "")

	rr := srv.do(t, http.MethodPost, "/events",
		`{"title":"Hi","description":"short","date":"not-a-date","location":"","category":"invalid"}`, true, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp struct {
		Status  string                  `json:"status"`
		Details []validation.FieldError `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Error", resp.Status)
	assert.Len(t, resp.Details, 5)

	rr = srv.do(t, http.MethodGet, "/events", "", true, nil)
	assert.JSONEq(t, `{"status":"OK","events":[]}`, rr.Body.String())
}

func TestEventBadID(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, "")

	rr := srv.do(t, http.MethodGet, "/events/not-a-uuid", "", true, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestContactRateLimit(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, "")

	body := `{"name":"Jane Doe","email":"jane@example.com","subject":"Membership","message":"How can I join the chapter?"}`
	headers := map[string]string{"X-Forwarded-For": "1.2.3.4"}

	for i := 1; i <= 5; i++ {
		rr := srv.do(t, http.MethodPost, "/contact", body, false, headers)
		require.Equal(t, http.StatusCreated, rr.Code, "submission %d: %s", i, rr.Body.String())
		assert.Equal(t, "5", rr.Header().Get("X-RateLimit-Limit"))
	}

	rr := srv.do(t, http.MethodPost, "/contact", body, false, headers)
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "3600", rr.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"status":"Error","error":"too many requests, please try again later","remaining":0}`, rr.Body.String())
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, "")

	rr := srv.do(t, http.MethodGet, "/contact", "", false, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var contact struct {
		Service   string `json:"service"`
		RateLimit struct {
			MaxRequests int   `json:"max_requests"`
			WindowMs    int64 `json:"window_ms"`
		} `json:"rate_limit"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &contact))
	assert.Equal(t, "contact-form", contact.Service)
	assert.Equal(t, 5, contact.RateLimit.MaxRequests)
	assert.Equal(t, int64(3600000), contact.RateLimit.WindowMs)

	for _, path := range []string{"/revalidate", "/healthz"} {
		rr = srv.do(t, http.MethodGet, path, "", false, nil)
		assert.Equal(t, http.StatusOK, rr.Code, path)
	}

	rr = srv.do(t, http.MethodGet, "/metrics", "", false, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "chapter_site_http_requests_total")
}

func TestRevalidate(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, "hook-secret")

	srv.cache.Set("/events/district-comp", []byte("{}"))
	srv.cache.Set("/events", []byte("{}"))
	srv.cache.Set("/about", []byte("{}"))

	body := `{"text":"published","action":"published","space_id":1,"story_id":2,"full_slug":"events/district-comp"}`

	rr := srv.do(t, http.MethodPost, "/revalidate", body, false, map[string]string{
		revalidate.SignatureHeader: "deadbeef",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = srv.do(t, http.MethodPost, "/revalidate", body, false, map[string]string{
		revalidate.SignatureHeader: revalidate.Sign([]byte(body), "hook-secret"),
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Revalidated []string `json:"revalidated"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, []string{"/", "/events/district-comp", "/events"}, resp.Revalidated)

	_, ok := srv.cache.Get("/events/district-comp")
	assert.False(t, ok)
	_, ok = srv.cache.Get("/about")
	assert.True(t, ok)
}

func TestContentRoutesNeedCMS(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, "")

	rr := srv.do(t, http.MethodGet, "/content?tag=news", "", false, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = srv.do(t, http.MethodPost, "/auth/login", `{}`, false, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
