package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"chapterSite/internal/lib/api/response"
	"chapterSite/internal/lib/logger/sl"

	"github.com/go-chi/render"
)

type RateLimitInfo struct {
	MaxRequests int   `json:"max_requests"`
	WindowMs    int64 `json:"window_ms"`
}

type Response struct {
	response.Response
	Service   string         `json:"service"`
	RateLimit *RateLimitInfo `json:"rate_limit,omitempty"`
	Timestamp string         `json:"timestamp"`
}

// NewRateLimitInfo describes a limiter allowing limit requests per window.
func NewRateLimitInfo(limit int, window time.Duration) *RateLimitInfo {
	return &RateLimitInfo{
		MaxRequests: limit,
		WindowMs:    window.Milliseconds(),
	}
}

// New reports that service is up. rateLimit may be nil.
func New(service string, rateLimit *RateLimitInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, Response{
			Response:  response.OK(),
			Service:   service,
			RateLimit: rateLimit,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Pinger
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewReadiness reports 503 while pinger fails.
func NewReadiness(log *slog.Logger, service string, pinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.health.NewReadiness"

		resp := Response{
			Response: response.OK(),
			Service:  service,
		}

		if err := pinger.Ping(r.Context()); err != nil {
			log.Error("storage is not reachable", slog.String("op", op), sl.Err(err))
			resp.Response = response.Error("storage unavailable")
			render.Status(r, http.StatusServiceUnavailable)
		}

		resp.Timestamp = time.Now().UTC().Format(time.RFC3339)
		render.JSON(w, r, resp)
	}
}
