package revalidate

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"chapterSite/internal/lib/api/response"
	"chapterSite/internal/lib/logger/sl"
	"chapterSite/internal/lib/metrics"
	"chapterSite/internal/lib/validation"

	"github.com/go-chi/render"
)

const (
	SignatureHeader = "webhook-signature"
	maxBodyBytes    = 1 << 20
)

// Request is the Storyblok webhook payload.
type Request struct {
	Text     *string `json:"text" validate:"required"`
	Action   string  `json:"action" validate:"required,oneof=published unpublished deleted"`
	SpaceID  *int64  `json:"space_id" validate:"required"`
	StoryID  *int64  `json:"story_id" validate:"required"`
	FullSlug string  `json:"full_slug" validate:"required"`
}

type Response struct {
	response.Response
	Revalidated []string `json:"revalidated"`
	Failed      []string `json:"failed,omitempty"`
	Timestamp   string   `json:"timestamp"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=PathInvalidator
type PathInvalidator interface {
	Invalidate(ctx context.Context, path string) error
}

// PathsFor lists the cached paths affected by a change to the story at slug.
func PathsFor(slug string) []string {
	slug = strings.Trim(slug, "/")

	paths := []string{"/"}
	if slug == "" {
		return paths
	}

	paths = append(paths, "/"+slug)
	if strings.HasPrefix(slug, "events/") {
		paths = append(paths, "/events")
	}

	return paths
}

// Sign returns the hex HMAC-SHA1 of body keyed with secret.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(body)

	return hex.EncodeToString(mac.Sum(nil))
}

func verify(body []byte, secret, signature string) bool {
	expected := Sign(body, secret)

	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}

// New handles CMS publish webhooks. An empty secret disables signature checks.
func New(log *slog.Logger, secret string, invalidator PathInvalidator) http.HandlerFunc {
	v := validation.New()

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.webhook.revalidate.New"

		log := log.With(
			slog.String("op", op),
		)

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				log.Warn("webhook body too large", slog.Int64("limit", tooLarge.Limit))
				render.Status(r, http.StatusRequestEntityTooLarge)
				render.JSON(w, r, response.Error("request body too large"))

				return
			}

			log.Error("failed to read webhook body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to read request"))

			return
		}

		if secret != "" && !verify(body, secret, r.Header.Get(SignatureHeader)) {
			log.Warn("invalid webhook signature")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid signature"))

			return
		}

		var req Request
		if err := json.Unmarshal(body, &req); err != nil {
			log.Info("failed to decode webhook payload", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid webhook payload"))

			return
		}

		if err := v.Struct(req); err != nil {
			var validateErr validation.Errors
			if !errors.As(err, &validateErr) {
				log.Error("failed to validate webhook payload", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal error"))

				return
			}

			log.Info("invalid webhook payload", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))

			return
		}

		log = log.With(
			slog.String("action", req.Action),
			slog.String("full_slug", req.FullSlug),
			slog.Int64("story_id", *req.StoryID),
		)

		resp := Response{
			Response:    response.OK(),
			Revalidated: []string{},
		}

		for _, path := range PathsFor(req.FullSlug) {
			if err := invalidator.Invalidate(r.Context(), path); err != nil {
				log.Error("failed to revalidate path", slog.String("path", path), sl.Err(err))
				metrics.Revalidations.WithLabelValues("failed").Inc()
				resp.Failed = append(resp.Failed, path)

				continue
			}

			metrics.Revalidations.WithLabelValues("ok").Inc()
			resp.Revalidated = append(resp.Revalidated, path)
		}

		log.Info("content revalidated", slog.Any("paths", resp.Revalidated))

		resp.Timestamp = time.Now().UTC().Format(time.RFC3339)
		render.JSON(w, r, resp)
	}
}
