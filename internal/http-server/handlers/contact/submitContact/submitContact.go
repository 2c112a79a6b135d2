package submitContact

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"chapterSite/internal/lib/api/response"
	"chapterSite/internal/lib/clientip"
	"chapterSite/internal/lib/logger/sl"
	"chapterSite/internal/lib/metrics"
	"chapterSite/internal/lib/ratelimit"
	"chapterSite/internal/lib/sanitize"
	"chapterSite/internal/lib/validation"
	"chapterSite/internal/models"

	"github.com/go-chi/render"
)

type Request struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Subject string `json:"subject" validate:"required,min=5,max=200"`
	Message string `json:"message" validate:"required,min=10,max=2000"`
}

type SubmitResponse struct {
	response.Response
	ID      string `json:"id"`
	Message string `json:"message"`
}

type RateLimitedResponse struct {
	response.Response
	Remaining int `json:"remaining"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=RateLimiter
type RateLimiter interface {
	Check(key string) ratelimit.Result
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=SubmissionSaver
type SubmissionSaver interface {
	SaveContactSubmission(ctx context.Context, sub models.NewContactSubmission) (*models.ContactSubmission, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Notifier
type Notifier interface {
	NotifyContactSubmission(ctx context.Context, sub *models.ContactSubmission) error
}

// New handles public contact form posts. notifier may be nil.
func New(log *slog.Logger, limiter RateLimiter, saver SubmissionSaver, notifier Notifier) http.HandlerFunc {
	v := validation.New()

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.contact.submitContact.New"

		key := clientip.FromRequest(r)

		log := log.With(
			slog.String("op", op),
			slog.String("client", key),
		)

		limit := limiter.Check(key)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limit.Remaining))

		if !limit.Allowed {
			log.Warn("contact rate limit exceeded")
			metrics.ContactSubmissions.WithLabelValues("rate_limited").Inc()

			w.Header().Set("Retry-After", strconv.Itoa(int(limit.RetryAfter.Seconds())))
			render.Status(r, http.StatusTooManyRequests)
			render.JSON(w, r, RateLimitedResponse{
				Response:  response.Error("too many requests, please try again later"),
				Remaining: 0,
			})

			return
		}

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Info("failed to decode request body", sl.Err(err))
			metrics.ContactSubmissions.WithLabelValues("invalid").Inc()
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))

			return
		}

		if err := v.Struct(req); err != nil {
			var validateErr validation.Errors
			if !errors.As(err, &validateErr) {
				log.Error("failed to validate request", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal error"))

				return
			}

			log.Info("invalid request", sl.Err(err))
			metrics.ContactSubmissions.WithLabelValues("invalid").Inc()
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))

			return
		}

		sub, err := saver.SaveContactSubmission(r.Context(), models.NewContactSubmission{
			Name:    sanitize.Text(req.Name),
			Email:   req.Email,
			Subject: sanitize.Text(req.Subject),
			Message: sanitize.Text(req.Message),
		})
		if err != nil {
			log.Error("failed to save contact submission", sl.Err(err))
			metrics.ContactSubmissions.WithLabelValues("error").Inc()
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("an error occurred while submitting your message, please try again"))

			return
		}

		log.Info("contact form submitted", slog.String("id", sub.ID))
		metrics.ContactSubmissions.WithLabelValues("accepted").Inc()

		if notifier != nil {
			if err := notifier.NotifyContactSubmission(r.Context(), sub); err != nil {
				log.Warn("failed to notify officers", sl.Err(err))
			}
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, SubmitResponse{
			Response: response.OK(),
			ID:       sub.ID,
			Message:  "Thank you for contacting us! We'll get back to you soon.",
		})
	}
}
