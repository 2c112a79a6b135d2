// Package router assembles the HTTP API.
package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"chapterSite/internal/auth"
	"chapterSite/internal/cms/storyblok"
	"chapterSite/internal/http-server/handlers/auth/login"
	"chapterSite/internal/http-server/handlers/auth/logout"
	"chapterSite/internal/http-server/handlers/contact/submitContact"
	"chapterSite/internal/http-server/handlers/content/getContent"
	"chapterSite/internal/http-server/handlers/content/listContent"
	"chapterSite/internal/http-server/handlers/event/createEvent"
	"chapterSite/internal/http-server/handlers/event/deleteEvent"
	"chapterSite/internal/http-server/handlers/event/getAllEvents"
	"chapterSite/internal/http-server/handlers/event/getEventInfo"
	"chapterSite/internal/http-server/handlers/event/updateEvent"
	"chapterSite/internal/http-server/handlers/health"
	"chapterSite/internal/http-server/handlers/webhook/revalidate"
	"chapterSite/internal/http-server/middleware/mwauth"
	"chapterSite/internal/http-server/middleware/mwlogger"
	"chapterSite/internal/http-server/middleware/mwthrottle"
	"chapterSite/internal/lib/metrics"
	"chapterSite/internal/lib/pagecache"
	"chapterSite/internal/lib/ratelimit"
	"chapterSite/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Identity signs officers in and out.
type Identity interface {
	SignIn(ctx context.Context, email, password string) (*auth.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// CMS is the read side of the content service.
type CMS interface {
	StoryBySlug(ctx context.Context, slug string) (*storyblok.Story, error)
	StoriesByTag(ctx context.Context, tag string) ([]storyblok.Story, error)
}

type Deps struct {
	Storage  storage.Storage
	Sessions mwauth.SessionVerifier
	Limiter  *ratelimit.FixedWindow
	Cache    *pagecache.Cache

	// Optional. Routes that need a missing dependency are not mounted.
	Identity      Identity
	LoginThrottle *mwthrottle.Store
	CMS           CMS
	Notifier      submitContact.Notifier

	WebhookSecret string
	CookieName    string
	CookieSecure  bool
	Timeout       time.Duration
}

func New(log *slog.Logger, deps Deps) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(metrics.Middleware)
	if deps.Timeout > 0 {
		router.Use(middleware.Timeout(deps.Timeout))
	}

	router.Get("/healthz", health.NewReadiness(log, "chapter-site", deps.Storage))
	router.Handle("/metrics", metrics.Handler())

	router.Post("/contact", submitContact.New(log, deps.Limiter, deps.Storage, deps.Notifier))
	router.Get("/contact", health.New("contact-form", health.NewRateLimitInfo(deps.Limiter.Limit(), deps.Limiter.Window())))

	router.Post("/revalidate", revalidate.New(log, deps.WebhookSecret, deps.Cache))
	router.Get("/revalidate", health.New("storyblok-webhook", nil))

	if deps.CMS != nil {
		router.Get("/content", listContent.New(log, deps.CMS, deps.Cache))
		router.Get("/content/*", getContent.New(log, deps.CMS, deps.Cache))
	}

	if deps.Identity != nil {
		router.Group(func(r chi.Router) {
			if deps.LoginThrottle != nil {
				r.Use(mwthrottle.New(log, deps.LoginThrottle))
			}
			r.Post("/auth/login", login.New(log, deps.Identity, login.Cookie{
				Name:   deps.CookieName,
				Secure: deps.CookieSecure,
			}))
		})
	}

	router.Group(func(r chi.Router) {
		r.Use(mwauth.New(log, deps.Sessions, deps.CookieName))

		r.Get("/events", getAllEvents.New(log, deps.Storage))
		r.Post("/events", createEvent.New(log, deps.Storage))
		r.Get("/events/{id}", getEventInfo.New(log, deps.Storage))
		r.Put("/events/{id}", updateEvent.New(log, deps.Storage))
		r.Delete("/events/{id}", deleteEvent.New(log, deps.Storage))

		if deps.Identity != nil {
			r.Post("/auth/logout", logout.New(log, deps.Identity, deps.CookieName, deps.CookieSecure))
		}
	})

	return router
}
