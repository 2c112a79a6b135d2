package getContent

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"chapterSite/internal/cms/storyblok"
	"chapterSite/internal/lib/api/response"
	"chapterSite/internal/lib/logger/sl"
	"chapterSite/internal/lib/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// HomeSlug is the story served for the site root.
const HomeSlug = "home"

type Response struct {
	response.Response
	Story *storyblok.Story `json:"story"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=StoryGetter
type StoryGetter interface {
	StoryBySlug(ctx context.Context, slug string) (*storyblok.Story, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Cache
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// CacheKey maps a story slug onto the site path the webhook revalidates.
func CacheKey(slug string) string {
	slug = strings.Trim(slug, "/")
	if slug == "" || slug == HomeSlug {
		return "/"
	}
	return "/" + slug
}

// New serves a CMS story by the wildcard part of the route, from the page
// cache when possible.
func New(log *slog.Logger, getter StoryGetter, cache Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.content.getContent.New"

		slug := strings.Trim(chi.URLParam(r, "*"), "/")
		if slug == "" {
			slug = HomeSlug
		}

		log := log.With(
			slog.String("op", op),
			slog.String("slug", slug),
		)

		key := CacheKey(slug)

		if body, ok := cache.Get(key); ok {
			metrics.ContentCache.WithLabelValues("hit").Inc()
			writeCached(w, body, "HIT")

			return
		}
		metrics.ContentCache.WithLabelValues("miss").Inc()

		story, err := getter.StoryBySlug(r.Context(), slug)
		if err != nil {
			if errors.Is(err, storyblok.ErrNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("content not found"))

				return
			}

			log.Error("failed to fetch story", sl.Err(err))
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, response.Error("failed to load content"))

			return
		}

		body, err := json.Marshal(Response{
			Response: response.OK(),
			Story:    story,
		})
		if err != nil {
			log.Error("failed to encode story", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))

			return
		}

		cache.Set(key, body)
		writeCached(w, body, "MISS")
	}
}

func writeCached(w http.ResponseWriter, body []byte, state string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", state)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
