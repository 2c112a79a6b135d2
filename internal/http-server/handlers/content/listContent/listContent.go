package listContent

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"chapterSite/internal/cms/storyblok"
	"chapterSite/internal/lib/api/response"
	"chapterSite/internal/lib/logger/sl"
	"chapterSite/internal/lib/metrics"

	"github.com/go-chi/render"
)

type Response struct {
	response.Response
	Stories []storyblok.Story `json:"stories"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=StoriesGetter
type StoriesGetter interface {
	StoriesByTag(ctx context.Context, tag string) ([]storyblok.Story, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Cache
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// CacheKey hangs tag listings off the site root so every publish, which
// always revalidates "/", drops them.
func CacheKey(tag string) string {
	return "/?" + url.Values{"tag": {tag}}.Encode()
}

func New(log *slog.Logger, getter StoriesGetter, cache Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.content.listContent.New"

		tag := strings.TrimSpace(r.URL.Query().Get("tag"))

		log := log.With(
			slog.String("op", op),
			slog.String("tag", tag),
		)

		if tag == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("tag is required"))

			return
		}

		key := CacheKey(tag)

		if body, ok := cache.Get(key); ok {
			metrics.ContentCache.WithLabelValues("hit").Inc()
			write(w, body, "HIT")

			return
		}
		metrics.ContentCache.WithLabelValues("miss").Inc()

		stories, err := getter.StoriesByTag(r.Context(), tag)
		if err != nil {
			log.Error("failed to fetch stories", sl.Err(err))
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, response.Error("failed to load content"))

			return
		}

		if stories == nil {
			stories = []storyblok.Story{}
		}

		body, err := json.Marshal(Response{
			Response: response.OK(),
			Stories:  stories,
		})
		if err != nil {
			log.Error("failed to encode stories", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))

			return
		}

		cache.Set(key, body)
		write(w, body, "MISS")
	}
}

func write(w http.ResponseWriter, body []byte, state string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", state)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
