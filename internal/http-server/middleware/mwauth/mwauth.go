package mwauth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"chapterSite/internal/auth"
	"chapterSite/internal/lib/api/response"
	"chapterSite/internal/lib/logger/sl"

	"github.com/go-chi/render"
)

type ctxKey struct{}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=SessionVerifier
type SessionVerifier interface {
	CurrentUser(ctx context.Context, token string) (*auth.User, error)
}

// New rejects requests without a valid session with 401 and stores the
// resolved user in the request context otherwise.
func New(log *slog.Logger, verifier SessionVerifier, cookieName string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		log := log.With(
			slog.String("component", "middleware/auth"),
		)

		fn := func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.TokenFromRequest(r, cookieName)
			if err != nil {
				unauthorized(w, r)
				return
			}

			user, err := verifier.CurrentUser(r.Context(), token)
			if err != nil {
				if !errors.Is(err, auth.ErrInvalidToken) && !errors.Is(err, auth.ErrMissingToken) {
					log.Error("failed to verify session", sl.Err(err))
				}
				unauthorized(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		}

		return http.HandlerFunc(fn)
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error("unauthorized"))
}

func WithUser(ctx context.Context, user *auth.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

func UserFromContext(ctx context.Context) (*auth.User, bool) {
	user, ok := ctx.Value(ctxKey{}).(*auth.User)
	return user, ok && user != nil
}
