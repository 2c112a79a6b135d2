package logout

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

type Response struct {
	response.Response
	Message string `json:"message"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=SignOuter
type SignOuter interface {
	SignOut(ctx context.Context, accessToken string) error
}

// New revokes the caller's session upstream and clears the session cookie.
// The cookie is cleared even when the identity service call fails.
func New(log *slog.Logger, signOuter SignOuter, cookieName string, secure bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.logout.New"

		log := log.With(
			slog.String("op", op),
		)

		token, err := auth.TokenFromRequest(r, cookieName)
		if err != nil {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))

			return
		}

		err = signOuter.SignOut(r.Context(), token)

		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})

		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))

				return
			}

			log.Error("failed to sign out", sl.Err(err))
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, response.Error("sign-out is temporarily unavailable"))

			return
		}

		render.JSON(w, r, Response{
			Response: response.OK(),
			Message:  "signed out",
		})
	}
}
