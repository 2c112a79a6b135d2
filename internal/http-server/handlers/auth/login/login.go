package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"chapterSite/internal/auth"
	"chapterSite/internal/lib/api/response"
	"chapterSite/internal/lib/logger/sl"
	"chapterSite/internal/lib/validation"

	"github.com/go-chi/render"
)

type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Response struct {
	response.Response
	User        auth.User `json:"user"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Cookie controls the session cookie set on successful sign-in.
type Cookie struct {
	Name   string
	Secure bool
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=SignInner
type SignInner interface {
	SignIn(ctx context.Context, email, password string) (*auth.Session, error)
}

func New(log *slog.Logger, signInner SignInner, cookie Cookie) http.HandlerFunc {
	v := validation.New()

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.login.New"

		log := log.With(
			slog.String("op", op),
		)

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Info("failed to decode request body", sl.Err(err))
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

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))

			return
		}

		session, err := signInner.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				log.Info("sign-in rejected")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid email or password"))

				return
			}

			log.Error("failed to sign in", sl.Err(err))
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, response.Error("sign-in is temporarily unavailable"))

			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     cookie.Name,
			Value:    session.AccessToken,
			Path:     "/",
			Expires:  session.ExpiresAt,
			HttpOnly: true,
			Secure:   cookie.Secure,
			SameSite: http.SameSiteLaxMode,
		})

		log.Info("user signed in", slog.String("user_id", session.User.ID))

		render.JSON(w, r, Response{
			Response:    response.OK(),
			User:        session.User,
			AccessToken: session.AccessToken,
			ExpiresAt:   session.ExpiresAt,
		})
	}
}
