package createEvent

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"chapterSite/internal/lib/api/response"
	"chapterSite/internal/lib/logger/sl"
	"chapterSite/internal/lib/validation"
	"chapterSite/internal/models"

	"github.com/go-chi/render"
)

type Request struct {
	Title           string  `json:"title" validate:"required,min=3"`
	Description     string  `json:"description" validate:"required,min=10"`
	Date            string  `json:"date" validate:"required,rfc3339"`
	Location        string  `json:"location" validate:"required,min=3"`
	// The allowed values are checked in Validate against models.CategoryTag.
	Category        string  `json:"category" validate:"required"`
	ImageURL        *string `json:"image_url" validate:"omitnil,url"`
	RegistrationURL *string `json:"registration_url" validate:"omitnil,url"`
	IsFeatured      *bool   `json:"is_featured"`
}

type EventResponse struct {
	response.Response
	Event *models.Event `json:"event"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventCreator
type EventCreator interface {
	CreateEvent(ctx context.Context, ev models.NewEvent) (*models.Event, error)
}

func New(log *slog.Logger, event EventCreator) http.HandlerFunc {
	v := validation.New()

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.createEvent.New"

		log := log.With(
			slog.String("op", op),
		)

		var req Request

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))

			return
		}

		validateErr, err := req.Validate(v)
		if err != nil {
			log.Error("failed to validate request", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))

			return
		}

		if len(validateErr) > 0 {
			log.Info("invalid request", sl.Err(validateErr))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))

			return
		}

		created, err := event.CreateEvent(r.Context(), req.toNewEvent())
		if err != nil {
			log.Error("failed to add event", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to add event"))

			return
		}

		log.Info("event added", slog.String("id", created.ID.String()))

		responseCreated(w, r, created)
	}
}

// Validate returns every rejected field. The error is only set when the
// validator itself fails.
func (req Request) Validate(v *validation.Validator) (validation.Errors, error) {
	var errs validation.Errors

	if err := v.Struct(req); err != nil && !errors.As(err, &errs) {
		return nil, err
	}

	if req.Category != "" {
		if fe := v.Var("category", req.Category, models.CategoryTag); fe != nil {
			errs = append(errs, *fe)
		}
	}

	return errs, nil
}

// toNewEvent must only be called on a validated request.
func (req Request) toNewEvent() models.NewEvent {
	date, _ := time.Parse(time.RFC3339, req.Date)

	ne := models.NewEvent{
		Title:           req.Title,
		Description:     req.Description,
		Date:            date,
		Location:        req.Location,
		Category:        models.Category(req.Category),
		ImageURL:        req.ImageURL,
		RegistrationURL: req.RegistrationURL,
	}
	if req.IsFeatured != nil {
		ne.IsFeatured = *req.IsFeatured
	}

	return ne
}

func responseCreated(w http.ResponseWriter, r *http.Request, event *models.Event) {
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, EventResponse{
		Response: response.OK(),
		Event:    event,
	})
}
