package updateEvent

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"chapterSite/internal/lib/api/response"
	"chapterSite/internal/lib/logger/sl"
	"chapterSite/internal/lib/optional"
	"chapterSite/internal/lib/validation"
	"chapterSite/internal/models"
	"chapterSite/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

// Request is a partial update. Keys left out of the body keep their stored
// value. Only image_url and registration_url accept null, which clears them.
type Request struct {
	Title           optional.Field[string] `json:"title"`
	Description     optional.Field[string] `json:"description"`
	Date            optional.Field[string] `json:"date"`
	Location        optional.Field[string] `json:"location"`
	Category        optional.Field[string] `json:"category"`
	ImageURL        optional.Field[string] `json:"image_url"`
	RegistrationURL optional.Field[string] `json:"registration_url"`
	IsFeatured      optional.Field[bool]   `json:"is_featured"`
}

type EventResponse struct {
	response.Response
	Event *models.Event `json:"event"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventUpdater
type EventUpdater interface {
	UpdateEvent(ctx context.Context, id uuid.UUID, patch models.EventPatch) (*models.Event, error)
}

func New(log *slog.Logger, updater EventUpdater) http.HandlerFunc {
	v := validation.New()

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.updateEvent.New"

		log := log.With(slog.String("op", op))

		eventID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			log.Info("invalid event id format", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid event id format"))
			return
		}

		log = log.With(slog.String("event_id", eventID.String()))

		var req Request
		if err = render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if errs := req.Validate(v); len(errs) > 0 {
			log.Info("invalid request", sl.Err(errs))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(errs))
			return
		}

		updated, err := updater.UpdateEvent(r.Context(), eventID, req.Patch())
		if err != nil {
			if errors.Is(err, storage.ErrEventNotFound) {
				log.Info("event not found")
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
				return
			}

			log.Error("failed to update event", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update event"))
			return
		}

		log.Info("event updated")

		render.JSON(w, r, EventResponse{
			Response: response.OK(),
			Event:    updated,
		})
	}
}

type stringRule struct {
	name     string
	field    optional.Field[string]
	tag      string
	nullable bool
}

// Validate checks every key present in the body with the same rule used on
// creation.
func (req Request) Validate(v *validation.Validator) validation.Errors {
	rules := []stringRule{
		{name: "title", field: req.Title, tag: "required,min=3"},
		{name: "description", field: req.Description, tag: "required,min=10"},
		{name: "date", field: req.Date, tag: "required,rfc3339"},
		{name: "location", field: req.Location, tag: "required,min=3"},
		{name: "category", field: req.Category, tag: "required," + models.CategoryTag},
		{name: "image_url", field: req.ImageURL, tag: "url", nullable: true},
		{name: "registration_url", field: req.RegistrationURL, tag: "url", nullable: true},
	}

	var errs validation.Errors

	for _, rule := range rules {
		if !rule.field.Set {
			continue
		}

		if rule.field.Null {
			if !rule.nullable {
				errs = append(errs, validation.FieldError{Field: rule.name, Message: rule.name + " cannot be null"})
			}
			continue
		}

		if fe := v.Var(rule.name, rule.field.Value, rule.tag); fe != nil {
			errs = append(errs, *fe)
		}
	}

	if req.IsFeatured.Set && req.IsFeatured.Null {
		errs = append(errs, validation.FieldError{Field: "is_featured", Message: "is_featured cannot be null"})
	}

	return errs
}

// Patch must only be called after Validate returned no errors.
func (req Request) Patch() models.EventPatch {
	var p models.EventPatch

	if req.Title.Present() {
		p.Title = &req.Title.Value
	}
	if req.Description.Present() {
		p.Description = &req.Description.Value
	}
	if req.Date.Present() {
		if d, err := time.Parse(time.RFC3339, req.Date.Value); err == nil {
			p.Date = &d
		}
	}
	if req.Location.Present() {
		p.Location = &req.Location.Value
	}
	if req.Category.Present() {
		c := models.Category(req.Category.Value)
		p.Category = &c
	}
	if req.IsFeatured.Present() {
		p.IsFeatured = &req.IsFeatured.Value
	}
	if req.ImageURL.Set {
		p.SetImageURL = true
		p.ImageURL = req.ImageURL.Ptr()
	}
	if req.RegistrationURL.Set {
		p.SetRegistrationURL = true
		p.RegistrationURL = req.RegistrationURL.Ptr()
	}

	return p
}
