package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chapterSite/internal/models"

	"github.com/google/uuid"
)

var (
	ErrEventNotFound = errors.New("event not found")
)

// Storage is everything the HTTP layer needs from a backend. Both the
// postgres and the sqlite packages satisfy it.
type Storage interface {
	ListEvents(ctx context.Context) ([]models.Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error)
	CreateEvent(ctx context.Context, ev models.NewEvent) (*models.Event, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, patch models.EventPatch) (*models.Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	SaveContactSubmission(ctx context.Context, sub models.NewContactSubmission) (*models.ContactSubmission, error)
	Ping(ctx context.Context) error
	Close() error
}

// EventColumns is the select list ScanEvent expects.
const EventColumns = `id, title, description, date, location, category, image_url, registration_url, is_featured, created_at, updated_at`

type Scanner interface {
	Scan(dest ...any) error
}

func ScanEvent(row Scanner) (*models.Event, error) {
	var ev models.Event

	err := row.Scan(
		&ev.ID,
		&ev.Title,
		&ev.Description,
		&ev.Date,
		&ev.Location,
		&ev.Category,
		&ev.ImageURL,
		&ev.RegistrationURL,
		&ev.IsFeatured,
		&ev.CreatedAt,
		&ev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	ev.Date = ev.Date.UTC()
	ev.CreatedAt = ev.CreatedAt.UTC()
	ev.UpdatedAt = ev.UpdatedAt.UTC()

	return &ev, nil
}

// PatchAssignments renders the SET list of an UPDATE for the fields present
// in patch. placeholder maps a 1-based argument index to the driver's bind
// syntax. updated_at is not included.
func PatchAssignments(patch models.EventPatch, placeholder func(n int) string) ([]string, []any) {
	var (
		sets []string
		args []any
	)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = %s", column, placeholder(len(args))))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Date != nil {
		add("date", patch.Date.UTC())
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.Category != nil {
		add("category", string(*patch.Category))
	}
	if patch.SetImageURL {
		add("image_url", patch.ImageURL)
	}
	if patch.SetRegistrationURL {
		add("registration_url", patch.RegistrationURL)
	}
	if patch.IsFeatured != nil {
		add("is_featured", *patch.IsFeatured)
	}

	return sets, args
}

// JoinAssignments is strings.Join with the separator UPDATE statements use.
func JoinAssignments(sets []string) string {
	return strings.Join(sets, ", ")
}
