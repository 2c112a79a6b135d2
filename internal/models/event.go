package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryMeeting     Category = "meeting"
	CategoryCompetition Category = "competition"
	CategoryWorkshop    Category = "workshop"
	CategorySocial      Category = "social"
	CategoryOther       Category = "other"
)

var Categories = []Category{
	CategoryMeeting,
	CategoryCompetition,
	CategoryWorkshop,
	CategorySocial,
	CategoryOther,
}

// CategoryTag is the validator rule accepting exactly Categories.
var CategoryTag = categoryTag()

func categoryTag() string {
	names := make([]string, 0, len(Categories))
	for _, c := range Categories {
		names = append(names, string(c))
	}
	return "oneof=" + strings.Join(names, " ")
}

type Event struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Date            time.Time `json:"date"`
	Location        string    `json:"location"`
	Category        Category  `json:"category"`
	ImageURL        *string   `json:"image_url"`
	RegistrationURL *string   `json:"registration_url"`
	IsFeatured      bool      `json:"is_featured"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewEvent holds the caller-supplied fields of an event about to be created.
type NewEvent struct {
	Title           string
	Description     string
	Date            time.Time
	Location        string
	Category        Category
	ImageURL        *string
	RegistrationURL *string
	IsFeatured      bool
}

// EventPatch lists the fields an update changes. Nil means unchanged. For the
// two URL fields SetX with a nil X clears the column.
type EventPatch struct {
	Title       *string
	Description *string
	Date        *time.Time
	Location    *string
	Category    *Category
	IsFeatured  *bool

	SetImageURL        bool
	ImageURL           *string
	SetRegistrationURL bool
	RegistrationURL    *string
}

func (p EventPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Date == nil &&
		p.Location == nil && p.Category == nil && p.IsFeatured == nil &&
		!p.SetImageURL && !p.SetRegistrationURL
}
