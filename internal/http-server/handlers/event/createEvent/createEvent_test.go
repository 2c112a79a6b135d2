package createEvent

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chapterSite/internal/http-server/handlers/event/createEvent/mocks"
	"chapterSite/internal/lib/logger/handlers/slogdiscard"
	"chapterSite/internal/lib/validation"
	"chapterSite/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type validationResponse struct {
	Status  string                  `json:"status"`
	Error   string                  `json:"error"`
	Details []validation.FieldError `json:"details"`
}

func strPtr(s string) *string { return &s }

func TestCreateEventHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	testTime := time.Date(2024, 12, 25, 18, 0, 0, 0, time.UTC)
	eventID := uuid.MustParse("4f1b7c1e-2a0d-4f53-9a43-0d3c8f0a9b11")

	expectedNew := models.NewEvent{
		Title:       "Test Event",
		Description: "A description that is long enough.",
		Date:        testTime,
		Location:    "Room 101",
		Category:    models.CategoryWorkshop,
	}

	created := &models.Event{
		ID:          eventID,
		Title:       expectedNew.Title,
		Description: expectedNew.Description,
		Date:        testTime,
		Location:    expectedNew.Location,
		Category:    expectedNew.Category,
		CreatedAt:   testTime,
		UpdatedAt:   testTime,
	}

	validBody := `{
		"title": "Test Event",
		"description": "A description that is long enough.",
		"date": "2024-12-25T18:00:00Z",
		"location": "Room 101",
		"category": "workshop"
	}`

	testCases := []struct {
		name           string
		requestBody    string
		mockSetup      func(m *mocks.EventCreator)
		expectedStatus int
		expectedBody   string
		checkBody      func(t *testing.T, body string)
	}{
		{
			name:        "Success",
			requestBody: validBody,
			mockSetup: func(m *mocks.EventCreator) {
				m.On("CreateEvent", mock.Anything, expectedNew).Return(created, nil)
			},
			expectedStatus: http.StatusCreated,
			checkBody: func(t *testing.T, body string) {
				var resp EventResponse
				require.NoError(t, json.Unmarshal([]byte(body), &resp))

				assert.Equal(t, "OK", resp.Status)
				require.NotNil(t, resp.Event)
				assert.Equal(t, eventID, resp.Event.ID)
				assert.False(t, resp.Event.IsFeatured)
			},
		},
		{
			name: "Success with optional fields",
			requestBody: `{
				"title": "Test Event",
				"description": "A description that is long enough.",
				"date": "2024-12-25T13:00:00-05:00",
				"location": "Room 101",
				"category": "workshop",
				"image_url": "https://example.com/poster.png",
				"registration_url": null,
				"is_featured": true,
				"unknown_field": "ignored"
			}`,
			mockSetup: func(m *mocks.EventCreator) {
				m.On("CreateEvent", mock.Anything, mock.MatchedBy(func(ne models.NewEvent) bool {
					return ne.Date.Equal(testTime) &&
						ne.ImageURL != nil && *ne.ImageURL == "https://example.com/poster.png" &&
						ne.RegistrationURL == nil &&
						ne.IsFeatured
				})).Return(created, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Invalid JSON",
			requestBody:    `invalid json`,
			mockSetup:      func(m *mocks.EventCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode request"}`,
		},
		{
			name:           "Wrong field type",
			requestBody:    `{"title": 42}`,
			mockSetup:      func(m *mocks.EventCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode request"}`,
		},
		{
			name:        "Internal server error",
			requestBody: validBody,
			mockSetup: func(m *mocks.EventCreator) {
				m.On("CreateEvent", mock.Anything, expectedNew).Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to add event"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockCreator := mocks.NewEventCreator(t)
			tc.mockSetup(mockCreator)

			handler := New(logger, mockCreator)

			req, err := http.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(tc.requestBody))
			require.NoError(t, err)

			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
			} else if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.String())
			}
		})
	}
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	testCases := []struct {
		name           string
		requestBody    string
		expectedFields []string
	}{
		{
			name:           "Missing all required fields",
			requestBody:    `{}`,
			expectedFields: []string{"title", "description", "date", "location", "category"},
		},
		{
			name: "Every field invalid",
			requestBody: `{
				"title": "Hi",
				"description": "short",
				"date": "not-a-date",
				"location": "",
				"category": "invalid"
			}`,
			expectedFields: []string{"title", "description", "date", "location", "category"},
		},
		{
			name: "Bad URLs",
			requestBody: `{
				"title": "Test Event",
				"description": "A description that is long enough.",
				"date": "2024-12-25T18:00:00Z",
				"location": "Room 101",
				"category": "social",
				"image_url": "poster.png",
				"registration_url": ""
			}`,
			expectedFields: []string{"image_url", "registration_url"},
		},
		{
			name: "Date without zone",
			requestBody: `{
				"title": "Test Event",
				"description": "A description that is long enough.",
				"date": "2024-12-25 18:00",
				"location": "Room 101",
				"category": "other"
			}`,
			expectedFields: []string{"date"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockCreator := mocks.NewEventCreator(t)
			handler := New(logger, mockCreator)

			req, err := http.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(tc.requestBody))
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)

			var resp validationResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

			assert.Equal(t, "Error", resp.Status)
			assert.Equal(t, "validation failed", resp.Error)
			require.Len(t, resp.Details, len(tc.expectedFields))

			for _, field := range tc.expectedFields {
				assert.True(t, validation.Errors(resp.Details).Has(field), "missing error for %s", field)
			}

			mockCreator.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything)
		})
	}
}

func TestFieldErrorMessages(t *testing.T) {
	t.Parallel()

	handler := New(slogdiscard.NewDiscardLogger(), mocks.NewEventCreator(t))

	body := `{"title":"Hi","description":"short","date":"not-a-date","location":"","category":"invalid"}`
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.JSONEq(t, `{
		"status": "Error",
		"error": "validation failed",
		"details": [
			{"field": "title", "message": "title must be at least 3 characters"},
			{"field": "description", "message": "description must be at least 10 characters"},
			{"field": "date", "message": "date must be a valid RFC 3339 date-time"},
			{"field": "location", "message": "location is required"},
			{"field": "category", "message": "category must be one of: meeting, competition, workshop, social, other"}
		]
	}`, rr.Body.String())
}

func TestValidateCategory(t *testing.T) {
	t.Parallel()

	v := validation.New()

	base := Request{
		Title:       "Test Event",
		Description: "A description that is long enough.",
		Date:        "2024-12-25T18:00:00Z",
		Location:    "Room 101",
	}

	for _, c := range models.Categories {
		req := base
		req.Category = string(c)

		errs, err := req.Validate(v)
		require.NoError(t, err)
		assert.Empty(t, errs, c)
	}

	for _, c := range []string{"party", "Meeting", "meeting "} {
		req := base
		req.Category = c

		errs, err := req.Validate(v)
		require.NoError(t, err)
		require.Len(t, errs, 1, c)
		assert.Equal(t, "category", errs[0].Field)
	}

	req := base
	errs, err := req.Validate(v)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, validation.FieldError{Field: "category", Message: "category is required"}, errs[0])
}
