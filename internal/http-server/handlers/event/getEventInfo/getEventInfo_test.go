package getEventInfo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chapterSite/internal/http-server/handlers/event/getEventInfo/mocks"
	"chapterSite/internal/lib/logger/handlers/slogdiscard"
	"chapterSite/internal/models"
	"chapterSite/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestGetEventInfoHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	eventID := uuid.MustParse("4f1b7c1e-2a0d-4f53-9a43-0d3c8f0a9b11")
	img := "https://example.com/poster.png"
	testEvent := &models.Event{
		ID:          eventID,
		Title:       "District competition",
		Description: "Regional round of the league.",
		Date:        time.Date(2025, 4, 12, 9, 0, 0, 0, time.UTC),
		Location:    "Main hall",
		Category:    models.CategoryCompetition,
		ImageURL:    &img,
	}

	testCases := []struct {
		name           string
		eventID        string
		mockSetup      func(m *mocks.EventGetter)
		expectedStatus int
		expectedBody   string
		checkBody      func(t *testing.T, body string)
	}{
		{
			name:    "Success",
			eventID: eventID.String(),
			mockSetup: func(m *mocks.EventGetter) {
				m.On("GetEvent", mock.Anything, eventID).Return(testEvent, nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				var resp EventInfoResponse
				require.NoError(t, json.Unmarshal([]byte(body), &resp))

				assert.Equal(t, "OK", resp.Status)
				require.NotNil(t, resp.Event)
				assert.Equal(t, eventID, resp.Event.ID)
				assert.Equal(t, "District competition", resp.Event.Title)
				require.NotNil(t, resp.Event.ImageURL)
				assert.Equal(t, img, *resp.Event.ImageURL)
				assert.Nil(t, resp.Event.RegistrationURL)
				assert.Contains(t, body, `"registration_url":null`)
			},
		},
		{
			name:           "Empty id",
			eventID:        "",
			mockSetup:      func(m *mocks.EventGetter) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"event id is required"}`,
		},
		{
			name:           "Malformed id",
			eventID:        "123",
			mockSetup:      func(m *mocks.EventGetter) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid event id format"}`,
		},
		{
			name:    "Not found",
			eventID: eventID.String(),
			mockSetup: func(m *mocks.EventGetter) {
				m.On("GetEvent", mock.Anything, eventID).
					Return(nil, fmt.Errorf("storage.sqlite.GetEvent: %w", storage.ErrEventNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"event not found"}`,
		},
		{
			name:    "Storage error",
			eventID: eventID.String(),
			mockSetup: func(m *mocks.EventGetter) {
				m.On("GetEvent", mock.Anything, eventID).Return(nil, errors.New("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to get event information"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockGetter := mocks.NewEventGetter(t)
			tc.mockSetup(mockGetter)

			handler := New(logger, mockGetter)

			req := httptest.NewRequest(http.MethodGet, "/events/"+tc.eventID, nil)
			req = withURLParam(req, "id", tc.eventID)

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			} else if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.String())
			}
		})
	}
}
