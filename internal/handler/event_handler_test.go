package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-gin-calendar/internal/handler"
	"go-gin-calendar/internal/mocks"
	"go-gin-calendar/internal/model"
	apperrors "go-gin-calendar/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupEventTestRouter(mockService *mocks.EventServiceMock) *gin.Engine {
	router := newTestRouter()
	handler.NewEventHandler(mockService).RegisterRoutes(router)
	return router
}

func sampleEvent(title string, start, end time.Time) *model.Event {
	created := time.Date(2025, 5, 30, 8, 0, 0, 0, time.UTC)
	return &model.Event{
		ID:        1,
		EventID:   uuid.New(),
		Title:     title,
		Start:     start,
		End:       end,
		Color:     model.DefaultColor,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestListEvents(t *testing.T) {
	t.Run("Success - with window", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		from := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 6, 2, 23, 59, 59, 0, time.UTC)
		standup := sampleEvent("Standup", time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC))

		mockService.On("List", mock.Anything, mock.MatchedBy(func(f model.EventFilter) bool {
			return f.From != nil && f.From.Equal(from) && f.To != nil && f.To.Equal(to)
		})).Return([]*model.Event{standup}, nil).Once()

		w := serve(router, httptest.NewRequest("GET", "/api/events?from=2025-06-02T00:00:00Z&to=2025-06-02T23:59:59Z", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var got []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, standup.EventID.String(), got[0]["_id"])
		assert.Equal(t, "2025-06-02T09:00:00Z", got[0]["start"])
		assert.NotContains(t, got[0], "ID")
		mockService.AssertExpectations(t)
	})

	t.Run("Success - without window", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		mockService.On("List", mock.Anything, model.EventFilter{}).Return([]*model.Event{}, nil).Once()

		w := serve(router, httptest.NewRequest("GET", "/api/events", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - malformed bound", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		w := serve(router, httptest.NewRequest("GET", "/api/events?from=yesterday", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid from date", decodeMessage(t, w))
		mockService.AssertNotCalled(t, "List")
	})

	t.Run("Failed - ErrStorage", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		mockService.On("List", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("list events: %w: connection refused", apperrors.ErrStorage)).Once()

		w := serve(router, httptest.NewRequest("GET", "/api/events", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Server error", decodeMessage(t, w))
		mockService.AssertExpectations(t)
	})
}

func TestGetEvent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		ev := sampleEvent("Review", time.Date(2025, 6, 3, 14, 0, 0, 0, time.UTC), time.Date(2025, 6, 3, 15, 0, 0, 0, time.UTC))
		mockService.On("GetByEventID", mock.Anything, ev.EventID).Return(ev, nil).Once()

		w := serve(router, httptest.NewRequest("GET", "/api/events/"+ev.EventID.String(), nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"title":"Review"`)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrEventNotFound", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		id := uuid.New()
		mockService.On("GetByEventID", mock.Anything, id).Return(nil, apperrors.ErrEventNotFound).Once()

		w := serve(router, httptest.NewRequest("GET", "/api/events/"+id.String(), nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Event not found", decodeMessage(t, w))
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - malformed id", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		w := serve(router, httptest.NewRequest("GET", "/api/events/not-an-id", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockService.AssertNotCalled(t, "GetByEventID")
	})
}

func TestCreateEvent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
		end := start.Add(30 * time.Minute)
		created := sampleEvent("Standup", start, end)

		mockService.On("Create", mock.Anything, mock.MatchedBy(func(e *model.Event) bool {
			return e.Title == "Standup" && e.Start.Equal(start) && e.End.Equal(end) && e.Color == ""
		})).Return(created, nil).Once()

		req := createJSONHTTPRequest("POST", "/api/events", map[string]any{
			"title": "Standup",
			"start": "2025-06-02T09:00:00Z",
			"end":   "2025-06-02T09:30:00Z",
		})
		w := serve(router, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), created.EventID.String())
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrValidation", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		mockService.On("Create", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: start must be before end", apperrors.ErrValidation)).Once()

		req := createJSONHTTPRequest("POST", "/api/events", map[string]any{
			"title": "Backwards",
			"start": "2025-06-02T10:00:00Z",
			"end":   "2025-06-02T09:00:00Z",
		})
		w := serve(router, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "start must be before end", decodeMessage(t, w))
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - BindingError", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		w := serve(router, createJSONHTTPRequest("POST", "/api/events", InvalidJSON))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request format", decodeMessage(t, w))
		mockService.AssertNotCalled(t, "Create")
	})

	t.Run("Failed - unparseable start", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		req := createJSONHTTPRequest("POST", "/api/events", map[string]any{
			"title": "Standup",
			"start": "tomorrow",
			"end":   "2025-06-02T09:30:00Z",
		})
		w := serve(router, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Create")
	})
}

func TestUpdateEvent(t *testing.T) {
	t.Run("Success - color only", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		ev := sampleEvent("Standup", time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC))
		ev.Color = "#ff5722"
		mockService.On("UpdateByEventID", mock.Anything, ev.EventID, mock.MatchedBy(func(p model.UpdateEventParams) bool {
			return p.Color != nil && *p.Color == "#ff5722" &&
				p.Title == nil && p.Description == nil && p.Start == nil && p.End == nil
		})).Return(ev, nil).Once()

		req := createJSONHTTPRequest("PUT", "/api/events/"+ev.EventID.String(), map[string]any{"color": "#ff5722"})
		w := serve(router, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"color":"#ff5722"`)
		mockService.AssertExpectations(t)
	})

	t.Run("Success - empty body", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		ev := sampleEvent("Standup", time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC))
		mockService.On("UpdateByEventID", mock.Anything, ev.EventID, model.UpdateEventParams{}).Return(ev, nil).Once()

		w := serve(router, createJSONHTTPRequest("PUT", "/api/events/"+ev.EventID.String(), map[string]any{}))

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrEventNotFound", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		id := uuid.New()
		mockService.On("UpdateByEventID", mock.Anything, id, mock.Anything).Return(nil, apperrors.ErrEventNotFound).Once()

		w := serve(router, createJSONHTTPRequest("PUT", "/api/events/"+id.String(), map[string]any{"title": "x"}))

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrValidation", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		id := uuid.New()
		mockService.On("UpdateByEventID", mock.Anything, id, mock.Anything).
			Return(nil, fmt.Errorf("%w: start must be before end", apperrors.ErrValidation)).Once()

		w := serve(router, createJSONHTTPRequest("PUT", "/api/events/"+id.String(), map[string]any{"end": "2000-01-01T00:00:00Z"}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestDeleteEvent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		id := uuid.New()
		mockService.On("DeleteByEventID", mock.Anything, id).Return(nil).Once()

		w := serve(router, httptest.NewRequest("DELETE", "/api/events/"+id.String(), nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Event deleted", decodeMessage(t, w))
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrEventNotFound", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		id := uuid.New()
		mockService.On("DeleteByEventID", mock.Anything, id).Return(apperrors.ErrEventNotFound).Once()

		w := serve(router, httptest.NewRequest("DELETE", "/api/events/"+id.String(), nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestListEvents_ISOBounds(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+30*60)
	cases := []struct {
		from string
		want time.Time
	}{
		{"2025-06-03", time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)},
		{"2025-06-03T00:00Z", time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)},
		{"2025-06-03T00:00:00.000%2B0530", time.Date(2025, 6, 3, 0, 0, 0, 0, ist)},
		{"2025-06-03T00:00:00", time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)},
		{"2025-06-03T00:00:00.5%2B05:30", time.Date(2025, 6, 3, 0, 0, 0, 5e8, ist)},
	}

	for _, tc := range cases {
		t.Run("Success - "+tc.from, func(t *testing.T) {
			mockService := mocks.NewEventServiceMock()
			router := setupEventTestRouter(mockService)

			mockService.On("List", mock.Anything, mock.MatchedBy(func(f model.EventFilter) bool {
				return f.From != nil && f.From.Equal(tc.want) && f.To == nil
			})).Return([]*model.Event{}, nil).Once()

			w := serve(router, httptest.NewRequest("GET", "/api/events?from="+tc.from, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			mockService.AssertExpectations(t)
		})
	}

	for _, bad := range []string{"garbage", "2025-06-31", "03/06/2025"} {
		t.Run("Failed - "+bad, func(t *testing.T) {
			mockService := mocks.NewEventServiceMock()
			router := setupEventTestRouter(mockService)

			w := serve(router, httptest.NewRequest("GET", "/api/events?to="+bad, nil))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Invalid to date", decodeMessage(t, w))
			mockService.AssertNotCalled(t, "List")
		})
	}
}

func TestCreateEvent_ISOBody(t *testing.T) {
	t.Run("Success - date only and minute precision", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, 6, 2, 17, 0, 0, 0, time.UTC)
		mockService.On("Create", mock.Anything, mock.MatchedBy(func(e *model.Event) bool {
			return e.Start.Equal(start) && e.End.Equal(end)
		})).Return(sampleEvent("Offsite", start, end), nil).Once()

		req := createJSONHTTPRequest("POST", "/api/events", map[string]any{
			"title": "Offsite",
			"start": "2025-06-02",
			"end":   "2025-06-02T17:00",
		})
		w := serve(router, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - garbage start", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		req := createJSONHTTPRequest("POST", "/api/events", map[string]any{
			"title": "Offsite",
			"start": "someday",
			"end":   "2025-06-02",
		})
		w := serve(router, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request format", decodeMessage(t, w))
		mockService.AssertNotCalled(t, "Create")
	})
}

func TestUpdateEvent_ISOBody(t *testing.T) {
	mockService := mocks.NewEventServiceMock()
	router := setupEventTestRouter(mockService)

	id := uuid.New()
	end := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	updated := sampleEvent("Standup", time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), end)
	mockService.On("UpdateByEventID", mock.Anything, id, mock.MatchedBy(func(p model.UpdateEventParams) bool {
		return p.Start == nil && p.End != nil && p.End.Equal(end) && p.Title == nil
	})).Return(updated, nil).Once()

	w := serve(router, createJSONHTTPRequest("PUT", "/api/events/"+id.String(), `{"end":"2025-06-03"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}
