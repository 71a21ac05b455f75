package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "chefly/pkg/errors"
	"chefly/pkg/logger"
	"chefly/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// Mock service for testing
type mockBookingService struct {
	createFunc  func(ctx context.Context, customerID string, req *model.BookingRequest) (*model.BookingReceipt, error)
	confirmFunc func(ctx context.Context, chefID, eventID string, decision *model.BookingDecision) (*model.Event, error)
	listFunc    func(ctx context.Context, userID, role string, limit int, offset int64) ([]*model.Event, int64, error)
}

func (m *mockBookingService) Create(ctx context.Context, customerID string, req *model.BookingRequest) (*model.BookingReceipt, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, customerID, req)
	}
	return &model.BookingReceipt{}, nil
}

func (m *mockBookingService) Confirm(ctx context.Context, chefID, eventID string, decision *model.BookingDecision) (*model.Event, error) {
	if m.confirmFunc != nil {
		return m.confirmFunc(ctx, chefID, eventID, decision)
	}
	return &model.Event{}, nil
}

func (m *mockBookingService) Cancel(ctx context.Context, customerID, eventID, reason string) (*model.Event, error) {
	return &model.Event{}, nil
}

func (m *mockBookingService) Complete(ctx context.Context, chefID, eventID string) (*model.Event, error) {
	return &model.Event{}, nil
}

func (m *mockBookingService) MarkAttendance(ctx context.Context, chefID, eventID string, record *model.AttendanceRecord) (*model.Event, error) {
	return &model.Event{}, nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Event, error) {
	return &model.Event{}, nil
}

func (m *mockBookingService) ListForUser(ctx context.Context, userID, role string, limit int, offset int64) ([]*model.Event, int64, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID, role, limit, offset)
	}
	return []*model.Event{}, 0, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   logger.ERROR,
		Format:  logger.JSON,
		Service: "test",
	})
}

func TestCreateReturnsReceipt(t *testing.T) {
	mockService := &mockBookingService{
		createFunc: func(ctx context.Context, customerID string, req *model.BookingRequest) (*model.BookingReceipt, error) {
			if customerID != "64a0f0e2b7c1d2e3f4a5b6c8" {
				t.Errorf("expected actor header forwarded, got %q", customerID)
			}
			return &model.BookingReceipt{EventID: "evt-1", OrderNumber: 100001, Status: model.StatusPending}, nil
		},
	}
	h := NewEventHandler(mockService, testLogger())

	body := `{"chef_id":"64a0f0e2b7c1d2e3f4a5b6c7","event_date":"2026-09-10","event_time":"18:00","address":{"street":"12 Baker Street","city":"Amsterdam"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(body))
	req.Header.Set(ActorHeader, "64a0f0e2b7c1d2e3f4a5b6c8")
	w := httptest.NewRecorder()

	h.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data model.BookingReceipt `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.OrderNumber != 100001 {
		t.Errorf("expected order number in response, got %+v", resp.Data)
	}
}

func TestCreateRejectsMalformedBody(t *testing.T) {
	h := NewEventHandler(&mockBookingService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	h.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", w.Code)
	}
}

func TestDecideMapsServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"forbidden", apperrors.Forbidden("Booking belongs to another chef"), http.StatusForbidden},
		{"invalid state", apperrors.InvalidState("Booking is confirmed"), http.StatusConflict},
		{"not found", apperrors.NotFoundWithID("Event", "x"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &mockBookingService{
				confirmFunc: func(ctx context.Context, chefID, eventID string, decision *model.BookingDecision) (*model.Event, error) {
					return nil, tt.serviceErr
				},
			}
			h := NewEventHandler(mockService, testLogger())

			req := httptest.NewRequest(http.MethodPost, "/api/v1/events/id/x/decision", strings.NewReader(`{"accept":true}`))
			w := httptest.NewRecorder()

			h.Decide(w, req, httprouter.Params{{Key: "id", Value: "x"}})

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestListRejectsInvalidPagination(t *testing.T) {
	h := NewEventHandler(&mockBookingService{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events?role=chef&limit=abc", nil)
	w := httptest.NewRecorder()

	h.List(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric limit, got %d", w.Code)
	}
}
