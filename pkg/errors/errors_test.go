package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorError(t *testing.T) {
	plain := New(CodeNotFound, "chef not found", http.StatusNotFound)
	if plain.Error() != "NOT_FOUND: chef not found" {
		t.Errorf("unexpected error string: %s", plain.Error())
	}

	cause := errors.New("connection reset")
	wrapped := Wrap(cause, CodeStorage, "write failed", http.StatusServiceUnavailable)
	want := "STORAGE_UNAVAILABLE: write failed (caused by: connection reset)"
	if wrapped.Error() != want {
		t.Errorf("got %q, want %q", wrapped.Error(), want)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
}

func TestConstructorsCarryTaxonomy(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"not found", NotFound("Event"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad payload", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"forbidden", Forbidden("not your booking"), CodeForbidden, http.StatusForbidden},
		{"invalid state", InvalidState("booking is not pending"), CodeInvalidState, http.StatusConflict},
		{"storage", StorageUnavailable(errors.New("down")), CodeStorage, http.StatusServiceUnavailable},
		{"downstream", Downstream("push gateway", errors.New("timeout")), CodeDownstream, http.StatusServiceUnavailable},
		{"invalid input", InvalidInput("empty id"), CodeInvalidInput, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestNotFoundWithIDDetails(t *testing.T) {
	err := NotFoundWithID("Event", "66b2f0a1c9e77a0001aa0001")
	if err.Details["resource"] != "Event" {
		t.Errorf("resource detail = %v", err.Details["resource"])
	}
	if err.Details["id"] != "66b2f0a1c9e77a0001aa0001" {
		t.Errorf("id detail = %v", err.Details["id"])
	}
}

func TestIsCode(t *testing.T) {
	err := InvalidState("already confirmed")
	if !IsCode(err, CodeInvalidState) {
		t.Error("IsCode should match the error's own code")
	}
	if IsCode(err, CodeNotFound) {
		t.Error("IsCode should not match a different code")
	}

	wrapped := fmt.Errorf("service: %w", err)
	if !IsCode(wrapped, CodeInvalidState) {
		t.Error("IsCode should see through fmt.Errorf wrapping")
	}

	if IsCode(errors.New("plain"), CodeInternal) {
		t.Error("plain errors carry no code")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Forbidden("nope")
	if got := AsAppError(appErr); got != appErr {
		t.Error("AsAppError should return the original AppError")
	}

	plain := errors.New("boom")
	converted := AsAppError(plain)
	if converted.Code != CodeInternal {
		t.Errorf("converted code = %s, want %s", converted.Code, CodeInternal)
	}
	if !errors.Is(converted, plain) {
		t.Error("converted error should wrap the original")
	}
}
