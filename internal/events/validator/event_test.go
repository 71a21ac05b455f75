package validator

import (
	"strings"
	"testing"
	"time"

	"chefly/pkg/logger"
	"chefly/pkg/model"
)

func newTestValidator(t *testing.T) *EventValidator {
	t.Helper()
	log := logger.New(logger.Config{Level: "error", Service: "test"})
	return NewEventValidator(log)
}

func validRequest() *model.BookingRequest {
	tomorrow := time.Now().UTC().Add(48 * time.Hour)
	return &model.BookingRequest{
		ChefID: "66b2f0a1c9e77a0001aa0001",
		MenuItems: []model.MenuLineItem{
			{ItemID: "66b2f0a1c9e77a0001bb0001", Quantity: 2},
		},
		Address: model.Location{
			Street: "12 Rothschild Blvd",
			City:   "Tel Aviv",
		},
		EventDate: tomorrow.Format("2006-01-02"),
		EventTime: "18:30",
	}
}

func TestValidateRequest(t *testing.T) {
	v := newTestValidator(t)

	if err := v.ValidateRequest(validRequest()); err != nil {
		t.Fatalf("valid request should pass, got: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*model.BookingRequest)
		wantSub string
	}{
		{
			"missing chef",
			func(r *model.BookingRequest) { r.ChefID = "" },
			"ChefID",
		},
		{
			"malformed chef id",
			func(r *model.BookingRequest) { r.ChefID = "not-an-oid" },
			"ObjectID",
		},
		{
			"zero quantity",
			func(r *model.BookingRequest) { r.MenuItems[0].Quantity = 0 },
			"Quantity",
		},
		{
			"bad date format",
			func(r *model.BookingRequest) { r.EventDate = "31/12/2026" },
			"YYYY-MM-DD",
		},
		{
			"bad time format",
			func(r *model.BookingRequest) { r.EventTime = "6pm" },
			"HH:MM",
		},
		{
			"past date",
			func(r *model.BookingRequest) { r.EventDate = "2020-01-01" },
			"past",
		},
		{
			"missing address city",
			func(r *model.BookingRequest) { r.Address.City = "" },
			"City",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			err := v.ValidateRequest(req)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantSub)
			}
		})
	}
}

func TestValidateDecision(t *testing.T) {
	v := newTestValidator(t)

	if err := v.ValidateDecision(&model.BookingDecision{Accept: true}); err != nil {
		t.Errorf("acceptance needs no reason, got: %v", err)
	}

	if err := v.ValidateDecision(&model.BookingDecision{Accept: false, Reason: "fully booked that day"}); err != nil {
		t.Errorf("rejection with reason should pass, got: %v", err)
	}

	err := v.ValidateDecision(&model.BookingDecision{Accept: false})
	if err == nil {
		t.Fatal("rejection without reason must fail")
	}
	if !strings.Contains(err.Error(), "reason") {
		t.Errorf("error %q does not mention the missing reason", err.Error())
	}

	err = v.ValidateDecision(&model.BookingDecision{Accept: false, Reason: "   "})
	if err == nil {
		t.Fatal("rejection with whitespace-only reason must fail")
	}
}

func TestParseStartTime(t *testing.T) {
	got, err := ParseStartTime("2026-09-15", "18:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 9, 15, 18, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := ParseStartTime("2026-13-40", "18:30"); err == nil {
		t.Error("impossible date should fail to parse")
	}
}
