package model

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to rejected", StatusPending, StatusRejected, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to completed", StatusPending, StatusCompleted, false},
		{"pending to accepted", StatusPending, StatusAccepted, false},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"confirmed to completed", StatusConfirmed, StatusCompleted, true},
		{"confirmed to rejected", StatusConfirmed, StatusRejected, false},
		{"rejected is terminal", StatusRejected, StatusConfirmed, false},
		{"cancelled is terminal", StatusCancelled, StatusCompleted, false},
		{"completed is terminal", StatusCompleted, StatusCancelled, false},
		{"accepted produces nothing", StatusAccepted, StatusConfirmed, false},
		{"unknown status", "bogus", StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestReasonRequired(t *testing.T) {
	for _, status := range []string{StatusRejected, StatusCancelled} {
		if !ReasonRequired(status) {
			t.Errorf("ReasonRequired(%q) = false, want true", status)
		}
	}
	for _, status := range []string{StatusPending, StatusAccepted, StatusConfirmed, StatusCompleted} {
		if ReasonRequired(status) {
			t.Errorf("ReasonRequired(%q) = true, want false", status)
		}
	}
}

func TestIsReviewable(t *testing.T) {
	event := &Event{Status: StatusConfirmed}
	if event.IsReviewable() {
		t.Error("confirmed event should not be reviewable")
	}
	event.Status = StatusCompleted
	if !event.IsReviewable() {
		t.Error("completed event should be reviewable")
	}
}
