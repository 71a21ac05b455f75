package model

import (
	"time"
)

// Booking status values. Accepted exists for administrative edits only;
// no core transition produces it.
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Attendance record status values.
const (
	AttendanceAttended = "attended"
	AttendanceNoShow   = "no-show"
	AttendanceCheckout = "checkout"
)

// Actor roles.
const (
	RoleCustomer = "customer"
	RoleChef     = "chef"
)

// transitions holds the only status edges the state machine may take.
// Terminal states map to nothing.
var transitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusRejected, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

// CanTransition reports whether the state machine permits moving from one
// booking status to another.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ReasonRequired reports whether a status can only be entered with a
// non-empty reason attached.
func ReasonRequired(status string) bool {
	return status == StatusRejected || status == StatusCancelled
}

type MenuLineItem struct {
	ItemID   string `json:"item_id" bson:"item_id" validate:"required,mongodb"`
	Title    string `json:"title,omitempty" bson:"title,omitempty"`
	Quantity int    `json:"quantity" bson:"quantity" validate:"required,min=1"`
}

type Location struct {
	Street    string  `json:"street" bson:"street" validate:"required,min=2,max=200"`
	City      string  `json:"city" bson:"city" validate:"required,min=2,max=100"`
	ZipCode   string  `json:"zip_code,omitempty" bson:"zip_code,omitempty" validate:"omitempty,max=20"`
	Latitude  float64 `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty" bson:"longitude,omitempty"`
}

type AttendanceRecord struct {
	ID        string    `json:"id" bson:"id"`
	Status    string    `json:"status" bson:"status" validate:"required,oneof=attended no-show checkout"`
	Remarks   string    `json:"remarks,omitempty" bson:"remarks,omitempty" validate:"omitempty,max=500"`
	Location  *Location `json:"location,omitempty" bson:"location,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Event is a booking between a customer and a chef for a scheduled
// date/time. OrderNumber is the human-facing identifier issued from the
// shared counter; ID is the storage identity.
type Event struct {
	ID            string             `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OrderNumber   int64              `json:"order_number" bson:"order_number"`
	CustomerID    string             `json:"customer_id" bson:"customer_id" validate:"required,mongodb"`
	ChefID        string             `json:"chef_id" bson:"chef_id" validate:"required,mongodb"`
	MenuItems     []MenuLineItem     `json:"menu_items" bson:"menu_items" validate:"omitempty,dive"`
	FreeText      string             `json:"free_text,omitempty" bson:"free_text,omitempty" validate:"omitempty,max=1000"`
	Address       Location           `json:"address" bson:"address" validate:"required"`
	StartTime     time.Time          `json:"start_time" bson:"start_time" validate:"required"`
	EventDate     string             `json:"event_date" bson:"event_date" validate:"required"`
	EventTime     string             `json:"event_time" bson:"event_time" validate:"required"`
	Ingredients   []string           `json:"ingredients,omitempty" bson:"ingredients,omitempty"`
	Status        string             `json:"status" bson:"status" validate:"required,oneof=pending accepted confirmed rejected cancelled completed"`
	Reason        string             `json:"reason,omitempty" bson:"reason,omitempty"`
	Attendance    []AttendanceRecord `json:"attendance,omitempty" bson:"attendance,omitempty"`
	TotalAmount   float64            `json:"total_amount" bson:"total_amount"`
	RemindersSent []string           `json:"-" bson:"reminders_sent,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// IsReviewable reports whether the event may accept a review. Only
// completed events qualify.
func (e *Event) IsReviewable() bool {
	return e.Status == StatusCompleted
}

// BookingRequest is the customer-facing creation payload.
type BookingRequest struct {
	ChefID      string         `json:"chef_id" validate:"required,mongodb"`
	MenuItems   []MenuLineItem `json:"menu_items" validate:"omitempty,dive"`
	FreeText    string         `json:"free_text,omitempty" validate:"omitempty,max=1000"`
	Address     Location       `json:"address" validate:"required"`
	EventDate   string         `json:"event_date" validate:"required,event_date"`
	EventTime   string         `json:"event_time" validate:"required,event_time"`
	Ingredients []string       `json:"ingredients,omitempty" validate:"omitempty,max=50,dive,min=1,max=100"`
}

// BookingDecision is the chef's answer to a pending booking.
type BookingDecision struct {
	Accept bool   `json:"accept"`
	Reason string `json:"reason,omitempty" validate:"omitempty,min=2,max=500"`
}

// BookingReceipt is returned to the customer on successful creation.
type BookingReceipt struct {
	EventID     string  `json:"event_id"`
	OrderNumber int64   `json:"order_number"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
}
