package model

import "time"

// Review is a customer rating for a completed event. One review per
// (event, customer) pair.
type Review struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty"`
	EventID    string    `json:"event_id" bson:"event_id" validate:"required,mongodb"`
	CustomerID string    `json:"customer_id" bson:"customer_id" validate:"required,mongodb"`
	ChefID     string    `json:"chef_id" bson:"chef_id" validate:"required,mongodb"`
	Rating     int       `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Comment    string    `json:"comment,omitempty" bson:"comment,omitempty" validate:"omitempty,max=1000"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// ReviewRequest is the submission payload.
type ReviewRequest struct {
	EventID string `json:"event_id" validate:"required,mongodb"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}
