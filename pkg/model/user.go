package model

import "time"

// ChefStats is the statistics subset the achievement evaluator reads.
// Counts only ever grow; AverageRating is a running mean recomputed on
// each new rating.
type ChefStats struct {
	CompletedOrders int64   `json:"completed_orders" bson:"completed_orders"`
	FiveStars       int64   `json:"five_stars" bson:"five_stars"`
	FourStars       int64   `json:"four_stars" bson:"four_stars"`
	AverageRating   float64 `json:"average_rating" bson:"average_rating"`
	ReviewCount     int64   `json:"review_count" bson:"review_count"`
}

// User is a customer or chef profile. Chef-only fields stay zero-valued
// for customers.
type User struct {
	ID            string     `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string     `json:"name" bson:"name"`
	Role          string     `json:"role" bson:"role"`
	PushEndpoints []string   `json:"-" bson:"push_endpoints,omitempty"`
	Stats         ChefStats  `json:"stats,omitempty" bson:"stats,omitempty"`
	Achievements  []string   `json:"achievements,omitempty" bson:"achievements,omitempty"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// HasPushEndpoints reports whether reminders can reach this user at all.
func (u *User) HasPushEndpoints() bool {
	return len(u.PushEndpoints) > 0
}
