package model

// MenuItem is a catalog entry owned by a chef. The catalog is read-only
// from the booking flow's perspective.
type MenuItem struct {
	ID          string  `json:"id,omitempty" bson:"_id,omitempty"`
	ChefID      string  `json:"chef_id" bson:"chef_id"`
	Title       string  `json:"title" bson:"title"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64 `json:"price" bson:"price"`
	Available   bool    `json:"available" bson:"available"`
}
