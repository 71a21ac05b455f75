package model

// CounterOrderNumber names the shared booking order-number sequence.
const CounterOrderNumber = "orderId"

// CounterBase is the value a freshly seeded sequence starts from; the
// first allocation returns CounterBase + 1.
const CounterBase = 100000

// Counter is a named atomic sequence document. Value only moves through
// the store's atomic increment.
type Counter struct {
	Name  string `json:"name" bson:"_id"`
	Value int64  `json:"value" bson:"value"`
}
