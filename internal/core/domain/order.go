package domain

import "time"

// Order is created once per successful placement and never mutated afterwards.
type Order struct {
	ID        string
	ProductID string
	Quantity  int
	CreatedAt time.Time
}
