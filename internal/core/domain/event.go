package domain

import "fmt"

// OrderEvent is the outcome of a placement attempt. OrderPlaced and
// OrderRejected are the only implementations; consumers switch over the two
// variants.
type OrderEvent interface {
	isOrderEvent()
}

// OrderPlaced is emitted iff an order with the same fields was persisted.
// Its JSON form is the payload published to the orders.events topic.
type OrderPlaced struct {
	OrderID   string `json:"orderId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderRejected is returned when validation fails. No order is persisted and
// nothing is published.
type OrderRejected struct {
	Reason string `json:"reason"`
}

func (OrderPlaced) isOrderEvent()   {}
func (OrderRejected) isOrderEvent() {}

// LogLine renders a one-line summary of an event.
func LogLine(ev OrderEvent) string {
	switch e := ev.(type) {
	case OrderPlaced:
		return fmt.Sprintf("OrderPlaced: %s", e.OrderID)
	case OrderRejected:
		return fmt.Sprintf("OrderRejected: %s", e.Reason)
	default:
		return fmt.Sprintf("unknown event %T", ev)
	}
}
