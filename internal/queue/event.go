// Package queue defines message payloads exchanged over the message
// broker and the background consumer that records them.  Publishing
// is fire-and-forget from the order flow's point of view: a broker
// outage never fails a purchase or a cancellation.
package queue

// Event types carried on the order events queue.
const (
	EventOrderConfirmed = "order.confirmed"
	EventOrderCancelled = "order.cancelled"
)

// EventTicket is a compact ticket description embedded in events.
type EventTicket struct {
	FlightID uint64  `json:"flight_id"`
	Row      uint32  `json:"row"`
	Seat     uint32  `json:"seat"`
	Price    float64 `json:"price"`
}

// OrderEvent is published after an order is created or cancelled.
// It carries enough information for downstream consumers to log,
// notify or feed analytics without querying the primary database.
// Reference is an opaque UUID so external systems can correlate
// without learning internal row IDs.
type OrderEvent struct {
	Type           string        `json:"type"`
	OrderID        uint64        `json:"order_id"`
	Reference      string        `json:"reference"`
	UserID         uint64        `json:"user_id"`
	Tickets        []EventTicket `json:"tickets,omitempty"`
	TotalPrice     float64       `json:"total_price,omitempty"`
	RefundedAmount float64       `json:"refunded_amount,omitempty"`
	KeptTickets    int           `json:"kept_tickets,omitempty"`
	OccurredAt     string        `json:"occurred_at"`
}
