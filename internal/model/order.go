package model

import "time"

// Order status.  Orders are created PAID in the same transaction
// that debits the balance; cancellation removes refundable tickets
// instead of flipping the status.
const OrderStatusPaid = "PAID"

// Order groups the tickets bought in one submission by one user.
// Its total price is the sum of its ticket price snapshots.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the order.
//  Status    – always PAID in the current design.
//  CreatedAt – purchase timestamp; anchors the cancellation window.
type Order struct {
	ID        uint64    // orders.id
	UserID    uint64    // orders.user_id
	Status    string    // orders.status
	CreatedAt time.Time // orders.created_at
}

// Ticket is a seat on a flight sold under an order.  Price is the
// flight's quoted price captured at issuance and is never
// recomputed.  (Row, Seat, FlightID) is unique across all orders;
// the schema enforces it as the final backstop against concurrent
// double-booking.
//
// Fields:
//  ID       – primary key identifier.
//  Row      – seat row, 1-based, within the airplane grid.
//  Seat     – seat number in the row, 1-based.
//  FlightID – flight the seat is on.
//  OrderID  – owning order.
//  Price    – price snapshot in dollars, two decimal places.
type Ticket struct {
	ID       uint64  // tickets.id
	Row      uint32  // tickets.seat_row
	Seat     uint32  // tickets.seat_num
	FlightID uint64  // tickets.flight_id
	OrderID  uint64  // tickets.order_id
	Price    float64 // tickets.price
}
