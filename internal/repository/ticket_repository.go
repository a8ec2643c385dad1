package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/flight-reservation/internal/model"
)

// TicketRepo persists tickets.  The table carries a unique
// (seat_row, seat_num, flight_id) index; CreateTx surfaces a
// violation of it as ErrConflict so the order flow can report "seat
// taken" even when two requests race past the pre-check.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// CreateTx inserts a ticket within the given transaction and
// populates its generated ID.  The price must be the quote captured
// by the caller at issuance.
func (r *TicketRepo) CreateTx(ctx context.Context, tx *sql.Tx, t *model.Ticket) error {
	const q = `INSERT INTO tickets (seat_row, seat_num, flight_id, order_id, price) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, t.Row, t.Seat, t.FlightID, t.OrderID, t.Price)
	if err != nil {
		if IsDuplicateEntry(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// SeatTakenTx reports whether any order already holds (row, seat) on
// the flight.  This is the pre-check that produces a friendly
// conflict message; the unique index remains the real guarantee.
func (r *TicketRepo) SeatTakenTx(ctx context.Context, tx *sql.Tx, flightID uint64, row, seat uint32) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM tickets WHERE flight_id = ? AND seat_row = ? AND seat_num = ?)`
	var taken bool
	err := tx.QueryRowContext(ctx, q, flightID, row, seat).Scan(&taken)
	return taken, err
}

// ListByOrderTx returns all tickets of an order within a transaction.
func (r *TicketRepo) ListByOrderTx(ctx context.Context, tx *sql.Tx, orderID uint64) ([]model.Ticket, error) {
	const q = `SELECT id, seat_row, seat_num, flight_id, order_id, price FROM tickets WHERE order_id = ? ORDER BY id`
	rows, err := tx.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTickets(rows)
}

// ListByOrder returns all tickets of an order.
func (r *TicketRepo) ListByOrder(ctx context.Context, orderID uint64) ([]model.Ticket, error) {
	const q = `SELECT id, seat_row, seat_num, flight_id, order_id, price FROM tickets WHERE order_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTickets(rows)
}

func collectTickets(rows *sql.Rows) ([]model.Ticket, error) {
	out := make([]model.Ticket, 0)
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.Row, &t.Seat, &t.FlightID, &t.OrderID, &t.Price); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// DeleteTx removes a single ticket inside a transaction.  Used by
// cancellation to release refundable seats.
func (r *TicketRepo) DeleteTx(ctx context.Context, tx *sql.Tx, ticketID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM tickets WHERE id = ?`, ticketID)
	return err
}

// TakenSeat is one occupied (row, seat) pair on a flight.
type TakenSeat struct {
	Row  uint32 `json:"row"`
	Seat uint32 `json:"seat"`
}

// TakenSeats returns every occupied seat of a flight, ordered for
// deterministic output.
func (r *TicketRepo) TakenSeats(ctx context.Context, flightID uint64) ([]TakenSeat, error) {
	const q = `SELECT seat_row, seat_num FROM tickets WHERE flight_id = ? ORDER BY seat_row, seat_num`
	rows, err := r.db.QueryContext(ctx, q, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]TakenSeat, 0)
	for rows.Next() {
		var s TakenSeat
		if err := rows.Scan(&s.Row, &s.Seat); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
