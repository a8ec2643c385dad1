package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/flight-reservation/internal/model"
)

// OrderRepo persists orders.  Order creation and cancellation are
// orchestrated by the handler inside one transaction together with
// ticket and balance mutations; this repo only issues the
// individual statements.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *OrderRepo) DB() *sql.DB { return r.db }

// CreateTx inserts an order within the given transaction and
// populates its generated ID and creation timestamp.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	const q = `INSERT INTO orders (user_id, status) VALUES (?, ?)`
	res, err := tx.ExecContext(ctx, q, o.UserID, o.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	const sel = `SELECT created_at FROM orders WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, o.ID).Scan(&o.CreatedAt)
}

// GetForUser fetches an order and enforces ownership.  A missing
// order and a foreign order both come back as ErrOrderNotFound so
// the API does not leak other users' order IDs.
func (r *OrderRepo) GetForUser(ctx context.Context, orderID, userID uint64) (model.Order, error) {
	const q = `SELECT id, user_id, status, created_at FROM orders WHERE id = ?`
	var o model.Order
	err := r.db.QueryRowContext(ctx, q, orderID).Scan(&o.ID, &o.UserID, &o.Status, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return o, ErrOrderNotFound
	}
	if err != nil {
		return o, err
	}
	if o.UserID != userID {
		return o, ErrOrderNotFound
	}
	return o, nil
}

// GetForUserTx is GetForUser within a transaction.
func (r *OrderRepo) GetForUserTx(ctx context.Context, tx *sql.Tx, orderID, userID uint64) (model.Order, error) {
	const q = `SELECT id, user_id, status, created_at FROM orders WHERE id = ?`
	var o model.Order
	err := tx.QueryRowContext(ctx, q, orderID).Scan(&o.ID, &o.UserID, &o.Status, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return o, ErrOrderNotFound
	}
	if err != nil {
		return o, err
	}
	if o.UserID != userID {
		return o, ErrOrderNotFound
	}
	return o, nil
}

// ListByUser returns a user's orders, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Order, error) {
	const q = `SELECT id, user_id, status, created_at FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Order, 0)
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
