package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/flight-reservation/internal/model"
	"github.com/iliyamo/flight-reservation/internal/utils"
)

// UserRepo manages accounts and their balances.  The balance column
// is the ledger the order flow debits and credits; every mutation of
// it happens through the ...Tx methods inside the same transaction
// as the ticket changes it accompanies, with the row locked first.
type UserRepo struct{ db *sql.DB }

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *UserRepo) DB() *sql.DB { return r.db }

const userColumns = `id, email, password_hash, role, balance, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Balance, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a user with a bcrypt-hashed password and returns
// its ID.  Balance starts at zero.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, role, balance) VALUES (?, ?, ?, 0)`,
		email, hash, role)
	if err != nil {
		if IsDuplicateEntry(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`, email)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`, id)
	return scanUser(row)
}

// BalanceForUpdateTx reads a user's balance with a row lock so
// concurrent purchases, refunds and deposits against the same
// account serialize instead of losing updates.
func (r *UserRepo) BalanceForUpdateTx(ctx context.Context, tx *sql.Tx, userID uint64) (float64, error) {
	var balance float64
	err := tx.QueryRowContext(ctx,
		`SELECT balance FROM users WHERE id = ? FOR UPDATE`, userID).Scan(&balance)
	return balance, err
}

// SetBalanceTx writes the new balance computed by the caller.  It
// must only run after BalanceForUpdateTx in the same transaction.
func (r *UserRepo) SetBalanceTx(ctx context.Context, tx *sql.Tx, userID uint64, balance float64) error {
	_, err := tx.ExecContext(ctx, `UPDATE users SET balance = ? WHERE id = ?`, balance, userID)
	return err
}

// CreateTransactionTx records a deposit outcome in the transactions
// ledger within the given transaction.
func (r *UserRepo) CreateTransactionTx(ctx context.Context, tx *sql.Tx, t *model.Transaction) error {
	const q = `INSERT INTO transactions (user_id, amount, email, status) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, t.UserID, t.Amount, t.Email, t.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}
