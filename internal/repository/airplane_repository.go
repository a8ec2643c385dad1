package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/flight-reservation/internal/model"
)

// AirplaneRepo provides CRUD access to airplanes and airplane types.
type AirplaneRepo struct {
	db *sql.DB
}

// NewAirplaneRepo returns a new AirplaneRepo bound to the given database.
func NewAirplaneRepo(db *sql.DB) *AirplaneRepo { return &AirplaneRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *AirplaneRepo) DB() *sql.DB { return r.db }

// --- airplane types ---

// CreateType inserts an airplane type.  A duplicate name surfaces
// as ErrConflict.
func (r *AirplaneRepo) CreateType(ctx context.Context, t *model.AirplaneType) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO airplane_types (name) VALUES (?)`, t.Name)
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

// UpdateType renames an airplane type.
func (r *AirplaneRepo) UpdateType(ctx context.Context, t *model.AirplaneType) error {
	res, err := r.db.ExecContext(ctx, `UPDATE airplane_types SET name = ? WHERE id = ?`, t.Name, t.ID)
	if err != nil {
		if IsDuplicateEntry(err) {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetType(ctx, t.ID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteType removes an airplane type; airplanes referencing it
// block deletion.
func (r *AirplaneRepo) DeleteType(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM airplane_types WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAirplaneTypeNotFound
	}
	return nil
}

// GetType fetches a single airplane type.
func (r *AirplaneRepo) GetType(ctx context.Context, id uint64) (model.AirplaneType, error) {
	var t model.AirplaneType
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM airplane_types WHERE id = ?`, id).Scan(&t.ID, &t.Name)
	if err == sql.ErrNoRows {
		return t, ErrAirplaneTypeNotFound
	}
	return t, err
}

// ListTypes returns all airplane types.
func (r *AirplaneRepo) ListTypes(ctx context.Context) ([]model.AirplaneType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM airplane_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.AirplaneType, 0)
	for rows.Next() {
		var t model.AirplaneType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// --- airplanes ---

const airplaneColumns = `id, type_id, tail_number, manufacturer, model, status, last_inspection, seat_rows, seats_in_row, created_at, updated_at`

func scanAirplane(row interface{ Scan(...any) error }) (model.Airplane, error) {
	var a model.Airplane
	var inspection sql.NullTime
	err := row.Scan(&a.ID, &a.TypeID, &a.TailNumber, &a.Manufacturer, &a.Model,
		&a.Status, &inspection, &a.Rows, &a.SeatsInRow, &a.CreatedAt, &a.UpdatedAt)
	if inspection.Valid {
		t := inspection.Time
		a.LastInspection = &t
	}
	return a, err
}

// Create inserts an airplane.  A duplicate tail number surfaces as
// ErrConflict.
func (r *AirplaneRepo) Create(ctx context.Context, a *model.Airplane) error {
	const q = `INSERT INTO airplanes (type_id, tail_number, manufacturer, model, status, last_inspection, seat_rows, seats_in_row)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.TypeID, a.TailNumber, a.Manufacturer,
		a.Model, a.Status, a.LastInspection, a.Rows, a.SeatsInRow)
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
	a.ID = uint64(id)
	return nil
}

// Update rewrites all editable fields of an airplane.
func (r *AirplaneRepo) Update(ctx context.Context, a *model.Airplane) error {
	const q = `UPDATE airplanes
	           SET type_id = ?, tail_number = ?, manufacturer = ?, model = ?, status = ?, last_inspection = ?, seat_rows = ?, seats_in_row = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, a.TypeID, a.TailNumber, a.Manufacturer,
		a.Model, a.Status, a.LastInspection, a.Rows, a.SeatsInRow, a.ID)
	if err != nil {
		if IsDuplicateEntry(err) {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, a.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an airplane; flights referencing it block deletion.
func (r *AirplaneRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM airplanes WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAirplaneNotFound
	}
	return nil
}

// GetByID fetches a single airplane.
func (r *AirplaneRepo) GetByID(ctx context.Context, id uint64) (model.Airplane, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+airplaneColumns+` FROM airplanes WHERE id = ?`, id)
	a, err := scanAirplane(row)
	if err == sql.ErrNoRows {
		return a, ErrAirplaneNotFound
	}
	return a, err
}

// GetByIDTx fetches a single airplane within a transaction.
func (r *AirplaneRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Airplane, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+airplaneColumns+` FROM airplanes WHERE id = ?`, id)
	a, err := scanAirplane(row)
	if err == sql.ErrNoRows {
		return a, ErrAirplaneNotFound
	}
	return a, err
}

// List returns airplanes, optionally filtered by a substring of the
// model, an exact status and a substring of the manufacturer.
func (r *AirplaneRepo) List(ctx context.Context, modelFilter, status, manufacturer string) ([]model.Airplane, error) {
	q := `SELECT ` + airplaneColumns + ` FROM airplanes WHERE 1=1`
	args := make([]any, 0, 3)
	if modelFilter != "" {
		q += ` AND model LIKE ?`
		args = append(args, "%"+modelFilter+"%")
	}
	if status != "" {
		q += ` AND status = ?`
		args = append(args, status)
	}
	if manufacturer != "" {
		q += ` AND manufacturer LIKE ?`
		args = append(args, "%"+manufacturer+"%")
	}
	q += ` ORDER BY tail_number`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Airplane, 0)
	for rows.Next() {
		a, err := scanAirplane(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
