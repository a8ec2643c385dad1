package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/flight-reservation/internal/model"
)

// AirportRepo provides CRUD access to the airports table.  Airports
// are referenced by routes, so deletion is restricted while
// references exist.
type AirportRepo struct {
	db *sql.DB
}

// NewAirportRepo returns a new AirportRepo bound to the given database.
func NewAirportRepo(db *sql.DB) *AirportRepo { return &AirportRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *AirportRepo) DB() *sql.DB { return r.db }

const airportColumns = `id, name, iata_code, icao_code, closest_big_city, timezone, latitude, longitude, created_at, updated_at`

func scanAirport(row interface{ Scan(...any) error }) (model.Airport, error) {
	var a model.Airport
	err := row.Scan(&a.ID, &a.Name, &a.IATACode, &a.ICAOCode, &a.ClosestBigCity,
		&a.Timezone, &a.Latitude, &a.Longitude, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// Create inserts an airport and returns its generated ID.  A
// duplicate IATA or ICAO code surfaces as ErrConflict.
func (r *AirportRepo) Create(ctx context.Context, a *model.Airport) error {
	const q = `INSERT INTO airports (name, iata_code, icao_code, closest_big_city, timezone, latitude, longitude)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.IATACode, a.ICAOCode,
		a.ClosestBigCity, a.Timezone, a.Latitude, a.Longitude)
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

// Update rewrites all editable fields of an airport.
func (r *AirportRepo) Update(ctx context.Context, a *model.Airport) error {
	const q = `UPDATE airports
	           SET name = ?, iata_code = ?, icao_code = ?, closest_big_city = ?, timezone = ?, latitude = ?, longitude = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.IATACode, a.ICAOCode,
		a.ClosestBigCity, a.Timezone, a.Latitude, a.Longitude, a.ID)
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
		// Zero rows can also mean an identical update; verify existence.
		if _, err := r.GetByID(ctx, a.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an airport.  Routes referencing it block deletion
// via foreign keys, surfaced as ErrConflict.
func (r *AirportRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM airports WHERE id = ?`, id)
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
		return ErrAirportNotFound
	}
	return nil
}

// GetByID fetches a single airport.
func (r *AirportRepo) GetByID(ctx context.Context, id uint64) (model.Airport, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+airportColumns+` FROM airports WHERE id = ?`, id)
	a, err := scanAirport(row)
	if err == sql.ErrNoRows {
		return a, ErrAirportNotFound
	}
	return a, err
}

// List returns all airports, optionally filtered by a substring of
// the name or the closest big city.
func (r *AirportRepo) List(ctx context.Context, name, city string) ([]model.Airport, error) {
	q := `SELECT ` + airportColumns + ` FROM airports WHERE 1=1`
	args := make([]any, 0, 2)
	if name != "" {
		q += ` AND name LIKE ?`
		args = append(args, "%"+name+"%")
	}
	if city != "" {
		q += ` AND closest_big_city LIKE ?`
		args = append(args, "%"+city+"%")
	}
	q += ` ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Airport, 0)
	for rows.Next() {
		a, err := scanAirport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
