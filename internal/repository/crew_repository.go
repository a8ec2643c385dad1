package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/flight-reservation/internal/model"
)

// CrewRepo provides CRUD access to crew members and the schedule
// index used by the staffing validator's availability rule.
type CrewRepo struct {
	db *sql.DB
}

// NewCrewRepo returns a new CrewRepo bound to the given database.
func NewCrewRepo(db *sql.DB) *CrewRepo { return &CrewRepo{db: db} }

const crewColumns = `id, first_name, last_name, role, license_number, license_expiration, created_at, updated_at`

func scanCrew(row interface{ Scan(...any) error }) (model.Crew, error) {
	var c model.Crew
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Role, &c.LicenseNumber,
		&c.LicenseExpiration, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// Create inserts a crew member.  A duplicate license number surfaces
// as ErrConflict.
func (r *CrewRepo) Create(ctx context.Context, c *model.Crew) error {
	const q = `INSERT INTO crew (first_name, last_name, role, license_number, license_expiration)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.FirstName, c.LastName, c.Role, c.LicenseNumber, c.LicenseExpiration)
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
	c.ID = uint64(id)
	return nil
}

// Update rewrites all editable fields of a crew member.
func (r *CrewRepo) Update(ctx context.Context, c *model.Crew) error {
	const q = `UPDATE crew
	           SET first_name = ?, last_name = ?, role = ?, license_number = ?, license_expiration = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, c.FirstName, c.LastName, c.Role, c.LicenseNumber, c.LicenseExpiration, c.ID)
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
		if _, err := r.GetByID(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a crew member; flight assignments block deletion.
func (r *CrewRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM crew WHERE id = ?`, id)
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
		return ErrCrewNotFound
	}
	return nil
}

// GetByID fetches a single crew member.
func (r *CrewRepo) GetByID(ctx context.Context, id uint64) (model.Crew, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+crewColumns+` FROM crew WHERE id = ?`, id)
	c, err := scanCrew(row)
	if err == sql.ErrNoRows {
		return c, ErrCrewNotFound
	}
	return c, err
}

// GetByIDs fetches the crew members with the given IDs.  Missing IDs
// surface as ErrCrewNotFound so flight validation can reject
// references to unknown members.
func (r *CrewRepo) GetByIDs(ctx context.Context, ids []uint64) ([]model.Crew, error) {
	if len(ids) == 0 {
		return []model.Crew{}, nil
	}
	q := `SELECT ` + crewColumns + ` FROM crew WHERE id IN (`
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			q += ","
		}
		q += "?"
		args = append(args, id)
	}
	q += `)`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Crew, 0, len(ids))
	for rows.Next() {
		c, err := scanCrew(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) != len(ids) {
		return nil, ErrCrewNotFound
	}
	return out, nil
}

// List returns all crew members ordered by name.
func (r *CrewRepo) List(ctx context.Context) ([]model.Crew, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+crewColumns+` FROM crew ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Crew, 0)
	for rows.Next() {
		c, err := scanCrew(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// BusyDuring returns the subset of the given members that already
// have a flight assignment overlapping [departure, arrival).  The
// overlap test is existing.departure < arrival AND existing.arrival
// > departure.  excludeFlightID skips the flight being edited so a
// member is not considered busy with the very flight under
// validation; pass 0 on creation.
func (r *CrewRepo) BusyDuring(ctx context.Context, ids []uint64, departure, arrival time.Time, excludeFlightID uint64) (map[uint64]bool, error) {
	busy := make(map[uint64]bool, len(ids))
	if len(ids) == 0 {
		return busy, nil
	}
	q := `SELECT DISTINCT fc.crew_id
	      FROM flight_crew fc
	      JOIN flights f ON f.id = fc.flight_id
	      WHERE f.departure_time < ? AND f.arrival_time > ? AND f.id != ? AND fc.crew_id IN (`
	args := []any{arrival, departure, excludeFlightID}
	for i, id := range ids {
		if i > 0 {
			q += ","
		}
		q += "?"
		args = append(args, id)
	}
	q += `)`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		busy[id] = true
	}
	return busy, rows.Err()
}
