package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/flight-reservation/internal/model"
)

// FlightRepo provides access to flights and their crew assignments.
// A flight row never stores status or price; both are derived at
// read time from the window and the pricing engine.
type FlightRepo struct {
	db *sql.DB
}

// NewFlightRepo returns a new FlightRepo bound to the given database.
func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *FlightRepo) DB() *sql.DB { return r.db }

const flightColumns = `id, airplane_id, route_id, departure_time, arrival_time, created_at, updated_at`

func scanFlight(row interface{ Scan(...any) error }) (model.Flight, error) {
	var f model.Flight
	err := row.Scan(&f.ID, &f.AirplaneID, &f.RouteID, &f.DepartureTime, &f.ArrivalTime, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

// Create inserts a flight and its crew links in one transaction.
// Crew validation happens in the handler before this is called.
func (r *FlightRepo) Create(ctx context.Context, f *model.Flight, crewIDs []uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	const q = `INSERT INTO flights (airplane_id, route_id, departure_time, arrival_time) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, f.AirplaneID, f.RouteID, f.DepartureTime, f.ArrivalTime)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	if err := replaceCrewTx(ctx, tx, f.ID, crewIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Update rewrites a flight's schedule and crew in one transaction.
func (r *FlightRepo) Update(ctx context.Context, f *model.Flight, crewIDs []uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	const q = `UPDATE flights SET airplane_id = ?, route_id = ?, departure_time = ?, arrival_time = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, f.AirplaneID, f.RouteID, f.DepartureTime, f.ArrivalTime, f.ID); err != nil {
		return err
	}
	if err := replaceCrewTx(ctx, tx, f.ID, crewIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func replaceCrewTx(ctx context.Context, tx *sql.Tx, flightID uint64, crewIDs []uint64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM flight_crew WHERE flight_id = ?`, flightID); err != nil {
		return err
	}
	for _, crewID := range crewIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO flight_crew (flight_id, crew_id) VALUES (?, ?)`, flightID, crewID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a flight; sold tickets block deletion.
func (r *FlightRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM flights WHERE id = ?`, id)
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
		return ErrFlightNotFound
	}
	return nil
}

// GetByID fetches a single flight.
func (r *FlightRepo) GetByID(ctx context.Context, id uint64) (model.Flight, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+flightColumns+` FROM flights WHERE id = ?`, id)
	f, err := scanFlight(row)
	if err == sql.ErrNoRows {
		return f, ErrFlightNotFound
	}
	return f, err
}

// GetByIDTx fetches a single flight within a transaction.  The
// booking flow uses this so the flight snapshot and the ticket
// insert share one transactional view.
func (r *FlightRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Flight, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+flightColumns+` FROM flights WHERE id = ?`, id)
	f, err := scanFlight(row)
	if err == sql.ErrNoRows {
		return f, ErrFlightNotFound
	}
	return f, err
}

// Crew returns the crew members assigned to a flight.
func (r *FlightRepo) Crew(ctx context.Context, flightID uint64) ([]model.Crew, error) {
	const q = `SELECT c.id, c.first_name, c.last_name, c.role, c.license_number, c.license_expiration, c.created_at, c.updated_at
	           FROM flight_crew fc
	           JOIN crew c ON c.id = fc.crew_id
	           WHERE fc.flight_id = ?
	           ORDER BY c.last_name, c.first_name`
	rows, err := r.db.QueryContext(ctx, q, flightID)
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

// FlightListing joins a flight with the route, airplane and booking
// data needed to render a list entry and to quote its price.
type FlightListing struct {
	Flight        model.Flight
	SourceIATA    string
	DestIATA      string
	SourceTZ      string
	DestTZ        string
	AirplaneModel string
	Manufacturer  string
	DistanceKM    int64
	TotalSeats    uint32
	BookedSeats   uint32
}

const flightListingQuery = `
	SELECT f.id, f.airplane_id, f.route_id, f.departure_time, f.arrival_time, f.created_at, f.updated_at,
	       s.iata_code, d.iata_code, s.timezone, d.timezone,
	       a.model, a.manufacturer, r.distance_km,
	       a.seat_rows * a.seats_in_row,
	       (SELECT COUNT(*) FROM tickets t WHERE t.flight_id = f.id)
	FROM flights f
	JOIN routes r ON r.id = f.route_id
	JOIN airports s ON s.id = r.source_id
	JOIN airports d ON d.id = r.destination_id
	JOIN airplanes a ON a.id = f.airplane_id`

func scanFlightListing(row interface{ Scan(...any) error }) (FlightListing, error) {
	var l FlightListing
	err := row.Scan(&l.Flight.ID, &l.Flight.AirplaneID, &l.Flight.RouteID,
		&l.Flight.DepartureTime, &l.Flight.ArrivalTime, &l.Flight.CreatedAt, &l.Flight.UpdatedAt,
		&l.SourceIATA, &l.DestIATA, &l.SourceTZ, &l.DestTZ,
		&l.AirplaneModel, &l.Manufacturer, &l.DistanceKM, &l.TotalSeats, &l.BookedSeats)
	return l, err
}

// List returns flight listings, optionally filtered by route and by
// a departure day.
func (r *FlightRepo) List(ctx context.Context, routeID uint64, day *time.Time) ([]FlightListing, error) {
	q := flightListingQuery + ` WHERE 1=1`
	args := make([]any, 0, 3)
	if routeID != 0 {
		q += ` AND f.route_id = ?`
		args = append(args, routeID)
	}
	if day != nil {
		q += ` AND f.departure_time >= ? AND f.departure_time < ?`
		start := day.UTC().Truncate(24 * time.Hour)
		args = append(args, start, start.Add(24*time.Hour))
	}
	q += ` ORDER BY f.departure_time, f.arrival_time`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]FlightListing, 0)
	for rows.Next() {
		l, err := scanFlightListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// GetListing returns the listing row for one flight.
func (r *FlightRepo) GetListing(ctx context.Context, id uint64) (FlightListing, error) {
	row := r.db.QueryRowContext(ctx, flightListingQuery+` WHERE f.id = ?`, id)
	l, err := scanFlightListing(row)
	if err == sql.ErrNoRows {
		return l, ErrFlightNotFound
	}
	return l, err
}

// GetListingTx returns the listing row for one flight inside a
// transaction, so the quote used for a ticket snapshot reads the
// same booked-seat count the insert will see.
func (r *FlightRepo) GetListingTx(ctx context.Context, tx *sql.Tx, id uint64) (FlightListing, error) {
	row := tx.QueryRowContext(ctx, flightListingQuery+` WHERE f.id = ?`, id)
	l, err := scanFlightListing(row)
	if err == sql.ErrNoRows {
		return l, ErrFlightNotFound
	}
	return l, err
}
