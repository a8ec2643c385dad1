package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/flight-reservation/internal/model"
)

// RouteRepo provides CRUD access to routes and their stopovers.
// The distance column is always written from a value derived by the
// caller (geo.DistanceKM over the endpoint coordinates); there is no
// statement that accepts a client-supplied distance.
type RouteRepo struct {
	db *sql.DB
}

// NewRouteRepo returns a new RouteRepo bound to the given database.
func NewRouteRepo(db *sql.DB) *RouteRepo { return &RouteRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *RouteRepo) DB() *sql.DB { return r.db }

// Create inserts a route and its ordered stops in one transaction.
// The route's generated ID is populated on success.
func (r *RouteRepo) Create(ctx context.Context, rt *model.Route, stopIDs []uint64) error {
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
	const q = `INSERT INTO routes (source_id, destination_id, distance_km) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, rt.SourceID, rt.DestinationID, rt.DistanceKM)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = uint64(id)
	if err := replaceStopsTx(ctx, tx, rt.ID, stopIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Update rewrites a route's endpoints, derived distance and stops.
func (r *RouteRepo) Update(ctx context.Context, rt *model.Route, stopIDs []uint64) error {
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
	const q = `UPDATE routes SET source_id = ?, destination_id = ?, distance_km = ? WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, rt.SourceID, rt.DestinationID, rt.DistanceKM, rt.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Zero rows can also mean an identical update; verify existence.
		if _, err := r.GetByID(ctx, rt.ID); err != nil {
			return err
		}
	}
	if err := replaceStopsTx(ctx, tx, rt.ID, stopIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func replaceStopsTx(ctx context.Context, tx *sql.Tx, routeID uint64, stopIDs []uint64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM route_stops WHERE route_id = ?`, routeID); err != nil {
		return err
	}
	for i, airportID := range stopIDs {
		const q = `INSERT INTO route_stops (route_id, airport_id, position) VALUES (?, ?, ?)`
		if _, err := tx.ExecContext(ctx, q, routeID, airportID, i); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a route.  Flights referencing it block deletion.
func (r *RouteRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM routes WHERE id = ?`, id)
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
		return ErrRouteNotFound
	}
	return nil
}

// GetByID fetches a single route.
func (r *RouteRepo) GetByID(ctx context.Context, id uint64) (model.Route, error) {
	const q = `SELECT id, source_id, destination_id, distance_km, created_at, updated_at FROM routes WHERE id = ?`
	var rt model.Route
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&rt.ID, &rt.SourceID, &rt.DestinationID, &rt.DistanceKM, &rt.CreatedAt, &rt.UpdatedAt)
	if err == sql.ErrNoRows {
		return rt, ErrRouteNotFound
	}
	return rt, err
}

// Stops returns the ordered stopover airports of a route.
func (r *RouteRepo) Stops(ctx context.Context, routeID uint64) ([]model.Airport, error) {
	const q = `SELECT a.id, a.name, a.iata_code, a.icao_code, a.closest_big_city, a.timezone, a.latitude, a.longitude, a.created_at, a.updated_at
	           FROM route_stops rs
	           JOIN airports a ON a.id = rs.airport_id
	           WHERE rs.route_id = ?
	           ORDER BY rs.position`
	rows, err := r.db.QueryContext(ctx, q, routeID)
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

// RouteDetail is a route joined with its endpoint airport names for
// list views.
type RouteDetail struct {
	ID              uint64 `json:"id"`
	SourceID        uint64 `json:"source_id"`
	SourceName      string `json:"source_name"`
	DestinationID   uint64 `json:"destination_id"`
	DestinationName string `json:"destination_name"`
	DistanceKM      int64  `json:"distance_km"`
}

// List returns routes with endpoint names, optionally filtered by a
// substring of the source or destination airport name.
func (r *RouteRepo) List(ctx context.Context, source, destination string) ([]RouteDetail, error) {
	q := `SELECT r.id, r.source_id, s.name, r.destination_id, d.name, r.distance_km
	      FROM routes r
	      JOIN airports s ON s.id = r.source_id
	      JOIN airports d ON d.id = r.destination_id
	      WHERE 1=1`
	args := make([]any, 0, 2)
	if source != "" {
		q += ` AND s.name LIKE ?`
		args = append(args, "%"+source+"%")
	}
	if destination != "" {
		q += ` AND d.name LIKE ?`
		args = append(args, "%"+destination+"%")
	}
	q += ` ORDER BY r.id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RouteDetail, 0)
	for rows.Next() {
		var d RouteDetail
		if err := rows.Scan(&d.ID, &d.SourceID, &d.SourceName, &d.DestinationID, &d.DestinationName, &d.DistanceKM); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
