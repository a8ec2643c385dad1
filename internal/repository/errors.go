// Package repository defines error types that are reused across
// multiple repositories.  These sentinel values allow higher layers
// such as handlers to distinguish between different failure
// scenarios: ErrForbidden indicates the current user does not own
// the resource, the NotFound values map to 404 responses, and
// IsDuplicateEntry detects unique-constraint violations raised by
// MySQL, which the booking flow relies on as the final backstop
// against concurrent seat allocation.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrForbidden is returned when the caller attempts an operation on
// a resource they do not own.  Handlers should translate this into
// an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an insert or delete cannot proceed
// because of conflicting state, such as deleting an airport that
// routes still reference.  Handlers should translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when registering with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// Not-found sentinels per entity.  Handlers map them to 404.
var (
	ErrAirportNotFound      = errors.New("airport not found")
	ErrRouteNotFound        = errors.New("route not found")
	ErrAirplaneNotFound     = errors.New("airplane not found")
	ErrAirplaneTypeNotFound = errors.New("airplane type not found")
	ErrCrewNotFound         = errors.New("crew member not found")
	ErrFlightNotFound       = errors.New("flight not found")
	ErrOrderNotFound        = errors.New("order not found")
)

// mysqlDuplicateEntry is the MySQL error number for a violated
// unique constraint.
const mysqlDuplicateEntry = 1062

// IsDuplicateEntry reports whether err is a MySQL duplicate-key
// error.  The tickets table's unique (seat_row, seat_num, flight_id)
// index surfaces concurrent double-bookings through this check.
func IsDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// mysqlRowReferenced is raised when a delete would orphan rows that
// still reference the target through a foreign key.
const mysqlRowReferenced = 1451

func isForeignKeyViolation(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlRowReferenced
}
