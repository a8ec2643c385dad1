// Package booking holds the business rules of the order ledger and
// the seat allocator: seat-grid checks, duplicate detection within
// one submission, the insufficient-funds gate and the cancellation
// rules.  The functions here are pure; the order handler runs them
// inside a single database transaction and the tickets table's
// unique (row, seat, flight) constraint backstops the seat checks
// under concurrency.
package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/flight-reservation/internal/model"
)

// ErrSeatTaken signals that another order already holds the
// requested (row, seat, flight).  Handlers translate it into a 409.
var ErrSeatTaken = errors.New("seat is already taken for this flight")

// ErrFlightNotPlanned signals a purchase attempt on a flight that
// has departed or landed.
var ErrFlightNotPlanned = errors.New("flight is completed or in progress")

// SeatRequest is one requested ticket inside an order submission.
type SeatRequest struct {
	FlightID uint64 `json:"flight_id"`
	Row      uint32 `json:"row"`
	Seat     uint32 `json:"seat"`
}

// NoSuchSeatError reports seat coordinates outside the airplane's
// physical grid.
type NoSuchSeatError struct {
	Row, Seat        uint32
	Rows, SeatsInRow uint32
}

func (e *NoSuchSeatError) Error() string {
	return fmt.Sprintf("no seat %d-%d on this plane (grid is %dx%d)",
		e.Row, e.Seat, e.Rows, e.SeatsInRow)
}

// DuplicateSeatError reports two requests for the same seat inside
// one order submission.  It is raised before any database mutation.
type DuplicateSeatError struct {
	Req SeatRequest
}

func (e *DuplicateSeatError) Error() string {
	return fmt.Sprintf("duplicate seat %d-%d in this order for flight %d",
		e.Req.Row, e.Req.Seat, e.Req.FlightID)
}

// InsufficientFundsError carries both sides of the failed balance
// check so the client can display them.
type InsufficientFundsError struct {
	Balance  float64 `json:"balance"`
	Required float64 `json:"required"`
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("not enough on balance, %.2f$ < %.2f$", e.Balance, e.Required)
}

// CheckSeat validates that the requested coordinates exist on the
// airplane assigned to the flight.  Rows and seats are 1-based.
func CheckSeat(plane *model.Airplane, row, seat uint32) error {
	if row < 1 || row > plane.Rows || seat < 1 || seat > plane.SeatsInRow {
		return &NoSuchSeatError{Row: row, Seat: seat, Rows: plane.Rows, SeatsInRow: plane.SeatsInRow}
	}
	return nil
}

// CheckPurchasable rejects flights that are no longer PLANNED at the
// evaluation instant.
func CheckPurchasable(f *model.Flight, now time.Time) error {
	if f.Status(now) != model.FlightStatusPlanned {
		return ErrFlightNotPlanned
	}
	return nil
}

// FindDuplicate scans an order submission for two requests targeting
// the same (row, seat, flight).  It returns the first duplicate, or
// nil when all requests are distinct.
func FindDuplicate(reqs []SeatRequest) *DuplicateSeatError {
	seen := make(map[SeatRequest]bool, len(reqs))
	for _, r := range reqs {
		if seen[r] {
			return &DuplicateSeatError{Req: r}
		}
		seen[r] = true
	}
	return nil
}

// CancellationWindow is how long after creation an order stays
// cancellable.
const CancellationWindow = 14 * 24 * time.Hour

// CancellableAt reports whether an order created at createdAt may
// still be cancelled on the given day.  The comparison is by
// calendar date: the order becomes too old only once its creation
// date plus the window is before today.
func CancellableAt(createdAt, now time.Time) bool {
	deadline := dateOf(createdAt).Add(CancellationWindow)
	return !deadline.Before(dateOf(now))
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RefundSplit divides an order's tickets into refundable and
// non-refundable sets.  Only tickets on still-PLANNED flights are
// refundable; the rest stay on the order and are reported back.
// The returned total is the sum of the refundable price snapshots.
func RefundSplit(tickets []model.Ticket, planned map[uint64]bool) (refundable, kept []model.Ticket, total float64) {
	for _, t := range tickets {
		if planned[t.FlightID] {
			refundable = append(refundable, t)
			total += t.Price
		} else {
			kept = append(kept, t)
		}
	}
	return refundable, kept, total
}
