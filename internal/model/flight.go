package model

import "time"

// Flight statuses derived from the current time versus the flight
// window.  They are never persisted.
const (
	FlightStatusPlanned    = "PLANNED"
	FlightStatusInProgress = "IN_PROGRESS"
	FlightStatusCompleted  = "COMPLETED"
)

// Flight schedules an airplane on a route with an assigned crew.
// Status and price are live derivations, not columns: status follows
// from the departure/arrival window and price is quoted by the
// pricing engine on every read.
//
// Fields:
//  ID            – primary key identifier.
//  AirplaneID    – aircraft flying the route.
//  RouteID       – route being flown.
//  DepartureTime – scheduled departure, strictly before ArrivalTime.
//  ArrivalTime   – scheduled arrival.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Flight struct {
	ID            uint64    // flights.id
	AirplaneID    uint64    // flights.airplane_id
	RouteID       uint64    // flights.route_id
	DepartureTime time.Time // flights.departure_time
	ArrivalTime   time.Time // flights.arrival_time
	CreatedAt     time.Time // flights.created_at
	UpdatedAt     time.Time // flights.updated_at
}

// Status derives the flight state at the given instant: PLANNED
// before departure, IN_PROGRESS between departure and arrival,
// COMPLETED once arrival has passed.
func (f *Flight) Status(now time.Time) string {
	if f.DepartureTime.After(now) {
		return FlightStatusPlanned
	}
	if f.ArrivalTime.After(now) {
		return FlightStatusInProgress
	}
	return FlightStatusCompleted
}
