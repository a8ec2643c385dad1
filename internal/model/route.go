package model

import "time"

// Route is an ordered pair of airports plus an optional ordered set
// of stopovers.  DistanceKM is always derived from the source and
// destination coordinates when the route is saved; it is never
// accepted from a client.
//
// Fields:
//  ID            – primary key identifier.
//  SourceID      – departure airport.
//  DestinationID – arrival airport.
//  DistanceKM    – great-circle distance in kilometers, derived.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Route struct {
	ID            uint64    // routes.id
	SourceID      uint64    // routes.source_id
	DestinationID uint64    // routes.destination_id
	DistanceKM    int64     // routes.distance_km
	CreatedAt     time.Time // routes.created_at
	UpdatedAt     time.Time // routes.updated_at
}

// RouteStop links a route to one of its stopover airports.  Position
// preserves the order of the stops.
type RouteStop struct {
	RouteID   uint64 // route_stops.route_id
	AirportID uint64 // route_stops.airport_id
	Position  uint32 // route_stops.position
}
