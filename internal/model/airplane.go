package model

import "time"

// Airplane statuses.  Only ACTIVE airplanes are expected to be
// scheduled on new flights; INACTIVE and FROZEN are administrative
// states.
const (
	AirplaneStatusActive   = "ACTIVE"
	AirplaneStatusInactive = "INACTIVE"
	AirplaneStatusFrozen   = "FROZEN"
)

// AirplaneManufacturers enumerates the accepted manufacturer values.
var AirplaneManufacturers = map[string]bool{
	"AIRBUS":            true,
	"BOEING":            true,
	"EMBRAER":           true,
	"BOMBARDIER":        true,
	"ATR":               true,
	"SUKHOI":            true,
	"COMAC":             true,
	"MCDONNELL_DOUGLAS": true,
	"LOCKHEED":          true,
	"IL":                true,
	"TU":                true,
	"ANTONOV":           true,
}

// AirplaneType is a named airframe category (e.g. "Boeing 737")
// that individual airplanes reference.
type AirplaneType struct {
	ID   uint64 // airplane_types.id
	Name string // airplane_types.name
}

// Airplane describes a single aircraft and its seating grid.  The
// grid is Rows x SeatsInRow; ticket coordinates are validated
// against it when seats are allocated.
//
// Fields:
//  ID             – primary key identifier.
//  TypeID         – reference to the airplane type.
//  TailNumber     – registration mark, unique.
//  Manufacturer   – one of AirplaneManufacturers.
//  Model          – free-form model designation.
//  Status         – ACTIVE, INACTIVE or FROZEN.
//  LastInspection – timestamp of the latest inspection (nullable).
//  Rows           – number of seat rows, at least 1.
//  SeatsInRow     – seats per row, at least 1.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Airplane struct {
	ID             uint64     // airplanes.id
	TypeID         uint64     // airplanes.type_id
	TailNumber     string     // airplanes.tail_number
	Manufacturer   string     // airplanes.manufacturer
	Model          string     // airplanes.model
	Status         string     // airplanes.status
	LastInspection *time.Time // airplanes.last_inspection (nullable)
	Rows           uint32     // airplanes.rows
	SeatsInRow     uint32     // airplanes.seats_in_row
	CreatedAt      time.Time  // airplanes.created_at
	UpdatedAt      time.Time  // airplanes.updated_at
}

// TotalSeats is the size of the seating grid.
func (a *Airplane) TotalSeats() uint32 {
	return a.Rows * a.SeatsInRow
}
