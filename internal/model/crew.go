package model

import "time"

// Crew roles.  Staffing rules require at least one pilot, one
// co-pilot and one flight attendant on every flight.
const (
	CrewRolePilot           = "PILOT"
	CrewRoleCoPilot         = "CO-PILOT"
	CrewRoleFlightAttendant = "FLIGHT_ATTENDANT"
	CrewRoleEngineer        = "ENGINEER"
)

// CrewRoles enumerates the accepted role values.
var CrewRoles = map[string]bool{
	CrewRolePilot:           true,
	CrewRoleCoPilot:         true,
	CrewRoleFlightAttendant: true,
	CrewRoleEngineer:        true,
}

// Crew is a single crew member.  The license number is unique and
// the license expiration drives the is_expired derivation used by
// the staffing validator.
//
// Fields:
//  ID                – primary key identifier.
//  FirstName         – given name.
//  LastName          – family name.
//  Role              – one of CrewRoles.
//  LicenseNumber     – unique license identifier.
//  LicenseExpiration – when the license lapses.
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type Crew struct {
	ID                uint64    // crew.id
	FirstName         string    // crew.first_name
	LastName          string    // crew.last_name
	Role              string    // crew.role
	LicenseNumber     string    // crew.license_number
	LicenseExpiration time.Time // crew.license_expiration
	CreatedAt         time.Time // crew.created_at
	UpdatedAt         time.Time // crew.updated_at
}

// FullName joins the given and family names for display.
func (c *Crew) FullName() string {
	return c.FirstName + " " + c.LastName
}

// IsExpired reports whether the license has lapsed as of now.
func (c *Crew) IsExpired(now time.Time) bool {
	return !now.Before(c.LicenseExpiration)
}
