package model

import "time"

// Airport represents an airfield that routes depart from, arrive at
// or stop over in.  Both the IATA and ICAO codes are unique across
// the whole table.  Coordinates are stored with six decimal places
// and are the input of the route distance derivation.
//
// Fields:
//  ID             – primary key identifier.
//  Name           – full airport name.
//  IATACode       – three letter IATA code, unique.
//  ICAOCode       – four letter ICAO code, unique.
//  ClosestBigCity – nearest major city served by the airport.
//  Timezone       – IANA timezone name (e.g. "Europe/Kyiv").
//  Latitude       – decimal degrees, north positive.
//  Longitude      – decimal degrees, east positive.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Airport struct {
	ID             uint64    // airports.id
	Name           string    // airports.name
	IATACode       string    // airports.iata_code
	ICAOCode       string    // airports.icao_code
	ClosestBigCity string    // airports.closest_big_city
	Timezone       string    // airports.timezone
	Latitude       float64   // airports.latitude
	Longitude      float64   // airports.longitude
	CreatedAt      time.Time // airports.created_at
	UpdatedAt      time.Time // airports.updated_at
}

// CurrentTime reports the wall-clock time at the airport, formatted
// in its own timezone.  Unknown timezones fall back to UTC.
func (a *Airport) CurrentTime(now time.Time) string {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return now.In(loc).Format(time.RFC3339)
}
