package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestFlightStatus(t *testing.T) {
	f := Flight{
		DepartureTime: now.Add(time.Hour),
		ArrivalTime:   now.Add(3 * time.Hour),
	}
	assert.Equal(t, FlightStatusPlanned, f.Status(now))
	assert.Equal(t, FlightStatusInProgress, f.Status(now.Add(time.Hour)))
	assert.Equal(t, FlightStatusInProgress, f.Status(now.Add(2*time.Hour)))
	assert.Equal(t, FlightStatusCompleted, f.Status(now.Add(3*time.Hour)))
	assert.Equal(t, FlightStatusCompleted, f.Status(now.Add(4*time.Hour)))
}

func TestAirplaneTotalSeats(t *testing.T) {
	a := Airplane{Rows: 30, SeatsInRow: 6}
	assert.Equal(t, uint32(180), a.TotalSeats())
}

func TestCrewIsExpired(t *testing.T) {
	c := Crew{LicenseExpiration: now}
	assert.False(t, c.IsExpired(now.Add(-time.Second)))
	assert.True(t, c.IsExpired(now))
	assert.True(t, c.IsExpired(now.Add(time.Second)))
}

func TestAirportCurrentTime(t *testing.T) {
	a := Airport{Timezone: "Europe/Kyiv"}
	// June is UTC+3 in Kyiv
	assert.Equal(t, "2025-06-01T15:00:00+03:00", a.CurrentTime(now))

	unknown := Airport{Timezone: "Nowhere/Invalid"}
	assert.Equal(t, "2025-06-01T12:00:00Z", unknown.CurrentTime(now))
}
