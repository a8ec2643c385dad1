// Package pricing quotes the current ticket price of a flight.  The
// quote is a pure function of the flight snapshot and an explicit
// evaluation instant, so the same inputs always produce the same
// price.  Nothing is persisted; tickets capture the quote at the
// moment of purchase.
package pricing

import (
	"math"
	"time"
)

// Config holds the tunable pricing parameters.  They are loaded from
// the environment rather than compiled in, because the rate and the
// surcharge thresholds are deployment decisions.
type Config struct {
	PricePerKM         float64       // base rate per route kilometer
	LastMinuteWindow   time.Duration // departure proximity that triggers the surcharge
	LastMinuteFactor   float64       // multiplier applied inside the window
	OccupancyThreshold float64       // booked/total ratio above which the surcharge applies
	OccupancyFactor    float64       // multiplier applied above the threshold
}

// DefaultConfig mirrors the production pricing parameters: $10 per
// kilometer, +20% inside three days of departure, +30% above 80%
// occupancy.
func DefaultConfig() Config {
	return Config{
		PricePerKM:         10,
		LastMinuteWindow:   3 * 24 * time.Hour,
		LastMinuteFactor:   1.2,
		OccupancyThreshold: 0.8,
		OccupancyFactor:    1.3,
	}
}

// FlightQuote is the snapshot of flight state a quote is computed
// from.  BookedSeats counts tickets already sold for the flight.
type FlightQuote struct {
	DistanceKM    int64
	DepartureTime time.Time
	ArrivalTime   time.Time
	TotalSeats    uint32
	BookedSeats   uint32
}

// Quote returns the current price for one seat on the flight,
// rounded to two decimal places.  A flight whose arrival time has
// passed quotes 0.00: there is nothing left to sell.  Surcharges
// combine multiplicatively, last-minute first, occupancy second.
func (c Config) Quote(f FlightQuote, now time.Time) float64 {
	if now.After(f.ArrivalTime) {
		return 0
	}
	price := float64(f.DistanceKM) * c.PricePerKM

	if f.DepartureTime.Sub(now) < c.LastMinuteWindow {
		price *= c.LastMinuteFactor
	}
	if f.TotalSeats > 0 {
		occupancy := float64(f.BookedSeats) / float64(f.TotalSeats)
		if occupancy > c.OccupancyThreshold {
			price *= c.OccupancyFactor
		}
	}
	return Round2(price)
}

// Round2 rounds a dollar amount to two decimal places, half away
// from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
