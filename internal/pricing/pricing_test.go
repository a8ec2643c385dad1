package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func quoteFor(departureIn time.Duration, total, booked uint32) FlightQuote {
	return FlightQuote{
		DistanceKM:    100,
		DepartureTime: now.Add(departureIn),
		ArrivalTime:   now.Add(departureIn + 2*time.Hour),
		TotalSeats:    total,
		BookedSeats:   booked,
	}
}

func TestQuoteBasePrice(t *testing.T) {
	cfg := DefaultConfig()
	// a week out, empty plane: no surcharges apply
	got := cfg.Quote(quoteFor(7*24*time.Hour, 100, 0), now)
	assert.Equal(t, 1000.0, got)
}

func TestQuoteLastMinuteSurcharge(t *testing.T) {
	cfg := DefaultConfig()
	got := cfg.Quote(quoteFor(2*24*time.Hour, 100, 0), now)
	assert.Equal(t, 1200.0, got)
}

func TestQuoteLastMinuteBoundary(t *testing.T) {
	cfg := DefaultConfig()
	// exactly three days out is not inside the window
	got := cfg.Quote(quoteFor(3*24*time.Hour, 100, 0), now)
	assert.Equal(t, 1000.0, got)
}

func TestQuoteOccupancySurcharge(t *testing.T) {
	cfg := DefaultConfig()
	got := cfg.Quote(quoteFor(7*24*time.Hour, 100, 81), now)
	assert.Equal(t, 1300.0, got)
}

func TestQuoteOccupancyBoundary(t *testing.T) {
	cfg := DefaultConfig()
	// exactly at the threshold does not trigger the surcharge
	got := cfg.Quote(quoteFor(7*24*time.Hour, 100, 80), now)
	assert.Equal(t, 1000.0, got)
}

func TestQuoteSurchargesCombine(t *testing.T) {
	cfg := DefaultConfig()
	got := cfg.Quote(quoteFor(2*24*time.Hour, 100, 81), now)
	assert.Equal(t, 1560.0, got) // 1000 * 1.2 * 1.3
}

func TestQuoteZeroAfterArrival(t *testing.T) {
	cfg := DefaultConfig()
	f := quoteFor(0, 100, 0)
	f.DepartureTime = now.Add(-5 * time.Hour)
	f.ArrivalTime = now.Add(-3 * time.Hour)
	assert.Equal(t, 0.0, cfg.Quote(f, now))
}

func TestQuoteInFlightStillPriced(t *testing.T) {
	cfg := DefaultConfig()
	f := quoteFor(0, 100, 0)
	f.DepartureTime = now.Add(-1 * time.Hour)
	f.ArrivalTime = now.Add(1 * time.Hour)
	// departed but not yet arrived quotes with the last-minute factor
	assert.Equal(t, 1200.0, cfg.Quote(f, now))
}

func TestQuoteRounding(t *testing.T) {
	cfg := Config{
		PricePerKM:         0.333,
		LastMinuteWindow:   3 * 24 * time.Hour,
		LastMinuteFactor:   1.2,
		OccupancyThreshold: 0.8,
		OccupancyFactor:    1.3,
	}
	got := cfg.Quote(quoteFor(7*24*time.Hour, 100, 0), now)
	assert.Equal(t, 33.3, got)
}

func TestQuoteZeroTotalSeats(t *testing.T) {
	cfg := DefaultConfig()
	// no division by zero when the grid is empty
	got := cfg.Quote(quoteFor(7*24*time.Hour, 0, 0), now)
	assert.Equal(t, 1000.0, got)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.56, Round2(10.556))
	assert.Equal(t, 10.55, Round2(10.554))
	assert.Equal(t, -10.56, Round2(-10.556))
	assert.Equal(t, 0.0, Round2(0))
}
