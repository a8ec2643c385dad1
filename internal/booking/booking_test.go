package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/flight-reservation/internal/model"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestCheckSeat(t *testing.T) {
	plane := &model.Airplane{Rows: 10, SeatsInRow: 6}

	assert.NoError(t, CheckSeat(plane, 1, 1))
	assert.NoError(t, CheckSeat(plane, 10, 6))

	tests := []struct {
		name      string
		row, seat uint32
	}{
		{"row zero", 0, 1},
		{"seat zero", 1, 0},
		{"row too big", 11, 1},
		{"seat too big", 1, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSeat(plane, tt.row, tt.seat)
			var nsErr *NoSuchSeatError
			require.ErrorAs(t, err, &nsErr)
			assert.Contains(t, nsErr.Error(), "10x6")
		})
	}
}

func TestCheckPurchasable(t *testing.T) {
	planned := &model.Flight{
		DepartureTime: now.Add(24 * time.Hour),
		ArrivalTime:   now.Add(26 * time.Hour),
	}
	assert.NoError(t, CheckPurchasable(planned, now))

	inProgress := &model.Flight{
		DepartureTime: now.Add(-time.Hour),
		ArrivalTime:   now.Add(time.Hour),
	}
	assert.ErrorIs(t, CheckPurchasable(inProgress, now), ErrFlightNotPlanned)

	completed := &model.Flight{
		DepartureTime: now.Add(-3 * time.Hour),
		ArrivalTime:   now.Add(-time.Hour),
	}
	assert.ErrorIs(t, CheckPurchasable(completed, now), ErrFlightNotPlanned)
}

func TestFindDuplicate(t *testing.T) {
	reqs := []SeatRequest{
		{FlightID: 1, Row: 1, Seat: 1},
		{FlightID: 1, Row: 1, Seat: 2},
		{FlightID: 2, Row: 1, Seat: 1}, // same seat, different flight: fine
	}
	assert.Nil(t, FindDuplicate(reqs))

	reqs = append(reqs, SeatRequest{FlightID: 1, Row: 1, Seat: 2})
	dup := FindDuplicate(reqs)
	require.NotNil(t, dup)
	assert.Equal(t, uint64(1), dup.Req.FlightID)
	assert.Equal(t, uint32(2), dup.Req.Seat)
}

func TestCancellableAt(t *testing.T) {
	created := time.Date(2025, 6, 1, 23, 50, 0, 0, time.UTC)

	assert.True(t, CancellableAt(created, created))
	assert.True(t, CancellableAt(created, created.AddDate(0, 0, 13)))
	// the comparison is by calendar date, so the whole 14th day counts
	assert.True(t, CancellableAt(created, time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC)))
	assert.False(t, CancellableAt(created, time.Date(2025, 6, 16, 0, 10, 0, 0, time.UTC)))
}

func TestRefundSplit(t *testing.T) {
	tickets := []model.Ticket{
		{ID: 1, FlightID: 10, Price: 100.50},
		{ID: 2, FlightID: 11, Price: 200.25},
		{ID: 3, FlightID: 10, Price: 100.50},
		{ID: 4, FlightID: 12, Price: 50.00},
	}
	planned := map[uint64]bool{10: true, 11: false, 12: false}

	refundable, kept, total := RefundSplit(tickets, planned)
	require.Len(t, refundable, 2)
	require.Len(t, kept, 2)
	assert.Equal(t, uint64(1), refundable[0].ID)
	assert.Equal(t, uint64(3), refundable[1].ID)
	assert.InDelta(t, 201.0, total, 1e-9)

	// every ticket lands in exactly one bucket
	assert.Equal(t, len(tickets), len(refundable)+len(kept))
}

func TestRefundSplitAllPlanned(t *testing.T) {
	tickets := []model.Ticket{
		{ID: 1, FlightID: 10, Price: 10},
		{ID: 2, FlightID: 10, Price: 20},
	}
	refundable, kept, total := RefundSplit(tickets, map[uint64]bool{10: true})
	assert.Len(t, refundable, 2)
	assert.Empty(t, kept)
	assert.InDelta(t, 30.0, total, 1e-9)
}

func TestRefundSplitNonePlanned(t *testing.T) {
	tickets := []model.Ticket{{ID: 1, FlightID: 10, Price: 10}}
	refundable, kept, total := RefundSplit(tickets, map[uint64]bool{})
	assert.Empty(t, refundable)
	assert.Len(t, kept, 1)
	assert.Zero(t, total)
}

func TestInsufficientFundsErrorMessage(t *testing.T) {
	err := &InsufficientFundsError{Balance: 12.5, Required: 100}
	assert.Equal(t, "not enough on balance, 12.50$ < 100.00$", err.Error())
}
