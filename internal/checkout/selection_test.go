package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinetix/checkout-service/internal/model"
)

func sampleSeats() []model.Seat {
	return []model.Seat{
		{ID: 1, Row: "A", Number: 1, RoomID: 7, Code: "A1", Available: true},
		{ID: 2, Row: "A", Number: 2, RoomID: 7, Code: "A2", Available: true},
		{ID: 3, Row: "A", Number: 3, RoomID: 7, Code: "A3", Available: false},
		{ID: 4, Row: "B", Number: 1, RoomID: 7, Code: "B1", Available: true},
		{ID: 5, Row: "B", Number: 2, RoomID: 7, Code: "B2", Available: true},
	}
}

func TestToggleRespectsAvailability(t *testing.T) {
	tests := []struct {
		name    string
		seatID  int64
		toggled bool
	}{
		{name: "available seat toggles", seatID: 1, toggled: true},
		{name: "unavailable seat refuses", seatID: 3, toggled: false},
		{name: "unknown seat refuses", seatID: 99, toggled: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var s SeatSelection
			s.Initialize(sampleSeats())
			before := s.Seats()

			ok := s.Toggle(tc.seatID)
			assert.Equal(t, tc.toggled, ok)
			if !tc.toggled {
				// a refused toggle leaves every seat untouched
				assert.Equal(t, before, s.Seats())
			}
		})
	}
}

func TestToggleTwiceRestoresOriginalState(t *testing.T) {
	var s SeatSelection
	s.Initialize(sampleSeats())
	s.Toggle(2)
	before := s.Seats()

	for _, id := range []int64{1, 2, 3, 4, 99} {
		s.Toggle(id)
		s.Toggle(id)
	}
	assert.Equal(t, before, s.Seats())
}

func TestSelectedSeatsFollowSeatListOrder(t *testing.T) {
	var s SeatSelection
	s.Initialize(sampleSeats())

	// select in reverse click order; list order must win
	s.Toggle(5)
	s.Toggle(1)
	s.Toggle(4)

	codes := s.SelectedCodes()
	assert.Equal(t, []string{"A1", "B1", "B2"}, codes)
	assert.Equal(t, []int64{1, 4, 5}, s.SelectedIDs())
}

func TestTotalPriceTracksSelectionCount(t *testing.T) {
	var s SeatSelection
	s.Initialize(sampleSeats())
	const price = 20.0

	assert.Equal(t, 0.0, s.TotalPrice(price))

	toggles := []int64{1, 2, 3, 4, 1, 5, 99, 2}
	for _, id := range toggles {
		s.Toggle(id)
		want := float64(len(s.SelectedSeats())) * price
		assert.Equal(t, want, s.TotalPrice(price))
	}
	// after the sequence: 1 and 2 toggled twice (off), 3 and 99 refused
	assert.Equal(t, 40.0, s.TotalPrice(price))
}

func TestGroupByRowIsStableAndOrdered(t *testing.T) {
	var s SeatSelection
	s.Initialize(sampleSeats())

	first := s.GroupByRow()
	require.Len(t, first, 2)
	assert.Equal(t, "A", first[0].Row)
	assert.Equal(t, "B", first[1].Row)
	assert.Len(t, first[0].Seats, 3)
	assert.Len(t, first[1].Seats, 2)
	assert.Equal(t, "A1", first[0].Seats[0].Code)
	assert.Equal(t, "A3", first[0].Seats[2].Code)

	// repeated calls on the same list return the same partition
	assert.Equal(t, first, s.GroupByRow())
}

func TestInitializeClearsSelection(t *testing.T) {
	var s SeatSelection
	s.Initialize(sampleSeats())
	s.Toggle(1)
	require.Len(t, s.SelectedSeats(), 1)

	s.Initialize(sampleSeats())
	assert.Empty(t, s.SelectedSeats())
}

func TestMarkPurchasedFlipsAvailabilityAndSelection(t *testing.T) {
	var s SeatSelection
	s.Initialize(sampleSeats())
	s.Toggle(1)
	s.Toggle(2)

	s.MarkPurchased([]int64{1, 2})

	assert.Empty(t, s.SelectedSeats())
	for _, seat := range s.Seats() {
		if seat.ID == 1 || seat.ID == 2 {
			assert.False(t, seat.Available, "seat %s should be taken", seat.Code)
		}
	}
	// a bought seat can no longer be selected
	assert.False(t, s.Toggle(1))
}
