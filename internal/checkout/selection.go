package checkout

import "github.com/cinetix/checkout-service/internal/model"

// SeatSelection owns the working seat list of one checkout session
// and enforces the selection rules: an unavailable or unknown seat
// can never become selected, whatever was tried before.
type SeatSelection struct {
	seats []model.Seat
}

// RowGroup is one row of the seat grid in layout order.
type RowGroup struct {
	Row   string       `json:"row"`
	Seats []model.Seat `json:"seats"`
}

// Initialize replaces the working seat list with a copy of the given
// seats and clears every selection flag.  It is called once per fresh
// inventory payload.
func (s *SeatSelection) Initialize(seats []model.Seat) {
	s.seats = make([]model.Seat, len(seats))
	copy(s.seats, seats)
	for i := range s.seats {
		s.seats[i].Selected = false
	}
}

// Toggle flips the selection flag of the seat with the given ID.  For
// an unavailable or unknown seat it does nothing and reports false.
func (s *SeatSelection) Toggle(seatID int64) bool {
	for i := range s.seats {
		if s.seats[i].ID != seatID {
			continue
		}
		if !s.seats[i].Available {
			return false
		}
		s.seats[i].Selected = !s.seats[i].Selected
		return true
	}
	return false
}

// Seats returns a copy of the working seat list in its original order.
func (s *SeatSelection) Seats() []model.Seat {
	out := make([]model.Seat, len(s.seats))
	copy(out, s.seats)
	return out
}

// SelectedSeats returns the selected seats in seat-list order, not in
// the order they were clicked.
func (s *SeatSelection) SelectedSeats() []model.Seat {
	out := make([]model.Seat, 0)
	for _, seat := range s.seats {
		if seat.Selected {
			out = append(out, seat)
		}
	}
	return out
}

// SelectedIDs returns the IDs of the selected seats in seat-list order.
func (s *SeatSelection) SelectedIDs() []int64 {
	out := make([]int64, 0)
	for _, seat := range s.seats {
		if seat.Selected {
			out = append(out, seat.ID)
		}
	}
	return out
}

// SelectedCodes returns the codes (e.g. "A1") of the selected seats in
// seat-list order.
func (s *SeatSelection) SelectedCodes() []string {
	out := make([]string, 0)
	for _, seat := range s.seats {
		if seat.Selected {
			out = append(out, seat.Code)
		}
	}
	return out
}

// TotalPrice computes the amount due for the current selection.  It is
// zero when nothing is selected and never negative.
func (s *SeatSelection) TotalPrice(pricePerSeat float64) float64 {
	return float64(len(s.SelectedSeats())) * pricePerSeat
}

// GroupByRow partitions the seat list into rows for grid layout.  Rows
// appear in first-seen order and seats keep their per-row order, so
// the result is stable across repeated calls on the same list.
func (s *SeatSelection) GroupByRow() []RowGroup {
	groups := make([]RowGroup, 0)
	index := make(map[string]int)
	for _, seat := range s.seats {
		i, ok := index[seat.Row]
		if !ok {
			i = len(groups)
			index[seat.Row] = i
			groups = append(groups, RowGroup{Row: seat.Row})
		}
		groups[i].Seats = append(groups[i].Seats, seat)
	}
	return groups
}

// MarkPurchased flips the given seats to unavailable and deselected.
// It runs after a successful payment so that reopening the same
// showtime without a fresh fetch shows them as taken.
func (s *SeatSelection) MarkPurchased(seatIDs []int64) {
	bought := make(map[int64]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		bought[id] = struct{}{}
	}
	for i := range s.seats {
		if _, ok := bought[s.seats[i].ID]; ok {
			s.seats[i].Available = false
			s.seats[i].Selected = false
		}
	}
}

// ClearSelection drops every selection flag but keeps the seat list.
func (s *SeatSelection) ClearSelection() {
	for i := range s.seats {
		s.seats[i].Selected = false
	}
}

// Reset drops the seat list entirely.
func (s *SeatSelection) Reset() {
	s.seats = nil
}
