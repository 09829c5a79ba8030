package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinetix/checkout-service/internal/inventory"
	"github.com/cinetix/checkout-service/internal/model"
	"github.com/cinetix/checkout-service/internal/payment"
)

func seatMap() *inventory.SeatMap {
	return &inventory.SeatMap{
		Room:     "Sala 1",
		RoomType: "2D",
		Capacity: 5,
		Price:    20,
		Seats: []inventory.SeatDTO{
			{ID: 1, Row: "A", Number: 1, RoomID: 7, Available: true, Code: "A1"},
			{ID: 2, Row: "A", Number: 2, RoomID: 7, Available: true, Code: "A2"},
			{ID: 3, Row: "A", Number: 3, RoomID: 7, Available: true, Code: "A3"},
			{ID: 4, Row: "B", Number: 1, RoomID: 7, Available: true, Code: "B1"},
			{ID: 5, Row: "B", Number: 2, RoomID: 7, Available: true, Code: "B2"},
		},
	}
}

func newTestMachine() (*Machine, *[]string) {
	notices := &[]string{}
	m := NewMachine(NotifierFunc(func(msg string) {
		*notices = append(*notices, msg)
	}), fixedClock)
	return m, notices
}

// openReady opens a session for funcion 42 and applies the sample
// seat map.
func openReady(t *testing.T, m *Machine) {
	t.Helper()
	m.Open(model.ShowtimeContext{FuncionID: 42})
	require.True(t, m.ApplyAvailability(42, seatMap()))
	status, _ := m.Availability()
	require.Equal(t, AvailReady, status)
}

func fillCashForm(m *Machine) {
	m.EditField(FieldMethod, "Cash")
	m.EditField(FieldName, "Juan Pérez")
	m.EditField(FieldEmail, "juan@example.com")
	m.EditField(FieldPhone, "987654321")
}

func TestOpenStartsAtSeatPicking(t *testing.T) {
	m, _ := newTestMachine()
	m.Open(model.ShowtimeContext{FuncionID: 42})

	assert.Equal(t, model.StepSeatPicking, m.Step())
	status, _ := m.Availability()
	assert.Equal(t, AvailLoading, status)
}

func TestApplyAvailabilityDiscardsStalePayload(t *testing.T) {
	m, _ := newTestMachine()
	m.Open(model.ShowtimeContext{FuncionID: 42})

	// a fetch issued for a previous showtime resolves late
	assert.False(t, m.ApplyAvailability(41, seatMap()))
	status, _ := m.Availability()
	assert.Equal(t, AvailLoading, status)
	assert.Empty(t, m.Seats())
}

func TestDuplicateApplyKeepsSelections(t *testing.T) {
	m, _ := newTestMachine()
	openReady(t, m)
	require.True(t, m.ToggleSeat(1))

	// a re-render reissues the fetch for the same showtime
	assert.False(t, m.ApplyAvailability(42, seatMap()))
	assert.Equal(t, []string{"A1"}, m.SelectedCodes())
}

func TestAvailabilityErrorSurfacesAndRetries(t *testing.T) {
	m, _ := newTestMachine()
	m.Open(model.ShowtimeContext{FuncionID: 42})

	m.SetAvailabilityError(42, "error al cargar los asientos")
	status, msg := m.Availability()
	assert.Equal(t, AvailError, status)
	assert.Equal(t, "error al cargar los asientos", msg)

	// user-initiated retry succeeds
	assert.True(t, m.ApplyAvailability(42, seatMap()))
	status, _ = m.Availability()
	assert.Equal(t, AvailReady, status)

	// a late error for a loaded map is ignored
	m.SetAvailabilityError(42, "boom")
	status, _ = m.Availability()
	assert.Equal(t, AvailReady, status)
}

func TestNextRefusedWithoutSeats(t *testing.T) {
	m, notices := newTestMachine()
	openReady(t, m)

	err := m.Next()
	assert.ErrorIs(t, err, ErrNoSeatsSelected)
	assert.Equal(t, model.StepSeatPicking, m.Step())
	require.Len(t, *notices, 1)
	assert.Contains(t, (*notices)[0], "selecciona al menos un asiento")
}

func TestBackKeepsSelectionAndFieldsClearsErrors(t *testing.T) {
	m, _ := newTestMachine()
	openReady(t, m)
	m.ToggleSeat(1)
	require.NoError(t, m.Next())

	m.EditField(FieldName, "Juan Pérez")
	_, err := m.BeginSubmit()
	require.ErrorIs(t, err, ErrValidationFailed)
	require.NotEmpty(t, m.Errors())

	require.NoError(t, m.Back())
	assert.Equal(t, model.StepSeatPicking, m.Step())
	assert.Empty(t, m.Errors())
	assert.Equal(t, []string{"A1"}, m.SelectedCodes())
	assert.Equal(t, "Juan Pérez", m.Customer().Name)
}

func TestSuccessfulPurchaseEndToEnd(t *testing.T) {
	m, _ := newTestMachine()
	openReady(t, m)

	require.True(t, m.ToggleSeat(1))
	require.True(t, m.ToggleSeat(2))
	require.NoError(t, m.Next())
	require.Equal(t, model.StepPaymentEntry, m.Step())

	fillCashForm(m)
	req, err := m.BeginSubmit()
	require.NoError(t, err)
	require.Equal(t, model.StepSubmitting, m.Step())

	assert.Equal(t, int64(42), req.FuncionID)
	assert.Equal(t, []int64{1, 2}, req.SeatIDs)
	assert.Equal(t, 40.0, req.Total)
	assert.Equal(t, "Cash", req.Method)
	assert.Nil(t, req.Card, "cash purchases carry no card block")

	conf, err := m.CompleteSubmit(&payment.Confirmation{Reference: "TX123", Message: "pago exitoso"})
	require.NoError(t, err)

	assert.Equal(t, model.StepClosed, m.Step())
	assert.Equal(t, "TX123", conf.Reference)
	assert.Equal(t, []string{"A1", "A2"}, conf.SeatCodes)
	assert.Equal(t, 40.0, conf.Total)

	for _, seat := range m.Seats() {
		if seat.ID == 1 || seat.ID == 2 {
			assert.False(t, seat.Available)
			assert.False(t, seat.Selected)
		}
	}
}

func TestFailedSubmissionReturnsToPaymentEntry(t *testing.T) {
	m, notices := newTestMachine()
	openReady(t, m)
	m.ToggleSeat(1)
	m.ToggleSeat(2)
	require.NoError(t, m.Next())
	fillCashForm(m)

	_, err := m.BeginSubmit()
	require.NoError(t, err)

	require.NoError(t, m.FailSubmit("fondos insuficientes"))

	assert.Equal(t, model.StepPaymentEntry, m.Step())
	assert.Equal(t, "fondos insuficientes", m.SubmitError())
	assert.Contains(t, *notices, "fondos insuficientes")

	// entered data and seat availability are untouched
	assert.Equal(t, "Juan Pérez", m.Customer().Name)
	assert.Equal(t, []string{"A1", "A2"}, m.SelectedCodes())
	for _, seat := range m.Seats() {
		assert.True(t, seat.Available)
	}

	// retry is a plain user-initiated resubmission
	_, err = m.BeginSubmit()
	assert.NoError(t, err)
}

func TestDoubleSubmitRejected(t *testing.T) {
	m, _ := newTestMachine()
	openReady(t, m)
	m.ToggleSeat(1)
	require.NoError(t, m.Next())
	fillCashForm(m)

	_, err := m.BeginSubmit()
	require.NoError(t, err)

	_, err = m.BeginSubmit()
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	assert.Equal(t, model.StepSubmitting, m.Step())
}

func TestCardPayloadStripsGroupingSpaces(t *testing.T) {
	m, _ := newTestMachine()
	openReady(t, m)
	m.ToggleSeat(1)
	require.NoError(t, m.Next())

	fillCashForm(m)
	m.EditField(FieldMethod, "Card")
	m.EditField(FieldCard, "1234 5678 9012 3456")
	m.EditField(FieldExpiry, "12/30")
	m.EditField(FieldCVV, "123")

	req, err := m.BeginSubmit()
	require.NoError(t, err)
	require.NotNil(t, req.Card)
	assert.Equal(t, "1234567890123456", req.Card.Number)
	assert.Equal(t, "12/30", req.Card.Expiry)
	assert.Equal(t, "123", req.Card.CVV)
}

func TestReopenForDifferentShowtimeResetsEverything(t *testing.T) {
	m, _ := newTestMachine()
	openReady(t, m)
	m.ToggleSeat(1)
	require.NoError(t, m.Next())
	fillCashForm(m)

	m.Open(model.ShowtimeContext{FuncionID: 43})

	assert.Equal(t, model.StepSeatPicking, m.Step())
	assert.Empty(t, m.Seats())
	assert.Empty(t, m.SelectedCodes())
	assert.Equal(t, model.CustomerInfo{}, m.Customer())
	status, _ := m.Availability()
	assert.Equal(t, AvailLoading, status)

	// the old showtime's seat map is now stale
	assert.False(t, m.ApplyAvailability(42, seatMap()))
	assert.True(t, m.ApplyAvailability(43, seatMap()))
}

func TestReopenSameShowtimeKeepsPurchasedSeatsTaken(t *testing.T) {
	m, _ := newTestMachine()
	openReady(t, m)
	m.ToggleSeat(1)
	require.NoError(t, m.Next())
	fillCashForm(m)
	_, err := m.BeginSubmit()
	require.NoError(t, err)
	_, err = m.CompleteSubmit(&payment.Confirmation{Reference: "TX9"})
	require.NoError(t, err)

	// reopen the same showtime without a fresh fetch
	m.Open(model.ShowtimeContext{FuncionID: 42})

	require.NotEmpty(t, m.Seats())
	for _, seat := range m.Seats() {
		if seat.ID == 1 {
			assert.False(t, seat.Available)
		}
	}
}

func TestToggleIgnoredOutsideSeatPicking(t *testing.T) {
	m, _ := newTestMachine()
	openReady(t, m)
	m.ToggleSeat(1)
	require.NoError(t, m.Next())

	assert.False(t, m.ToggleSeat(2))
	assert.Equal(t, []string{"A1"}, m.SelectedCodes())
}

func TestCloseWipesSession(t *testing.T) {
	m, _ := newTestMachine()
	openReady(t, m)
	m.ToggleSeat(1)

	m.Close()

	assert.Equal(t, model.StepClosed, m.Step())
	assert.Empty(t, m.Seats())
	assert.Equal(t, model.CustomerInfo{}, m.Customer())

	// a closed session discards late payloads entirely
	assert.False(t, m.ApplyAvailability(42, seatMap()))
}
