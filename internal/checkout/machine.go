package checkout

import (
	"errors"
	"strings"
	"time"

	"github.com/cinetix/checkout-service/internal/inventory"
	"github.com/cinetix/checkout-service/internal/model"
	"github.com/cinetix/checkout-service/internal/payment"
)

// Sentinel errors returned by machine operations.  They are guard
// rejections, not failures: the machine refuses the transition and
// stays where it was.
var (
	ErrInvalidStep      = errors.New("operation not allowed in current step")
	ErrNoSeatsSelected  = errors.New("no seats selected")
	ErrSubmitInFlight   = errors.New("submission already in progress")
	ErrValidationFailed = errors.New("validation failed")
)

// AvailabilityStatus describes the seat-map fetch of the current
// showtime as observed by the session.
type AvailabilityStatus string

const (
	AvailLoading AvailabilityStatus = "LOADING" // no payload applied yet
	AvailError   AvailabilityStatus = "ERROR"   // last fetch failed
	AvailReady   AvailabilityStatus = "READY"   // seat map applied
)

// Confirmation is what the host page receives after a successful
// purchase: the transaction reference, the bought seat codes, the
// amount paid and the processor's message.
type Confirmation struct {
	Reference string   `json:"reference"`
	SeatCodes []string `json:"seat_codes"`
	Total     float64  `json:"total"`
	Message   string   `json:"message"`
}

// Machine drives one checkout session through the reservation and
// payment steps.  It owns the showtime context, the seat selection
// and the customer form, and it is the only writer of the session's
// step.  Methods are synchronous and must be externally serialized;
// the two blocking operations (seat fetch, payment request) happen
// outside the machine and report back through ApplyAvailability /
// SetAvailabilityError and CompleteSubmit / FailSubmit.
type Machine struct {
	showtime    model.ShowtimeContext
	selection   SeatSelection
	form        *CustomerForm
	step        model.Step
	opened      bool
	seatsLoaded bool
	availErr    string
	submitErr   string
	notify      Notifier
}

// NewMachine builds a closed machine.  The notifier receives guard
// notices and input warnings; the clock feeds expiry validation.
func NewMachine(notify Notifier, now func() time.Time) *Machine {
	if notify == nil {
		notify = nopNotifier{}
	}
	return &Machine{
		form:   NewCustomerForm(notify, now),
		step:   model.StepClosed,
		notify: notify,
	}
}

// Open starts a session for the given showtime.  Opening for a
// different showtime than the current one discards every trace of the
// previous session: selection, form fields, errors and step all reset.
// Reopening for the same showtime keeps the seat list, so seats bought
// in the previous session still show as taken without a fresh fetch.
func (m *Machine) Open(showtime model.ShowtimeContext) {
	if m.showtime.FuncionID != showtime.FuncionID {
		m.selection.Reset()
		m.seatsLoaded = false
	}
	m.selection.ClearSelection()
	m.form.Reset()
	m.showtime = showtime
	m.step = model.StepSeatPicking
	m.opened = true
	m.availErr = ""
	m.submitErr = ""
}

// ApplyAvailability installs a fetched seat map.  A payload for a
// showtime other than the session's current one is stale and gets
// discarded.  A duplicate payload for the already-loaded showtime is
// ignored too, so a re-render's refetch cannot clobber selections made
// while it was in flight.  Returns whether the payload was applied.
func (m *Machine) ApplyAvailability(funcionID int64, data *inventory.SeatMap) bool {
	if !m.opened || funcionID != m.showtime.FuncionID {
		return false
	}
	if m.seatsLoaded {
		return false
	}
	seats := make([]model.Seat, 0, len(data.Seats))
	for _, dto := range data.Seats {
		seats = append(seats, model.Seat{
			ID:        dto.ID,
			Row:       dto.Row,
			Number:    dto.Number,
			RoomID:    dto.RoomID,
			Code:      dto.Code,
			Available: dto.Available,
		})
	}
	m.selection.Initialize(seats)
	m.showtime.Room = data.Room
	m.showtime.RoomType = data.RoomType
	m.showtime.Capacity = data.Capacity
	m.showtime.PricePerSeat = data.Price
	m.seatsLoaded = true
	m.availErr = ""
	return true
}

// SetAvailabilityError records a failed fetch for the given showtime.
// Stale errors (other showtime) are discarded, and an error never
// replaces an already-loaded seat map.
func (m *Machine) SetAvailabilityError(funcionID int64, message string) {
	if !m.opened || funcionID != m.showtime.FuncionID || m.seatsLoaded {
		return
	}
	m.availErr = message
}

// Availability reports the provider state of the current showtime.
func (m *Machine) Availability() (AvailabilityStatus, string) {
	switch {
	case m.seatsLoaded:
		return AvailReady, ""
	case m.availErr != "":
		return AvailError, m.availErr
	default:
		return AvailLoading, ""
	}
}

// ToggleSeat flips the selection of a seat while picking seats.  It
// refuses silently outside the seat-picking step and for seats that
// are unavailable or unknown.
func (m *Machine) ToggleSeat(seatID int64) bool {
	if m.step != model.StepSeatPicking {
		return false
	}
	return m.selection.Toggle(seatID)
}

// EditField stores one customer field during payment entry, applying
// input normalization and clearing that field's validation error.
func (m *Machine) EditField(field, value string) bool {
	if m.step != model.StepPaymentEntry {
		return false
	}
	m.form.SetField(field, value)
	return true
}

// Next advances from seat picking to payment entry.  With no seat
// selected the transition is refused and the user is notified.
func (m *Machine) Next() error {
	if m.step != model.StepSeatPicking {
		return ErrInvalidStep
	}
	if len(m.selection.SelectedSeats()) == 0 {
		m.notify.Notify("por favor selecciona al menos un asiento")
		return ErrNoSeatsSelected
	}
	m.setStep(model.StepPaymentEntry)
	return nil
}

// Back returns from payment entry to seat picking.  Validation errors
// are cleared; the seat selection and the entered fields survive.
func (m *Machine) Back() error {
	if m.step != model.StepPaymentEntry {
		return ErrInvalidStep
	}
	m.form.ClearErrors()
	m.setStep(model.StepSeatPicking)
	return nil
}

// BeginSubmit validates the form and, when clean, moves to the
// submitting step and builds the payment request.  A session already
// submitting rejects the attempt, so at most one request is in flight.
// The card block is attached only when paying by card, with the
// grouping spaces stripped from the number.
func (m *Machine) BeginSubmit() (*payment.Request, error) {
	if m.step == model.StepSubmitting {
		return nil, ErrSubmitInFlight
	}
	if m.step != model.StepPaymentEntry {
		return nil, ErrInvalidStep
	}
	if errs := m.form.Validate(); len(errs) > 0 {
		return nil, ErrValidationFailed
	}
	info := m.form.Info()
	req := &payment.Request{
		FuncionID: m.showtime.FuncionID,
		SeatIDs:   m.selection.SelectedIDs(),
		Total:     m.selection.TotalPrice(m.showtime.PricePerSeat),
		Method:    string(info.Method),
		Buyer: payment.BuyerInfo{
			Name:  info.Name,
			Email: info.Email,
			Phone: info.Phone,
		},
	}
	if info.Method == model.MethodCard {
		req.Card = &payment.CardInfo{
			Number: strings.ReplaceAll(info.CardNumber, " ", ""),
			Expiry: info.ExpiryDate,
			CVV:    info.CVV,
		}
	}
	m.submitErr = ""
	m.setStep(model.StepSubmitting)
	return req, nil
}

// CompleteSubmit finishes a successful purchase.  The bought seats
// are flipped to unavailable, the form and selection reset and the
// session closes.  The returned confirmation carries everything the
// host page surfaces to the user.
func (m *Machine) CompleteSubmit(result *payment.Confirmation) (*Confirmation, error) {
	if m.step != model.StepSubmitting {
		return nil, ErrInvalidStep
	}
	codes := m.selection.SelectedCodes()
	ids := m.selection.SelectedIDs()
	total := m.selection.TotalPrice(m.showtime.PricePerSeat)
	m.selection.MarkPurchased(ids)
	m.form.Reset()
	m.setStep(model.StepClosed)
	m.opened = false
	return &Confirmation{
		Reference: result.Reference,
		SeatCodes: codes,
		Total:     total,
		Message:   result.Message,
	}, nil
}

// FailSubmit returns a failed submission to payment entry.  The
// entered customer data and the seat list stay exactly as they were;
// the error message is surfaced and kept for the session state.
func (m *Machine) FailSubmit(message string) error {
	if m.step != model.StepSubmitting {
		return ErrInvalidStep
	}
	m.submitErr = message
	m.notify.Notify(message)
	m.setStep(model.StepPaymentEntry)
	return nil
}

// Close dismisses the session, wiping selection, form and seat list.
func (m *Machine) Close() {
	m.selection.Reset()
	m.form.Reset()
	m.showtime = model.ShowtimeContext{}
	m.step = model.StepClosed
	m.opened = false
	m.seatsLoaded = false
	m.availErr = ""
	m.submitErr = ""
}

// setStep applies a transition the caller's guards already cleared.
// The transition table is the last line of defense: a step pair it
// does not allow is never applied.
func (m *Machine) setStep(to model.Step) {
	if m.step.CanTransition(to) {
		m.step = to
	}
}

// Step returns the current step.
func (m *Machine) Step() model.Step { return m.step }

// Showtime returns the session's showtime context.
func (m *Machine) Showtime() model.ShowtimeContext { return m.showtime }

// Seats exposes the working seat list.
func (m *Machine) Seats() []model.Seat { return m.selection.Seats() }

// Rows exposes the seat grid grouped by row for layout.
func (m *Machine) Rows() []RowGroup { return m.selection.GroupByRow() }

// SelectedCodes exposes the selected seat codes in seat-list order.
func (m *Machine) SelectedCodes() []string { return m.selection.SelectedCodes() }

// Total exposes the amount due for the current selection.
func (m *Machine) Total() float64 { return m.selection.TotalPrice(m.showtime.PricePerSeat) }

// Customer exposes the normalized form values.
func (m *Machine) Customer() model.CustomerInfo { return m.form.Info() }

// Errors exposes the current validation errors.
func (m *Machine) Errors() model.ValidationErrors { return m.form.Errors() }

// SubmitError exposes the message of the last failed submission, if
// any, until the next submit attempt.
func (m *Machine) SubmitError() string { return m.submitErr }
