package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinetix/checkout-service/internal/checkout"
	"github.com/cinetix/checkout-service/internal/inventory"
	"github.com/cinetix/checkout-service/internal/model"
	"github.com/cinetix/checkout-service/internal/payment"
	"github.com/cinetix/checkout-service/internal/queue"
	queue_publisher "github.com/cinetix/checkout-service/internal/service"
)

// CheckoutHandler is the booking-modal shell over the checkout core.
// Each open modal maps to one session: opening creates it, closing
// deletes it, and every user interaction in between is one
// synchronous operation under the session's lock.  The two blocking
// calls (the seat-map fetch and the payment submission) run outside
// the lock and report back into the machine, so a slow collaborator
// never freezes the session's other operations.
type CheckoutHandler struct {
	store     *checkout.Store
	inventory *inventory.Client
	payments  *payment.Client
	publish   func(context.Context, queue.PurchaseConfirmedEvent) error
}

// NewCheckoutHandler constructs a CheckoutHandler.  All dependencies
// must be non-nil; the event publisher defaults to the RabbitMQ one.
func NewCheckoutHandler(store *checkout.Store, inv *inventory.Client, pay *payment.Client) *CheckoutHandler {
	if store == nil || inv == nil || pay == nil {
		panic("nil dependency passed to NewCheckoutHandler")
	}
	return &CheckoutHandler{
		store:     store,
		inventory: inv,
		payments:  pay,
		publish:   queue_publisher.PublishPurchaseConfirmed,
	}
}

// OpenSession handles POST /v1/checkout/sessions.  The body carries
// the showtime to open the modal for.  The session is created first
// and the seat map fetched afterwards: a failed fetch still opens the
// session, with the provider error surfaced in place of the grid.
func (h *CheckoutHandler) OpenSession(c echo.Context) error {
	var body struct {
		FuncionID int64 `json:"funcion_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.FuncionID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "funcion_id is required"})
	}

	sess := h.store.Create()
	sess.With(func(m *checkout.Machine) {
		m.Open(model.ShowtimeContext{FuncionID: body.FuncionID})
	})

	h.loadSeats(c.Request().Context(), sess, body.FuncionID)

	var state echo.Map
	sess.With(func(m *checkout.Machine) { state = sessionState(sess, m) })
	return c.JSON(http.StatusCreated, state)
}

// loadSeats fetches the seat map outside the session lock and applies
// the result.  The machine discards the payload when the session has
// moved to another showtime in the meantime, and ignores a duplicate
// payload for an already-loaded showtime so in-flight selections are
// never clobbered.
func (h *CheckoutHandler) loadSeats(ctx context.Context, sess *checkout.Session, funcionID int64) {
	data, err := h.inventory.FetchSeats(ctx, funcionID)
	sess.With(func(m *checkout.Machine) {
		if err != nil {
			m.SetAvailabilityError(funcionID, err.Error())
			return
		}
		m.ApplyAvailability(funcionID, data)
	})
}

// GetSession handles GET /v1/checkout/sessions/:id.  It returns the
// full session state: step, showtime, seat grid grouped by row,
// selection, totals, validation errors and pending notices.
func (h *CheckoutHandler) GetSession(c echo.Context) error {
	sess, ok := h.store.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	var state echo.Map
	sess.With(func(m *checkout.Machine) { state = sessionState(sess, m) })
	return c.JSON(http.StatusOK, state)
}

// RefreshSeats handles POST /v1/checkout/sessions/:id/refresh.  It
// retries the seat-map fetch after a provider error.  With the map
// already loaded the re-fetched payload is ignored by the machine's
// duplicate guard, so a refresh can never clobber selections made in
// the meantime.
func (h *CheckoutHandler) RefreshSeats(c echo.Context) error {
	sess, ok := h.store.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	var funcionID int64
	sess.With(func(m *checkout.Machine) {
		funcionID = m.Showtime().FuncionID
	})
	h.loadSeats(c.Request().Context(), sess, funcionID)

	var state echo.Map
	sess.With(func(m *checkout.Machine) { state = sessionState(sess, m) })
	return c.JSON(http.StatusOK, state)
}

// ToggleSeat handles POST /v1/checkout/sessions/:id/seats/toggle.
// Toggling an unavailable or unknown seat is a quiet no-op, exactly
// like clicking a greyed-out seat.
func (h *CheckoutHandler) ToggleSeat(c echo.Context) error {
	sess, ok := h.store.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	var body struct {
		SeatID int64 `json:"seat_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	var state echo.Map
	sess.With(func(m *checkout.Machine) {
		m.ToggleSeat(body.SeatID)
		state = sessionState(sess, m)
	})
	return c.JSON(http.StatusOK, state)
}

// Next handles POST /v1/checkout/sessions/:id/next, advancing from
// seat picking to payment entry.  The zero-seats guard rejects with a
// notice and no state change.
func (h *CheckoutHandler) Next(c echo.Context) error {
	return h.transition(c, func(m *checkout.Machine) error { return m.Next() })
}

// Back handles POST /v1/checkout/sessions/:id/back, returning to seat
// picking with selection and entered fields intact.
func (h *CheckoutHandler) Back(c echo.Context) error {
	return h.transition(c, func(m *checkout.Machine) error { return m.Back() })
}

// transition runs a step transition and maps a guard rejection to a
// 409 carrying the rejection message.
func (h *CheckoutHandler) transition(c echo.Context, op func(*checkout.Machine) error) error {
	sess, ok := h.store.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	var (
		opErr error
		state echo.Map
	)
	sess.With(func(m *checkout.Machine) {
		opErr = op(m)
		state = sessionState(sess, m)
	})
	if opErr != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": guardMessage(opErr), "state": state})
	}
	return c.JSON(http.StatusOK, state)
}

// EditCustomer handles PUT /v1/checkout/sessions/:id/customer.  One
// field per call, mirroring a keystroke: the value is normalized on
// the way in and the field's validation error cleared.
func (h *CheckoutHandler) EditCustomer(c echo.Context) error {
	sess, ok := h.store.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	var body struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Field == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "field is required"})
	}
	var state echo.Map
	sess.With(func(m *checkout.Machine) {
		m.EditField(body.Field, body.Value)
		state = sessionState(sess, m)
	})
	return c.JSON(http.StatusOK, state)
}

// Submit handles POST /v1/checkout/sessions/:id/submit.  The machine
// validates and moves to submitting under the lock, the payment call
// runs outside it, and the outcome is applied back under the lock.
// A second submit while one is in flight is rejected; a failed one
// returns the user to payment entry with everything they typed
// intact.
func (h *CheckoutHandler) Submit(c echo.Context) error {
	sess, ok := h.store.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}

	var (
		req    *payment.Request
		beginE error
		errs   model.ValidationErrors
	)
	sess.With(func(m *checkout.Machine) {
		req, beginE = m.BeginSubmit()
		if errors.Is(beginE, checkout.ErrValidationFailed) {
			errs = m.Errors()
		}
	})
	if beginE != nil {
		if errors.Is(beginE, checkout.ErrValidationFailed) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error":  "datos no válidos",
				"errors": errs,
			})
		}
		return c.JSON(http.StatusConflict, echo.Map{"error": guardMessage(beginE)})
	}

	result, payErr := h.payments.ProcessPayment(c.Request().Context(), req)

	if payErr != nil {
		var state echo.Map
		sess.With(func(m *checkout.Machine) {
			_ = m.FailSubmit(payErr.Error())
			state = sessionState(sess, m)
		})
		return c.JSON(http.StatusBadGateway, echo.Map{"error": payErr.Error(), "state": state})
	}

	var (
		conf    *checkout.Confirmation
		confErr error
	)
	sess.With(func(m *checkout.Machine) {
		conf, confErr = m.CompleteSubmit(result)
	})
	if confErr != nil {
		// The session was closed out from under the in-flight
		// submission; the purchase itself went through.
		return c.JSON(http.StatusConflict, echo.Map{"error": guardMessage(confErr)})
	}

	if err := h.publish(c.Request().Context(), queue.PurchaseConfirmedEvent{
		FuncionID:   req.FuncionID,
		SeatCodes:   conf.SeatCodes,
		Total:       conf.Total,
		Method:      req.Method,
		Reference:   conf.Reference,
		BuyerEmail:  req.Buyer.Email,
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("purchase.confirmed publish skipped: %v", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"reference":  conf.Reference,
		"seat_codes": conf.SeatCodes,
		"total":      conf.Total,
		"message":    conf.Message,
	})
}

// CloseSession handles DELETE /v1/checkout/sessions/:id.  Deleting a
// session is the modal's onClose: it can only succeed once, a second
// delete finds nothing.
func (h *CheckoutHandler) CloseSession(c echo.Context) error {
	if !h.store.Delete(c.Param("id")) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

// sessionState snapshots a session for the client.  Must run under
// the session lock.
func sessionState(sess *checkout.Session, m *checkout.Machine) echo.Map {
	st := m.Showtime()
	status, availErr := m.Availability()
	avail := echo.Map{"status": status}
	if availErr != "" {
		avail["error"] = availErr
	}
	info := m.Customer()
	return echo.Map{
		"session_id": sess.ID,
		"step":       m.Step(),
		"showtime": echo.Map{
			"funcion_id":     st.FuncionID,
			"room":           st.Room,
			"room_type":      st.RoomType,
			"capacity":       st.Capacity,
			"price_per_seat": st.PricePerSeat,
		},
		"availability": avail,
		"rows":         m.Rows(),
		"selected":     m.SelectedCodes(),
		"total":        m.Total(),
		"customer": echo.Map{
			"name":           info.Name,
			"email":          info.Email,
			"phone":          info.Phone,
			"payment_method": info.Method,
			"card_number":    info.CardNumber,
			"expiry_date":    info.ExpiryDate,
			"cvv":            info.CVV,
		},
		"errors":       m.Errors(),
		"submit_error": m.SubmitError(),
		"notices":      sess.DrainNotices(),
	}
}

// guardMessage turns a guard rejection into its user-facing notice.
func guardMessage(err error) string {
	switch {
	case errors.Is(err, checkout.ErrNoSeatsSelected):
		return "por favor selecciona al menos un asiento"
	case errors.Is(err, checkout.ErrSubmitInFlight):
		return "el pago ya se está procesando"
	default:
		return "la operación no está permitida en este paso"
	}
}
