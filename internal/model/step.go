package model

// Step is the state of a checkout session.  The set is closed and the
// transitions are fixed, so an out-of-range step cannot be
// represented, unlike a raw step counter.
type Step string

const (
	StepSeatPicking  Step = "SEAT_PICKING"  // choosing seats on the grid
	StepPaymentEntry Step = "PAYMENT_ENTRY" // entering buyer and payment fields
	StepSubmitting   Step = "SUBMITTING"    // payment request in flight
	StepClosed       Step = "CLOSED"        // session finished
)

// allowedTransitions lists, for each step, the steps a session may
// move to.  StepClosed is terminal; a closed session is reopened only
// through a full reset back to StepSeatPicking.
var allowedTransitions = map[Step][]Step{
	StepSeatPicking:  {StepPaymentEntry},
	StepPaymentEntry: {StepSeatPicking, StepSubmitting},
	StepSubmitting:   {StepPaymentEntry, StepClosed},
	StepClosed:       {},
}

// CanTransition reports whether moving from s to the target step is
// allowed by the transition table.
func (s Step) CanTransition(to Step) bool {
	for _, next := range allowedTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// String returns the step name, mainly for logging.
func (s Step) String() string { return string(s) }
