package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepTransitions(t *testing.T) {
	tests := []struct {
		from    Step
		to      Step
		allowed bool
	}{
		{StepSeatPicking, StepPaymentEntry, true},
		{StepSeatPicking, StepSubmitting, false},
		{StepSeatPicking, StepClosed, false},
		{StepPaymentEntry, StepSeatPicking, true},
		{StepPaymentEntry, StepSubmitting, true},
		{StepPaymentEntry, StepClosed, false},
		{StepSubmitting, StepPaymentEntry, true},
		{StepSubmitting, StepClosed, true},
		{StepSubmitting, StepSeatPicking, false},
		{StepClosed, StepSeatPicking, false},
		{StepClosed, StepSubmitting, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransition(tc.to))
		})
	}
}

func TestPaymentMethodValid(t *testing.T) {
	for _, m := range []PaymentMethod{MethodCard, MethodYape, MethodPlin, MethodCash} {
		assert.True(t, m.Valid(), string(m))
	}
	assert.False(t, PaymentMethod("").Valid())
	assert.False(t, PaymentMethod("Bitcoin").Valid())
}
