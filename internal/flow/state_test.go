package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveExhaustive(t *testing.T) {
	cases := []struct {
		hasPaidPlan  bool
		hasInterview bool
		want         State
	}{
		{false, false, StateNoPlan},
		{false, true, StateNoPlan}, // plan check dominates: a sent interview without a plan is still NO_PLAN
		{true, false, StatePlanNoInterview},
		{true, true, StateReady},
	}
	for _, tc := range cases {
		got := Derive(tc.hasPaidPlan, tc.hasInterview)
		assert.Equal(t, tc.want, got, "Derive(%v, %v)", tc.hasPaidPlan, tc.hasInterview)
	}
}
