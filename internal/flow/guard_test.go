package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRedirectTarget(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		state  State
		target string
		ok     bool
	}{
		// NO_PLAN: dashboard root and payment routes allowed, everything
		// else in the dashboard/interview families bounces to /dashboard.
		{"no plan: dashboard root stays", "/dashboard", StateNoPlan, "", false},
		{"no plan: dashboard subpage redirects", "/dashboard/results", StateNoPlan, "/dashboard", true},
		{"no plan: interview redirects", "/interview", StateNoPlan, "/dashboard", true},
		{"no plan: nested interview redirects", "/dashboard/interview", StateNoPlan, "/dashboard", true},
		{"no plan: payment stays", "/payment/checkout", StateNoPlan, "", false},
		{"no plan: payment root stays", "/payment", StateNoPlan, "", false},

		// PLAN_NO_INTERVIEW: only interview routes allowed.
		{"plan no interview: dashboard redirects", "/dashboard", StatePlanNoInterview, "/interview", true},
		{"plan no interview: payment redirects", "/payment", StatePlanNoInterview, "/interview", true},
		{"plan no interview: interview stays", "/interview", StatePlanNoInterview, "", false},
		{"plan no interview: interview step stays", "/interview/step-2", StatePlanNoInterview, "", false},
		{"plan no interview: nested interview stays", "/dashboard/interview", StatePlanNoInterview, "", false},

		// READY: everything allowed except payment routes.
		{"ready: payment redirects", "/payment", StateReady, "/dashboard", true},
		{"ready: payment subpage redirects", "/payment/success", StateReady, "/dashboard", true},
		{"ready: dashboard stays", "/dashboard", StateReady, "", false},
		{"ready: interview stays", "/interview", StateReady, "", false},

		// Routes outside the three families are never touched.
		{"unknown route stays", "/settings", StateNoPlan, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target, ok := ResolveRedirectTarget(tc.path, tc.state)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.target, target)
		})
	}
}

func TestResolveRedirectTargetIgnoresQueryString(t *testing.T) {
	// "/dashboard?x=1" must classify exactly like "/dashboard".
	target, ok := ResolveRedirectTarget("/dashboard?x=1", StateNoPlan)
	assert.False(t, ok)
	assert.Empty(t, target)

	target, ok = ResolveRedirectTarget("/interview?step=3", StateNoPlan)
	assert.True(t, ok)
	assert.Equal(t, "/dashboard", target)

	target, ok = ResolveRedirectTarget("/payment?plan=basic", StateReady)
	assert.True(t, ok)
	assert.Equal(t, "/dashboard", target)
}
