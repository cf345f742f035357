// Package flow decides which onboarding step a signed-in user belongs on.
// The deriver and the route guard are pure; everything stateful lives in
// service.FlowService.
package flow

// State is the derived onboarding stage. It is never persisted; it is
// recomputed from subscription and interview records on every evaluation.
type State string

const (
	// StateNoPlan: the account has no active paid plan yet.
	StateNoPlan State = "NO_PLAN"
	// StatePlanNoInterview: paid, but the nutrition interview was not sent.
	StatePlanNoInterview State = "PLAN_NO_INTERVIEW"
	// StateReady: paid and interview sent; full dashboard access.
	StateReady State = "READY"
)

// Derive maps the two onboarding facts to a State. The plan check dominates
// the interview check.
func Derive(hasPaidPlan, hasInterview bool) State {
	if !hasPaidPlan {
		return StateNoPlan
	}
	if !hasInterview {
		return StatePlanNoInterview
	}
	return StateReady
}
