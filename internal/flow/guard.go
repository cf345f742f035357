package flow

import "strings"

const (
	dashboardPath = "/dashboard"
	interviewPath = "/interview"
)

// ResolveRedirectTarget returns the path the client must be forced to for
// the given navigation target and onboarding state. ok is false when the
// current path is allowed and no redirect should happen.
//
// Callers must only invoke this after the flow status has finished loading;
// evaluating it against a default-valued state causes redirect flicker.
func ResolveRedirectTarget(pathname string, state State) (target string, ok bool) {
	path := normalizePath(pathname)

	switch state {
	case StateNoPlan:
		if isPaymentRoute(path) || path == dashboardPath {
			return "", false
		}
		if isInterviewRoute(path) || isDashboardRoute(path) {
			return dashboardPath, true
		}
	case StatePlanNoInterview:
		if isInterviewRoute(path) {
			return "", false
		}
		if isDashboardRoute(path) || isPaymentRoute(path) {
			return interviewPath, true
		}
	case StateReady:
		if isPaymentRoute(path) {
			return dashboardPath, true
		}
	}
	return "", false
}

// normalizePath drops query and fragment so "/dashboard?x=1" classifies the
// same as "/dashboard".
func normalizePath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return p
}

func isPaymentRoute(p string) bool {
	return p == "/payment" || strings.HasPrefix(p, "/payment/")
}

// isInterviewRoute covers the standalone interview pages and the interview
// step nested under the dashboard. It must be checked before
// isDashboardRoute: "/dashboard/interview" belongs to the interview family.
func isInterviewRoute(p string) bool {
	return p == interviewPath || strings.HasPrefix(p, interviewPath+"/") ||
		p == "/dashboard/interview" || strings.HasPrefix(p, "/dashboard/interview/")
}

func isDashboardRoute(p string) bool {
	return p == dashboardPath || strings.HasPrefix(p, dashboardPath+"/")
}
