package domain

import "strings"

const (
	RolePatient = "PATIENT"
	RoleAdmin   = "ADMIN"
)

const (
	ReferralStatusPending = "pending"
	ReferralStatusActive  = "active"
)

const (
	InterviewStatusDraft = "draft"
	InterviewStatusSent  = "sent"
)

const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusExpired   = "EXPIRED"
)

// Subscription statuses arrive as free text from the billing side (the app
// historically stored Polish and English spellings side by side).
// activeSubscriptionSynonyms is the closed set treated as a paid plan.
var activeSubscriptionSynonyms = map[string]struct{}{
	"aktywna": {},
	"active":  {},
	"paid":    {},
}

// IsActiveSubscriptionStatus reports whether a raw subscription status
// counts as an active paid plan. Matching is case-insensitive and ignores
// surrounding whitespace.
func IsActiveSubscriptionStatus(raw string) bool {
	_, ok := activeSubscriptionSynonyms[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// ActiveSubscriptionSynonyms returns the synonym set as a slice, for SQL
// IN clauses.
func ActiveSubscriptionSynonyms() []string {
	out := make([]string, 0, len(activeSubscriptionSynonyms))
	for s := range activeSubscriptionSynonyms {
		out = append(out, s)
	}
	return out
}

// SubscriptionStatusActive is what the Stripe webhook writes on a completed
// checkout. Kept in the Polish spelling the rest of the product displays.
const SubscriptionStatusActive = "aktywna"

// Plan is one entry of the static package catalog shown in the payment flow.
type Plan struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
}

var Plans = []Plan{
	{Code: "basic", Name: "Pakiet Podstawowy", AmountCents: 29900, Currency: "pln", Description: "Plan żywieniowy + 1 konsultacja"},
	{Code: "standard", Name: "Pakiet Standard", AmountCents: 49900, Currency: "pln", Description: "Plan żywieniowy + 3 konsultacje"},
	{Code: "premium", Name: "Pakiet Premium", AmountCents: 89900, Currency: "pln", Description: "Opieka 3-miesięczna"},
}

// PlanByCode returns the catalog entry for code, or nil when unknown.
func PlanByCode(code string) *Plan {
	for i := range Plans {
		if Plans[i].Code == code {
			return &Plans[i]
		}
	}
	return nil
}
