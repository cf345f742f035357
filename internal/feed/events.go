// Package feed defines the admin notification feed events. Each event tag
// has its own variant type behind the sealed Event interface, so a switch
// over variants covers the whole closed set instead of comparing strings.
package feed

import (
	"encoding/json"
	"fmt"
)

const (
	KindPatientQuestion = "patient_question"
	KindSupportTicket   = "support_ticket"
	KindInterviewSent   = "interview_sent"
	KindNewRegistration = "new_registration"
)

// Event is implemented only by the variant types in this package.
type Event interface {
	Kind() string
	// Title and Body are the human-readable rendering shown in the admin feed.
	Title() string
	Body() string
	sealed()
}

type PatientQuestionEvent struct {
	UserID      uint   `json:"user_id"`
	PatientName string `json:"patient_name"`
	Question    string `json:"question"`
}

type SupportTicketEvent struct {
	UserID      uint   `json:"user_id"`
	PatientName string `json:"patient_name"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
}

type InterviewSentEvent struct {
	UserID          uint   `json:"user_id"`
	PersonProfileID uint   `json:"person_profile_id"`
	PersonName      string `json:"person_name"`
}

type NewRegistrationEvent struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

func (PatientQuestionEvent) Kind() string { return KindPatientQuestion }
func (SupportTicketEvent) Kind() string   { return KindSupportTicket }
func (InterviewSentEvent) Kind() string   { return KindInterviewSent }
func (NewRegistrationEvent) Kind() string { return KindNewRegistration }

func (e PatientQuestionEvent) Title() string { return "Nowe pytanie od pacjenta" }
func (e PatientQuestionEvent) Body() string  { return e.PatientName + ": " + e.Question }

func (e SupportTicketEvent) Title() string { return "Nowe zgłoszenie" }
func (e SupportTicketEvent) Body() string  { return e.PatientName + ": " + e.Subject }

func (e InterviewSentEvent) Title() string { return "Wywiad żywieniowy wysłany" }
func (e InterviewSentEvent) Body() string  { return e.PersonName + " ukończył(a) wywiad" }

func (e NewRegistrationEvent) Title() string { return "Nowa rejestracja" }
func (e NewRegistrationEvent) Body() string {
	if e.Name != "" {
		return e.Name + " (" + e.Email + ")"
	}
	return e.Email
}

func (PatientQuestionEvent) sealed() {}
func (SupportTicketEvent) sealed()   {}
func (InterviewSentEvent) sealed()   {}
func (NewRegistrationEvent) sealed() {}

// Decode rebuilds the variant for a stored (kind, data) pair. Unknown kinds
// are an error rather than a silent passthrough.
func Decode(kind string, data []byte) (Event, error) {
	switch kind {
	case KindPatientQuestion:
		var e PatientQuestionEvent
		return e, json.Unmarshal(data, &e)
	case KindSupportTicket:
		var e SupportTicketEvent
		return e, json.Unmarshal(data, &e)
	case KindInterviewSent:
		var e InterviewSentEvent
		return e, json.Unmarshal(data, &e)
	case KindNewRegistration:
		var e NewRegistrationEvent
		return e, json.Unmarshal(data, &e)
	default:
		return nil, fmt.Errorf("feed: unknown event kind %q", kind)
	}
}
