package feed

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRoundTripsEveryVariant(t *testing.T) {
	events := []Event{
		PatientQuestionEvent{UserID: 7, PatientName: "Anna Nowak", Question: "Czy mogę jeść gluten?"},
		SupportTicketEvent{UserID: 8, PatientName: "Jan Kowalski", Subject: "Problem z płatnością", Message: "..."},
		InterviewSentEvent{UserID: 9, PersonProfileID: 3, PersonName: "Zofia"},
		NewRegistrationEvent{UserID: 10, Email: "nowy@example.com", Name: "Nowy Pacjent"},
	}
	for _, ev := range events {
		data, err := json.Marshal(ev)
		require.NoError(t, err)
		got, err := Decode(ev.Kind(), data)
		require.NoError(t, err)
		assert.Equal(t, ev, got)
		assert.NotEmpty(t, got.Title())
		assert.NotEmpty(t, got.Body())
	}
}

func TestDecodeRejectsUnknownKind(t *testing.T) {
	_, err := Decode("mystery_event", []byte(`{}`))
	assert.Error(t, err)
}
