package service

import (
	"testing"
	"time"

	"avatarapp/internal/domain"
	"avatarapp/internal/flow"
	"avatarapp/internal/models"
	"avatarapp/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type flowFixture struct {
	svc           *FlowService
	db            *gorm.DB
	patientRepo   *repository.PatientRepository
	personRepo    *repository.PersonProfileRepository
	interviewRepo *repository.InterviewRepository
}

func newFlowFixture(t *testing.T) *flowFixture {
	db := newTestDB(t)
	patientRepo := repository.NewPatientRepository(db)
	personRepo := repository.NewPersonProfileRepository(db)
	interviewRepo := repository.NewInterviewRepository(db)
	return &flowFixture{
		svc:           NewFlowService(patientRepo, personRepo, interviewRepo),
		db:            db,
		patientRepo:   patientRepo,
		personRepo:    personRepo,
		interviewRepo: interviewRepo,
	}
}

func (f *flowFixture) seedPatient(t *testing.T, userID uint, status string) *models.Patient {
	t.Helper()
	p := &models.Patient{UserID: userID, SubscriptionStatus: status}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func (f *flowFixture) seedPerson(t *testing.T, patientID uint, name string, primary bool) *models.PersonProfile {
	t.Helper()
	p := &models.PersonProfile{PatientID: patientID, Name: name, IsPrimary: primary}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func TestComputeStatusNoPatientRecord(t *testing.T) {
	f := newFlowFixture(t)
	st, err := f.svc.ComputeStatus(42, nil)
	require.NoError(t, err)
	assert.Equal(t, flow.StateNoPlan, st.State)
	assert.False(t, st.HasPaidPlan)
	assert.False(t, st.HasInterview)
	assert.Nil(t, st.ActivePersonProfileID)
}

func TestComputeStatusSubscriptionSynonyms(t *testing.T) {
	cases := []struct {
		status string
		active bool
	}{
		{"aktywna", true},
		{"AKTYWNA", true},
		{"Active", true},
		{"paid", true},
		{"", false},
		{"wygasła", false},
		{"cancelled", false},
	}
	for _, tc := range cases {
		t.Run("status "+tc.status, func(t *testing.T) {
			f := newFlowFixture(t)
			f.seedPatient(t, 1, tc.status)
			st, err := f.svc.ComputeStatus(1, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.active, st.HasPaidPlan)
			if tc.active {
				assert.Equal(t, flow.StatePlanNoInterview, st.State)
			} else {
				assert.Equal(t, flow.StateNoPlan, st.State)
			}
		})
	}
}

func TestComputeStatusSentInterviewMakesReady(t *testing.T) {
	f := newFlowFixture(t)
	patient := f.seedPatient(t, 1, domain.SubscriptionStatusActive)
	person := f.seedPerson(t, patient.ID, "Anna", true)

	iv, err := f.interviewRepo.UpsertDraft(person.ID, `{"q1":"a"}`)
	require.NoError(t, err)

	st, err := f.svc.ComputeStatus(1, nil)
	require.NoError(t, err)
	assert.Equal(t, flow.StatePlanNoInterview, st.State)
	assert.True(t, st.HasInterviewDraft)

	require.NoError(t, f.interviewRepo.MarkSent(iv.ID, time.Now()))

	st, err = f.svc.ComputeStatus(1, nil)
	require.NoError(t, err)
	assert.Equal(t, flow.StateReady, st.State)
	assert.True(t, st.HasInterview)
	assert.False(t, st.HasInterviewDraft)
}

func TestComputeStatusInterviewWithoutPlan(t *testing.T) {
	// A sent interview alone never yields READY.
	f := newFlowFixture(t)
	patient := f.seedPatient(t, 1, "")
	person := f.seedPerson(t, patient.ID, "Anna", true)
	iv, err := f.interviewRepo.UpsertDraft(person.ID, `{}`)
	require.NoError(t, err)
	require.NoError(t, f.interviewRepo.MarkSent(iv.ID, time.Now()))

	st, err := f.svc.ComputeStatus(1, nil)
	require.NoError(t, err)
	assert.Equal(t, flow.StateNoPlan, st.State)
	assert.True(t, st.HasInterview)
}

func TestComputeStatusActiveProfileFallback(t *testing.T) {
	f := newFlowFixture(t)
	patient := f.seedPatient(t, 1, domain.SubscriptionStatusActive)
	first := f.seedPerson(t, patient.ID, "First", false)
	primary := f.seedPerson(t, patient.ID, "Primary", true)
	other := f.seedPerson(t, patient.ID, "Other", false)

	// Explicit selection wins.
	st, err := f.svc.ComputeStatus(1, &other.ID)
	require.NoError(t, err)
	require.NotNil(t, st.ActivePersonProfileID)
	assert.Equal(t, other.ID, *st.ActivePersonProfileID)

	// Unknown explicit id falls back to the primary profile.
	bogus := uint(9999)
	st, err = f.svc.ComputeStatus(1, &bogus)
	require.NoError(t, err)
	require.NotNil(t, st.ActivePersonProfileID)
	assert.Equal(t, primary.ID, *st.ActivePersonProfileID)

	// No selection: primary.
	st, err = f.svc.ComputeStatus(1, nil)
	require.NoError(t, err)
	require.NotNil(t, st.ActivePersonProfileID)
	assert.Equal(t, primary.ID, *st.ActivePersonProfileID)

	// Without a primary, the oldest profile is used.
	require.NoError(t, f.db.Model(primary).Update("is_primary", false).Error)
	st, err = f.svc.ComputeStatus(1, nil)
	require.NoError(t, err)
	require.NotNil(t, st.ActivePersonProfileID)
	assert.Equal(t, first.ID, *st.ActivePersonProfileID)
}

func TestComputeStatusInterviewTracksActiveProfile(t *testing.T) {
	// The interview gate follows the selected profile, not any profile.
	f := newFlowFixture(t)
	patient := f.seedPatient(t, 1, domain.SubscriptionStatusActive)
	done := f.seedPerson(t, patient.ID, "Done", true)
	fresh := f.seedPerson(t, patient.ID, "Fresh", false)

	iv, err := f.interviewRepo.UpsertDraft(done.ID, `{}`)
	require.NoError(t, err)
	require.NoError(t, f.interviewRepo.MarkSent(iv.ID, time.Now()))

	st, err := f.svc.ComputeStatus(1, &done.ID)
	require.NoError(t, err)
	assert.Equal(t, flow.StateReady, st.State)

	st, err = f.svc.ComputeStatus(1, &fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, flow.StatePlanNoInterview, st.State)
}
