package service

import (
	"testing"

	"avatarapp/internal/domain"
	"avatarapp/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOutreachFixture(t *testing.T) (*OutreachService, *repository.UserRepository, *repository.PatientRepository, *repository.ProfileRepository) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	authSvc := NewAuthService(newTestConfig(), userRepo)
	// nil mail and sms clients: providers not configured
	svc := NewOutreachService(patientRepo, userRepo, profileRepo, authSvc, nil, nil)
	return svc, userRepo, patientRepo, profileRepo
}

func TestOutreachDisabledWithoutProviders(t *testing.T) {
	svc, _, _, _ := newOutreachFixture(t)

	_, err := svc.SendSMS([]uint{1}, "hej")
	assert.ErrorIs(t, err, ErrOutreachDisabled)

	_, err = svc.SendEmail([]uint{1}, "temat", "<p>treść</p>")
	assert.ErrorIs(t, err, ErrOutreachDisabled)
}

func TestGrantAccessUnknownPlan(t *testing.T) {
	svc, _, _, _ := newOutreachFixture(t)
	_, err := svc.GrantAccess("kto@example.com", "Jan", "", "gold-deluxe")
	assert.ErrorIs(t, err, ErrUnknownPlan)
}

func TestGrantAccessCreatesNewAccount(t *testing.T) {
	svc, userRepo, patientRepo, profileRepo := newOutreachFixture(t)

	u, err := svc.GrantAccess("nowa@example.com", "Maria", "Nowak", "standard")
	require.NoError(t, err)
	assert.Equal(t, "nowa@example.com", u.Email)
	assert.Equal(t, domain.RolePatient, u.Role)

	// Account is immediately loginable state: it exists with a profile.
	got, err := userRepo.GetByEmailInsensitive("NOWA@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	p, err := profileRepo.GetByUserID(u.ID)
	require.NoError(t, err)
	assert.Len(t, p.ReferralCode, 8)

	patient, err := patientRepo.GetByUserID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "standard", patient.PlanCode)
	assert.True(t, domain.IsActiveSubscriptionStatus(patient.SubscriptionStatus))
	require.NotNil(t, patient.SubscribedAt)
}

func TestGrantAccessExistingAccount(t *testing.T) {
	svc, userRepo, patientRepo, _ := newOutreachFixture(t)

	existing := seedUser(t, userRepo, "stala@example.com", "")
	u, err := svc.GrantAccess("stala@example.com", "", "", "premium")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, u.ID)

	patient, err := patientRepo.GetByUserID(existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "premium", patient.PlanCode)
	assert.Equal(t, domain.SubscriptionStatusActive, patient.SubscriptionStatus)
}
