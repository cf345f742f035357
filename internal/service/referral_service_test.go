package service

import (
	"testing"

	"avatarapp/internal/domain"
	"avatarapp/internal/models"
	"avatarapp/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReferralFixture(t *testing.T) (*ReferralService, *repository.UserRepository, *repository.ProfileRepository, *repository.ReferralRepository) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	svc := NewReferralService(userRepo, profileRepo, referralRepo)
	return svc, userRepo, profileRepo, referralRepo
}

func seedUser(t *testing.T, userRepo *repository.UserRepository, email, signupReferred string) *models.User {
	t.Helper()
	u := &models.User{
		Email:          email,
		Role:           domain.RolePatient,
		SignupReferred: signupReferred,
	}
	require.NoError(t, userRepo.Create(u))
	return u
}

func seedProfile(t *testing.T, profileRepo *repository.ProfileRepository, userID uint, code string) *models.Profile {
	t.Helper()
	p := &models.Profile{UserID: userID, ReferralCode: code, FirstName: "Anna"}
	require.NoError(t, profileRepo.UpsertWithFreshCode(p, NewReferralCode))
	return p
}

func TestAttributeSignupCreatesProfileAndReferral(t *testing.T) {
	svc, userRepo, profileRepo, referralRepo := newReferralFixture(t)

	referrer := seedUser(t, userRepo, "referrer@example.com", "")
	seedProfile(t, profileRepo, referrer.ID, "REFCODE1")
	referred := seedUser(t, userRepo, "nowy@example.com", "REFCODE1")

	svc.AttributeSignup(AttributionInput{
		UserID:       referred.ID,
		Email:        referred.Email,
		FirstName:    "Jan",
		LastName:     "Kowalski",
		ReferralCode: "NEWCODE9",
		ReferredBy:   "REFCODE1",
	})

	p, err := profileRepo.GetByUserID(referred.ID)
	require.NoError(t, err)
	assert.Equal(t, "NEWCODE9", p.ReferralCode)
	assert.Equal(t, "Jan", p.FirstName)

	ref, err := referralRepo.GetByReferredUserID(referred.ID)
	require.NoError(t, err)
	assert.Equal(t, referrer.ID, ref.ReferrerUserID)
	assert.Equal(t, "REFCODE1", ref.ReferrerCode)
	assert.Equal(t, "Jan Kowalski", ref.ReferredName)
	assert.Equal(t, domain.ReferralStatusPending, ref.Status)
}

func TestAttributeSignupIsIdempotent(t *testing.T) {
	svc, userRepo, profileRepo, referralRepo := newReferralFixture(t)

	referrer := seedUser(t, userRepo, "referrer@example.com", "")
	seedProfile(t, profileRepo, referrer.ID, "REFCODE1")
	referred := seedUser(t, userRepo, "nowy@example.com", "REFCODE1")

	in := AttributionInput{
		UserID:       referred.ID,
		Email:        referred.Email,
		FirstName:    "Jan",
		ReferralCode: "NEWCODE9",
		ReferredBy:   "REFCODE1",
	}
	svc.AttributeSignup(in)
	svc.AttributeSignup(in)
	svc.AttributeSignup(in)

	list, err := referralRepo.ListByReferrerUserID(referrer.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// The first attributed code survives replays.
	ref, err := referralRepo.GetByReferredUserID(referred.ID)
	require.NoError(t, err)
	assert.Equal(t, referrer.ID, ref.ReferrerUserID)
}

func TestAttributeSignupUnknownCodeIsAbsorbed(t *testing.T) {
	svc, userRepo, profileRepo, referralRepo := newReferralFixture(t)

	referred := seedUser(t, userRepo, "nowy@example.com", "GHOSTCOD")
	svc.AttributeSignup(AttributionInput{
		UserID:       referred.ID,
		Email:        referred.Email,
		ReferralCode: "NEWCODE9",
		ReferredBy:   "GHOSTCOD",
	})

	// Profile still created, no referral row.
	_, err := profileRepo.GetByUserID(referred.ID)
	require.NoError(t, err)
	_, err = referralRepo.GetByReferredUserID(referred.ID)
	assert.Error(t, err)
}

func TestAttributeSignupSkipsSelfReferral(t *testing.T) {
	svc, userRepo, profileRepo, referralRepo := newReferralFixture(t)

	u := seedUser(t, userRepo, "self@example.com", "MYCODE01")
	seedProfile(t, profileRepo, u.ID, "MYCODE01")

	svc.AttributeSignup(AttributionInput{
		UserID:       u.ID,
		Email:        u.Email,
		ReferralCode: "MYCODE01",
		ReferredBy:   "MYCODE01",
	})

	_, err := referralRepo.GetByReferredUserID(u.ID)
	assert.Error(t, err)
}

func TestAttributeSignupKeepsExistingProfile(t *testing.T) {
	svc, userRepo, profileRepo, _ := newReferralFixture(t)

	u := seedUser(t, userRepo, "user@example.com", "")
	seedProfile(t, profileRepo, u.ID, "FIRSTCOD")

	// A replay with a different code must not clobber the stored one.
	svc.AttributeSignup(AttributionInput{
		UserID:       u.ID,
		Email:        u.Email,
		ReferralCode: "SECONDCD",
	})

	p, err := profileRepo.GetByUserID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "FIRSTCOD", p.ReferralCode)
}

func TestRepairLinksReferredUser(t *testing.T) {
	svc, userRepo, profileRepo, _ := newReferralFixture(t)

	caller := seedUser(t, userRepo, "caller@example.com", "")
	seedProfile(t, profileRepo, caller.ID, "CALLCODE")
	target := seedUser(t, userRepo, "target@example.com", "CALLCODE")
	target.SignupFirstName = "Ewa"
	require.NoError(t, userRepo.Update(target))

	ref, err := svc.Repair(caller.ID, "Target@Example.com") // case-insensitive lookup
	require.NoError(t, err)
	assert.Equal(t, caller.ID, ref.ReferrerUserID)
	assert.Equal(t, target.ID, ref.ReferredUserID)
	assert.Equal(t, "Ewa", ref.ReferredName)
	assert.Equal(t, domain.ReferralStatusPending, ref.Status)
}

func TestRepairFallbackName(t *testing.T) {
	svc, userRepo, profileRepo, _ := newReferralFixture(t)

	caller := seedUser(t, userRepo, "caller@example.com", "")
	seedProfile(t, profileRepo, caller.ID, "CALLCODE")
	seedUser(t, userRepo, "anon@example.com", "CALLCODE")

	ref, err := svc.Repair(caller.ID, "anon@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Użytkownik", ref.ReferredName)
}

func TestRepairRejections(t *testing.T) {
	svc, userRepo, profileRepo, _ := newReferralFixture(t)

	caller := seedUser(t, userRepo, "caller@example.com", "")
	seedProfile(t, profileRepo, caller.ID, "CALLCODE")
	seedUser(t, userRepo, "other@example.com", "SOMEONEE")

	t.Run("caller without profile", func(t *testing.T) {
		stranger := seedUser(t, userRepo, "noprofile@example.com", "")
		_, err := svc.Repair(stranger.ID, "other@example.com")
		assert.ErrorIs(t, err, ErrNoReferralCode)
	})

	t.Run("unknown referred email", func(t *testing.T) {
		_, err := svc.Repair(caller.ID, "missing@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("referred by someone else", func(t *testing.T) {
		_, err := svc.Repair(caller.ID, "other@example.com")
		assert.ErrorIs(t, err, ErrNotReferredByCaller)
	})

	t.Run("referral already exists", func(t *testing.T) {
		target := seedUser(t, userRepo, "target@example.com", "CALLCODE")
		_ = target
		_, err := svc.Repair(caller.ID, "target@example.com")
		require.NoError(t, err)
		_, err = svc.Repair(caller.ID, "target@example.com")
		assert.ErrorIs(t, err, ErrReferralExists)
	})
}

func TestActivateForReferredUser(t *testing.T) {
	svc, userRepo, profileRepo, referralRepo := newReferralFixture(t)

	referrer := seedUser(t, userRepo, "referrer@example.com", "")
	seedProfile(t, profileRepo, referrer.ID, "REFCODE1")
	referred := seedUser(t, userRepo, "nowy@example.com", "REFCODE1")
	svc.AttributeSignup(AttributionInput{
		UserID:       referred.ID,
		Email:        referred.Email,
		ReferralCode: "NEWCODE9",
		ReferredBy:   "REFCODE1",
	})

	svc.ActivateForReferredUser(referred.ID)

	ref, err := referralRepo.GetByReferredUserID(referred.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReferralStatusActive, ref.Status)
	require.NotNil(t, ref.ActivatedAt)

	// A second activation keeps the original timestamp.
	first := *ref.ActivatedAt
	svc.ActivateForReferredUser(referred.ID)
	ref, err = referralRepo.GetByReferredUserID(referred.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Unix(), ref.ActivatedAt.Unix())
}
