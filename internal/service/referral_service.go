package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"avatarapp/internal/domain"
	"avatarapp/internal/models"
	"avatarapp/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrNoReferralCode      = errors.New("no referral code")
	ErrUserNotFound        = errors.New("user not found")
	ErrNotReferredByCaller = errors.New("this person did not sign up via your referral link")
	ErrReferralExists      = errors.New("referral already exists")
)

// ReferralService owns the two referral write paths. AttributeSignup is
// best-effort and absorbs every failure; Repair is strict and returns a
// distinct error per failure. The asymmetry is deliberate: the first runs
// as a signup side effect and must never block account creation, the
// second is a user-initiated support action expecting explicit feedback.
type ReferralService struct {
	userRepo     *repository.UserRepository
	profileRepo  *repository.ProfileRepository
	referralRepo *repository.ReferralRepository
}

func NewReferralService(
	userRepo *repository.UserRepository,
	profileRepo *repository.ProfileRepository,
	referralRepo *repository.ReferralRepository,
) *ReferralService {
	return &ReferralService{userRepo: userRepo, profileRepo: profileRepo, referralRepo: referralRepo}
}

// AttributionInput is the post-signup payload.
type AttributionInput struct {
	UserID       uint
	Email        string
	FirstName    string
	LastName     string
	Phone        string
	ReferralCode string // the new account's own code
	ReferredBy   string // optional code of whoever referred them
}

// AttributeSignup upserts the new account's profile and, when a referral
// code was supplied, records the pending referral. Every failure is logged
// and swallowed; a missed attribution is reconciled later via Repair.
func (s *ReferralService) AttributeSignup(in AttributionInput) {
	profile := &models.Profile{
		UserID:       in.UserID,
		ReferralCode: in.ReferralCode,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
	}
	if err := s.profileRepo.UpsertWithFreshCode(profile, NewReferralCode); err != nil {
		log.Printf("[referral] profile upsert failed for user %d: %v", in.UserID, err)
	}

	if in.ReferredBy == "" {
		return
	}
	referrer, err := s.profileRepo.GetByReferralCode(in.ReferredBy)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[referral] no profile owns code %q, skipping attribution for user %d", in.ReferredBy, in.UserID)
		} else {
			log.Printf("[referral] referrer lookup failed for code %q: %v", in.ReferredBy, err)
		}
		return
	}
	if referrer.UserID == in.UserID {
		return
	}

	name := strings.TrimSpace(in.FirstName + " " + in.LastName)
	created, err := s.referralRepo.CreateIfAbsent(&models.Referral{
		ReferrerUserID: referrer.UserID,
		ReferrerCode:   in.ReferredBy,
		ReferredUserID: in.UserID,
		ReferredEmail:  in.Email,
		ReferredName:   name,
		Status:         domain.ReferralStatusPending,
	})
	if err != nil {
		log.Printf("[referral] insert failed for user %d: %v", in.UserID, err)
		return
	}
	if !created {
		log.Printf("[referral] user %d already attributed", in.UserID)
	}
}

// Repair retroactively links a referred account to the caller when the
// automatic attribution did not run. The target's stored signup metadata
// must name the caller's own code; that guard is what keeps a referrer
// from claiming arbitrary users.
func (s *ReferralService) Repair(callerUserID uint, referredEmail string) (*models.Referral, error) {
	caller, err := s.profileRepo.GetByUserID(callerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoReferralCode
		}
		return nil, err
	}
	if caller.ReferralCode == "" {
		return nil, ErrNoReferralCode
	}

	target, err := s.userRepo.GetByEmailInsensitive(referredEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if target.SignupReferred != caller.ReferralCode {
		return nil, ErrNotReferredByCaller
	}

	name := target.FullName()
	if name == "" {
		name = "Użytkownik"
	}
	ref := &models.Referral{
		ReferrerUserID: callerUserID,
		ReferrerCode:   caller.ReferralCode,
		ReferredUserID: target.ID,
		ReferredEmail:  target.Email,
		ReferredName:   name,
		Status:         domain.ReferralStatusPending,
	}
	created, err := s.referralRepo.CreateIfAbsent(ref)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, ErrReferralExists
	}
	return ref, nil
}

// ActivateForReferredUser flips the referred user's pending referral to
// active. Called on their first completed payment; a no-op otherwise.
func (s *ReferralService) ActivateForReferredUser(referredUserID uint) {
	if err := s.referralRepo.Activate(referredUserID, time.Now()); err != nil {
		log.Printf("[referral] activation failed for user %d: %v", referredUserID, err)
	}
}
