package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"avatarapp/internal/domain"
	"avatarapp/internal/models"
	"avatarapp/internal/repository"
	"avatarapp/pkg/mailer"
	"avatarapp/pkg/sms"

	"gorm.io/gorm"
)

var (
	ErrUnknownPlan      = errors.New("unknown plan")
	ErrOutreachDisabled = errors.New("messaging provider not configured")
)

// OutreachService covers the admin-side patient communication: SMS and
// email campaigns to selected patients, and manual access grants that
// provision a paid account with a one-time password.
type OutreachService struct {
	patientRepo *repository.PatientRepository
	userRepo    *repository.UserRepository
	profileRepo *repository.ProfileRepository
	authSvc     *AuthService
	mail        *mailer.Client // nil when Resend is not configured
	sms         *sms.Client    // nil when Twilio is not configured
}

func NewOutreachService(
	patientRepo *repository.PatientRepository,
	userRepo *repository.UserRepository,
	profileRepo *repository.ProfileRepository,
	authSvc *AuthService,
	mail *mailer.Client,
	smsClient *sms.Client,
) *OutreachService {
	return &OutreachService{
		patientRepo: patientRepo,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		authSvc:     authSvc,
		mail:        mail,
		sms:         smsClient,
	}
}

// SendSMS delivers message to every selected patient with a phone number.
// Per-recipient failures are logged and skipped; the caller gets the
// delivered count.
func (s *OutreachService) SendSMS(patientIDs []uint, message string) (int, error) {
	if s.sms == nil {
		return 0, ErrOutreachDisabled
	}
	patients, err := s.patientRepo.ListByIDs(patientIDs)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, p := range patients {
		if p.User.Profile == nil || p.User.Profile.Phone == "" {
			continue
		}
		if err := s.sms.Send(p.User.Profile.Phone, message); err != nil {
			log.Printf("[outreach] sms to patient %d failed: %v", p.ID, err)
			continue
		}
		sent++
	}
	return sent, nil
}

// SendEmail delivers a campaign email to every selected patient.
func (s *OutreachService) SendEmail(patientIDs []uint, subject, html string) (int, error) {
	if s.mail == nil {
		return 0, ErrOutreachDisabled
	}
	patients, err := s.patientRepo.ListByIDs(patientIDs)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, p := range patients {
		if err := s.mail.Send(p.User.Email, subject, html); err != nil {
			log.Printf("[outreach] email to patient %d failed: %v", p.ID, err)
			continue
		}
		sent++
	}
	return sent, nil
}

// GrantAccess provisions an account with an active subscription outside
// the payment flow. New accounts get a generated one-time password mailed
// to them; existing accounts just get the plan switched on.
func (s *OutreachService) GrantAccess(email, firstName, lastName, planCode string) (*models.User, error) {
	plan := domain.PlanByCode(planCode)
	if plan == nil {
		return nil, ErrUnknownPlan
	}

	u, err := s.userRepo.GetByEmailInsensitive(email)
	switch {
	case err == nil:
		if err := s.patientRepo.SetSubscription(u.ID, plan.Code, domain.SubscriptionStatusActive, time.Now()); err != nil {
			return nil, err
		}
		s.notifyGrant(u.Email, firstName, plan, "")
		return u, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	password, err := NewOneTimePassword()
	if err != nil {
		return nil, err
	}
	u, _, _, err = s.authSvc.Register(RegisterInput{
		Email:     email,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		return nil, err
	}
	code, err := NewReferralCode()
	if err == nil {
		err = s.profileRepo.UpsertWithFreshCode(&models.Profile{
			UserID:       u.ID,
			ReferralCode: code,
			FirstName:    firstName,
			LastName:     lastName,
		}, NewReferralCode)
	}
	if err != nil {
		log.Printf("[outreach] profile create for granted user %d failed: %v", u.ID, err)
	}
	if err := s.patientRepo.SetSubscription(u.ID, plan.Code, domain.SubscriptionStatusActive, time.Now()); err != nil {
		return nil, err
	}
	s.notifyGrant(u.Email, firstName, plan, password)
	return u, nil
}

func (s *OutreachService) notifyGrant(email, firstName string, plan *domain.Plan, password string) {
	if s.mail == nil {
		return
	}
	greeting := "Cześć"
	if firstName != "" {
		greeting += " " + firstName
	}
	html := fmt.Sprintf("<p>%s!</p><p>Twój pakiet <strong>%s</strong> został aktywowany.</p>", greeting, plan.Name)
	if password != "" {
		html += fmt.Sprintf("<p>Hasło tymczasowe: <code>%s</code><br>Zmień je po pierwszym logowaniu.</p>", password)
	}
	if err := s.mail.Send(email, "Dostęp do Avatar został aktywowany", html); err != nil {
		log.Printf("[outreach] grant email to %s failed: %v", email, err)
	}
}
