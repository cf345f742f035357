package service

import (
	"errors"

	"avatarapp/internal/domain"
	"avatarapp/internal/flow"
	"avatarapp/internal/models"
	"avatarapp/internal/repository"

	"gorm.io/gorm"
)

// FlowStatus is the full onboarding picture for one account, computed on
// demand and never persisted.
type FlowStatus struct {
	State                 flow.State `json:"state"`
	HasPaidPlan           bool       `json:"has_paid_plan"`
	HasInterview          bool       `json:"has_interview"`
	HasInterviewDraft     bool       `json:"has_interview_draft"`
	ActivePersonProfileID *uint      `json:"active_person_profile_id"`
}

type FlowService struct {
	patientRepo   *repository.PatientRepository
	personRepo    *repository.PersonProfileRepository
	interviewRepo *repository.InterviewRepository
}

func NewFlowService(
	patientRepo *repository.PatientRepository,
	personRepo *repository.PersonProfileRepository,
	interviewRepo *repository.InterviewRepository,
) *FlowService {
	return &FlowService{patientRepo: patientRepo, personRepo: personRepo, interviewRepo: interviewRepo}
}

// ComputeStatus derives the flow status from subscription and interview
// records. activeProfileID is the person profile the client has explicitly
// selected; nil falls back to the primary profile, then the first one.
// Passing the selection in keeps this a function of explicit inputs rather
// than ambient client storage.
func (s *FlowService) ComputeStatus(userID uint, activeProfileID *uint) (*FlowStatus, error) {
	st := &FlowStatus{}

	patient, err := s.patientRepo.GetByUserID(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if patient != nil {
		st.HasPaidPlan = domain.IsActiveSubscriptionStatus(patient.SubscriptionStatus)

		profiles, err := s.personRepo.ListByPatientID(patient.ID)
		if err != nil {
			return nil, err
		}
		if active := selectActiveProfile(profiles, activeProfileID); active != nil {
			st.ActivePersonProfileID = &active.ID
			iv, err := s.interviewRepo.LatestByProfileID(active.ID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			if iv != nil {
				st.HasInterview = iv.Status == domain.InterviewStatusSent
				st.HasInterviewDraft = iv.Status == domain.InterviewStatusDraft
			}
		}
	}

	st.State = flow.Derive(st.HasPaidPlan, st.HasInterview)
	return st, nil
}

// selectActiveProfile resolves the fallback chain: explicit id (if it
// belongs to the patient) -> primary -> first.
func selectActiveProfile(profiles []models.PersonProfile, explicit *uint) *models.PersonProfile {
	if len(profiles) == 0 {
		return nil
	}
	if explicit != nil {
		for i := range profiles {
			if profiles[i].ID == *explicit {
				return &profiles[i]
			}
		}
	}
	for i := range profiles {
		if profiles[i].IsPrimary {
			return &profiles[i]
		}
	}
	return &profiles[0]
}
