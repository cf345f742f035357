package repository

import (
	"time"

	"avatarapp/internal/domain"
	"avatarapp/internal/models"

	"gorm.io/gorm"
)

type InterviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) *InterviewRepository {
	return &InterviewRepository{db: db}
}

// LatestByProfileID returns the most recently updated interview for the
// person profile. gorm.ErrRecordNotFound when there is none.
func (r *InterviewRepository) LatestByProfileID(profileID uint) (*models.NutritionInterview, error) {
	var iv models.NutritionInterview
	err := r.db.Where("person_profile_id = ?", profileID).
		Order("updated_at DESC").
		First(&iv).Error
	if err != nil {
		return nil, err
	}
	return &iv, nil
}

// UpsertDraft stores the answers on the profile's existing draft, or
// creates a new draft when the latest interview is absent or already sent.
func (r *InterviewRepository) UpsertDraft(profileID uint, answers string) (*models.NutritionInterview, error) {
	var iv models.NutritionInterview
	err := r.db.Where("person_profile_id = ? AND status = ?", profileID, domain.InterviewStatusDraft).
		Order("updated_at DESC").
		First(&iv).Error
	if err == nil {
		iv.Answers = answers
		return &iv, r.db.Save(&iv).Error
	}
	iv = models.NutritionInterview{
		PersonProfileID: profileID,
		Status:          domain.InterviewStatusDraft,
		Answers:         answers,
	}
	return &iv, r.db.Create(&iv).Error
}

// MarkSent promotes a draft to sent and stamps sent_at.
func (r *InterviewRepository) MarkSent(interviewID uint, at time.Time) error {
	res := r.db.Model(&models.NutritionInterview{}).
		Where("id = ? AND status = ?", interviewID, domain.InterviewStatusDraft).
		Updates(map[string]interface{}{
			"status":  domain.InterviewStatusSent,
			"sent_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
