package repository

import (
	"fmt"

	"avatarapp/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const maxCodeAttempts = 5

// UpsertWithFreshCode inserts the profile, doing nothing when a profile for
// the user already exists. A create error is assumed to be a referral code
// collision: the code is resampled via gen and the insert retried, a few
// times at most. Safe to call repeatedly for the same user.
func (r *ProfileRepository) UpsertWithFreshCode(p *models.Profile, gen func() (string, error)) error {
	var lastErr error
	for i := 0; i < maxCodeAttempts; i++ {
		res := r.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).Create(p)
		if res.Error == nil {
			return nil
		}
		lastErr = res.Error
		code, err := gen()
		if err != nil {
			return err
		}
		p.ID = 0
		p.ReferralCode = code
	}
	return fmt.Errorf("profile insert kept colliding after %d attempts: %w", maxCodeAttempts, lastErr)
}

func (r *ProfileRepository) GetByUserID(userID uint) (*models.Profile, error) {
	var p models.Profile
	err := r.db.Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) GetByReferralCode(code string) (*models.Profile, error) {
	var p models.Profile
	err := r.db.Where("referral_code = ?", code).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) Update(p *models.Profile) error {
	return r.db.Save(p).Error
}
