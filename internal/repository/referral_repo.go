package repository

import (
	"time"

	"avatarapp/internal/domain"
	"avatarapp/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// CreateIfAbsent inserts the referral unless one already exists for the
// referred user. The uniqueness decision is made by the database
// (ON CONFLICT DO NOTHING on referred_user_id), not by a prior existence
// check, so concurrent attribution of the same user cannot double-insert.
// created is false when the row was already there.
func (r *ReferralRepository) CreateIfAbsent(ref *models.Referral) (created bool, err error) {
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "referred_user_id"}},
		DoNothing: true,
	}).Create(ref)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ReferralRepository) GetByReferredUserID(userID uint) (*models.Referral, error) {
	var ref models.Referral
	err := r.db.Where("referred_user_id = ?", userID).First(&ref).Error
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// Activate flips a pending referral for the referred user to active and
// stamps activated_at. A no-op when the referral is absent or already
// active, so the payment webhook can call it on every completed checkout.
func (r *ReferralRepository) Activate(referredUserID uint, at time.Time) error {
	return r.db.Model(&models.Referral{}).
		Where("referred_user_id = ? AND status = ?", referredUserID, domain.ReferralStatusPending).
		Updates(map[string]interface{}{
			"status":       domain.ReferralStatusActive,
			"activated_at": at,
		}).Error
}

func (r *ReferralRepository) ListByReferrerUserID(referrerUserID uint, limit, offset int) ([]models.Referral, error) {
	var list []models.Referral
	err := r.db.Where("referrer_user_id = ?", referrerUserID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
