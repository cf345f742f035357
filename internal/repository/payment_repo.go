package repository

import (
	"time"

	"avatarapp/internal/domain"
	"avatarapp/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) GetByProviderRef(ref string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.Where("provider_ref = ?", ref).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkCompleted transitions a pending payment to completed. completed is
// false when the payment was already completed, which lets the webhook
// handler treat Stripe's redelivery as a no-op.
func (r *PaymentRepository) MarkCompleted(providerRef string, at time.Time) (p *models.Payment, completed bool, err error) {
	p, err = r.GetByProviderRef(providerRef)
	if err != nil {
		return nil, false, err
	}
	res := r.db.Model(&models.Payment{}).
		Where("provider_ref = ? AND status = ?", providerRef, domain.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":       domain.PaymentStatusCompleted,
			"completed_at": at,
		})
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		p.Status = domain.PaymentStatusCompleted
		p.CompletedAt = &at
	}
	return p, res.RowsAffected > 0, nil
}

// MarkExpired flags a still-pending payment whose Checkout session lapsed.
func (r *PaymentRepository) MarkExpired(providerRef string) error {
	return r.db.Model(&models.Payment{}).
		Where("provider_ref = ? AND status = ?", providerRef, domain.PaymentStatusPending).
		Update("status", domain.PaymentStatusExpired).Error
}

func (r *PaymentRepository) ListByUserID(userID uint, limit, offset int) ([]models.Payment, error) {
	var list []models.Payment
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
