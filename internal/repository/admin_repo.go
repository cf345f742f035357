package repository

import (
	"avatarapp/internal/domain"
	"avatarapp/internal/models"

	"gorm.io/gorm"
)

type DashboardStats struct {
	TotalPatients       int64 `json:"total_patients"`
	ActiveSubscriptions int64 `json:"active_subscriptions"`
	InterviewsSent      int64 `json:"interviews_sent"`
	PendingReferrals    int64 `json:"pending_referrals"`
	ActiveReferrals     int64 `json:"active_referrals"`
	TotalRevenue        int64 `json:"total_revenue"`
	TotalPayments       int64 `json:"total_payments"`
}

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetDashboardStats() (*DashboardStats, error) {
	var s DashboardStats
	r.db.Model(&models.Patient{}).Count(&s.TotalPatients)
	r.db.Model(&models.Patient{}).Where("LOWER(subscription_status) IN ?", domain.ActiveSubscriptionSynonyms()).Count(&s.ActiveSubscriptions)
	r.db.Model(&models.NutritionInterview{}).Where("status = ?", domain.InterviewStatusSent).Count(&s.InterviewsSent)
	r.db.Model(&models.Referral{}).Where("status = ?", domain.ReferralStatusPending).Count(&s.PendingReferrals)
	r.db.Model(&models.Referral{}).Where("status = ?", domain.ReferralStatusActive).Count(&s.ActiveReferrals)

	var rev struct{ Total int64 }
	r.db.Model(&models.Payment{}).Select("COALESCE(SUM(amount_cents), 0) as total").Where("status = ?", domain.PaymentStatusCompleted).Scan(&rev)
	s.TotalRevenue = rev.Total
	r.db.Model(&models.Payment{}).Where("status = ?", domain.PaymentStatusCompleted).Count(&s.TotalPayments)

	return &s, nil
}
