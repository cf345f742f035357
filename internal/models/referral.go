package models

import (
	"time"

	"gorm.io/gorm"
)

// Referral is one attribution edge between a referrer and a referred
// account. The unique index on ReferredUserID is the invariant everything
// else leans on: a user can be the target of at most one referral, and both
// write paths insert with ON CONFLICT DO NOTHING against it.
type Referral struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ReferrerUserID uint           `gorm:"not null;index" json:"referrer_user_id"`
	ReferrerCode   string         `gorm:"size:16;not null" json:"referrer_code"`
	ReferredUserID uint           `gorm:"uniqueIndex;not null" json:"referred_user_id"`
	ReferredEmail  string         `gorm:"size:255" json:"referred_email"`
	ReferredName   string         `gorm:"size:200" json:"referred_name"`
	Status         string         `gorm:"size:20;not null;default:'pending';index" json:"status"` // pending | active
	ActivatedAt    *time.Time     `json:"activated_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Referrer     User `gorm:"foreignKey:ReferrerUserID" json:"-"`
	ReferredUser User `gorm:"foreignKey:ReferredUserID" json:"-"`
}

func (Referral) TableName() string { return "referrals" }
