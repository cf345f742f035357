package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile is the one-to-one extension of a User. ReferralCode is assigned
// at signup and unique across all profiles.
type Profile struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	ReferralCode string         `gorm:"uniqueIndex;size:16;not null" json:"referral_code"`
	FirstName    string         `gorm:"size:100" json:"first_name"`
	LastName     string         `gorm:"size:100" json:"last_name"`
	Phone        string         `gorm:"size:32" json:"phone"`
	AvatarURL    string         `gorm:"size:512" json:"avatar_url"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Profile) TableName() string { return "profiles" }
