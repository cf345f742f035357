package models

import (
	"time"

	"gorm.io/gorm"
)

// NutritionInterview holds the answers a patient collects for one person
// profile. Only a "sent" interview satisfies the onboarding gate; a "draft"
// is surfaced separately so the UI can offer to resume it.
type NutritionInterview struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	PersonProfileID uint           `gorm:"not null;index" json:"person_profile_id"`
	Status          string         `gorm:"size:20;not null;default:'draft';index" json:"status"` // draft | sent
	Answers         string         `gorm:"type:text" json:"answers"`                             // JSON payload
	SentAt          *time.Time     `json:"sent_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	PersonProfile PersonProfile `gorm:"foreignKey:PersonProfileID" json:"-"`
}

func (NutritionInterview) TableName() string { return "nutrition_interviews" }
