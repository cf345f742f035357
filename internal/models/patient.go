package models

import (
	"time"

	"gorm.io/gorm"
)

// Patient carries the care-side state of an account. SubscriptionStatus is
// free text written by billing ("aktywna", "active", "paid", ...); use
// domain.IsActiveSubscriptionStatus to interpret it.
type Patient struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	UserID             uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	SubscriptionStatus string         `gorm:"size:50" json:"subscription_status"`
	PlanCode           string         `gorm:"size:50" json:"plan_code"`
	SubscribedAt       *time.Time     `json:"subscribed_at"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	User           User            `gorm:"foreignKey:UserID" json:"-"`
	PersonProfiles []PersonProfile `gorm:"foreignKey:PatientID" json:"person_profiles,omitempty"`
}

func (Patient) TableName() string { return "patients" }

// PersonProfile is one household member a patient fills interviews for.
// At most one profile per patient should be primary.
type PersonProfile struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	PatientID uint           `gorm:"not null;index" json:"patient_id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	IsPrimary bool           `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Patient Patient `gorm:"foreignKey:PatientID" json:"-"`
}

func (PersonProfile) TableName() string { return "person_profiles" }
