package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the account record. Signup metadata (name, referred_by) is kept
// here verbatim as submitted so referral repair can re-derive the
// relationship even when profile creation failed at signup time.
type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Email           string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash    string         `gorm:"size:255" json:"-"`
	Role            string         `gorm:"size:20;not null;index" json:"role"` // PATIENT | ADMIN
	GoogleID        *string        `gorm:"uniqueIndex;size:255" json:"-"`      // nil for email signups (avoids duplicate '' on unique index)
	SignupFirstName string         `gorm:"size:100" json:"-"`
	SignupLastName  string         `gorm:"size:100" json:"-"`
	SignupPhone     string         `gorm:"size:32" json:"-"`
	SignupReferred  string         `gorm:"column:signup_referred_by;size:16;index" json:"-"` // referral code supplied at signup, if any
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Profile *Profile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Patient *Patient `gorm:"foreignKey:UserID" json:"patient,omitempty"`
}

func (u *User) IsAdmin() bool { return u.Role == "ADMIN" }

// FullName assembles the signup name; empty when none was recorded.
// Callers needing a display name apply their own placeholder.
func (u *User) FullName() string {
	name := u.SignupFirstName
	if u.SignupLastName != "" {
		if name != "" {
			name += " "
		}
		name += u.SignupLastName
	}
	return name
}
