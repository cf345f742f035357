package models

import (
	"time"

	"gorm.io/gorm"
)

// AdminNotification is one row of the admin event feed. Kind is the event
// tag; Data is the JSON payload of the matching feed.Event variant.
type AdminNotification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Kind      string         `gorm:"size:50;not null;index" json:"kind"`
	Title     string         `gorm:"size:255" json:"title"`
	Body      string         `gorm:"type:text" json:"body"`
	Data      string         `gorm:"type:text" json:"data"`
	ReadAt    *time.Time     `json:"read_at"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (AdminNotification) TableName() string { return "admin_notifications" }
