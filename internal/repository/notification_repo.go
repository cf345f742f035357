package repository

import (
	"time"

	"avatarapp/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *models.AdminNotification) error {
	return r.db.Create(n).Error
}

// ListSince returns feed entries newer than sinceID, oldest first, so the
// admin UI can poll with its last seen id as cursor.
func (r *NotificationRepository) ListSince(sinceID uint, limit int) ([]models.AdminNotification, error) {
	var list []models.AdminNotification
	err := r.db.Where("id > ?", sinceID).Order("id ASC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *NotificationRepository) MarkRead(id uint) error {
	return r.db.Model(&models.AdminNotification{}).Where("id = ?", id).Update("read_at", time.Now()).Error
}

func (r *NotificationRepository) UnreadCount() (int64, error) {
	var n int64
	err := r.db.Model(&models.AdminNotification{}).Where("read_at IS NULL").Count(&n).Error
	return n, err
}
