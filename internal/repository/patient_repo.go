package repository

import (
	"time"

	"avatarapp/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) GetByUserID(userID uint) (*models.Patient, error) {
	var p models.Patient
	err := r.db.Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetOrCreateByUserID returns the patient row for the user, creating an
// empty one when missing.
func (r *PatientRepository) GetOrCreateByUserID(userID uint) (*models.Patient, error) {
	p := models.Patient{UserID: userID}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&p).Error
	if err != nil {
		return nil, err
	}
	return r.GetByUserID(userID)
}

// SetSubscription records an activated plan for the user's patient row,
// creating the row when needed.
func (r *PatientRepository) SetSubscription(userID uint, planCode, status string, at time.Time) error {
	p, err := r.GetOrCreateByUserID(userID)
	if err != nil {
		return err
	}
	return r.db.Model(p).Updates(map[string]interface{}{
		"plan_code":           planCode,
		"subscription_status": status,
		"subscribed_at":       at,
	}).Error
}

// List returns patients with user + profile preloaded, filtered by a
// search term over email and profile name, newest first.
func (r *PatientRepository) List(search string, page, limit int) ([]models.Patient, int64, error) {
	q := r.db.Model(&models.Patient{}).
		Joins("JOIN users ON users.id = patients.user_id").
		Joins("LEFT JOIN profiles ON profiles.user_id = patients.user_id")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("users.email LIKE ? OR profiles.first_name LIKE ? OR profiles.last_name LIKE ?", like, like, like)
	}
	var total int64
	q.Count(&total)
	var patients []models.Patient
	err := q.Preload("User").Preload("User.Profile").
		Order("patients.created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&patients).Error
	return patients, total, err
}

// ListByIDs fetches the given patients with user + profile preloaded, for
// outreach sends.
func (r *PatientRepository) ListByIDs(ids []uint) ([]models.Patient, error) {
	var patients []models.Patient
	err := r.db.Preload("User").Preload("User.Profile").Where("id IN ?", ids).Find(&patients).Error
	return patients, err
}

// ListAll streams everything for the CSV export, oldest first so the file
// is stable between exports.
func (r *PatientRepository) ListAll() ([]models.Patient, error) {
	var patients []models.Patient
	err := r.db.Preload("User").Preload("User.Profile").Order("patients.created_at ASC").Find(&patients).Error
	return patients, err
}
