package repository

import (
	"avatarapp/internal/models"

	"gorm.io/gorm"
)

type PersonProfileRepository struct {
	db *gorm.DB
}

func NewPersonProfileRepository(db *gorm.DB) *PersonProfileRepository {
	return &PersonProfileRepository{db: db}
}

func (r *PersonProfileRepository) Create(p *models.PersonProfile) error {
	return r.db.Create(p).Error
}

func (r *PersonProfileRepository) GetByID(id uint) (*models.PersonProfile, error) {
	var p models.PersonProfile
	err := r.db.First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByPatientID returns the patient's person profiles, primary first,
// then oldest first. The flow-status fallback chain (explicit id ->
// primary -> first) relies on this ordering.
func (r *PersonProfileRepository) ListByPatientID(patientID uint) ([]models.PersonProfile, error) {
	var list []models.PersonProfile
	err := r.db.Where("patient_id = ?", patientID).
		Order("is_primary DESC, created_at ASC").
		Find(&list).Error
	return list, err
}

// SetPrimary marks one profile primary and clears the flag on the
// patient's others, in a single transaction.
func (r *PersonProfileRepository) SetPrimary(patientID, profileID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PersonProfile{}).
			Where("patient_id = ?", patientID).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		res := tx.Model(&models.PersonProfile{}).
			Where("id = ? AND patient_id = ?", profileID, patientID).
			Update("is_primary", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
