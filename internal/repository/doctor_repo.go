package repository

import (
	"telecare/internal/domain"
	"telecare/internal/models"

	"gorm.io/gorm"
)

type DoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

func (r *DoctorRepository) Create(p *models.DoctorProfile) error {
	return r.db.Create(p).Error
}

func (r *DoctorRepository) GetByUserID(userID uint) (*models.DoctorProfile, error) {
	var p models.DoctorProfile
	err := r.db.Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *DoctorRepository) Update(p *models.DoctorProfile) error {
	return r.db.Save(p).Error
}

// List returns doctor profiles with their user rows, optionally filtered by
// specialization.
func (r *DoctorRepository) List(specialization string, limit, offset int) ([]models.DoctorProfile, error) {
	var list []models.DoctorProfile
	q := r.db.Preload("User").
		Joins("INNER JOIN users u ON u.id = doctor_profiles.user_id AND u.role = ? AND u.deleted_at IS NULL", domain.RoleDoctor)
	if specialization != "" {
		q = q.Where("doctor_profiles.specialization = ?", specialization)
	}
	err := q.Order("doctor_profiles.created_at ASC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// AverageRating returns the doctor's mean feedback rating and the number of
// ratings received.
func (r *DoctorRepository) AverageRating(doctorUserID uint) (float64, int64, error) {
	var row struct {
		Avg   float64
		Count int64
	}
	err := r.db.Model(&models.Feedback{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("doctor_id = ?", doctorUserID).
		Scan(&row).Error
	return row.Avg, row.Count, err
}
