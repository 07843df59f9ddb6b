package repository

import (
	"telecare/internal/models"

	"gorm.io/gorm"
)

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Create(f *models.Feedback) error {
	return r.db.Create(f).Error
}

func (r *FeedbackRepository) GetByAppointmentID(appointmentID uint) (*models.Feedback, error) {
	var f models.Feedback
	err := r.db.Where("appointment_id = ?", appointmentID).First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FeedbackRepository) ListByDoctorID(doctorID uint, limit, offset int) ([]models.Feedback, error) {
	var list []models.Feedback
	err := r.db.Where("doctor_id = ?", doctorID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
