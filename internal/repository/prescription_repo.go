package repository

import (
	"telecare/internal/models"

	"gorm.io/gorm"
)

type PrescriptionRepository struct {
	db *gorm.DB
}

func NewPrescriptionRepository(db *gorm.DB) *PrescriptionRepository {
	return &PrescriptionRepository{db: db}
}

func (r *PrescriptionRepository) Create(p *models.Prescription) error {
	return r.db.Create(p).Error
}

func (r *PrescriptionRepository) ListByPatientID(patientID uint, limit, offset int) ([]models.Prescription, error) {
	var list []models.Prescription
	err := r.db.Where("patient_id = ?", patientID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *PrescriptionRepository) ListByDoctorID(doctorID uint, limit, offset int) ([]models.Prescription, error) {
	var list []models.Prescription
	err := r.db.Where("doctor_id = ?", doctorID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
