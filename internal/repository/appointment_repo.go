package repository

import (
	"telecare/internal/models"

	"gorm.io/gorm"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) Create(a *models.Appointment) error {
	return r.db.Create(a).Error
}

func (r *AppointmentRepository) GetByID(id uint) (*models.Appointment, error) {
	var a models.Appointment
	err := r.db.Preload("Patient").Preload("Doctor").First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepository) Update(a *models.Appointment) error {
	return r.db.Save(a).Error
}

// UpdateStatusIf transitions the appointment status only when it currently
// holds fromStatus. Returns true when a row was changed, so callers can
// treat an already-transitioned appointment as a no-op instead of an error.
func (r *AppointmentRepository) UpdateStatusIf(id uint, fromStatus, toStatus string) (bool, error) {
	res := r.db.Model(&models.Appointment{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Update("status", toStatus)
	return res.RowsAffected > 0, res.Error
}

func (r *AppointmentRepository) ListByPatientID(patientID uint, limit, offset int) ([]models.Appointment, error) {
	var list []models.Appointment
	err := r.db.Where("patient_id = ?", patientID).
		Preload("Doctor").
		Order("scheduled_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *AppointmentRepository) ListByDoctorID(doctorID uint, limit, offset int) ([]models.Appointment, error) {
	var list []models.Appointment
	err := r.db.Where("doctor_id = ?", doctorID).
		Preload("Patient").
		Order("scheduled_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
