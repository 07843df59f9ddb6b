package repository

import (
	"errors"
	"sync"
	"time"

	"telecare/internal/domain"
	"telecare/internal/models"

	"gorm.io/gorm"
)

type ConsultationRepository struct {
	db *gorm.DB
	// mu serializes CreateIfAbsent so two concurrent start requests for the
	// same appointment cannot both pass the existence check. MySQL has no
	// partial unique index over in-progress statuses, so the uniqueness
	// invariant is enforced here.
	mu sync.Mutex
}

func NewConsultationRepository(db *gorm.DB) *ConsultationRepository {
	return &ConsultationRepository{db: db}
}

// CreateIfAbsent returns the in-progress consultation for the appointment,
// creating a fresh waiting session when none exists. The bool reports
// whether a new session was created.
func (r *ConsultationRepository) CreateIfAbsent(appointmentID, patientID, doctorID uint) (*models.Consultation, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var session *models.Consultation
	created := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Consultation
		err := tx.Where("appointment_id = ? AND status IN ?", appointmentID, domain.InProgressStatuses).
			First(&existing).Error
		if err == nil {
			session = &existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		fresh := models.Consultation{
			AppointmentID: appointmentID,
			PatientID:     patientID,
			DoctorID:      doctorID,
			Status:        domain.ConsultationWaiting,
			StartedAt:     time.Now(),
		}
		if err := tx.Create(&fresh).Error; err != nil {
			return err
		}
		session = &fresh
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return session, created, nil
}

func (r *ConsultationRepository) FindInProgressByAppointment(appointmentID uint) (*models.Consultation, error) {
	var c models.Consultation
	err := r.db.Where("appointment_id = ? AND status IN ?", appointmentID, domain.InProgressStatuses).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ConsultationRepository) FindByID(id uint) (*models.Consultation, error) {
	var c models.Consultation
	err := r.db.Preload("Patient").Preload("Doctor").Preload("Appointment").First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListInProgressForUser returns waiting/active sessions where the user is
// doctor or patient depending on role, most recent first.
func (r *ConsultationRepository) ListInProgressForUser(userID uint, role string) ([]models.Consultation, error) {
	column := "patient_id"
	if role == domain.RoleDoctor {
		column = "doctor_id"
	}
	var list []models.Consultation
	err := r.db.Where(column+" = ? AND status IN ?", userID, domain.InProgressStatuses).
		Preload("Patient").Preload("Doctor").Preload("Appointment").
		Order("started_at DESC").Find(&list).Error
	return list, err
}

// Update applies a partial update to the consultation row.
func (r *ConsultationRepository) Update(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.Consultation{}).Where("id = ?", id).Updates(fields).Error
}

// MarkMissedBefore flips waiting sessions started before the cutoff to
// missed. Returns the number of sessions affected. Only called when the
// ring-timeout sweeper is enabled.
func (r *ConsultationRepository) MarkMissedBefore(cutoff time.Time) (int64, error) {
	res := r.db.Model(&models.Consultation{}).
		Where("status = ? AND started_at < ?", domain.ConsultationWaiting, cutoff).
		Updates(map[string]interface{}{
			"status":   domain.ConsultationMissed,
			"ended_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}
