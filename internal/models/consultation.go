package models

import (
	"time"

	"telecare/internal/domain"

	"gorm.io/gorm"
)

// Consultation is the record of one call attempt, tied to exactly one
// appointment. It exists independently of whether the peer connection ever
// succeeds; the appointment is consumed the moment the session is created.
type Consultation struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	AppointmentID   uint           `gorm:"not null;index" json:"appointment_id"`
	PatientID       uint           `gorm:"not null;index" json:"patient_id"`
	DoctorID        uint           `gorm:"not null;index" json:"doctor_id"`
	Status          string         `gorm:"size:20;not null;index" json:"status"` // waiting, active, completed, missed
	StartedAt       time.Time      `gorm:"not null" json:"started_at"`
	EndedAt         *time.Time     `json:"ended_at"`
	DurationSeconds int            `json:"duration_seconds"`
	Notes           string         `gorm:"type:text" json:"notes"`
	Prescription    string         `gorm:"type:text" json:"prescription"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
	Patient     User        `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor      User        `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Consultation) TableName() string {
	return "consultations"
}

func (c *Consultation) InProgress() bool {
	return c.Status == domain.ConsultationWaiting || c.Status == domain.ConsultationActive
}
