package models

import (
	"time"

	"telecare/internal/domain"

	"gorm.io/gorm"
)

type Appointment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PatientID   uint           `gorm:"not null;index" json:"patient_id"`
	DoctorID    uint           `gorm:"not null;index" json:"doctor_id"`
	ScheduledAt time.Time      `gorm:"not null;index" json:"scheduled_at"`
	Reason      string         `gorm:"size:512" json:"reason"`
	Status      string         `gorm:"size:20;not null;index" json:"status"` // pending, approved, cancelled, completed
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Patient User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (a *Appointment) IsApproved() bool { return a.Status == domain.AppointmentApproved }
