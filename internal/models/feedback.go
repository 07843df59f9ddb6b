package models

import (
	"time"

	"gorm.io/gorm"
)

// Feedback is a patient rating for one completed appointment.
type Feedback struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	AppointmentID uint           `gorm:"uniqueIndex;not null" json:"appointment_id"`
	PatientID     uint           `gorm:"not null;index" json:"patient_id"`
	DoctorID      uint           `gorm:"not null;index" json:"doctor_id"`
	Rating        int            `gorm:"not null" json:"rating"` // 1..5
	Comment       string         `gorm:"type:text" json:"comment"`
	CreatedAt     time.Time      `json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"-"`
	Patient     User        `gorm:"foreignKey:PatientID" json:"-"`
}
