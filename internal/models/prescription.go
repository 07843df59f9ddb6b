package models

import (
	"time"

	"gorm.io/gorm"
)

type Prescription struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	AppointmentID uint           `gorm:"not null;index" json:"appointment_id"`
	PatientID     uint           `gorm:"not null;index" json:"patient_id"`
	DoctorID      uint           `gorm:"not null;index" json:"doctor_id"`
	Medication    string         `gorm:"size:255;not null" json:"medication"`
	Dosage        string         `gorm:"size:128" json:"dosage"`
	Instructions  string         `gorm:"type:text" json:"instructions"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"-"`
	Patient     User        `gorm:"foreignKey:PatientID" json:"-"`
	Doctor      User        `gorm:"foreignKey:DoctorID" json:"-"`
}
