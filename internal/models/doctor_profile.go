package models

import (
	"time"

	"gorm.io/gorm"
)

type DoctorProfile struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	UserID             uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Specialization     string         `gorm:"size:128;index" json:"specialization"`
	LicenseNumber      string         `gorm:"size:64" json:"license_number"`
	Bio                string         `gorm:"type:text" json:"bio"`
	YearsOfExperience  int            `json:"years_of_experience"`
	ConsultationFee    int64          `json:"consultation_fee"` // smallest currency unit
	AcceptNewPatients  bool           `gorm:"default:true" json:"accept_new_patients"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}
