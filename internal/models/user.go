package models

import (
	"time"

	"telecare/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	FullName        string         `gorm:"size:128;not null" json:"full_name"`
	Email           string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash    string         `gorm:"size:255" json:"-"`
	Role            string         `gorm:"size:20;not null;index" json:"role"` // DOCTOR | PATIENT
	Phone           string         `gorm:"size:32" json:"phone"`
	DateOfBirth     *time.Time     `json:"date_of_birth"`
	Gender          string         `gorm:"size:16" json:"gender"`
	GoogleID        *string        `gorm:"uniqueIndex;size:255" json:"-"` // nil for email signups (avoids duplicate '' on unique index)
	AvatarURL       string         `gorm:"size:512" json:"avatar_url"`
	FCMToken        string         `gorm:"size:512" json:"-"`
	EmailVerifiedAt *time.Time     `json:"email_verified_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	DoctorProfile *DoctorProfile `gorm:"foreignKey:UserID" json:"doctor_profile,omitempty"`
}

func (u *User) IsDoctor() bool  { return u.Role == domain.RoleDoctor }
func (u *User) IsPatient() bool { return u.Role == domain.RolePatient }
