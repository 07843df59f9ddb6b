package handler

import (
	"net/http"
	"strconv"
	"time"

	"telecare/internal/domain"
	"telecare/internal/middleware"
	"telecare/internal/models"
	"telecare/internal/repository"
	"telecare/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AppointmentHandler struct {
	apptRepo *repository.AppointmentRepository
	userRepo *repository.UserRepository
	notifSvc *service.NotificationService
}

func NewAppointmentHandler(apptRepo *repository.AppointmentRepository, userRepo *repository.UserRepository, notifSvc *service.NotificationService) *AppointmentHandler {
	return &AppointmentHandler{apptRepo: apptRepo, userRepo: userRepo, notifSvc: notifSvc}
}

type BookAppointmentRequest struct {
	DoctorID    uint   `json:"doctor_id" binding:"required"`
	ScheduledAt string `json:"scheduled_at" binding:"required"` // RFC 3339
	Reason      string `json:"reason" binding:"max=512"`
}

// Book creates a pending appointment for the calling patient.
func (h *AppointmentHandler) Book(c *gin.Context) {
	patientID := middleware.GetUserID(c)
	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scheduled_at (use RFC 3339)"})
		return
	}
	doctor, err := h.userRepo.GetByID(req.DoctorID)
	if err != nil || !doctor.IsDoctor() {
		c.JSON(http.StatusNotFound, gin.H{"error": "doctor not found"})
		return
	}
	appt := &models.Appointment{
		PatientID:   patientID,
		DoctorID:    req.DoctorID,
		ScheduledAt: scheduledAt,
		Reason:      req.Reason,
		Status:      domain.AppointmentPending,
	}
	if err := h.apptRepo.Create(appt); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	if patient, err := h.userRepo.GetByID(patientID); err == nil {
		_ = h.notifSvc.NotifyAppointmentBooked(doctor.ID, patient.FullName, appt.ID)
	}
	c.JSON(http.StatusCreated, appt)
}

// Approve transitions pending -> approved. Doctor only, own appointments only.
func (h *AppointmentHandler) Approve(c *gin.Context) {
	doctorID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	appt, err := h.apptRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "appointment not found"})
		return
	}
	if appt.DoctorID != doctorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your appointment"})
		return
	}
	if appt.Status != domain.AppointmentPending {
		c.JSON(http.StatusConflict, gin.H{"error": "appointment is " + appt.Status + "; only pending appointments can be approved"})
		return
	}
	appt.Status = domain.AppointmentApproved
	if err := h.apptRepo.Update(appt); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	_ = h.notifSvc.NotifyAppointmentApproved(appt.PatientID, appt.Doctor.FullName, appt.ID)
	c.JSON(http.StatusOK, appt)
}

// Cancel transitions pending/approved -> cancelled. Either participant.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	appt, err := h.apptRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "appointment not found"})
		return
	}
	if userID != appt.DoctorID && userID != appt.PatientID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your appointment"})
		return
	}
	if appt.Status != domain.AppointmentPending && appt.Status != domain.AppointmentApproved {
		c.JSON(http.StatusConflict, gin.H{"error": "appointment is " + appt.Status + " and can no longer be cancelled"})
		return
	}
	appt.Status = domain.AppointmentCancelled
	if err := h.apptRepo.Update(appt); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	other := appt.PatientID
	byName := appt.Doctor.FullName
	if userID == appt.PatientID {
		other = appt.DoctorID
		byName = appt.Patient.FullName
	}
	_ = h.notifSvc.NotifyAppointmentCancelled(other, byName, appt.ID)
	c.JSON(http.StatusOK, appt)
}

// ListMine returns the caller's appointments, doctor or patient side.
func (h *AppointmentHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	var (
		list []models.Appointment
		err  error
	)
	if middleware.GetRole(c) == domain.RoleDoctor {
		list, err = h.apptRepo.ListByDoctorID(userID, limit, offset)
	} else {
		list, err = h.apptRepo.ListByPatientID(userID, limit, offset)
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": list})
}
