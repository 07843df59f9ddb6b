package handler

import (
	"net/http"
	"strconv"

	"telecare/internal/domain"
	"telecare/internal/middleware"
	"telecare/internal/models"
	"telecare/internal/repository"
	"telecare/internal/service"

	"github.com/gin-gonic/gin"
)

type PrescriptionHandler struct {
	rxRepo   *repository.PrescriptionRepository
	apptRepo *repository.AppointmentRepository
	userRepo *repository.UserRepository
	notifSvc *service.NotificationService
}

func NewPrescriptionHandler(rxRepo *repository.PrescriptionRepository, apptRepo *repository.AppointmentRepository, userRepo *repository.UserRepository, notifSvc *service.NotificationService) *PrescriptionHandler {
	return &PrescriptionHandler{rxRepo: rxRepo, apptRepo: apptRepo, userRepo: userRepo, notifSvc: notifSvc}
}

type IssuePrescriptionRequest struct {
	AppointmentID uint   `json:"appointment_id" binding:"required"`
	Medication    string `json:"medication" binding:"required,max=255"`
	Dosage        string `json:"dosage" binding:"max=128"`
	Instructions  string `json:"instructions"`
}

// Issue creates a prescription against one of the doctor's appointments.
func (h *PrescriptionHandler) Issue(c *gin.Context) {
	doctorID := middleware.GetUserID(c)
	var req IssuePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	appt, err := h.apptRepo.GetByID(req.AppointmentID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "appointment not found"})
		return
	}
	if appt.DoctorID != doctorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your appointment"})
		return
	}
	rx := &models.Prescription{
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		DoctorID:      appt.DoctorID,
		Medication:    req.Medication,
		Dosage:        req.Dosage,
		Instructions:  req.Instructions,
	}
	if err := h.rxRepo.Create(rx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	if doctor, err := h.userRepo.GetByID(doctorID); err == nil {
		_ = h.notifSvc.NotifyPrescriptionIssued(appt.PatientID, doctor.FullName, rx.ID)
	}
	c.JSON(http.StatusCreated, rx)
}

// ListMine returns the caller's prescriptions, doctor or patient side.
func (h *PrescriptionHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	var (
		list []models.Prescription
		err  error
	)
	if middleware.GetRole(c) == domain.RoleDoctor {
		list, err = h.rxRepo.ListByDoctorID(userID, limit, offset)
	} else {
		list, err = h.rxRepo.ListByPatientID(userID, limit, offset)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"prescriptions": list})
}
