package handler

import (
	"net/http"
	"strconv"

	"telecare/internal/domain"
	"telecare/internal/middleware"
	"telecare/internal/models"
	"telecare/internal/repository"

	"github.com/gin-gonic/gin"
)

type FeedbackHandler struct {
	feedbackRepo *repository.FeedbackRepository
	apptRepo     *repository.AppointmentRepository
}

func NewFeedbackHandler(feedbackRepo *repository.FeedbackRepository, apptRepo *repository.AppointmentRepository) *FeedbackHandler {
	return &FeedbackHandler{feedbackRepo: feedbackRepo, apptRepo: apptRepo}
}

type CreateFeedbackRequest struct {
	AppointmentID uint   `json:"appointment_id" binding:"required"`
	Rating        int    `json:"rating" binding:"required,min=1,max=5"`
	Comment       string `json:"comment"`
}

// Create records the patient's rating for a completed appointment. One
// rating per appointment, enforced by a unique index.
func (h *FeedbackHandler) Create(c *gin.Context) {
	patientID := middleware.GetUserID(c)
	var req CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	appt, err := h.apptRepo.GetByID(req.AppointmentID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "appointment not found"})
		return
	}
	if appt.PatientID != patientID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your appointment"})
		return
	}
	if appt.Status != domain.AppointmentCompleted {
		c.JSON(http.StatusConflict, gin.H{"error": "appointment is " + appt.Status + "; only completed appointments can be rated"})
		return
	}
	if existing, _ := h.feedbackRepo.GetByAppointmentID(appt.ID); existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "appointment already rated"})
		return
	}
	fb := &models.Feedback{
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		DoctorID:      appt.DoctorID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	}
	if err := h.feedbackRepo.Create(fb); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, fb)
}

// ListForDoctor returns recent feedback for a doctor's public profile.
func (h *FeedbackHandler) ListForDoctor(c *gin.Context) {
	doctorID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.feedbackRepo.ListByDoctorID(uint(doctorID), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": list})
}
