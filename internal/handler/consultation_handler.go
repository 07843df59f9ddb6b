package handler

import (
	"errors"
	"net/http"
	"strconv"

	"telecare/internal/middleware"
	"telecare/internal/service"

	"github.com/gin-gonic/gin"
)

type ConsultationHandler struct {
	svc *service.ConsultationService
}

func NewConsultationHandler(svc *service.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{svc: svc}
}

type StartConsultationRequest struct {
	AppointmentID uint `json:"appointment_id" binding:"required"`
}

// Start begins the consultation for an approved appointment. The response
// carries the joined session; the client then drives the signaling socket
// to ring the patient.
func (h *ConsultationHandler) Start(c *gin.Context) {
	doctorID := middleware.GetUserID(c)
	var req StartConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session, err := h.svc.Start(req.AppointmentID, doctorID)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Active returns the caller's in-progress sessions so a refreshed client
// can rediscover an ongoing call.
func (h *ConsultationHandler) Active(c *gin.Context) {
	userID := middleware.GetUserID(c)
	sessions, err := h.svc.ActiveForUser(userID, middleware.GetRole(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"consultations": sessions})
}

// End finalizes the session; either participant may call it.
func (h *ConsultationHandler) End(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	session, err := h.svc.End(uint(id), userID)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

type SaveNotesRequest struct {
	Notes        *string `json:"notes"`
	Prescription *string `json:"prescription"`
}

// SaveNotes updates clinical notes and/or prescription text; doctor only.
func (h *ConsultationHandler) SaveNotes(c *gin.Context) {
	doctorID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	var req SaveNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session, err := h.svc.SaveNotes(uint(id), doctorID, req.Notes, req.Prescription)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// respondLifecycleError maps lifecycle errors to their HTTP shape: 404 for
// missing resources, 403 for non-participants, 409 with the current status
// for state violations.
func respondLifecycleError(c *gin.Context, err error) {
	var stateErr *service.InvalidStateError
	switch {
	case errors.Is(err, service.ErrAppointmentNotFound),
		errors.Is(err, service.ErrConsultationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotYourAppointment),
		errors.Is(err, service.ErrNotParticipant),
		errors.Is(err, service.ErrNotSessionDoctor):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.As(err, &stateErr):
		c.JSON(http.StatusConflict, gin.H{"error": stateErr.Error(), "status": stateErr.Current})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
