package handler

import (
	"net/http"
	"strconv"

	"telecare/internal/repository"
	"telecare/internal/ws"

	"github.com/gin-gonic/gin"
)

type DoctorHandler struct {
	doctorRepo *repository.DoctorRepository
	userRepo   *repository.UserRepository
	registry   ws.Registry
}

func NewDoctorHandler(doctorRepo *repository.DoctorRepository, userRepo *repository.UserRepository, registry ws.Registry) *DoctorHandler {
	return &DoctorHandler{doctorRepo: doctorRepo, userRepo: userRepo, registry: registry}
}

// List returns the public doctor directory with rating and a live online
// flag read from the presence registry.
func (h *DoctorHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	specialization := c.Query("specialization")
	profiles, err := h.doctorRepo.List(specialization, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	out := make([]gin.H, 0, len(profiles))
	for _, p := range profiles {
		avg, count, _ := h.doctorRepo.AverageRating(p.UserID)
		out = append(out, gin.H{
			"user_id":             p.UserID,
			"full_name":           p.User.FullName,
			"avatar_url":          p.User.AvatarURL,
			"specialization":      p.Specialization,
			"bio":                 p.Bio,
			"years_of_experience": p.YearsOfExperience,
			"consultation_fee":    p.ConsultationFee,
			"accept_new_patients": p.AcceptNewPatients,
			"rating":              avg,
			"rating_count":        count,
			"online":              h.registry.IsOnline(p.UserID),
		})
	}
	c.JSON(http.StatusOK, gin.H{"doctors": out})
}

func (h *DoctorHandler) Get(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	u, err := h.userRepo.GetByID(uint(id))
	if err != nil || !u.IsDoctor() {
		c.JSON(http.StatusNotFound, gin.H{"error": "doctor not found"})
		return
	}
	profile, err := h.doctorRepo.GetByUserID(u.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "doctor not found"})
		return
	}
	avg, count, _ := h.doctorRepo.AverageRating(u.ID)
	c.JSON(http.StatusOK, gin.H{
		"user":           u,
		"doctor_profile": profile,
		"rating":         avg,
		"rating_count":   count,
		"online":         h.registry.IsOnline(u.ID),
	})
}
