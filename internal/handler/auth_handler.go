package handler

import (
	"log"
	"net/http"

	"telecare/internal/domain"
	"telecare/internal/models"
	"telecare/internal/repository"
	"telecare/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc        *service.AuthService
	doctorRepo *repository.DoctorRepository
}

func NewAuthHandler(svc *service.AuthService, doctorRepo *repository.DoctorRepository) *AuthHandler {
	return &AuthHandler{svc: svc, doctorRepo: doctorRepo}
}

type RegisterRequest struct {
	Email          string `json:"email" binding:"required,email"`
	FullName       string `json:"full_name" binding:"required,min=2,max=128"`
	Password       string `json:"password" binding:"required,min=8"`
	Role           string `json:"role" binding:"required,oneof=DOCTOR PATIENT"`
	Specialization string `json:"specialization"` // doctors only
	LicenseNumber  string `json:"license_number"` // doctors only
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, access, refresh, err := h.svc.Register(req.Email, req.FullName, req.Password, req.Role)
	if err != nil {
		switch err {
		case service.ErrEmailExists:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			log.Printf("[auth] register failed: role=%s email=%s err=%v", req.Role, req.Email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		}
		return
	}

	// Auto-create DoctorProfile for DOCTOR signups; stays invisible in the
	// directory until onboarding fills it in.
	if u.Role == domain.RoleDoctor && h.doctorRepo != nil {
		_ = h.doctorRepo.Create(&models.DoctorProfile{
			UserID:            u.ID,
			Specialization:    req.Specialization,
			LicenseNumber:     req.LicenseNumber,
			AcceptNewPatients: true,
		})
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":          u,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, access, refresh, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		if err == service.ErrInvalidCreds {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":          u,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, access, refresh, err := h.svc.Refresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":          u,
		"access_token":  access,
		"refresh_token": refresh,
	})
}
