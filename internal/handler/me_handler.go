package handler

import (
	"net/http"
	"strconv"
	"strings"

	"telecare/internal/middleware"
	"telecare/internal/repository"
	"telecare/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MeHandler struct {
	userRepo   *repository.UserRepository
	doctorRepo *repository.DoctorRepository
	cloud      cloudinary.Client
}

func NewMeHandler(userRepo *repository.UserRepository, doctorRepo *repository.DoctorRepository, cloud cloudinary.Client) *MeHandler {
	return &MeHandler{userRepo: userRepo, doctorRepo: doctorRepo, cloud: cloud}
}

func (h *MeHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	resp := gin.H{"user": u}
	if u.IsDoctor() {
		if profile, err := h.doctorRepo.GetByUserID(userID); err == nil {
			resp["doctor_profile"] = profile
		}
	}
	c.JSON(http.StatusOK, resp)
}

type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Gender   *string `json:"gender"`

	// Doctor profile fields, ignored for patients.
	Specialization    *string `json:"specialization"`
	LicenseNumber     *string `json:"license_number"`
	Bio               *string `json:"bio"`
	YearsOfExperience *int    `json:"years_of_experience"`
	ConsultationFee   *int64  `json:"consultation_fee"`
	AcceptNewPatients *bool   `json:"accept_new_patients"`
}

func (h *MeHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if req.FullName != nil {
		u.FullName = *req.FullName
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.Gender != nil {
		u.Gender = *req.Gender
	}
	if err := h.userRepo.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	resp := gin.H{"user": u}
	if u.IsDoctor() {
		profile, err := h.doctorRepo.GetByUserID(userID)
		if err == nil {
			if req.Specialization != nil {
				profile.Specialization = *req.Specialization
			}
			if req.LicenseNumber != nil {
				profile.LicenseNumber = *req.LicenseNumber
			}
			if req.Bio != nil {
				profile.Bio = *req.Bio
			}
			if req.YearsOfExperience != nil {
				profile.YearsOfExperience = *req.YearsOfExperience
			}
			if req.ConsultationFee != nil {
				profile.ConsultationFee = *req.ConsultationFee
			}
			if req.AcceptNewPatients != nil {
				profile.AcceptNewPatients = *req.AcceptNewPatients
			}
			if err := h.doctorRepo.Update(profile); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
				return
			}
			resp["doctor_profile"] = profile
		}
	}
	c.JSON(http.StatusOK, resp)
}

// UploadAvatar stores a profile picture through Cloudinary and saves the URL.
func (h *MeHandler) UploadAvatar(c *gin.Context) {
	if h.cloud == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads not configured"})
		return
	}
	userID := middleware.GetUserID(c)
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	folder := "telecare/avatars/" + strconv.FormatUint(uint64(userID), 10)
	publicID := "img_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	url, _, err := h.cloud.UploadImage(c.Request.Context(), f, folder, publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	u.AvatarURL = url
	if err := h.userRepo.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}

func (h *MeHandler) RegisterFCMToken(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.userRepo.UpdateFCMToken(userID, req.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
