package handler

import (
	"errors"
	"net/http"
	"strconv"

	"avatarapp/internal/middleware"
	"avatarapp/internal/models"
	"avatarapp/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProfileHandler struct {
	userRepo    *repository.UserRepository
	profileRepo *repository.ProfileRepository
	patientRepo *repository.PatientRepository
	personRepo  *repository.PersonProfileRepository
}

func NewProfileHandler(
	userRepo *repository.UserRepository,
	profileRepo *repository.ProfileRepository,
	patientRepo *repository.PatientRepository,
	personRepo *repository.PersonProfileRepository,
) *ProfileHandler {
	return &ProfileHandler{userRepo: userRepo, profileRepo: profileRepo, patientRepo: patientRepo, personRepo: personRepo}
}

// Me returns the account with its profile and patient record.
// GET /me/profile
func (h *ProfileHandler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	resp := gin.H{"id": u.ID, "email": u.Email, "role": u.Role}
	if p, err := h.profileRepo.GetByUserID(userID); err == nil {
		resp["profile"] = p
	}
	if pt, err := h.patientRepo.GetByUserID(userID); err == nil {
		resp["patient"] = pt
	}
	c.JSON(http.StatusOK, resp)
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
}

// Update patches the editable profile fields.
// PATCH /me/profile
func (h *ProfileHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.profileRepo.GetByUserID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	if req.FirstName != nil {
		p.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		p.LastName = *req.LastName
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if err := h.profileRepo.Update(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListPersonProfiles returns the caller's person profiles, primary first.
// GET /me/profiles
func (h *ProfileHandler) ListPersonProfiles(c *gin.Context) {
	patient, ok := h.patientForCaller(c)
	if !ok {
		return
	}
	list, err := h.personRepo.ListByPatientID(patient.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list profiles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": list})
}

type CreatePersonProfileRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	IsPrimary bool   `json:"is_primary"`
}

// CreatePersonProfile adds a household member.
// POST /me/profiles
func (h *ProfileHandler) CreatePersonProfile(c *gin.Context) {
	patient, ok := h.patientForCaller(c)
	if !ok {
		return
	}
	var req CreatePersonProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	existing, err := h.personRepo.ListByPatientID(patient.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list profiles"})
		return
	}
	p := &models.PersonProfile{
		PatientID: patient.ID,
		Name:      req.Name,
		IsPrimary: req.IsPrimary || len(existing) == 0, // first profile becomes primary
	}
	if err := h.personRepo.Create(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	if p.IsPrimary && len(existing) > 0 {
		if err := h.personRepo.SetPrimary(patient.ID, p.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not set primary"})
			return
		}
	}
	c.JSON(http.StatusCreated, p)
}

// SetPrimaryPersonProfile marks one profile as primary.
// PUT /me/profiles/:id/primary
func (h *ProfileHandler) SetPrimaryPersonProfile(c *gin.Context) {
	patient, ok := h.patientForCaller(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return
	}
	if err := h.personRepo.SetPrimary(patient.ID, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not set primary"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// patientForCaller resolves (or lazily creates) the caller's patient row.
func (h *ProfileHandler) patientForCaller(c *gin.Context) (*models.Patient, bool) {
	userID := middleware.GetUserID(c)
	patient, err := h.patientRepo.GetOrCreateByUserID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "patient lookup failed"})
		return nil, false
	}
	return patient, true
}
