package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"avatarapp/internal/domain"
	"avatarapp/internal/feed"
	"avatarapp/internal/middleware"
	"avatarapp/internal/models"
	"avatarapp/internal/repository"
	"avatarapp/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type InterviewHandler struct {
	interviewRepo *repository.InterviewRepository
	personRepo    *repository.PersonProfileRepository
	patientRepo   *repository.PatientRepository
	profileRepo   *repository.ProfileRepository
	notifications *service.NotificationService
}

func NewInterviewHandler(
	interviewRepo *repository.InterviewRepository,
	personRepo *repository.PersonProfileRepository,
	patientRepo *repository.PatientRepository,
	profileRepo *repository.ProfileRepository,
	notifications *service.NotificationService,
) *InterviewHandler {
	return &InterviewHandler{
		interviewRepo: interviewRepo,
		personRepo:    personRepo,
		patientRepo:   patientRepo,
		profileRepo:   profileRepo,
		notifications: notifications,
	}
}

// Latest returns the newest interview for a person profile, or 204 when none.
// GET /me/profiles/:id/interview
func (h *InterviewHandler) Latest(c *gin.Context) {
	person, ok := h.ownedProfile(c)
	if !ok {
		return
	}
	iv, err := h.interviewRepo.LatestByProfileID(person.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "interview lookup failed"})
		return
	}
	c.JSON(http.StatusOK, iv)
}

type SaveDraftRequest struct {
	Answers json.RawMessage `json:"answers" binding:"required"`
}

// SaveDraft upserts the draft answers for a person profile.
// PUT /me/profiles/:id/interview/draft
func (h *InterviewHandler) SaveDraft(c *gin.Context) {
	person, ok := h.ownedProfile(c)
	if !ok {
		return
	}
	var req SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	iv, err := h.interviewRepo.UpsertDraft(person.ID, string(req.Answers))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save draft"})
		return
	}
	c.JSON(http.StatusOK, iv)
}

// Submit finalizes the interview: answers are frozen, the status flips to
// sent and the admin feed is notified. A profile with no draft gets one
// created from the submitted answers first.
// POST /me/profiles/:id/interview/submit
func (h *InterviewHandler) Submit(c *gin.Context) {
	person, ok := h.ownedProfile(c)
	if !ok {
		return
	}
	var req SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	iv, err := h.interviewRepo.UpsertDraft(person.ID, string(req.Answers))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save answers"})
		return
	}
	now := time.Now()
	if err := h.interviewRepo.MarkSent(iv.ID, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not submit interview"})
		return
	}
	iv.Status = domain.InterviewStatusSent
	iv.SentAt = &now

	h.notifications.PublishAsync(feed.InterviewSentEvent{
		UserID:          middleware.GetUserID(c),
		PersonProfileID: person.ID,
		PersonName:      person.Name,
	})
	c.JSON(http.StatusOK, iv)
}

// ownedProfile resolves :id and checks it belongs to the caller's patient.
func (h *InterviewHandler) ownedProfile(c *gin.Context) (*models.PersonProfile, bool) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return nil, false
	}
	person, err := h.personRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return nil, false
	}
	patient, err := h.patientRepo.GetByUserID(userID)
	if err != nil || patient.ID != person.PatientID {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return nil, false
	}
	return person, true
}
