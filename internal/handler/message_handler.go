package handler

import (
	"net/http"

	"avatarapp/internal/feed"
	"avatarapp/internal/middleware"
	"avatarapp/internal/repository"
	"avatarapp/internal/service"

	"github.com/gin-gonic/gin"
)

// MessageHandler turns patient questions and support tickets into admin
// feed events. Messages are not threaded; the dietitian follows up over
// email or phone.
type MessageHandler struct {
	profileRepo   *repository.ProfileRepository
	notifications *service.NotificationService
}

func NewMessageHandler(profileRepo *repository.ProfileRepository, notifications *service.NotificationService) *MessageHandler {
	return &MessageHandler{profileRepo: profileRepo, notifications: notifications}
}

type AskQuestionRequest struct {
	Question string `json:"question" binding:"required,max=2000"`
}

// AskQuestion files a question for the dietitian.
// POST /me/questions
func (h *MessageHandler) AskQuestion(c *gin.Context) {
	var req AskQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := middleware.GetUserID(c)
	if err := h.notifications.Publish(feed.PatientQuestionEvent{
		UserID:      userID,
		PatientName: h.callerName(userID),
		Question:    req.Question,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send question"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "sent"})
}

type SupportTicketRequest struct {
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}

// OpenSupportTicket files a support request.
// POST /me/support-tickets
func (h *MessageHandler) OpenSupportTicket(c *gin.Context) {
	var req SupportTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := middleware.GetUserID(c)
	if err := h.notifications.Publish(feed.SupportTicketEvent{
		UserID:      userID,
		PatientName: h.callerName(userID),
		Subject:     req.Subject,
		Message:     req.Message,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not open ticket"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "sent"})
}

func (h *MessageHandler) callerName(userID uint) string {
	p, err := h.profileRepo.GetByUserID(userID)
	if err != nil || p.FirstName == "" {
		return "Użytkownik"
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
