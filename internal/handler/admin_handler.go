package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"avatarapp/internal/middleware"
	"avatarapp/internal/models"
	"avatarapp/internal/repository"
	"avatarapp/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminRepo        *repository.AdminRepository
	patientRepo      *repository.PatientRepository
	referralRepo     *repository.ReferralRepository
	notificationRepo *repository.NotificationRepository
	auditRepo        *repository.AuditLogRepository
	outreach         *service.OutreachService
}

func NewAdminHandler(
	adminRepo *repository.AdminRepository,
	patientRepo *repository.PatientRepository,
	referralRepo *repository.ReferralRepository,
	notificationRepo *repository.NotificationRepository,
	auditRepo *repository.AuditLogRepository,
	outreach *service.OutreachService,
) *AdminHandler {
	return &AdminHandler{
		adminRepo:        adminRepo,
		patientRepo:      patientRepo,
		referralRepo:     referralRepo,
		notificationRepo: notificationRepo,
		auditRepo:        auditRepo,
		outreach:         outreach,
	}
}

// Dashboard returns the headline counters for the admin landing page.
// GET /admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminRepo.GetDashboardStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats unavailable"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

type patientRow struct {
	ID                 uint       `json:"id"`
	UserID             uint       `json:"user_id"`
	Email              string     `json:"email"`
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	Phone              string     `json:"phone"`
	SubscriptionStatus string     `json:"subscription_status"`
	PlanCode           string     `json:"plan_code"`
	SubscribedAt       *time.Time `json:"subscribed_at"`
	CreatedAt          time.Time  `json:"created_at"`
}

func toPatientRow(p models.Patient) patientRow {
	row := patientRow{
		ID:                 p.ID,
		UserID:             p.UserID,
		Email:              p.User.Email,
		SubscriptionStatus: p.SubscriptionStatus,
		PlanCode:           p.PlanCode,
		SubscribedAt:       p.SubscribedAt,
		CreatedAt:          p.CreatedAt,
	}
	if prof := p.User.Profile; prof != nil {
		row.FirstName = prof.FirstName
		row.LastName = prof.LastName
		row.Phone = prof.Phone
	}
	return row
}

// ListPatients returns a searchable, paginated patient table.
// GET /admin/patients?search=&page=&limit=
func (h *AdminHandler) ListPatients(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	patients, total, err := h.patientRepo.List(c.Query("search"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list patients"})
		return
	}
	rows := make([]patientRow, 0, len(patients))
	for _, p := range patients {
		rows = append(rows, toPatientRow(p))
	}
	c.JSON(http.StatusOK, gin.H{
		"patients": rows,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// ExportPatientsCSV streams the whole patient table as a CSV download.
// GET /admin/patients/export
func (h *AdminHandler) ExportPatientsCSV(c *gin.Context) {
	patients, err := h.patientRepo.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	filename := fmt.Sprintf("patients-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"id", "email", "first_name", "last_name", "phone", "subscription_status", "plan_code", "subscribed_at", "registered_at"})
	for _, p := range patients {
		row := toPatientRow(p)
		subscribedAt := ""
		if row.SubscribedAt != nil {
			subscribedAt = row.SubscribedAt.Format(time.RFC3339)
		}
		_ = w.Write([]string{
			strconv.FormatUint(uint64(row.ID), 10),
			row.Email,
			row.FirstName,
			row.LastName,
			row.Phone,
			row.SubscriptionStatus,
			row.PlanCode,
			subscribedAt,
			row.CreatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()

	adminID := middleware.GetUserID(c)
	_ = h.auditRepo.Create(&models.AuditLog{
		UserID:   &adminID,
		Action:   "patients.export",
		Resource: "patient",
		IP:       c.ClientIP(),
		Metadata: fmt.Sprintf(`{"count":%d}`, len(patients)),
	})
}

type OutreachSMSRequest struct {
	PatientIDs []uint `json:"patient_ids" binding:"required,min=1"`
	Message    string `json:"message" binding:"required,max=1600"`
}

// SendSMS sends a text message to the selected patients.
// POST /admin/outreach/sms
func (h *AdminHandler) SendSMS(c *gin.Context) {
	var req OutreachSMSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sent, err := h.outreach.SendSMS(req.PatientIDs, req.Message)
	if err != nil {
		h.outreachError(c, err)
		return
	}
	h.auditOutreach(c, "outreach.sms", len(req.PatientIDs), sent)
	c.JSON(http.StatusOK, gin.H{"sent": sent, "requested": len(req.PatientIDs)})
}

type OutreachEmailRequest struct {
	PatientIDs []uint `json:"patient_ids" binding:"required,min=1"`
	Subject    string `json:"subject" binding:"required,max=200"`
	HTML       string `json:"html" binding:"required"`
}

// SendEmail sends an email to the selected patients.
// POST /admin/outreach/email
func (h *AdminHandler) SendEmail(c *gin.Context) {
	var req OutreachEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sent, err := h.outreach.SendEmail(req.PatientIDs, req.Subject, req.HTML)
	if err != nil {
		h.outreachError(c, err)
		return
	}
	h.auditOutreach(c, "outreach.email", len(req.PatientIDs), sent)
	c.JSON(http.StatusOK, gin.H{"sent": sent, "requested": len(req.PatientIDs)})
}

func (h *AdminHandler) outreachError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrOutreachDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "messaging provider not configured"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "outreach failed"})
}

func (h *AdminHandler) auditOutreach(c *gin.Context, action string, requested, sent int) {
	adminID := middleware.GetUserID(c)
	_ = h.auditRepo.Create(&models.AuditLog{
		UserID:   &adminID,
		Action:   action,
		Resource: "patient",
		IP:       c.ClientIP(),
		Metadata: fmt.Sprintf(`{"requested":%d,"sent":%d}`, requested, sent),
	})
}

type GrantAccessRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	PlanCode  string `json:"plan_code" binding:"required"`
}

// GrantAccess activates a plan for an email without a Stripe payment,
// creating the account when it does not exist yet.
// POST /admin/grants
func (h *AdminHandler) GrantAccess(c *gin.Context) {
	var req GrantAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.outreach.GrantAccess(req.Email, req.FirstName, req.LastName, req.PlanCode)
	if err != nil {
		if errors.Is(err, service.ErrUnknownPlan) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown package"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "grant failed"})
		return
	}
	adminID := middleware.GetUserID(c)
	_ = h.auditRepo.Create(&models.AuditLog{
		UserID:     &adminID,
		Action:     "access.granted",
		Resource:   "user",
		ResourceID: strconv.FormatUint(uint64(u.ID), 10),
		IP:         c.ClientIP(),
		Metadata:   `{"plan_code":"` + req.PlanCode + `"}`,
	})
	c.JSON(http.StatusOK, gin.H{"user_id": u.ID, "email": u.Email})
}

// ListNotifications pages through the feed with an id cursor.
// GET /admin/notifications?since=&limit=
func (h *AdminHandler) ListNotifications(c *gin.Context) {
	since, _ := strconv.ParseUint(c.DefaultQuery("since", "0"), 10, 32)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}
	list, err := h.notificationRepo.ListSince(uint(since), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list notifications"})
		return
	}
	unread, _ := h.notificationRepo.UnreadCount()
	c.JSON(http.StatusOK, gin.H{"notifications": list, "unread": unread})
}

// MarkNotificationRead stamps read_at on one feed entry.
// PUT /admin/notifications/:id/read
func (h *AdminHandler) MarkNotificationRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}
	if err := h.notificationRepo.MarkRead(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not mark read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListReferrals shows a referrer's tree for support inspection.
// GET /admin/referrals?user_id=
func (h *AdminHandler) ListReferrals(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return
	}
	list, err := h.referralRepo.ListByReferrerUserID(uint(userID), 100, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list referrals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"referrals": list})
}
