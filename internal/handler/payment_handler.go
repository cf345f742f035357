package handler

import (
	"net/http"
	"strings"

	"avatarapp/config"
	"avatarapp/internal/domain"
	"avatarapp/internal/middleware"
	"avatarapp/internal/models"
	"avatarapp/internal/repository"
	"avatarapp/pkg/billing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	billing     *billing.Client
	paymentRepo *repository.PaymentRepository
	userRepo    *repository.UserRepository
	cfg         *config.Config
}

func NewPaymentHandler(b *billing.Client, paymentRepo *repository.PaymentRepository, userRepo *repository.UserRepository, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{billing: b, paymentRepo: paymentRepo, userRepo: userRepo, cfg: cfg}
}

// ListPackages returns the purchasable package catalog.
// GET /packages
func (h *PaymentHandler) ListPackages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"packages": domain.Plans})
}

type CheckoutRequest struct {
	PlanCode string `json:"plan_code" binding:"required"`
}

// Checkout opens a Stripe Checkout session for a package and records a
// pending payment keyed by the session id. Fulfillment happens in the
// webhook, never here.
// POST /payments/checkout
func (h *PaymentHandler) Checkout(c *gin.Context) {
	if h.billing == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payments not configured"})
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	plan := domain.PlanByCode(req.PlanCode)
	if plan == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown package"})
		return
	}
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	base := strings.TrimRight(h.cfg.Server.AppBaseURL, "/")
	idemKey := uuid.NewString()
	sessionID, url, err := h.billing.CreateCheckoutSession(billing.CheckoutInput{
		PlanCode:       plan.Code,
		PlanName:       plan.Name,
		AmountCents:    plan.AmountCents,
		Currency:       plan.Currency,
		CustomerEmail:  u.Email,
		UserID:         u.ID,
		IdempotencyKey: idemKey,
		SuccessURL:     base + "/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:      base + "/payment",
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment provider unavailable"})
		return
	}

	payment := &models.Payment{
		UserID:         u.ID,
		PlanCode:       plan.Code,
		AmountCents:    plan.AmountCents,
		Currency:       strings.ToUpper(plan.Currency),
		Provider:       "stripe",
		ProviderRef:    sessionID,
		Status:         domain.PaymentStatusPending,
		IdempotencyKey: idemKey,
	}
	if err := h.paymentRepo.Create(payment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record payment"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"checkout_url": url, "session_id": sessionID})
}

// History lists the caller's payments, newest first.
// GET /me/payments
func (h *PaymentHandler) History(c *gin.Context) {
	userID := middleware.GetUserID(c)
	list, err := h.paymentRepo.ListByUserID(userID, 50, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list payments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": list})
}
