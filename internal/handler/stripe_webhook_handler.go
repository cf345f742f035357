package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"avatarapp/internal/domain"
	"avatarapp/internal/models"
	"avatarapp/internal/repository"
	"avatarapp/internal/service"
	"avatarapp/pkg/billing"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

// StripeWebhookHandler fulfills completed Checkout sessions. It is the only
// place a subscription is activated from a payment, so retried events must
// stay harmless: MarkCompleted flips PENDING exactly once and everything
// after it only runs on that first flip.
type StripeWebhookHandler struct {
	billing     *billing.Client
	paymentRepo *repository.PaymentRepository
	patientRepo *repository.PatientRepository
	referralSvc *service.ReferralService
	auditRepo   *repository.AuditLogRepository
}

func NewStripeWebhookHandler(
	b *billing.Client,
	paymentRepo *repository.PaymentRepository,
	patientRepo *repository.PatientRepository,
	referralSvc *service.ReferralService,
	auditRepo *repository.AuditLogRepository,
) *StripeWebhookHandler {
	return &StripeWebhookHandler{
		billing:     b,
		paymentRepo: paymentRepo,
		patientRepo: patientRepo,
		referralSvc: referralSvc,
		auditRepo:   auditRepo,
	}
}

// Handle processes POST /webhooks/stripe.
func (h *StripeWebhookHandler) Handle(c *gin.Context) {
	if h.billing == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payments not configured"})
		return
	}
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable payload"})
		return
	}
	event, err := h.billing.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed session"})
			return
		}
		h.fulfill(sess.ID)
	case "checkout.session.expired":
		h.expire(event)
	default:
		// Unhandled event types are acknowledged so Stripe stops retrying.
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *StripeWebhookHandler) fulfill(sessionID string) {
	now := time.Now()
	payment, completed, err := h.paymentRepo.MarkCompleted(sessionID, now)
	if err != nil {
		log.Printf("[stripe] fulfill %s: %v", sessionID, err)
		return
	}
	if !completed {
		// Already fulfilled or unknown session; retries land here.
		return
	}
	if err := h.patientRepo.SetSubscription(payment.UserID, payment.PlanCode, domain.SubscriptionStatusActive, now); err != nil {
		log.Printf("[stripe] activate subscription user=%d: %v", payment.UserID, err)
	}
	h.referralSvc.ActivateForReferredUser(payment.UserID)

	_ = h.auditRepo.Create(&models.AuditLog{
		UserID:     &payment.UserID,
		Action:     "payment.completed",
		Resource:   "payment",
		ResourceID: sessionID,
		Metadata:   `{"plan_code":"` + payment.PlanCode + `"}`,
	})
}

func (h *StripeWebhookHandler) expire(event stripe.Event) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return
	}
	if err := h.paymentRepo.MarkExpired(sess.ID); err != nil {
		log.Printf("[stripe] expire %s: %v", sess.ID, err)
	}
}
