package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// When Stripe is not configured the server still registers the payment
// routes; they must answer 503, not dereference the missing client.
func TestCheckoutWithoutBillingClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewPaymentHandler(nil, nil, nil, nil)
	r.POST("/payments/checkout", h.Checkout)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/checkout", strings.NewReader(`{"plan_code":"basic"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "payments not configured")
}

func TestStripeWebhookWithoutBillingClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewStripeWebhookHandler(nil, nil, nil, nil, nil)
	r.POST("/webhooks/stripe", h.Handle)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "payments not configured")
}
