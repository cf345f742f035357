package handler

import (
	"net/http"
	"strconv"

	"avatarapp/internal/middleware"
	"avatarapp/internal/repository"
	"avatarapp/internal/service"

	"github.com/gin-gonic/gin"
)

type ReferralHandler struct {
	svc          *service.ReferralService
	profileRepo  *repository.ProfileRepository
	referralRepo *repository.ReferralRepository
}

func NewReferralHandler(
	svc *service.ReferralService,
	profileRepo *repository.ProfileRepository,
	referralRepo *repository.ReferralRepository,
) *ReferralHandler {
	return &ReferralHandler{svc: svc, profileRepo: profileRepo, referralRepo: referralRepo}
}

type PostSignupRequest struct {
	UserID       uint   `json:"userId" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Phone        string `json:"phone"`
	ReferralCode string `json:"referralCode" binding:"required"`
	ReferredBy   string `json:"referredBy"`
}

// PostSignup runs profile creation and referral attribution for a freshly
// created account. Attribution problems never fail the call: the response
// is success whenever the body parses, so the signup flow is never blocked
// on this side effect.
// POST /functions/post-signup
func (h *ReferralHandler) PostSignup(c *gin.Context) {
	var req PostSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.svc.AttributeSignup(service.AttributionInput{
		UserID:       req.UserID,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		ReferralCode: req.ReferralCode,
		ReferredBy:   req.ReferredBy,
	})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type RepairRequest struct {
	ReferredEmail string `json:"referredEmail" binding:"required,email"`
}

// Repair retroactively links a referred account to the caller. Unlike
// PostSignup, every failure surfaces with a specific message.
// POST /functions/repair-referral
func (h *ReferralHandler) Repair(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req RepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ref, err := h.svc.Repair(userID, req.ReferredEmail)
	if err != nil {
		switch err {
		case service.ErrNoReferralCode, service.ErrNotReferredByCaller, service.ErrReferralExists:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case service.ErrUserNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "repair failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "referral": ref})
}

// MyReferrals returns the caller's own code plus the referrals they made.
// GET /me/referrals
func (h *ReferralHandler) MyReferrals(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	code := ""
	if p, err := h.profileRepo.GetByUserID(userID); err == nil {
		code = p.ReferralCode
	}
	referrals, err := h.referralRepo.ListByReferrerUserID(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list referrals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"referral_code": code,
		"referrals":     referrals,
		"total":         len(referrals),
	})
}
