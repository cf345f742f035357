package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"

	"avatarapp/config"
	"avatarapp/internal/feed"
	"avatarapp/internal/models"
	"avatarapp/internal/repository"
	"avatarapp/internal/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type GoogleOAuthHandler struct {
	cfg         *config.Config
	authSvc     *service.AuthService
	referralSvc *service.ReferralService
	notifSvc    *service.NotificationService
	auditRepo   *repository.AuditLogRepository
}

func NewGoogleOAuthHandler(
	cfg *config.Config,
	authSvc *service.AuthService,
	referralSvc *service.ReferralService,
	notifSvc *service.NotificationService,
	auditRepo *repository.AuditLogRepository,
) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		cfg:         cfg,
		authSvc:     authSvc,
		referralSvc: referralSvc,
		notifSvc:    notifSvc,
		auditRepo:   auditRepo,
	}
}

func (h *GoogleOAuthHandler) OAuth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.cfg.OAuth.GoogleClientID,
		ClientSecret: h.cfg.OAuth.GoogleClientSecret,
		RedirectURL:  h.cfg.OAuth.GoogleRedirectURL,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
		Endpoint:     google.Endpoint,
	}
}

// Redirect sends the browser to the Google consent screen.
func (h *GoogleOAuthHandler) Redirect(c *gin.Context) {
	if h.cfg.OAuth.GoogleClientID == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google OAuth not configured"})
		return
	}
	url := h.OAuth2Config().AuthCodeURL("state", oauth2.AccessTypeOffline)
	c.Redirect(http.StatusFound, url)
}

type googleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Callback exchanges the code for tokens, fetches user info and signs the
// caller in, creating the account on first contact.
func (h *GoogleOAuthHandler) Callback(c *gin.Context) {
	if h.cfg.OAuth.GoogleClientID == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google OAuth not configured"})
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}
	ctx := c.Request.Context()
	conf := h.OAuth2Config()
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exchange failed"})
		return
	}
	client := conf.Client(ctx, tok)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil || resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user info"})
		return
	}
	defer resp.Body.Close()
	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user info"})
		return
	}
	h.finishLogin(c, info.ID, info.Email, info.Name, "")
}

// tokeninfoResponse is the payload of https://oauth2.googleapis.com/tokeninfo
type tokeninfoResponse struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Token accepts an ID token from a mobile Google sign-in and returns a JWT
// pair. referred_by is only honored for brand-new accounts.
func (h *GoogleOAuthHandler) Token(c *gin.Context) {
	if h.cfg.OAuth.GoogleClientID == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google OAuth not configured"})
		return
	}
	var req struct {
		IDToken    string `json:"id_token" binding:"required"`
		ReferredBy string `json:"referred_by"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_token required"})
		return
	}
	resp, err := http.Get("https://oauth2.googleapis.com/tokeninfo?id_token=" + url.QueryEscape(req.IDToken))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token verification failed"})
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id_token", "detail": string(body)})
		return
	}
	var info tokeninfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid token response"})
		return
	}
	if info.Sub == "" || info.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token payload"})
		return
	}
	h.finishLogin(c, info.Sub, info.Email, info.Name, req.ReferredBy)
}

func (h *GoogleOAuthHandler) finishLogin(c *gin.Context, googleID, email, name, referredBy string) {
	u, access, refresh, isNew, err := h.authSvc.LoginWithGoogle(googleID, email, name)
	if err != nil {
		log.Printf("[auth] google login failed: email=%s err=%v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	if isNew {
		code, err := service.NewReferralCode()
		if err != nil {
			log.Printf("[auth] referral code generation failed for user %d: %v", u.ID, err)
		}
		h.referralSvc.AttributeSignup(service.AttributionInput{
			UserID:       u.ID,
			Email:        u.Email,
			FirstName:    u.SignupFirstName,
			LastName:     u.SignupLastName,
			ReferralCode: code,
			ReferredBy:   referredBy,
		})
		h.notifSvc.PublishAsync(feed.NewRegistrationEvent{
			UserID: u.ID,
			Email:  u.Email,
			Name:   u.FullName(),
		})
	}
	_ = h.auditRepo.Create(&models.AuditLog{
		UserID:    &u.ID,
		Action:    "google_oauth_login",
		Resource:  "auth",
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	c.JSON(http.StatusOK, gin.H{"user": u, "access_token": access, "refresh_token": refresh})
}
