package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"avatarapp/config"
	"avatarapp/internal/auth"
	"avatarapp/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessExpiry:  time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "avatarapp-test",
	}
}

func protectedRouter(cfg *config.JWTConfig, adminOnly bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{AuthRequired(cfg)}
	if adminOnly {
		handlers = append(handlers, AdminRequired())
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "role": GetRole(c)})
	})
	r.GET("/protected", handlers...)
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	cfg := testJWTConfig()
	r := protectedRouter(cfg, false)

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(r, "garbage").Code)
	})

	t.Run("valid token passes claims through", func(t *testing.T) {
		token, err := auth.GenerateAccessToken(cfg, 7, "user@example.com", domain.RolePatient)
		require.NoError(t, err)
		w := get(r, token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":7`)
	})
}

func TestAdminRequired(t *testing.T) {
	cfg := testJWTConfig()
	r := protectedRouter(cfg, true)

	t.Run("patient token denied", func(t *testing.T) {
		token, err := auth.GenerateAccessToken(cfg, 7, "user@example.com", domain.RolePatient)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, get(r, token).Code)
	})

	t.Run("admin token allowed", func(t *testing.T) {
		token, err := auth.GenerateAccessToken(cfg, 1, "admin@example.com", domain.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, get(r, token).Code)
	})
}

func TestRateLimiterWindows(t *testing.T) {
	limiter := NewRateLimiter(2, 50*time.Millisecond)

	allowed, _ := limiter.Allow("10.0.0.1")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("10.0.0.1")
	assert.True(t, allowed)
	allowed, retryAt := limiter.Allow("10.0.0.1")
	assert.False(t, allowed)
	assert.True(t, retryAt.After(time.Now()))

	// Other clients have their own bucket.
	allowed, _ = limiter.Allow("10.0.0.2")
	assert.True(t, allowed)

	// The window resets.
	time.Sleep(60 * time.Millisecond)
	allowed, _ = limiter.Allow("10.0.0.1")
	assert.True(t, allowed)
}

func TestRateLimitResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(RateLimit(NewRateLimiter(1, time.Minute)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "request_id")
}
