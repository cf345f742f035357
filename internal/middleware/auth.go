package middleware

import (
	"net/http"
	"strings"

	"avatarapp/config"
	"avatarapp/internal/auth"

	"github.com/gin-gonic/gin"
)

const ctxClaimsKey = "auth_claims"

// AuthRequired validates the bearer token and stashes its claims for the
// accessors below. Handlers never touch the raw token.
func AuthRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bearer token required"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(ctxClaimsKey, claims)
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *auth.AccessClaims {
	v, ok := c.Get(ctxClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.AccessClaims)
	return claims
}

// GetUserID returns the authenticated account id, 0 when unauthenticated.
func GetUserID(c *gin.Context) uint {
	if claims := claimsFrom(c); claims != nil {
		return claims.UserID
	}
	return 0
}

func GetRole(c *gin.Context) string {
	if claims := claimsFrom(c); claims != nil {
		return claims.Role
	}
	return ""
}

func GetEmail(c *gin.Context) string {
	if claims := claimsFrom(c); claims != nil {
		return claims.Email
	}
	return ""
}
