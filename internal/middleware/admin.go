package middleware

import (
	"log"
	"net/http"

	"avatarapp/internal/domain"

	"github.com/gin-gonic/gin"
)

// AdminRequired gates the back-office routes. Runs after AuthRequired; a
// request with no claims (route wired without auth) is denied the same
// way as a patient token. Denials are logged for the audit trail since
// they usually mean a probing client.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != domain.RoleAdmin {
			log.Printf("[authz] admin route denied: path=%s user=%d request_id=%s",
				c.FullPath(), GetUserID(c), GetRequestID(c))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
