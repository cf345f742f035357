package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/xid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with a short unique id, echoed in the
// response header and available to handlers for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = xid.New().String()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the request id set by RequestID.
func GetRequestID(c *gin.Context) string {
	v, _ := c.Get("request_id")
	s, _ := v.(string)
	return s
}
