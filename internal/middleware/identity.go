package middleware

import (
	"github.com/gin-gonic/gin"
)

// actingUserHeader carries the identity of the caller. Authentication is
// handled upstream (gateway); the backend trusts this header.
const actingUserHeader = "X-User-ID"

// ActingUser extracts the acting user's ID from the request header and
// stores it in the Gin context for handlers that need an audit identity.
func ActingUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader(actingUserHeader); userID != "" {
			c.Set(string(userIDKey), userID)
		}
		c.Next()
	}
}
