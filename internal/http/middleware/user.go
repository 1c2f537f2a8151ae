package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const UserIDKey = "user_id"

// UserScope extracts the authenticated user id set by the gateway.
// Session handling itself lives outside this service; a save-sensitive
// request without an identity is rejected up front rather than written
// against the wrong owner.
func UserScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetHeader("X-User-Id")
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "SESSION_EXPIRED",
					"message": "Missing user identity, re-authenticate",
				},
			})
			return
		}
		c.Set(UserIDKey, uid)
		c.Next()
	}
}

// UserID returns the scoped user id for the request.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
