package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pixcredit/internal/application"
)

const CtxUserIDKey = "userID"

// tokenFromRequest reads the Authorization header ("Bearer <jwt>" or a raw
// jwt) and falls back to the legacy "token" header.
func tokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		return application.ExtractToken(h)
	}
	return application.ExtractToken(c.GetHeader("token"))
}

// UserID returns the authenticated user id set by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}
