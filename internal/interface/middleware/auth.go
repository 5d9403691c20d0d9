package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pixcredit/internal/application"
	"github.com/oksasatya/pixcredit/pkg/response"
)

// Auth resolves the bearer token through the Authenticator and sets userID in
// the Gin context. Failures always end the request with 401.
func Auth(authn *application.Authenticator, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, err := authn.Authenticate(c.Request.Context(), tokenFromRequest(c))
		if err != nil {
			response.Abort(c, logger, err)
			return
		}
		c.Set(CtxUserIDKey, uid)
		c.Next()
	}
}
