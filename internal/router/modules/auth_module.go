package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/pixcredit/internal/interface/http"
	"github.com/oksasatya/pixcredit/internal/interface/middleware"
)

// AuthModule registers the public account endpoints under /user.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Limiter *middleware.RateLimiter
}

func NewAuthModule(h *handlers.AuthHandler, limiter *middleware.RateLimiter) *AuthModule {
	return &AuthModule{Handler: h, Limiter: limiter}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	loginLimiter := m.Limiter.Handler(middleware.Rule{Name: "login", Max: 10, Window: time.Minute, Key: middleware.ByIP})
	codeLimiter := m.Limiter.Handler(middleware.Rule{Name: "code", Max: 30, Window: time.Minute, Key: middleware.ByRouteAndIP})
	// endpoints that send email get the tightest budget
	mailLimiter := m.Limiter.Handler(middleware.Rule{Name: "mail", Max: 5, Window: time.Minute, Key: middleware.ByRouteAndIP})

	user := rg.Group("/user")
	user.POST("/register", mailLimiter, m.Handler.Register)
	user.POST("/verify-email", codeLimiter, m.Handler.VerifyEmail)
	user.POST("/resend-code", mailLimiter, m.Handler.ResendCode)
	user.POST("/login", loginLimiter, m.Handler.Login)
	user.POST("/forgot-password", mailLimiter, m.Handler.ForgotPassword)
	user.POST("/reset-password/:id/:token", codeLimiter, m.Handler.ResetPassword)
}
