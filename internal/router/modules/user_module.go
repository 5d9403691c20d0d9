package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pixcredit/internal/application"
	handlers "github.com/oksasatya/pixcredit/internal/interface/http"
	"github.com/oksasatya/pixcredit/internal/interface/middleware"
)

// UserModule wires credit and payment routes.
// Public: GET /api/user/plans, POST /api/user/verify-razor
// Protected: GET /api/user/credits, GET /api/user/transactions, POST /api/user/pay-razor
type UserModule struct {
	User    *handlers.UserHandler
	Payment *handlers.PaymentHandler
	Authn   *application.Authenticator
	Limiter *middleware.RateLimiter
	Logger  *logrus.Logger
}

func NewUserModule(u *handlers.UserHandler, p *handlers.PaymentHandler, authn *application.Authenticator,
	limiter *middleware.RateLimiter, logger *logrus.Logger) *UserModule {
	return &UserModule{User: u, Payment: p, Authn: authn, Limiter: limiter, Logger: logger}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	user := rg.Group("/user")
	user.GET("/plans", m.Payment.Plans)
	// Gateway callback; settlement is idempotent so only a soft limit applies
	user.POST("/verify-razor", m.Limiter.Handler(middleware.Rule{Name: "settle", Max: 60, Window: time.Minute, Key: middleware.ByIP}), m.Payment.VerifyRazor)

	auth := user.Group("/")
	auth.Use(middleware.Auth(m.Authn, m.Logger))
	auth.Use(m.Limiter.Handler(middleware.Rule{Name: "account", Max: 120, Window: time.Minute, Key: middleware.ByUser}))
	{
		auth.GET("/credits", m.User.Credits)
		auth.GET("/transactions", m.User.Transactions)
		auth.POST("/pay-razor", m.Payment.PayRazor)
	}
}
