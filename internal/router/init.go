package router

import (
	"github.com/oksasatya/pixcredit/internal/container"
	handlers "github.com/oksasatya/pixcredit/internal/interface/http"
	"github.com/oksasatya/pixcredit/internal/interface/middleware"
	"github.com/oksasatya/pixcredit/internal/router/modules"
)

// InitModules builds the HTTP handlers from c and registers every module.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	limiter := middleware.NewRateLimiter(c.Clients.Redis, c.Logger)

	authH := handlers.NewAuthHandler(c.Auth, c.Logger)
	userH := handlers.NewUserHandler(c.Balance, c.Logger)
	payH := handlers.NewPaymentHandler(c.Settlement, c.Logger)
	imgH := handlers.NewImageHandler(c.Imaging, c.Logger)

	r.Add(modules.NewAuthModule(authH, limiter))
	r.Add(modules.NewUserModule(userH, payH, c.Authenticator, limiter, c.Logger))
	r.Add(modules.NewImageModule(imgH, c.Authenticator, limiter, c.Logger))
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(limiter))
	}
}
