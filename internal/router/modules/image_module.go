package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pixcredit/internal/application"
	handlers "github.com/oksasatya/pixcredit/internal/interface/http"
	"github.com/oksasatya/pixcredit/internal/interface/middleware"
)

type ImageModule struct {
	Handler *handlers.ImageHandler
	Authn   *application.Authenticator
	Limiter *middleware.RateLimiter
	Logger  *logrus.Logger
}

func NewImageModule(h *handlers.ImageHandler, authn *application.Authenticator, limiter *middleware.RateLimiter, logger *logrus.Logger) *ImageModule {
	return &ImageModule{Handler: h, Authn: authn, Limiter: limiter, Logger: logger}
}

func (m *ImageModule) Register(rg *gin.RouterGroup) {
	img := rg.Group("/image")
	img.Use(middleware.Auth(m.Authn, m.Logger))
	{
		img.POST("/generate-image", m.Limiter.Handler(middleware.Rule{Name: "generate", Max: 20, Window: time.Minute, Key: middleware.ByUser}), m.Handler.Generate)
		img.GET("/history", m.Limiter.Handler(middleware.Rule{Name: "history", Max: 60, Window: time.Minute, Key: middleware.ByUser}), m.Handler.History)
	}
}
