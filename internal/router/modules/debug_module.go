package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oksasatya/pixcredit/internal/interface/middleware"
)

type DebugModule struct {
	Limiter *middleware.RateLimiter
}

func NewDebugModule(limiter *middleware.RateLimiter) *DebugModule {
	return &DebugModule{Limiter: limiter}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// Public metrics endpoints, rate-limited per IP; scrapers on private networks bypass the limit
	rl := m.Limiter.Handler(middleware.Rule{
		Name:   "debug",
		Max:    120,
		Window: time.Minute,
		Key:    middleware.ByIP,
		Bypass: middleware.AllowPrivateIP(),
	})
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	rg.GET("/debug/metrics", rl, gin.WrapH(promhttp.Handler()))
}
