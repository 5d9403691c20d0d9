package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const CtxRealIPKey = "real_ip"

// RealIP stores the client IP under CtxRealIPKey. Proxy headers are checked
// in order CF-Connecting-IP, X-Real-IP, then the left-most X-Forwarded-For
// entry; the first value that parses as an IP wins, else c.ClientIP().
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := firstIP(
			c.GetHeader("CF-Connecting-IP"),
			c.GetHeader("X-Real-IP"),
			strings.SplitN(c.GetHeader("X-Forwarded-For"), ",", 2)[0],
		)
		if ip == "" {
			ip = c.ClientIP()
		}
		c.Set(CtxRealIPKey, ip)
		c.Next()
	}
}

func firstIP(candidates ...string) string {
	for _, v := range candidates {
		if ip := net.ParseIP(strings.TrimSpace(v)); ip != nil {
			return ip.String()
		}
	}
	return ""
}

// AllowPrivateIP bypasses rate limits for loopback and RFC 1918 clients
// (internal scrapers, health checks).
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		ip := net.ParseIP(ipFromCtx(c))
		return ip != nil && (ip.IsLoopback() || ip.IsPrivate())
	}
}
