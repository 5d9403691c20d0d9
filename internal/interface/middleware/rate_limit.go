package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pixcredit/pkg/response"
)

// ipFromCtx prefers the address resolved by RealIP.
func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString(CtxRealIPKey); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

// KeyFunc names the bucket a request is counted in.
type KeyFunc func(c *gin.Context) string

// AllowFunc reports whether a request skips limiting altogether.
type AllowFunc func(*gin.Context) bool

// ByIP counts every request from one client address together.
func ByIP(c *gin.Context) string { return "ip:" + ipFromCtx(c) }

// ByRouteAndIP counts per client address and route pattern, so /verify-email
// and /reset-password/:id/:token do not share a budget.
func ByRouteAndIP(c *gin.Context) string {
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	return "route:" + route + ":" + ipFromCtx(c)
}

// ByUser counts per authenticated user; anonymous requests fall back to IP.
func ByUser(c *gin.Context) string {
	if uid := UserID(c); uid != "" {
		return "user:" + uid
	}
	return ByIP(c)
}

// Rule is one fixed-window budget: at most Max requests per Window per key.
type Rule struct {
	Name   string
	Max    int
	Window time.Duration
	Key    KeyFunc
	Bypass AllowFunc
}

// RateLimiter enforces Rules with counters kept in Redis. When Redis cannot
// be reached requests pass through.
type RateLimiter struct {
	rdb    redis.Cmdable
	logger *logrus.Logger
}

func NewRateLimiter(rdb redis.Cmdable, logger *logrus.Logger) *RateLimiter {
	return &RateLimiter{rdb: rdb, logger: logger}
}

// windowScript increments the counter, starts the window on the first hit and
// returns {count, remaining window in ms}.
var windowScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

type windowState struct {
	count   int64
	resetIn time.Duration
}

func (l *RateLimiter) hit(c *gin.Context, key string, window time.Duration) (windowState, error) {
	res, err := windowScript.Run(c.Request.Context(), l.rdb, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return windowState{}, err
	}
	if len(res) != 2 {
		return windowState{}, fmt.Errorf("rate limit script: unexpected reply %v", res)
	}
	st := windowState{count: res[0]}
	if res[1] > 0 {
		st.resetIn = time.Duration(res[1]) * time.Millisecond
	}
	return st, nil
}

// Handler returns middleware enforcing r. Invalid rules disable limiting.
func (l *RateLimiter) Handler(r Rule) gin.HandlerFunc {
	if l == nil || l.rdb == nil || r.Max <= 0 || r.Window <= 0 || r.Key == nil {
		return func(c *gin.Context) { c.Next() }
	}
	limit := strconv.Itoa(r.Max)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (r.Bypass != nil && r.Bypass(c)) {
			c.Next()
			return
		}

		st, err := l.hit(c, "rl:"+r.Name+":"+r.Key(c), r.Window)
		if err != nil {
			if l.logger != nil {
				l.logger.WithError(err).WithField("rule", r.Name).Warn("rate limiter unavailable, allowing request")
			}
			c.Next()
			return
		}

		remaining := int64(r.Max) - st.count
		if remaining < 0 {
			remaining = 0
		}
		resetSec := int((st.resetIn + time.Second - 1) / time.Second)
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if st.count > int64(r.Max) {
			c.Header("Retry-After", strconv.Itoa(resetSec))
			response.Error[any](c, http.StatusTooManyRequests, "Too many requests, try again later", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
