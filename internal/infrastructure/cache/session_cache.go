package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/pixcredit/pkg/helpers"
)

// SessionEntry is the value stored under session:<token>. Exp is the token's
// own expiry in unix seconds and is checked on every hit.
type SessionEntry struct {
	UserID string `json:"id"`
	Exp    int64  `json:"exp"`
}

// SessionCache maps bearer tokens to the user they belong to.
type SessionCache struct {
	rdb    redis.Cmdable
	maxTTL time.Duration
	now    func() time.Time
}

func NewSessionCache(rdb redis.Cmdable, maxTTL time.Duration) *SessionCache {
	return &SessionCache{rdb: rdb, maxTTL: maxTTL, now: time.Now}
}

// WithClock replaces the time source used for TTL and expiry checks.
func (c *SessionCache) WithClock(now func() time.Time) *SessionCache {
	cp := *c
	cp.now = now
	return &cp
}

func SessionKey(token string) string { return "session:" + token }

// Put caches the token until the earlier of the configured TTL and the token's
// expiry. Tokens that are already expired are not cached.
func (c *SessionCache) Put(ctx context.Context, token, userID string, exp time.Time) error {
	ttl := exp.Sub(c.now())
	if ttl <= 0 {
		return nil
	}
	if c.maxTTL > 0 && c.maxTTL < ttl {
		ttl = c.maxTTL
	}
	return helpers.RedisSetJSON(ctx, c.rdb, SessionKey(token), SessionEntry{UserID: userID, Exp: exp.Unix()}, ttl)
}

// Get returns the cached entry. An entry whose token has expired, or that has
// no recorded expiry, is dropped and reported as a miss.
func (c *SessionCache) Get(ctx context.Context, token string) (SessionEntry, bool, error) {
	var e SessionEntry
	found, err := helpers.RedisGetJSON(ctx, c.rdb, SessionKey(token), &e)
	if err != nil || !found {
		observe("session", false, err)
		return SessionEntry{}, false, err
	}
	if e.UserID == "" || e.Exp == 0 || !c.now().Before(time.Unix(e.Exp, 0)) {
		observe("session", false, nil)
		_ = helpers.RedisDel(ctx, c.rdb, SessionKey(token))
		return SessionEntry{}, false, nil
	}
	observe("session", true, nil)
	return e, true, nil
}
