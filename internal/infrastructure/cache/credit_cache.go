package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/pixcredit/internal/domain/entity"
	"github.com/oksasatya/pixcredit/pkg/helpers"
)

// CreditCache is the read-through cache for credits:<userId>. Writers must
// call Invalidate after every balance change.
type CreditCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewCreditCache(rdb redis.Cmdable, ttl time.Duration) *CreditCache {
	return &CreditCache{rdb: rdb, ttl: ttl}
}

func CreditsKey(userID string) string { return "credits:" + userID }

func (c *CreditCache) Get(ctx context.Context, userID string) (entity.CreditSnapshot, bool, error) {
	var s entity.CreditSnapshot
	found, err := helpers.RedisGetJSON(ctx, c.rdb, CreditsKey(userID), &s)
	observe("credits", found, err)
	if err != nil || !found {
		return entity.CreditSnapshot{}, false, err
	}
	return s, true, nil
}

func (c *CreditCache) Put(ctx context.Context, userID string, s entity.CreditSnapshot) error {
	return helpers.RedisSetJSON(ctx, c.rdb, CreditsKey(userID), s, c.ttl)
}

func (c *CreditCache) Invalidate(ctx context.Context, userID string) error {
	return helpers.RedisDel(ctx, c.rdb, CreditsKey(userID))
}
