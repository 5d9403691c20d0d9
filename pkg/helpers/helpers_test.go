package helpers

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenOTPCode_SixDigits(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenOTPCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestPasswordHasher_RoundTrip(t *testing.T) {
	h := NewPasswordHasher(4)
	hash, err := h.Hash("correct horse")
	require.NoError(t, err)

	assert.True(t, h.Verify("correct horse", hash))
	assert.False(t, h.Verify("wrong horse", hash))
}

func TestNewPasswordHasher_ClampsInvalidCost(t *testing.T) {
	assert.Equal(t, 10, NewPasswordHasher(0).Cost)
	assert.Equal(t, 12, NewPasswordHasher(12).Cost)
}

func TestRedisJSONHelpers(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()

	type payload struct {
		ID string `json:"id"`
	}

	var got payload
	found, err := RedisGetJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, RedisSetJSON(ctx, rdb, "k", payload{ID: "u1"}, time.Minute))
	found, err = RedisGetJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, time.Minute, mr.TTL("k"))

	require.NoError(t, RedisDel(ctx, rdb, "k"))
	assert.False(t, mr.Exists("k"))
}
