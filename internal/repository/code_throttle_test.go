package repository

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/tourism-auth/internal/domain"
)

func TestRedisCodeThrottle_DisabledAlwaysAllows(t *testing.T) {
	ctx := context.Background()

	for _, th := range []CodeThrottle{
		NewRedisCodeThrottle(nil, time.Minute),
		NewRedisCodeThrottle(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), 0),
	} {
		ok, err := th.Acquire(ctx, "a@x.com", domain.CodePurposeVerification)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, th.Release(ctx, "a@x.com", domain.CodePurposeVerification))
	}
}

func TestRedisCodeThrottle_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	th := NewRedisCodeThrottle(client, time.Minute)

	ok, err := th.Acquire(context.Background(), "a@x.com", domain.CodePurposePasswordReset)
	require.Error(t, err)
	assert.False(t, ok)

	assert.Error(t, th.Release(context.Background(), "a@x.com", domain.CodePurposePasswordReset))
}

func TestThrottleKey(t *testing.T) {
	assert.Equal(t, "auth:code:password_reset:a@x.com", throttleKey("A@X.com", domain.CodePurposePasswordReset))
	assert.NotEqual(t,
		throttleKey("a@x.com", domain.CodePurposeVerification),
		throttleKey("a@x.com", domain.CodePurposePasswordReset))
}
