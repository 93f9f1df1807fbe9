package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/tourism-auth/internal/domain"
)

// CodeThrottle limits how often a code may be issued to one address.
type CodeThrottle interface {
	// Acquire returns false while a previous issuance is still cooling down.
	Acquire(ctx context.Context, email string, purpose domain.CodePurpose) (bool, error)
	// Release ends the cooldown early, used when the issued code never reached the user.
	Release(ctx context.Context, email string, purpose domain.CodePurpose) error
}

type redisCodeThrottle struct {
	client   *redis.Client
	cooldown time.Duration
}

// NewRedisCodeThrottle stores one expiring key per email and purpose.
func NewRedisCodeThrottle(client *redis.Client, cooldown time.Duration) CodeThrottle {
	return &redisCodeThrottle{client: client, cooldown: cooldown}
}

func (t *redisCodeThrottle) Acquire(ctx context.Context, email string, purpose domain.CodePurpose) (bool, error) {
	if t.client == nil || t.cooldown <= 0 {
		return true, nil
	}
	ok, err := t.client.SetNX(ctx, throttleKey(email, purpose), time.Now().Unix(), t.cooldown).Result()
	if err != nil {
		return false, fmt.Errorf("code throttle: %w", err)
	}
	return ok, nil
}

func (t *redisCodeThrottle) Release(ctx context.Context, email string, purpose domain.CodePurpose) error {
	if t.client == nil || t.cooldown <= 0 {
		return nil
	}
	if err := t.client.Del(ctx, throttleKey(email, purpose)).Err(); err != nil {
		return fmt.Errorf("code throttle release: %w", err)
	}
	return nil
}

func throttleKey(email string, purpose domain.CodePurpose) string {
	return fmt.Sprintf("auth:code:%s:%s", purpose, strings.ToLower(email))
}
