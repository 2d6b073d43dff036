package session

import (
	"context"
	"fmt"
	"time"

	xerrors "dabbatrack-service/internal/pkg/errors"

	"github.com/redis/go-redis/v9"
)

const (
	loginAttemptLimit  = 5
	loginAttemptWindow = 15 * time.Minute
)

// RateLimiter throttles login attempts per phone number using a Redis
// counter with a sliding expiry window.
type RateLimiter struct {
	client *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// AllowLogin increments the attempt counter for the phone and fails with
// ErrRateLimited once the window limit is exceeded.
func (r *RateLimiter) AllowLogin(ctx context.Context, phone string) error {
	key := fmt.Sprintf("login_attempts:%s", phone)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to track login attempts: %w", err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, loginAttemptWindow).Err(); err != nil {
			return fmt.Errorf("failed to set attempt window: %w", err)
		}
	}

	if count > loginAttemptLimit {
		return xerrors.ErrRateLimited
	}
	return nil
}

// ResetLogin clears the attempt counter after a successful login.
func (r *RateLimiter) ResetLogin(ctx context.Context, phone string) {
	r.client.Del(ctx, fmt.Sprintf("login_attempts:%s", phone))
}
