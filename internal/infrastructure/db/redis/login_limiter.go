package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter counts failed credential checks per email in Redis.
// Key format: login:fail:<lowercased email>
type LoginLimiter struct {
	client      *redis.Client
	maxFailures int64
	window      time.Duration
}

// NewLoginLimiter creates a LoginLimiter that locks an email after
// maxFailures failures within window.
func NewLoginLimiter(client *redis.Client, maxFailures int64, window time.Duration) *LoginLimiter {
	return &LoginLimiter{client: client, maxFailures: maxFailures, window: window}
}

// IsLocked reports whether email has reached the failure limit.
func (l *LoginLimiter) IsLocked(ctx context.Context, email string) (bool, error) {
	n, err := l.client.Get(ctx, failureKey(email)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("login limiter get: %w", err)
	}
	return n >= l.maxFailures, nil
}

// RecordFailure increments the failure counter for email. The counter and
// its expiry are written in one MULTI/EXEC so a counter never outlives its
// window.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email string) error {
	key := failureKey(email)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("login limiter incr: %w", err)
	}

	// Restart the window when the lock engages so the lockout lasts a full
	// period.
	if incr.Val() == l.maxFailures {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("login limiter expire: %w", err)
		}
	}
	return nil
}

// Reset clears the failure counter after a successful validation.
func (l *LoginLimiter) Reset(ctx context.Context, email string) error {
	if err := l.client.Del(ctx, failureKey(email)).Err(); err != nil {
		return fmt.Errorf("login limiter reset: %w", err)
	}
	return nil
}

func failureKey(email string) string {
	return "login:fail:" + strings.ToLower(strings.TrimSpace(email))
}
