package auth

import (
	"context"
	"time"

	"carebook/internal/shared/config"
	"carebook/internal/shared/constants"

	"github.com/redis/go-redis/v9"
)

// Lockout tracks failed login attempts in Redis and locks an account
// once the configured threshold is crossed inside the window.
// A nil Redis client disables the policy entirely (tests, degraded mode).
type Lockout struct {
	client *redis.Client
	cfg    config.LockoutConfig
}

func NewLockout(client *redis.Client, cfg config.LockoutConfig) *Lockout {
	return &Lockout{client: client, cfg: cfg}
}

// IsLocked reports whether the account is currently locked.
func (l *Lockout) IsLocked(ctx context.Context, email string) (bool, error) {
	if l == nil || l.client == nil {
		return false, nil
	}
	n, err := l.client.Exists(ctx, constants.AccountLockKey(email)).Result()
	if err != nil {
		// Redis being down must not lock everyone out.
		return false, err
	}
	return n > 0, nil
}

// RecordFailure bumps the failure counter and locks the account when the
// threshold is reached. Returns whether the account is now locked and the
// attempt count.
func (l *Lockout) RecordFailure(ctx context.Context, email string) (bool, int64, error) {
	if l == nil || l.client == nil {
		return false, 0, nil
	}

	key := constants.LoginFailureKey(email)
	attempts, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	if attempts == 1 {
		// Window starts at the first failure.
		l.client.Expire(ctx, key, l.cfg.Window)
	}

	if attempts < int64(l.cfg.MaxAttempts) {
		return false, attempts, nil
	}

	if err := l.client.Set(ctx, constants.AccountLockKey(email), time.Now().Unix(), l.cfg.Duration).Err(); err != nil {
		return false, attempts, err
	}
	l.client.Del(ctx, key)
	return true, attempts, nil
}

// Reset clears the failure counter after a successful login.
func (l *Lockout) Reset(ctx context.Context, email string) {
	if l == nil || l.client == nil {
		return
	}
	l.client.Del(ctx, constants.LoginFailureKey(email))
}
