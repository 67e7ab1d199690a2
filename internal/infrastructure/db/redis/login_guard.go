package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginGuard counts failed logins per key inside a fixed window.
// Key format: login:failures:<key>
type LoginGuard struct {
	client      redis.Cmdable
	maxAttempts int
	window      time.Duration
}

// NewLoginGuard creates a guard that blocks a key after maxAttempts
// failures until window has elapsed since the first one.
func NewLoginGuard(client redis.Cmdable, maxAttempts int, window time.Duration) *LoginGuard {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginGuard{client: client, maxAttempts: maxAttempts, window: window}
}

// Allow reports whether another attempt may be made for key.
func (g *LoginGuard) Allow(ctx context.Context, key string) (bool, error) {
	n, err := g.client.Get(ctx, g.key(key)).Int()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("login guard check: %w", err)
	}
	return n < g.maxAttempts, nil
}

// RecordFailure increments the counter. The window starts with the first
// failure; INCR and EXPIRE NX run in one MULTI so the counter always carries
// a TTL.
func (g *LoginGuard) RecordFailure(ctx context.Context, key string) error {
	k := g.key(key)
	_, err := g.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, g.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("login guard record: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (g *LoginGuard) Reset(ctx context.Context, key string) error {
	return g.client.Del(ctx, g.key(key)).Err()
}

func (g *LoginGuard) key(k string) string {
	return "login:failures:" + k
}
