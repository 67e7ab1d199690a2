// Package redis holds the Redis-backed pieces of the back office: the client
// constructor and the login attempt guard.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config is the connection setup. A zero PingTimeout means five seconds and
// a zero DialTimeout follows PingTimeout.
type Config struct {
	Addr     string
	Password string
	DB       int

	DialTimeout time.Duration
	PingTimeout time.Duration
}

const pingTimeout = 5 * time.Second

// Connect opens a client for a single Redis node and fails fast when the
// server does not answer PING.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	wait := cfg.PingTimeout
	if wait <= 0 {
		wait = pingTimeout
	}
	dial := cfg.DialTimeout
	if dial <= 0 {
		dial = wait
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dial,
	})

	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}
