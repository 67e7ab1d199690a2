package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Runs only when TEST_REDIS_ADDR points at a disposable Redis.
func TestLoginGuard_BlocksAfterLimit(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := Connect(ctx, Config{Addr: addr})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	g := NewLoginGuard(client, 2, time.Minute)
	key := uuid.NewString() + "@example.com"
	defer g.Reset(ctx, key)

	for i := 0; i < 2; i++ {
		ok, err := g.Allow(ctx, key)
		if err != nil || !ok {
			t.Fatalf("attempt %d: expected allowed, got %v %v", i, ok, err)
		}
		if err := g.RecordFailure(ctx, key); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	if ok, _ := g.Allow(ctx, key); ok {
		t.Fatalf("expected key to be blocked after 2 failures")
	}
	if ttl := client.TTL(ctx, g.key(key)).Val(); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("expected window TTL, got %s", ttl)
	}

	if err := g.Reset(ctx, key); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if ok, _ := g.Allow(ctx, key); !ok {
		t.Fatalf("expected key to be allowed after reset")
	}
}

func TestLoginGuard_Defaults(t *testing.T) {
	g := NewLoginGuard(nil, 0, 0)
	if g.maxAttempts != 5 || g.window != 15*time.Minute {
		t.Fatalf("unexpected defaults: %d %s", g.maxAttempts, g.window)
	}
	if g.key("a@b.com") != "login:failures:a@b.com" {
		t.Fatalf("unexpected key: %s", g.key("a@b.com"))
	}
}

// pipelineRecorder captures pipelined commands without reaching a server.
type pipelineRecorder struct {
	cmds []redis.Cmder
}

func (r *pipelineRecorder) DialHook(next redis.DialHook) redis.DialHook { return next }

func (r *pipelineRecorder) ProcessHook(next redis.ProcessHook) redis.ProcessHook { return next }

func (r *pipelineRecorder) ProcessPipelineHook(redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(_ context.Context, cmds []redis.Cmder) error {
		r.cmds = append(r.cmds, cmds...)
		return nil
	}
}

func TestLoginGuard_RecordFailureSetsWindowAtomically(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()
	rec := &pipelineRecorder{}
	client.AddHook(rec)

	g := NewLoginGuard(client, 3, time.Minute)
	if err := g.RecordFailure(context.Background(), "a@b.com"); err != nil {
		t.Fatalf("record: %v", err)
	}

	var names []string
	var expireArgs []any
	for _, c := range rec.cmds {
		switch c.Name() {
		case "multi", "exec":
			continue
		case "expire":
			expireArgs = c.Args()
		}
		names = append(names, c.Name())
	}
	if len(names) != 2 || names[0] != "incr" || names[1] != "expire" {
		t.Fatalf("expected incr then expire in one transaction, got %v", names)
	}
	if expireArgs[1] != "login:failures:a@b.com" || expireArgs[len(expireArgs)-1] != "nx" {
		t.Fatalf("expected EXPIRE <key> <ttl> NX, got %v", expireArgs)
	}
}
