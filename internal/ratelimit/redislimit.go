package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// counter is the subset of redis.Cmdable the limiter needs.
type counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// Limiter is a fixed-window request counter stored in Redis.
type Limiter struct {
	rdb    counter
	scope  string
	limit  int
	window time.Duration
	now    func() time.Time
}

// New returns a limiter allowing limit hits per window for each client.
// A limit <= 0 disables limiting.
func New(rdb redis.Cmdable, scope string, limit int, window time.Duration) *Limiter {
	return newLimiter(rdb, scope, limit, window)
}

func newLimiter(rdb counter, scope string, limit int, window time.Duration) *Limiter {
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{rdb: rdb, scope: scope, limit: limit, window: window, now: time.Now}
}

func (l *Limiter) Enabled() bool {
	return l != nil && l.rdb != nil && l.limit > 0
}

func (l *Limiter) key(client string, at time.Time) string {
	client = strings.ToLower(strings.TrimSpace(client))
	if client == "" {
		client = "unknown"
	}
	return fmt.Sprintf("ratelimit:%s:%s:%d", l.scope, client, at.UnixNano()/int64(l.window))
}

// Allow counts one hit for client and reports whether it is within the limit.
func (l *Limiter) Allow(ctx context.Context, client string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	key := l.key(client, l.now())

	n, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("ratelimit: incr %s: %w", key, err)
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("ratelimit: expire %s: %w", key, err)
		}
	}
	return n <= int64(l.limit), nil
}
