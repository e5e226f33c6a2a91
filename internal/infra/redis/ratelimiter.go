package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/ratelimit"
	goredis "github.com/redis/go-redis/v9"
)

const (
	defaultLimitPerSec = 20
	defaultKeyPrefix   = "partnership:ratelimit"
	minPause           = 5 * time.Millisecond
)

// countScript increments the window counter and returns the new count. The
// key outlives its window by one second so late readers still see it.
var countScript = goredis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("EXPIRE", KEYS[1], 2)
end
return n
`)

var _ ratelimit.RateLimiter = (*RedisRateLimiter)(nil)

type RateLimiterOptions struct {
	// LimitPerSec applies to every provider without an entry in ProviderLimits.
	LimitPerSec    int
	ProviderLimits map[domain.Provider]int
	KeyPrefix      string
}

// RedisRateLimiter counts calls per provider in one-second windows shared by
// every gateway instance pointing at the same Redis.
type RedisRateLimiter struct {
	client *goredis.Client
	limits map[domain.Provider]int64
	limit  int64
	prefix string

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewRedisRateLimiter(client *goredis.Client, opts RateLimiterOptions) (*RedisRateLimiter, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}

	limiter := &RedisRateLimiter{
		client: client,
		limits: make(map[domain.Provider]int64, len(opts.ProviderLimits)),
		limit:  defaultLimitPerSec,
		prefix: defaultKeyPrefix,
		now:    time.Now,
		sleep:  sleepWithContext,
	}
	if opts.LimitPerSec > 0 {
		limiter.limit = int64(opts.LimitPerSec)
	}
	if p := strings.TrimSpace(opts.KeyPrefix); p != "" {
		limiter.prefix = p
	}
	for provider, n := range opts.ProviderLimits {
		if n > 0 {
			limiter.limits[provider] = int64(n)
		}
	}

	return limiter, nil
}

func (r *RedisRateLimiter) limitFor(provider domain.Provider) int64 {
	if n, ok := r.limits[provider]; ok {
		return n
	}
	return r.limit
}

func (r *RedisRateLimiter) Allow(ctx context.Context, provider domain.Provider) (bool, error) {
	if r == nil || r.client == nil {
		return false, fmt.Errorf("rate limiter is not initialized")
	}
	name := strings.ToLower(strings.TrimSpace(provider.String()))
	if name == "" {
		return false, fmt.Errorf("provider is required")
	}

	window := r.now().UTC().Unix()
	key := fmt.Sprintf("%s:%s:%d", r.prefix, name, window)
	n, err := countScript.Run(ctx, r.client, []string{key}).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to evaluate rate limit for %s: %w", name, err)
	}

	return n <= r.limitFor(provider), nil
}

// Wait blocks until provider has budget in the current window or ctx ends.
func (r *RedisRateLimiter) Wait(ctx context.Context, provider domain.Provider) error {
	for {
		allowed, err := r.Allow(ctx, provider)
		if err != nil {
			return err
		}
		if allowed {
			return nil
		}
		if err := r.sleep(ctx, r.untilNextWindow()); err != nil {
			return err
		}
	}
}

func (r *RedisRateLimiter) untilNextWindow() time.Duration {
	now := r.now()
	d := now.Truncate(time.Second).Add(time.Second).Sub(now)
	return max(d, minPause)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
