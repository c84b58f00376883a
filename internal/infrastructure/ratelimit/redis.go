// Package ratelimit throttles state-changing requests per user with a
// fixed window counter kept in Redis.
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const windowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

const callTimeout = 250 * time.Millisecond

// Options configures the limiter connection and window
type Options struct {
	Addr     string
	Password string
	DB       int
	Limit    int
	Window   time.Duration
	Prefix   string
}

// RedisLimiter allows at most Limit calls per key in each Window.
// A nil limiter allows everything, and so does a Redis failure.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
	script *redis.Script
	logger *zap.Logger
}

// NewRedisLimiter returns nil when no address is configured
func NewRedisLimiter(opts Options, logger *zap.Logger) *RedisLimiter {
	if opts.Addr == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: time.Second,
	})
	return newLimiter(client, opts, logger)
}

func newLimiter(client *redis.Client, opts Options, logger *zap.Logger) *RedisLimiter {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "jobsphere:writes"
	}
	return &RedisLimiter{
		client: client,
		limit:  opts.Limit,
		window: opts.Window,
		prefix: prefix,
		script: redis.NewScript(windowScript),
		logger: logger,
	}
}

// Allow counts one call for key and reports whether it fits the window
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	if l.limit <= 0 || l.window <= 0 || key == "" {
		return true
	}

	ttl := l.window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	allowed, err := l.script.Run(ctx, l.client, []string{l.prefix + ":" + key}, ttl, l.limit).Int64()
	if err != nil {
		l.logger.Warn("Rate limit check failed, allowing request", zap.String("key", key), zap.Error(err))
		return true
	}
	return allowed == 1
}

// Ping verifies the Redis connection
func (l *RedisLimiter) Ping(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.client.Ping(ctx).Err()
}

// Close releases the Redis connection pool
func (l *RedisLimiter) Close() error {
	if l == nil {
		return nil
	}
	return l.client.Close()
}
