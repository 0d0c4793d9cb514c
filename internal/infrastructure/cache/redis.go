package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/krxsh13/ScamGuard/internal/config"
	"github.com/krxsh13/ScamGuard/internal/domain/models"
	"github.com/krxsh13/ScamGuard/pkg/logger"
)

// Cache key prefixes, relative to the configured namespace
const (
	KeyRateLimitPrefix = "rate_limit:"
	KeyVerdictsPrefix  = "verdicts:"
)

const defaultCounterTTL = 35 * 24 * time.Hour

// RedisCache wraps the Redis client with the typed operations ScamGuard needs
type RedisCache struct {
	client     *redis.Client
	keyPrefix  string
	counterTTL time.Duration
	logger     *logger.Logger
}

// NewRedis creates a new Redis client
func NewRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*RedisCache, error) {
	log = log.WithComponent("redis")
	log.Info().Str("host", cfg.Host).Int("port", cfg.Port).Bool("tls", cfg.TLS).Msg("connecting to Redis")

	opts := &redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	log.Info().Msg("connected to Redis successfully")

	return NewWithClient(client, cfg.KeyPrefix, cfg.CounterTTL, log), nil
}

// NewWithClient wraps an existing client
func NewWithClient(client *redis.Client, keyPrefix string, counterTTL time.Duration, log *logger.Logger) *RedisCache {
	if counterTTL <= 0 {
		counterTTL = defaultCounterTTL
	}
	return &RedisCache{
		client:     client,
		keyPrefix:  keyPrefix,
		counterTTL: counterTTL,
		logger:     log,
	}
}

// Ping checks the connection
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	c.logger.Info().Msg("closing Redis connection")
	return c.client.Close()
}

// key prepends the namespace prefix to a key
func (c *RedisCache) key(k string) string {
	return c.keyPrefix + k
}

// CheckRateLimit checks and increments a fixed-window counter.
// Returns (allowed, remaining, resetTime, error)
func (c *RedisCache) CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, time.Time, error) {
	now := time.Now()
	windowKey, resetTime := rateLimitWindow(key, now, window)

	pipe := c.client.Pipeline()
	incr := pipe.Incr(ctx, c.key(windowKey))
	pipe.Expire(ctx, c.key(windowKey), window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := incr.Val()
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= limit, remaining, resetTime, nil
}

// IncrVerdict bumps the per-day counter for a verdict
func (c *RedisCache) IncrVerdict(ctx context.Context, day time.Time, risk models.RiskLevel) error {
	k := c.key(VerdictsKey(day))

	pipe := c.client.Pipeline()
	pipe.HIncrBy(ctx, k, risk.String(), 1)
	pipe.Expire(ctx, k, c.counterTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// DailyVerdicts reads the per-day counters. A day with no analyses yields zeros.
func (c *RedisCache) DailyVerdicts(ctx context.Context, day time.Time) (models.DailyVerdicts, error) {
	fields, err := c.client.HGetAll(ctx, c.key(VerdictsKey(day))).Result()
	if err != nil {
		return models.DailyVerdicts{}, err
	}
	return parseVerdicts(day, fields)
}

// VerdictsKey is the hash holding one UTC day's verdict counters
func VerdictsKey(day time.Time) string {
	return KeyVerdictsPrefix + day.UTC().Format(models.DayLayout)
}

func rateLimitWindow(key string, now time.Time, window time.Duration) (string, time.Time) {
	size := int64(window.Seconds())
	if size <= 0 {
		size = 1
	}
	bucket := now.Unix() / size
	return fmt.Sprintf("%s%s:%d", KeyRateLimitPrefix, key, bucket), time.Unix((bucket+1)*size, 0)
}

func parseVerdicts(day time.Time, fields map[string]string) (models.DailyVerdicts, error) {
	d := models.DailyVerdicts{Day: day.UTC().Format(models.DayLayout)}
	for field, raw := range fields {
		risk, err := models.ParseRiskLevel(field)
		if err != nil {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return d, fmt.Errorf("verdict counter %s=%q: %w", field, raw, err)
		}
		d.Add(risk, n)
	}
	return d, nil
}
