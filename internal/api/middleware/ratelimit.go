package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"time"

	"github.com/krxsh13/ScamGuard/internal/config"
	"github.com/krxsh13/ScamGuard/internal/metrics"
	"github.com/krxsh13/ScamGuard/pkg/logger"
)

// Limiter is the fixed-window counter behind RateLimiter
type Limiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, time.Time, error)
}

// RateLimiter returns middleware that implements rate limiting. Callers
// presenting one of apiKeys share a budget per key; everyone else is limited
// per address. Limiter errors fail open.
func RateLimiter(l Limiter, cfg config.RateLimitConfig, apiKeys []string, log *logger.Logger) func(next http.Handler) http.Handler {
	digests := keyDigests(apiKeys)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip rate limiting for OPTIONS
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			allowed, remaining, resetTime, err := l.CheckRateLimit(
				r.Context(),
				clientID(r, digests),
				int64(cfg.RequestsPerMinute),
				time.Minute,
			)
			if err != nil {
				log.Warn().Err(err).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerMinute))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

			if !allowed {
				metrics.RateLimited.Inc()
				retry := int64(time.Until(resetTime).Seconds())
				if retry < 1 {
					retry = 1
				}
				w.Header().Set("Retry-After", strconv.FormatInt(retry, 10))
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientID identifies the caller by the digest of a configured API key, else
// by address. Unknown tokens fall back to the address so they cannot mint
// fresh budgets. RealIP has already folded proxy headers into RemoteAddr.
func clientID(r *http.Request, digests [][32]byte) string {
	if apiKey, ok := bearerToken(r.Header.Get("Authorization")); ok && validKey(digests, apiKey) {
		sum := sha256.Sum256([]byte(apiKey))
		return "key:" + hex.EncodeToString(sum[:8])
	}
	return "ip:" + r.RemoteAddr
}
