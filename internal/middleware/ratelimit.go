package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/AnshRaj112/journal-backend/pkg/clientip"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// ProxyRateLimitWindow is the fixed window of the proxy limiter
	ProxyRateLimitWindow = 60 * time.Second
	// ProxyRateLimitMaxRequests is how many proxy calls one IP may make per window
	ProxyRateLimitMaxRequests = 20
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting
	RateLimitKeyPrefix = "ratelimit:"
)

// RedisRateLimit is a fixed-window per-IP counter shared by every process
// through Redis. It fails open when Redis is unavailable.
func RedisRateLimit(client *redis.Client, scope string, max int, window time.Duration, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := RateLimitKeyPrefix + scope + ":" + clientip.RealClientIP(r)

			count64, err := client.Incr(ctx, key).Result()
			if err == nil && count64 == 1 {
				err = client.Expire(ctx, key, window).Err()
			}
			var reset time.Duration
			if err == nil {
				reset, err = client.TTL(ctx, key).Result()
			}
			if err != nil {
				log.Warn("rate limit check failed, allowing request", zap.String("scope", scope), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			count := int(count64)
			if reset < 0 {
				reset = window
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(max))
			remaining := max - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(reset).Unix(), 10))

			if count > max {
				w.Header().Set("Retry-After", strconv.Itoa(int(reset.Seconds())))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(fmt.Sprintf(`{"error":"Rate limit exceeded. Please try again later.","retry_after":%d}`, int(reset.Seconds()))))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
