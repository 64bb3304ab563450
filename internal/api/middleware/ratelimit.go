package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"elderguard/internal/config"
	"elderguard/internal/infrastructure/cache"
	"elderguard/pkg/logger"
)

// RateLimiter limits requests per client per minute. Requests are allowed when Redis is unavailable.
func RateLimiter(c *cache.RedisCache, cfg config.RateLimitConfig, log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if c == nil || !cfg.Enabled || cfg.RequestsPerMinute <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			allowed, remaining, resetTime, err := c.CheckRateLimit(
				r.Context(),
				clientID(r),
				int64(cfg.RequestsPerMinute),
				time.Minute,
			)
			if err != nil {
				log.Warn().Err(err).Msg("rate limit check failed, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerMinute))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

			if !allowed {
				w.Header().Set("Retry-After", strconv.FormatInt(int64(time.Until(resetTime).Seconds())+1, 10))
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientID identifies the caller by API key when sent, otherwise by address.
// RemoteAddr is already rewritten by chi's RealIP.
func clientID(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return fmt.Sprintf("key:%s", key)
	}
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return fmt.Sprintf("ip:%s", host)
}
