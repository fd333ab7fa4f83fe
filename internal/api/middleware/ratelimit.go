package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/platform/redis"
)

// MsgThrottled is the detail of a 429 response.
const MsgThrottled = "Request was throttled."

// Limiter decides whether one more request for key fits the limit.
type Limiter interface {
	Allow(ctx context.Context, key string) (*redis.Result, error)
}

// NewIPRateLimit returns middleware that limits requests per client IP.
// chi's RealIP should run first when the server sits behind a proxy.
// Limiter failures are logged and the request is let through.
func NewIPRateLimit(limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			result, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				logger.FromContext(r.Context()).Error("rate limiter unavailable",
					"error", err,
					"client_ip", ip)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

			if !result.Allowed {
				retryAfter := int(math.Ceil(result.RetryAfter.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				shared.RespondWithError(w, r, http.StatusTooManyRequests, MsgThrottled,
					shared.WithHeader("Retry-After", strconv.Itoa(retryAfter)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
