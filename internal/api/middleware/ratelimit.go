package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/guzellestir/tenantgate/internal/api/response"
	"github.com/guzellestir/tenantgate/internal/cache"
)

const defaultLookupsPerMinute = 120

// LookupRateLimit caps tenant-directory lookups per client host via a Redis
// counter window. The validate endpoint is unauthenticated, so the client IP
// is the only identity available.
type LookupRateLimit struct {
	cache         cache.Cache
	lookupsPerMin int
}

// NewLookupRateLimit creates the rate limiting middleware.
func NewLookupRateLimit(c cache.Cache, lookupsPerMin int) *LookupRateLimit {
	if lookupsPerMin <= 0 {
		lookupsPerMin = defaultLookupsPerMinute
	}
	return &LookupRateLimit{cache: c, lookupsPerMin: lookupsPerMin}
}

// Limit applies the per-client window.
func (rl *LookupRateLimit) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientHost(r)

		key := cache.LookupRateKey(client)
		count, err := rl.cache.IncrWithExpiry(r.Context(), key, 60*time.Second)
		if err != nil {
			// On Redis error, allow the request (fail open)
			next.ServeHTTP(w, r)
			return
		}

		remaining := rl.lookupsPerMin - int(count)
		if remaining < 0 {
			remaining = 0
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.lookupsPerMin))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if count > int64(rl.lookupsPerMin) {
			w.Header().Set("Retry-After", "60")
			response.Error(w, http.StatusTooManyRequests,
				"RATE_LIMIT_EXCEEDED", "Too many lookups", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientHost(r *http.Request) string {
	if h, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return h
	}
	return r.RemoteAddr
}
