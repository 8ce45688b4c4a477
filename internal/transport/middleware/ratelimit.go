package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	errs "github.com/frahmantamala/checkout-service/internal"
	"github.com/frahmantamala/checkout-service/internal/transport"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP. The IP is taken from
// the connection; forwarding headers are ignored.
type RateLimiter struct {
	limit    rate.Limit
	burst    int
	logger   *slog.Logger
	writer   *transport.BaseHandler
	now      func() time.Time
	mu       sync.Mutex
	visitors map[string]*visitor
}

func NewRateLimiter(requestsPerSecond float64, burst int, logger *slog.Logger) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limit:    rate.Limit(requestsPerSecond),
		burst:    burst,
		logger:   logger,
		writer:   transport.NewBaseHandler(logger),
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

// Enabled is false when the configured rate is not positive.
func (rl *RateLimiter) Enabled() bool {
	return rl != nil && rl.limit > 0
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = rl.now()
	return v.limiter.AllowN(v.lastSeen, 1)
}

// Cleanup drops visitors idle for longer than ttl and returns how many
// were removed.
func (rl *RateLimiter) Cleanup(ttl time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-ttl)
	removed := 0
	for key, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, key)
			removed++
		}
	}
	return removed
}

// Run calls Cleanup every ttl until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context, ttl time.Duration) {
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.Cleanup(ttl); n > 0 {
				rl.logger.Debug("rate limiter evicted idle clients", "count", n)
			}
		}
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	if !rl.Enabled() {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !rl.Allow(ip) {
			rl.logger.Warn("rate limit exceeded", "remote_ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", "1")
			rl.writer.WriteError(w, http.StatusTooManyRequests, string(errs.ErrCodeRateLimited))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
