package middleware

import (
	"net/http"
	"sync"
	"time"

	"campus-canteen/internal/logger"
)

// RateLimiter is a sliding-window limiter keyed by client IP
type RateLimiter struct {
	attempts    map[string][]time.Time
	mutex       sync.Mutex
	maxAttempts int
	window      time.Duration
	now         func() time.Time
	done        chan struct{}
	stopOnce    sync.Once
}

// NewRateLimiter creates a limiter and starts its cleanup goroutine. Call Stop when done.
func NewRateLimiter(maxAttempts int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		attempts:    make(map[string][]time.Time),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
		done:        make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// IsAllowed records an attempt from key and reports whether it is within the limit
func (rl *RateLimiter) IsAllowed(key string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	valid := rl.recent(rl.attempts[key], now)
	if len(valid) >= rl.maxAttempts {
		rl.attempts[key] = valid
		return false
	}
	rl.attempts[key] = append(valid, now)
	return true
}

func (rl *RateLimiter) recent(attempts []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-rl.window)
	valid := attempts[:0]
	for _, at := range attempts {
		if at.After(cutoff) {
			valid = append(valid, at)
		}
	}
	return valid
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.mutex.Lock()
			now := rl.now()
			for key, attempts := range rl.attempts {
				if valid := rl.recent(attempts, now); len(valid) == 0 {
					delete(rl.attempts, key)
				} else {
					rl.attempts[key] = valid
				}
			}
			rl.mutex.Unlock()
		}
	}
}

// Stop ends the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

// RateLimitLogin limits POST attempts per client IP
func RateLimitLogin(rateLimiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ip := ClientIP(r)
			if !rateLimiter.IsAllowed(ip) {
				logger.FromContext(r.Context()).Warn("login rate limited", "ip", ip)
				http.Error(w, "Too many login attempts. Please try again later.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
