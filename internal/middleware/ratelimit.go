package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter applies a per-client sliding-window limit, keyed by IP. It
// exists mainly to blunt credential stuffing against login and register;
// the window is sized for an API client, not a browser page load.
type RateLimiter struct {
	mu      sync.Mutex
	seen    map[string][]time.Time
	limit   int
	window  time.Duration
	stopped chan struct{}
}

// NewRateLimiter allows limit requests per window for each client IP and
// starts a janitor goroutine that drops idle clients. Call Stop on shutdown.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		seen:    make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		stopped: make(chan struct{}),
	}
	go rl.janitor()
	return rl
}

// Stop terminates the janitor goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopped)
}

// Middleware rejects requests over the limit with 429 Too Many Requests.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allow records the request and reports whether the client stays within the
// window's budget.
func (rl *RateLimiter) allow(key string) bool {
	now := time.Now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	recent := rl.seen[key][:0]
	for _, ts := range rl.seen[key] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= rl.limit {
		rl.seen[key] = recent
		return false
	}
	rl.seen[key] = append(recent, now)
	return true
}

// janitor drops clients with no requests inside the current window.
func (rl *RateLimiter) janitor() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopped:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-rl.window)
			rl.mu.Lock()
			for key, stamps := range rl.seen {
				idle := true
				for _, ts := range stamps {
					if ts.After(cutoff) {
						idle = false
						break
					}
				}
				if idle {
					delete(rl.seen, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// clientIP resolves the caller's IP, honoring proxy headers before falling
// back to the socket address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Leftmost entry is the original client.
		if i := strings.IndexByte(xff, ','); i != -1 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	addr := r.RemoteAddr
	if i := strings.LastIndex(addr, ":"); i != -1 {
		return addr[:i]
	}
	return addr
}
