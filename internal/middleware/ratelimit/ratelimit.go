// Package ratelimit throttles clients to a fixed number of requests per
// minute.
package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

const window = time.Minute

// Limiter counts requests per client in one-minute windows.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
	now     func() time.Time

	requestsPerMinute int
	staleAfter        time.Duration

	rejected    atomic.Int64
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

type clientInfo struct {
	windowStart time.Time
	lastRequest time.Time
	requests    int
}

// Config holds rate limiter configuration
type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
	// Clock overrides time.Now; tests only.
	Clock func() time.Time
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 120,
		CleanupInterval:   5 * time.Minute,
	}
}

// NewLimiter starts a limiter and its cleanup goroutine. Call Stop when done.
func NewLimiter(config Config) *Limiter {
	def := DefaultConfig()
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = def.RequestsPerMinute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = def.CleanupInterval
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}

	rl := &Limiter{
		clients:           make(map[string]*clientInfo),
		now:               config.Clock,
		requestsPerMinute: config.RequestsPerMinute,
		staleAfter:        2 * config.CleanupInterval,
		stopCleanup:       make(chan struct{}),
	}
	go rl.cleanupLoop(config.CleanupInterval)
	return rl
}

// Allow records a request from client and reports whether it fits in the
// current window.
func (rl *Limiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	c, ok := rl.clients[client]
	if !ok || now.Sub(c.windowStart) >= window {
		rl.clients[client] = &clientInfo{windowStart: now, lastRequest: now, requests: 1}
		return true
	}
	c.requests++
	c.lastRequest = now
	if c.requests > rl.requestsPerMinute {
		rl.rejected.Add(1)
		return false
	}
	return true
}

// retryAfter returns the seconds left in client's window.
func (rl *Limiter) retryAfter(client string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	c, ok := rl.clients[client]
	if !ok {
		return 0
	}
	left := window - rl.now().Sub(c.windowStart)
	if left < time.Second {
		return 1
	}
	return int(left.Seconds())
}

func (rl *Limiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.removeStale()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *Limiter) removeStale() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.staleAfter)
	removed := 0
	for id, c := range rl.clients {
		if c.lastRequest.Before(cutoff) {
			delete(rl.clients, id)
			removed++
		}
	}
	return removed
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (rl *Limiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

// Metrics for monitoring rate limit performance
type Metrics struct {
	Rejected    int64
	ClientCount int
}

func (rl *Limiter) GetMetrics() Metrics {
	rl.mu.Lock()
	clients := len(rl.clients)
	rl.mu.Unlock()
	return Metrics{Rejected: rl.rejected.Load(), ClientCount: clients}
}

// Middleware rejects requests over the limit. onLimit writes the rejection;
// when nil a plain 429 is sent. Retry-After is set either way.
func (rl *Limiter) Middleware(extractIP func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := extractIP(r)
			if !rl.Allow(client) {
				w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfter(client)))
				if onLimit != nil {
					onLimit(w, r)
				} else {
					http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				}
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
