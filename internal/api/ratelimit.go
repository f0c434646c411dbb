package api

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/FocuswithJustin/versefind/internal/logging"
)

// RateLimiterConfig holds rate limiter configuration.
type RateLimiterConfig struct {
	RequestsPerMinute int
	BurstSize         int
}

// tokenBucket implements a token bucket rate limiter.
type tokenBucket struct {
	tokens         float64
	capacity       float64
	refillRate     float64 // tokens per second
	lastRefillTime time.Time
	mu             sync.Mutex
}

func newTokenBucket(capacity, refillRate float64, now time.Time) *tokenBucket {
	return &tokenBucket{
		tokens:         capacity,
		capacity:       capacity,
		refillRate:     refillRate,
		lastRefillTime: now,
	}
}

// refill tops the bucket up for the time elapsed since the last refill.
// The caller holds tb.mu.
func (tb *tokenBucket) refill(now time.Time) {
	elapsed := now.Sub(tb.lastRefillTime).Seconds()
	if elapsed > 0 {
		tb.tokens = min(tb.capacity, tb.tokens+elapsed*tb.refillRate)
		tb.lastRefillTime = now
	}
}

// take consumes a token if one is available. It returns whether the
// token was taken, the tokens left and the time the bucket is full again.
func (tb *tokenBucket) take(now time.Time) (bool, int, time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(now)
	ok := tb.tokens >= 1.0
	if ok {
		tb.tokens--
	}

	reset := now
	if tb.tokens < tb.capacity && tb.refillRate > 0 {
		secondsUntilFull := (tb.capacity - tb.tokens) / tb.refillRate
		reset = now.Add(time.Duration(secondsUntilFull * float64(time.Second)))
	}
	return ok, int(tb.tokens), reset
}

// nextToken returns how long until one token is available.
func (tb *tokenBucket) nextToken(now time.Time) time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(now)
	if tb.tokens >= 1.0 || tb.refillRate <= 0 {
		return 0
	}
	return time.Duration((1.0 - tb.tokens) / tb.refillRate * float64(time.Second))
}

func (tb *tokenBucket) idleSince() time.Time {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.lastRefillTime
}

// RateLimiter manages per-IP rate limiting.
type RateLimiter struct {
	buckets    map[string]*tokenBucket
	config     RateLimiterConfig
	mu         sync.RWMutex
	cleanupTTL time.Duration
	now        func() time.Time
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewRateLimiter creates a rate limiter and starts its cleanup loop.
// A BurstSize below one is raised to one. Call Stop to end the loop.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.BurstSize < 1 {
		config.BurstSize = 1
	}
	rl := &RateLimiter{
		buckets:    make(map[string]*tokenBucket),
		config:     config,
		cleanupTTL: 5 * time.Minute,
		now:        time.Now,
		stop:       make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// getBucket returns the token bucket for a given IP, creating if necessary.
func (rl *RateLimiter) getBucket(ip string) *tokenBucket {
	rl.mu.RLock()
	bucket, exists := rl.buckets[ip]
	rl.mu.RUnlock()

	if exists {
		return bucket
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if bucket, exists := rl.buckets[ip]; exists {
		return bucket
	}

	refillRate := float64(rl.config.RequestsPerMinute) / 60.0
	bucket = newTokenBucket(float64(rl.config.BurstSize), refillRate, rl.now())
	rl.buckets[ip] = bucket

	return bucket
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stop:
			return
		}
	}
}

// cleanup removes buckets idle for longer than cleanupTTL.
func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for ip, bucket := range rl.buckets {
		if now.Sub(bucket.idleSince()) > rl.cleanupTTL {
			delete(rl.buckets, ip)
		}
	}
}

// Allow reports whether a request from ip may proceed, consuming a token
// if so.
func (rl *RateLimiter) Allow(ip string) bool {
	ok, _, _ := rl.getBucket(ip).take(rl.now())
	return ok
}

// Middleware returns an HTTP middleware that applies rate limiting.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getClientIP(r)
		now := rl.now()
		bucket := rl.getBucket(ip)
		ok, remaining, reset := bucket.take(now)

		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.config.RequestsPerMinute))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", reset.Unix()))

		if !ok {
			retryAfter := int(bucket.nextToken(now).Seconds()) + 1
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))

			logging.SecurityEvent("rate_limit_exceeded", "api",
				"client_ip", ip,
				"path", r.URL.Path)
			respondError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED",
				fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", retryAfter))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getClientIP extracts the client IP address from the request.
// X-Forwarded-For (leftmost entry) and X-Real-IP are honoured when they
// hold a valid IP; otherwise RemoteAddr is used.
func getClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		clientIP := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if isValidIP(clientIP) {
			return clientIP
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" && isValidIP(realIP) {
		return realIP
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port
		ip = r.RemoteAddr
	}
	if isValidIP(ip) {
		return ip
	}
	return "unknown"
}

func isValidIP(ipStr string) bool {
	return net.ParseIP(ipStr) != nil
}
