package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per derived key.
type RateLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	clients map[string]*clientBucket
	swept   time.Time
	now     func() time.Time
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows perMinute requests per key, refilled evenly.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &RateLimiter{
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   perMinute,
		ttl:     10 * time.Minute,
		clients: make(map[string]*clientBucket),
		now:     time.Now,
	}
}

func (rl *RateLimiter) RateLimiterMiddleware(keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)

		if key == "" {
			key = clientIP(c)
		}

		now := rl.now()
		lim := rl.bucket(key, now)

		r := lim.ReserveN(now, 1)
		if !r.OK() {
			rl.reject(c, time.Minute)
			return
		}

		if delay := r.DelayFrom(now); delay > 0 {
			r.CancelAt(now)
			rl.reject(c, delay)
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) bucket(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// evict idle buckets at most once per ttl
	if now.Sub(rl.swept) > rl.ttl {
		for k, b := range rl.clients {
			if now.Sub(b.lastSeen) > rl.ttl {
				delete(rl.clients, k)
			}
		}
		rl.swept = now
	}

	b, ok := rl.clients[key]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = b
	}
	b.lastSeen = now

	return b.limiter
}

func (rl *RateLimiter) reject(c *gin.Context, retryAfter time.Duration) {
	secs := int(retryAfter.Round(time.Second).Seconds())
	if secs < 1 {
		secs = 1
	}

	c.Header("Retry-After", strconv.Itoa(secs))

	abortError(c, http.StatusTooManyRequests, "rate_limited", "Too many requests. Please try again shortly.")
}

// for unauthenticated endpoints: rate limit by IP
func KeyByIP(c *gin.Context) string {
	return clientIP(c)
}

func clientIP(c *gin.Context) string {
	ip := c.ClientIP()

	host, _, err := net.SplitHostPort(ip)

	if err == nil && host != "" {
		return host
	}

	return ip
}
