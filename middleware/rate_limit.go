package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type RateLimiterConfig struct {
	RequestsPerSecond int
	Burst             int
	CleanupInterval   time.Duration
	TTL               time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitorTable holds one token bucket per client IP. Each middleware
// instance owns its own table so separate route groups don't share
// budgets
type visitorTable struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	config   RateLimiterConfig
}

func (t *visitorTable) get(ip string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	v, ok := t.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(t.config.RequestsPerSecond), t.config.Burst)}
		t.visitors[ip] = v
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (t *visitorTable) cleanup() {
	for {
		time.Sleep(t.config.CleanupInterval)

		t.mu.Lock()
		for ip, v := range t.visitors {
			if time.Since(v.lastSeen) > t.config.TTL {
				delete(t.visitors, ip)
			}
		}
		t.mu.Unlock()
	}
}

func RateLimiterMiddleware(config RateLimiterConfig) gin.HandlerFunc {
	if config.CleanupInterval == 0 {
		config.CleanupInterval = time.Minute
	}
	if config.TTL == 0 {
		config.TTL = 3 * time.Minute
	}

	t := &visitorTable{
		visitors: make(map[string]*visitor),
		config:   config,
	}
	go t.cleanup()

	return func(c *gin.Context) {
		if !t.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
			})
			return
		}

		c.Next()
	}
}
