package handler

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// IPRateLimiter keeps one token bucket per client IP. Limiters are never
// evicted; the per-entry footprint is small and the IP space seen by a single
// deployment is bounded in practice.
type IPRateLimiter struct {
	limiters sync.Map
	limit    rate.Limit
	burst    int
}

// NewIPRateLimiter creates a limiter allowing perMinute requests per IP
func NewIPRateLimiter(perMinute int) *IPRateLimiter {
	return &IPRateLimiter{
		limit: rate.Limit(float64(perMinute) / 60.0),
		burst: perMinute,
	}
}

func (l *IPRateLimiter) limiterFor(ip string) *rate.Limiter {
	if existing, ok := l.limiters.Load(ip); ok {
		return existing.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(l.limit, l.burst)
	actual, _ := l.limiters.LoadOrStore(ip, limiter)
	return actual.(*rate.Limiter)
}

// Middleware rejects requests over the per-IP budget with 429
func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
