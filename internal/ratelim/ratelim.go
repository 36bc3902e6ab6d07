// Package ratelim provides a small per-IP token-bucket limiter for the public
// booking endpoints.
package ratelim

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type Limiter struct {
	visitors map[string]*rate.Limiter
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
}

// New builds a limiter allowing rps requests per second with the given burst
// per client IP.
func New(rps float64, burst int) *Limiter {
	return &Limiter{
		visitors: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

func (l *Limiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.visitors[ip]; ok {
		return lim
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	l.visitors[ip] = lim

	// Drop the entry after a while so the map does not grow unbounded.
	go func() {
		time.Sleep(10 * time.Minute)
		l.mu.Lock()
		delete(l.visitors, ip)
		l.mu.Unlock()
	}()

	return lim
}

// Middleware rejects requests over the per-IP budget with 429.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
