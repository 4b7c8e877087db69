package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jellydator/ttlcache/v2"
	"golang.org/x/time/rate"
)

type RateLimiterConfig struct {
	RequestsPerSecond int
	Burst             int
	TTL               time.Duration
}

// RateLimiterMiddleware applies a per-IP token bucket. Visitor state
// lives in a TTL cache so idle entries expire on their own.
func RateLimiterMiddleware(config RateLimiterConfig) gin.HandlerFunc {
	if config.TTL == 0 {
		config.TTL = 3 * time.Minute
	}
	if config.Burst == 0 {
		config.Burst = config.RequestsPerSecond * 2
	}

	visitors := ttlcache.NewCache()
	visitors.SetTTL(config.TTL)
	visitors.SkipTTLExtensionOnHit(false)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		var limiter *rate.Limiter

		if v, err := visitors.Get(ip); err == nil {
			limiter = v.(*rate.Limiter)
		} else {
			limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst)
			visitors.Set(ip, limiter)
		}

		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
			})
			return
		}

		c.Next()
	}
}
