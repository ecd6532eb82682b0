package middleware

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// NewRateLimitPerIP limits requests per client IP with an in-memory
// token bucket. Entries expire after entryTTL so idle IPs do not
// accumulate.
func NewRateLimitPerIP(
	limit, burst int,
	cacheSize int,
	entryTTL time.Duration,
) gin.HandlerFunc {

	visitors := lru.NewLRU[string, *rate.Limiter](cacheSize, nil, entryTTL)

	return func(c *gin.Context) {
		host := clientHost(c)

		lim, found := visitors.Get(host)
		if !found {
			lim = rate.NewLimiter(rate.Limit(limit), burst)
			visitors.Add(host, lim)
		}

		if !lim.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// NewRedisRateLimitPerIP is the shared-state variant: a fixed window
// per IP counted in redis, so the limit holds across replicas.
func NewRedisRateLimitPerIP(
	client *redis.Client,
	limit int,
	window time.Duration,
) gin.HandlerFunc {

	return func(c *gin.Context) {
		host := clientHost(c)
		key := fmt.Sprintf("rl:%s:%d", host, time.Now().Unix()/int64(window.Seconds()))

		n, err := client.Incr(c.Request.Context(), key).Result()
		if err != nil {
			// counting backend down: let the request through rather than
			// turning an infra outage into a client-facing lockout
			c.Next()
			return
		}
		if n == 1 {
			client.Expire(c.Request.Context(), key, window)
		}

		if n > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func clientHost(c *gin.Context) string {
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}
