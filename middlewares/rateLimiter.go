package middlewares

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/fincontrol/finance_backend/config"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed window counter per client IP kept in redis.
type RateLimiter struct {
	client func() *redis.Client
	limit  int64
	window time.Duration
}

// NewRateLimiter resolves the client on every request because redis is
// connected after the router starts serving.
func NewRateLimiter(client func() *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

func (rl *RateLimiter) key(c *gin.Context) string {
	return "rate_limit:" + c.ClientIP()
}

// RateLimitMiddleware lets requests through while redis is unavailable.
func (rl *RateLimiter) RateLimitMiddleware(c *gin.Context) {
	client := rl.client()
	if client == nil {
		c.Next()
		return
	}
	ctx := c.Request.Context()
	key := rl.key(c)

	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		config.LogError(config.GetLogger(), "RateLimiter", "RateLimitMiddleware", "incr", key, err)
		c.Next()
		return
	}
	if count == 1 {
		if err := client.Expire(ctx, key, rl.window).Err(); err != nil {
			config.LogError(config.GetLogger(), "RateLimiter", "RateLimitMiddleware", "expire", key, err)
		}
	}

	remaining := rl.limit - count
	if remaining < 0 {
		remaining = 0
	}
	c.Header("X-RateLimit-Limit", strconv.FormatInt(rl.limit, 10))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

	if count > rl.limit {
		retry := rl.window
		if ttl, err := client.TTL(ctx, key).Result(); err == nil && ttl > 0 {
			retry = ttl
		}
		seconds := int(retry.Round(time.Second).Seconds())
		c.Header("Retry-After", strconv.Itoa(seconds))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"success": false,
			"message": fmt.Sprintf("Muitas requisições. Tente novamente em %d segundos.", seconds),
		})
		return
	}
	c.Next()
}
