package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter counts requests per caller in fixed windows stored in Redis.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	log    *zap.Logger
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter instance. A nil client or a
// non-positive limit disables limiting.
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig, log *zap.Logger) *RateLimiter {
	if config.KeyPrefix == "" {
		config.KeyPrefix = "rate_limit"
	}
	return &RateLimiter{
		redis:  redisClient,
		config: config,
		log:    log,
		now:    time.Now,
	}
}

// NewLookupRateLimiter limits the public knowledge-base endpoints.
func NewLookupRateLimiter(redisClient *redis.Client, limit int, window time.Duration, log *zap.Logger) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    window,
		Limit:     limit,
		KeyPrefix: "rate_limit:lookup",
	}, log)
}

func (rl *RateLimiter) enabled() bool {
	return rl.redis != nil && rl.config.Limit > 0 && rl.config.Window > 0
}

// callerKey identifies the caller by user id when authenticated and by IP otherwise.
func callerKey(c *gin.Context) string {
	if userID, ok := UserIDFrom(c); ok {
		return "user:" + userID.String()
	}
	return "ip:" + c.ClientIP()
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting. Redis
// failures let the request through.
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.enabled() {
			c.Next()
			return
		}

		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), callerKey(c))
		if err != nil {
			rl.log.Warn("Rate limit check failed", zap.Error(err))
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(resetTime.Sub(rl.now()).Seconds())+1))
			AbortWithError(c, http.StatusTooManyRequests, "RATE_LIMITED",
				fmt.Sprintf("You have exceeded the rate limit of %d requests per %v", rl.config.Limit, rl.config.Window))
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) windowKey(caller string) (string, time.Time) {
	windowStart := rl.now().Truncate(rl.config.Window)
	return fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, caller, windowStart.Unix()), windowStart.Add(rl.config.Window)
}

// IsAllowed counts a request from caller.
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, caller string) (bool, int, time.Time, error) {
	key, resetTime := rl.windowKey(caller)

	// Use Redis pipeline for atomic operations
	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= rl.config.Limit, remaining, resetTime, nil
}

// GetRemainingRequests returns the number of remaining requests for a caller
// without counting one.
func (rl *RateLimiter) GetRemainingRequests(ctx context.Context, caller string) (int, time.Time, error) {
	key, resetTime := rl.windowKey(caller)

	count, err := rl.redis.Get(ctx, key).Int()
	if err == redis.Nil {
		// No requests yet in this window
		return rl.config.Limit, resetTime, nil
	}
	if err != nil {
		return 0, time.Time{}, err
	}

	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, resetTime, nil
}

// StatusHandler reports the caller's quota for the current window without
// counting the request.
func (rl *RateLimiter) StatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.enabled() {
			c.JSON(http.StatusOK, gin.H{"enabled": false})
			return
		}

		remaining, resetTime, err := rl.GetRemainingRequests(c.Request.Context(), callerKey(c))
		if err != nil {
			rl.log.Warn("Rate limit status failed", zap.Error(err))
			AbortWithError(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "rate limit status unavailable")
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))
		c.JSON(http.StatusOK, gin.H{
			"enabled":   true,
			"limit":     rl.config.Limit,
			"remaining": remaining,
			"resetAt":   resetTime.UTC().Format(time.RFC3339),
		})
	}
}
