package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"cvchain-backend/internal/delivery/http/response"
	"cvchain-backend/pkg/logger"
	"cvchain-backend/pkg/redis"
)

// RateLimitConfig configures a fixed-window rate limiter keyed by
// client IP. Backed by Redis when available, with an in-memory
// fallback so a Redis outage never takes login down with it.
type RateLimitConfig struct {
	Limit     int
	Window    time.Duration
	KeyPrefix string
}

type rateLimitEntry struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

var (
	rateLimitStore sync.Map
	cleanupOnce    sync.Once
)

// Atomic increment with TTL set on first hit in the window.
const rateLimitScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "rl:ip:"
	}
	startCleanup(cfg.Window)

	return func(c *gin.Context) {
		key := cfg.KeyPrefix + c.ClientIP()

		count, retryAfter, ok := redisCount(c, key, cfg)
		if !ok {
			count, retryAfter = memoryCount(key, cfg)
		}

		if count > cfg.Limit {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			response.Error(c, http.StatusTooManyRequests,
				"Too many requests. Please try again later.", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// redisCount returns the current window count via Redis, or ok=false to
// fall back to memory.
func redisCount(c *gin.Context, key string, cfg RateLimitConfig) (int, time.Duration, bool) {
	client := redis.Client()
	if client == nil {
		return 0, 0, false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	res, err := client.Eval(ctx, rateLimitScript, []string{key},
		int(cfg.Window.Seconds())).Result()
	if err != nil {
		logger.Log.Warn("rate limiter falling back to memory", "error", err)
		return 0, 0, false
	}

	values, ok := res.([]interface{})
	if !ok || len(values) != 2 {
		return 0, 0, false
	}
	count, _ := values[0].(int64)
	ttl, _ := values[1].(int64)
	return int(count), time.Duration(ttl) * time.Second, true
}

func memoryCount(key string, cfg RateLimitConfig) (int, time.Duration) {
	now := time.Now()
	actual, _ := rateLimitStore.LoadOrStore(key, &rateLimitEntry{resetAt: now.Add(cfg.Window)})
	entry := actual.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(cfg.Window)
	}
	entry.count++
	return entry.count, time.Until(entry.resetAt)
}

// startCleanup evicts expired in-memory entries so the fallback map
// cannot grow without bound.
func startCleanup(window time.Duration) {
	cleanupOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(window * 2)
			defer ticker.Stop()
			for range ticker.C {
				now := time.Now()
				rateLimitStore.Range(func(key, value interface{}) bool {
					entry := value.(*rateLimitEntry)
					entry.mu.Lock()
					expired := now.After(entry.resetAt)
					entry.mu.Unlock()
					if expired {
						rateLimitStore.Delete(key)
					}
					return true
				})
			}
		}()
	})
}
