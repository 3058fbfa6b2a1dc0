// Package ratelimit implements a fixed-window request limiter on Redis.
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/birlikkoshan/todo-tracker/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// Result describes the state of a key's window after one hit.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter allows at most max hits per key in each window.
type Limiter struct {
	rdb    *redis.Client
	max    int
	window time.Duration
	log    logging.Logger
	now    func() time.Time
}

func New(rdb *redis.Client, max int, window time.Duration, log logging.Logger) *Limiter {
	if log == nil {
		log = logging.Nop()
	}
	return &Limiter{rdb: rdb, max: max, window: window, log: log, now: time.Now}
}

// Allow counts one hit for key. The window starts with the first hit.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	k := keyPrefix + key

	var incr *redis.IntCmd
	var pttl *redis.DurationCmd
	_, err := l.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		pttl = p.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit incr: %w", err)
	}

	ttl := pttl.Val()
	if ttl <= 0 {
		// first hit in the window, or a key left without expiry
		if err := l.rdb.PExpire(ctx, k, l.window).Err(); err != nil {
			return Result{}, fmt.Errorf("ratelimit expire: %w", err)
		}
		ttl = l.window
	}

	count := int(incr.Val())
	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= l.max,
		Limit:     l.max,
		Remaining: remaining,
		Reset:     l.now().Add(ttl),
	}, nil
}

// Middleware limits by client IP. When Redis is unavailable requests pass.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		res, err := l.Allow(ctx, c.ClientIP())
		if err != nil {
			l.log.Warn(ctx, "rate limiter unavailable", "error", err)
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		h.Set("X-RateLimit-Reset", res.Reset.UTC().Format(time.RFC3339))

		if !res.Allowed {
			retry := int(math.Ceil(res.Reset.Sub(l.now()).Seconds()))
			h.Set("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "too many requests, please try again later",
				"retryAfter": retry,
			})
			return
		}
		c.Next()
	}
}
