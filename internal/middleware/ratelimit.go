package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"linksphere/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy decides what happens to a request when Redis cannot be asked.
type FailPolicy int

const (
	FailOpen FailPolicy = iota
	// FailClosed answers 503 instead of serving the request.
	FailClosed
)

var errNoRedis = errors.New("rate limiter has no redis client")

// Window is the state of one fixed rate-limit window.
type Window struct {
	Count     int64
	Remaining time.Duration
}

// CheckRateLimit counts one hit for (resource, id) in a fixed window and
// reports whether it is within limit. Limits are not enforced when APP_ENV is
// unset, "test" or "development".
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	w, err := hit(ctx, rdb, resource, id, window)
	if err != nil {
		return false, err
	}
	return w.Count <= int64(limit), nil
}

func hit(ctx context.Context, rdb *redis.Client, resource, id string, window time.Duration) (Window, error) {
	if !rateLimitEnforced() {
		return Window{}, nil
	}
	if rdb == nil {
		return Window{}, errNoRedis
	}

	key := rateLimitKey(resource, id)
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		// NX keeps the first hit's expiry for the rest of the window.
		p.ExpireNX(ctx, key, window)
		ttl = p.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return Window{}, err
	}
	return Window{Count: incr.Val(), Remaining: ttl.Val()}, nil
}

func rateLimitKey(resource, id string) string {
	return fmt.Sprintf("rl:%s:%s", resource, id)
}

func rateLimitEnforced() bool {
	switch os.Getenv("APP_ENV") {
	case "", "test", "development":
		return false
	}
	return true
}

// RateLimit allows limit requests per window for each caller, keyed by user
// ID when authenticated and by IP otherwise. The optional name groups routes
// under one budget; the request path is used without it. Redis failures let
// the request through.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, name ...string) fiber.Handler {
	return RateLimitWithPolicy(rdb, limit, window, FailOpen, name...)
}

// RateLimitWithPolicy is RateLimit with an explicit Redis failure policy.
func RateLimitWithPolicy(rdb *redis.Client, limit int, window time.Duration, policy FailPolicy, name ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resource := c.Path()
		if len(name) > 0 {
			resource = name[0]
		}
		caller := "ip:" + c.IP()
		if uid, ok := UserID(c); ok {
			caller = fmt.Sprintf("user:%d", uid)
		}

		ctx := c.UserContext()
		w, err := hit(ctx, rdb, resource, caller, window)
		if err != nil {
			RedisErrors.WithLabelValues("ratelimit").Inc()
			Logger.WarnContext(ctx, "rate limit check failed",
				slog.String("resource", resource),
				slog.String("error", err.Error()),
			)
			if policy == FailClosed {
				return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
					Error: "Rate limiting is temporarily unavailable",
				})
			}
			return c.Next()
		}

		if w.Count > int64(limit) {
			if w.Remaining > 0 {
				c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(w.Remaining.Round(time.Second)/time.Second)))
			}
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "Too many requests, please try again later.",
			})
		}
		return c.Next()
	}
}
