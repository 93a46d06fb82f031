package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"styleshop/internal/apperror"
	"styleshop/internal/identity"
)

// KeyFunc builds a rate-limit key from the request.
type KeyFunc func(c *fiber.Ctx) string

// KeyByIPAndPath limits each client per route.
func KeyByIPAndPath() KeyFunc {
	return func(c *fiber.Ctx) string {
		ip := c.IP()
		if ip == "" {
			ip = "unknown"
		}
		return "rl:path:" + c.Path() + ":ip:" + ip
	}
}

// KeyByUserOrIP limits signed-in callers per user and everyone else per IP.
func KeyByUserOrIP() KeyFunc {
	return func(c *fiber.Ctx) string {
		if who, ok := identity.FromContext(c.UserContext()); ok {
			return "rl:path:" + c.Path() + ":user:" + who.UserID
		}
		return KeyByIPAndPath()(c)
	}
}

// atomic INCR, expiry set on the first hit of a window
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RateLimit is a fixed-window limiter backed by Redis. A nil client turns it
// into a no-op and Redis errors let the request through.
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc, log logrus.FieldLogger) fiber.Handler {
	if rdb == nil || max <= 0 || window <= 0 || keyFn == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		ctx := c.UserContext()
		key := keyFn(c)

		count, err := incrExpireScript.Run(ctx, rdb, []string{key}, window.Milliseconds()).Int()
		if err != nil {
			log.WithError(err).Warn("rate limiter unavailable, allowing request")
			return c.Next()
		}

		resetSec := 0
		if ttl, err := rdb.PTTL(ctx, key).Result(); err == nil && ttl > 0 {
			resetSec = int((ttl + time.Second - 1) / time.Second)
		}
		remaining := max - count
		if remaining < 0 {
			remaining = 0
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(max))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Set("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if count > max {
			if resetSec > 0 {
				c.Set(fiber.HeaderRetryAfter, strconv.Itoa(resetSec))
			}
			return apperror.RateLimited("Too many requests, please try again later")
		}
		return c.Next()
	}
}
