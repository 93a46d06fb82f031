package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"styleshop/internal/apperror"
)

const HeaderAPIKey = "X-API-KEY"

// AdminAPIKey guards admin routes with a shared key. An empty key closes
// the routes entirely.
func AdminAPIKey(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get(HeaderAPIKey)
		if key == "" || got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			return apperror.Unauthorized("Invalid API key")
		}
		return c.Next()
	}
}
