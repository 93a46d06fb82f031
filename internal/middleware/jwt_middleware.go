package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"styleshop/internal/apperror"
	"styleshop/internal/identity"
)

// TokenValidator resolves a bearer token into the caller's identity.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (identity.Identity, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
// The resolved identity is stored in the request's user context.
func AuthRequired(tokens TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperror.Unauthorized("Authorization header is required")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return apperror.Unauthorized("Authorization header format must be 'Bearer <token>'")
		}

		who, err := tokens.ValidateToken(c.UserContext(), strings.TrimSpace(parts[1]))
		if err != nil {
			return err
		}

		c.SetUserContext(identity.NewContext(c.UserContext(), who))
		c.Locals("user_id", who.UserID)
		return c.Next()
	}
}

// Caller returns the identity set by AuthRequired.
func Caller(c *fiber.Ctx) (identity.Identity, error) {
	who, ok := identity.FromContext(c.UserContext())
	if !ok {
		return identity.Identity{}, apperror.Unauthorized("Unauthorized")
	}
	return who, nil
}
