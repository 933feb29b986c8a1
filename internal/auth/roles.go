package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

// RequireSession ensures a session was attached by AuthMiddleware.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := SessionFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireAdmin ensures the session belongs to an administrator.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := SessionFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !session.IsAdmin {
			return apperrors.NewForbidden("admin access required")
		}
		return c.Next()
	}
}
