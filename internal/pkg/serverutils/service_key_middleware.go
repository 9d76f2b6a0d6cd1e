package serverutils

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// ServiceKeyMiddleware guards the trusted backend-to-backend route group.
// It is the ONLY way into the /internal endpoints: end-user JWT auth never
// reaches them, and this middleware never reads user claims. Callers that
// pass are allowed to skip ownership checks (target existence is still
// enforced in the services).
func ServiceKeyMiddleware(serviceKey string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if serviceKey == "" {
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "Service channel disabled"})
		}
		provided := ctx.Get("X-Service-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(serviceKey)) != 1 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid service key"})
		}
		return ctx.Next()
	}
}
