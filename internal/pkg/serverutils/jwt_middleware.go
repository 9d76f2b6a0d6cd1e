package serverutils

import (
	"os"
	"strings"

	"lecturelens-be/internal/pkg/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JwtMiddleware authenticates the bearer token and stores the caller's id in
// ctx.Locals("user_id"). Failures flow through the central error handler so
// auth answers the same envelope as every other error.
func JwtMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get(fiber.HeaderAuthorization)
	tokenStr, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || tokenStr == "" {
		return apperrors.ErrAuthenticationRequired
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrTokenInvalid
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return apperrors.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return apperrors.ErrTokenInvalid
	}

	ctx.Locals("user_id", claims["user_id"])
	return ctx.Next()
}
