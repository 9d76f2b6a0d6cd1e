package serverutils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/whoami", JwtMiddleware, func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"user_id": ctx.Locals("user_id")})
	})
	return app
}

func TestJwtMiddlewareRejectsWithErrorEnvelope(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")
	app := newAuthTestApp(t)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic abc123"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not.a.jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

			var apiErr ApiError
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&apiErr))
			assert.False(t, apiErr.Success)
			assert.Equal(t, fiber.StatusUnauthorized, apiErr.Code)
			assert.NotEmpty(t, apiErr.Message)
		})
	}
}

func TestJwtMiddlewareRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")
	app := newAuthTestApp(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("some_other_secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+signed)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJwtMiddlewarePassesUserIdThrough(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")
	app := newAuthTestApp(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test_secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+signed)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "u-1", body["user_id"])
}
