package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floatbook_backend/internal/middleware"
	"floatbook_backend/pkg/utils/jwt"
)

func buildTestApp() *fiber.App {
	app := fiber.New()

	app.Get("/protected", middleware.AuthMiddleware(), func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)
		return c.JSON(fiber.Map{"user_id": claims.UserID, "system_role": claims.SystemRole})
	})

	app.Get("/admin", middleware.AuthMiddleware(), middleware.SuperadminOnly(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	return app
}

func tokenFor(t *testing.T, userID uint, role string) string {
	t.Helper()
	token, err := jwt.GenerateToken(userID, "user@floatbook.test", role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")
	app := buildTestApp()

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", tokenFor(t, 7, "user"))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestSuperadminOnly(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")
	app := buildTestApp()

	t.Run("regular user is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", tokenFor(t, 7, "user"))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("superadmin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", tokenFor(t, 1, "superadmin"))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
