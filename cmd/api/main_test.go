package main

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"floatbook_backend/pkg/database"
)

// buildRouteTestApp wires the full route table over a database handle that
// never connects. Handlers that reach the database fail with 500, which is
// enough to tell an open route from a token-gated one.
func buildRouteTestApp(t *testing.T) *fiber.App {
	db, err := gorm.Open(postgres.Open("host=127.0.0.1 port=1 user=none dbname=none sslmode=disable"), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	database.DB = db

	app := fiber.New()
	setupRoutes(app)
	return app
}

func TestPublicRoutesSkipAuth(t *testing.T) {
	app := buildRouteTestApp(t)

	t.Run("stripe webhook accepts token-less requests", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/webhook", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		// Signature verification rejects the empty payload, but the
		// request must reach the handler rather than the auth gate.
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("plan list needs no token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/subscriptions/plans", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.NotEqual(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("login and register need no token", func(t *testing.T) {
		for _, path := range []string{"/api/auth/login", "/api/auth/register"} {
			req := httptest.NewRequest("POST", path, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.NotEqual(t, fiber.StatusUnauthorized, resp.StatusCode, path)
		}
	})
}

func TestTenantRoutesRequireAuth(t *testing.T) {
	app := buildRouteTestApp(t)

	protected := []struct {
		method string
		path   string
	}{
		{"GET", "/api/me"},
		{"GET", "/api/rooms/"},
		{"GET", "/api/bookings/"},
		{"GET", "/api/calendar/"},
		{"GET", "/api/dashboard/stats"},
		{"GET", "/api/reports/daily"},
		{"GET", "/api/subscriptions/my"},
		{"POST", "/api/payments/bkash/create"},
		{"GET", "/api/admin/stats"},
	}

	for _, route := range protected {
		req := httptest.NewRequest(route.method, route.path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "%s %s", route.method, route.path)
	}
}
