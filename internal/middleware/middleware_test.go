package middleware

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/canconnect/internal/services"
	"github.com/localnerve/canconnect/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorCodeHandler(c *fiber.Ctx, err error) error {
	if ce, ok := err.(*types.CustomError); ok {
		return c.Status(ce.Code).SendString(ce.Type)
	}
	return fiber.DefaultErrorHandler(c, err)
}

func newApp(t *testing.T) (*fiber.App, *services.AuthService) {
	t.Helper()
	auth := services.NewAuthService(0, nil)
	app := fiber.New(fiber.Config{ErrorHandler: errorCodeHandler})

	whoami := func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(string(user.Role))
	}
	app.Get("/user", AuthUser(auth), whoami)
	app.Get("/staff", AuthStaff(auth), whoami)
	app.Get("/admin", AuthAdmin(auth), whoami)
	return app, auth
}

func TestAuthRoles(t *testing.T) {
	app, auth := newApp(t)
	ctx := context.Background()

	citizen, err := auth.Login(ctx, "c@example.com", "pw")
	require.NoError(t, err)
	staff, err := auth.Login(ctx, "staff@canconnect.gov.ph", "staff123")
	require.NoError(t, err)
	admin, err := auth.Login(ctx, "admin@canconnect.gov.ph", "admin123")
	require.NoError(t, err)

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"no token", "/user", "", fiber.StatusUnauthorized},
		{"unknown token", "/user", "bogus", fiber.StatusUnauthorized},
		{"citizen user route", "/user", citizen.Token, fiber.StatusOK},
		{"citizen staff route", "/staff", citizen.Token, fiber.StatusForbidden},
		{"staff staff route", "/staff", staff.Token, fiber.StatusOK},
		{"admin staff route", "/staff", admin.Token, fiber.StatusOK},
		{"staff admin route", "/admin", staff.Token, fiber.StatusForbidden},
		{"admin admin route", "/admin", admin.Token, fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAuthRoles_Cookie(t *testing.T) {
	app, auth := newApp(t)
	session, err := auth.Login(context.Background(), "staff@canconnect.gov.ph", "staff123")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/staff", nil)
	req.Header.Set("Cookie", SessionCookie+"="+session.Token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestVersionMiddleware(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: errorCodeHandler})
	app.Use(VersionMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("apiVersion").(string))
	})

	tests := map[string]int{
		"":      fiber.StatusOK,
		"1.0":   fiber.StatusOK,
		"v1":    fiber.StatusOK,
		"1.2.0": fiber.StatusOK,
		"2.0.0": fiber.StatusBadRequest,
	}
	for header, want := range tests {
		req := httptest.NewRequest("GET", "/", nil)
		if header != "" {
			req.Header.Set("X-Api-Version", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, header)
		if want == fiber.StatusOK {
			assert.NotEmpty(t, resp.Header.Get("X-Api-Version"))
		}
	}
}
