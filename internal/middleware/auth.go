package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/canconnect/internal/services"
	"github.com/localnerve/canconnect/internal/types"
)

// SessionCookie holds the session token for browser clients
const SessionCookie = "auth_token"

const userLocal = "user"

// SessionValidator resolves a session token to its user
type SessionValidator interface {
	ValidateSession(token string, roles []services.Role) (services.User, error)
}

// AuthUser requires any signed-in user
func AuthUser(auth SessionValidator) fiber.Handler {
	return AuthRoles(auth, "auth.user")
}

// AuthStaff requires a staff member or administrator
func AuthStaff(auth SessionValidator) fiber.Handler {
	return AuthRoles(auth, "auth.staff", services.RoleStaff)
}

// AuthAdmin requires an administrator
func AuthAdmin(auth SessionValidator) fiber.Handler {
	return AuthRoles(auth, "auth.admin", services.RoleAdmin)
}

// AuthRoles validates the request session against roles and stores the user in context
func AuthRoles(auth SessionValidator, errorType string, roles ...services.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := SessionToken(c)
		if token == "" {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Session token not found",
				Type:    errorType,
			}
		}

		user, err := auth.ValidateSession(token, roles)
		if err != nil {
			code := fiber.StatusUnauthorized
			if errors.Is(err, services.ErrForbidden) {
				code = fiber.StatusForbidden
			}
			return types.NewError(code, errorType, "Invalid session", err)
		}

		c.Locals(userLocal, user)
		return c.Next()
	}
}

// SessionToken reads a bearer token, falling back to the session cookie
func SessionToken(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return c.Cookies(SessionCookie)
}

// CurrentUser returns the user stored by the auth middleware
func CurrentUser(c *fiber.Ctx) (services.User, bool) {
	user, ok := c.Locals(userLocal).(services.User)
	return user, ok
}
