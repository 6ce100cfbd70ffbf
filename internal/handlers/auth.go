package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/canconnect/internal/middleware"
	"github.com/localnerve/canconnect/internal/services"
	"github.com/localnerve/canconnect/internal/utils"
	"github.com/localnerve/canconnect/internal/validate"
)

const authErrorType = "auth"

// AuthHandler handles login, registration and session routes
type AuthHandler struct {
	Auth *services.AuthService
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" example:"juan@example.com"`
	Password string `json:"password" example:"secret"`
}

// LoginResponse is the body returned on a successful login
type LoginResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Token   string        `json:"token"`
	User    services.User `json:"user"`
}

// RegisterResponse is the body returned on a successful registration
type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

func sessionCookie(token string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

// Login handles POST /api/auth/login
// @Summary Sign in
// @Description Issues a session token, also set as the auth_token cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body LoginRequest
	if ok, err := decodeBody(c, validate.Login, &body); !ok {
		return err
	}

	session, err := h.Auth.Login(c.UserContext(), body.Email, body.Password)
	if err != nil {
		return authError(c, err)
	}

	c.Cookie(sessionCookie(session.Token, session.ExpiresAt))
	return c.Status(fiber.StatusOK).JSON(LoginResponse{
		Success: true,
		Message: "Login successful",
		Token:   session.Token,
		User:    session.User,
	})
}

// Register handles POST /api/auth/register
// @Summary Register a citizen account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration details"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var body services.RegisterInput
	if ok, err := decodeBody(c, validate.Register, &body); !ok {
		return err
	}

	id, err := h.Auth.Register(c.UserContext(), body)
	if err != nil {
		return authError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(RegisterResponse{
		Success: true,
		Message: "Registration successful",
		UserID:  id,
	})
}

// Logout handles POST /api/auth/logout
// @Summary Sign out
// @Tags Auth
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if token := middleware.SessionToken(c); token != "" {
		h.Auth.Logout(token)
	}
	c.Cookie(sessionCookie("", time.Unix(0, 0)))
	return c.SendStatus(fiber.StatusNoContent)
}

// Me handles GET /api/auth/me
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} services.User
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.ErrorResponse(c, "Session token not found", fiber.StatusUnauthorized, authErrorType)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

func authError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrPasswordMismatch):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, validationErrorType)
	case errors.Is(err, services.ErrInvalidCredentials):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, authErrorType)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return utils.ErrorResponse(c, "Request cancelled", fiber.StatusServiceUnavailable, authErrorType)
	default:
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, authErrorType)
	}
}
