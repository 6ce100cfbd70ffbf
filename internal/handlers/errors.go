package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/canconnect/internal/types"
	"github.com/localnerve/canconnect/internal/utils"
)

// ErrorHandler renders every unhandled error as the standard error envelope
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	var fe *fiber.Error
	var ce *types.CustomError
	switch {
	case errors.As(err, &ce):
		code = ce.Code
		message = ce.Message
		if ce.Err != nil {
			message += ": " + ce.Err.Error()
		}
		errorType = ce.Type
	case errors.As(err, &fe):
		code = fe.Code
		message = fe.Message
		if code == fiber.StatusNotFound {
			errorType = "notFound"
		}
	}

	return utils.ErrorResponse(c, message, code, errorType)
}

// NotFound is the catch-all handler for unknown routes
func NotFound(c *fiber.Ctx) error {
	return utils.NotFoundResponse(c, "[404] Resource Not Found")
}
