package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/canconnect/internal/models"
	"github.com/localnerve/canconnect/internal/services"
	"github.com/localnerve/canconnect/internal/utils"
	"github.com/localnerve/canconnect/internal/validate"
)

// PaymentsHandler handles payment routes
type PaymentsHandler struct {
	Applications *services.ApplicationService
	Payments     *services.PaymentService
}

// PaymentRequest is the body of POST /api/payments
type PaymentRequest struct {
	ApplicationID models.ApplicationID `json:"applicationId" example:"BC-2026-1234567"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod,omitempty" example:"e-wallet"`
}

// PaymentResponse is the outcome of POST /api/payments
type PaymentResponse struct {
	models.PaymentResult
	Amount          float64                   `json:"amount"`
	FormattedAmount string                    `json:"formattedAmount"`
	Application     *models.ApplicationRecord `json:"application,omitempty"`
}

// CreatePayment handles POST /api/payments
// @Summary Pay the fee of an application
// @Description Charges the service fee of the application. A completed payment is linked back onto the application; a declined one leaves it untouched.
// @Tags Payments
// @Accept json
// @Produce json
// @Param body body PaymentRequest true "Application and payment method"
// @Success 200 {object} PaymentResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 402 {object} PaymentResponse
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /payments [post]
func (h *PaymentsHandler) CreatePayment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var body PaymentRequest
	if ok, err := decodeBody(c, validate.Payment, &body); !ok {
		return err
	}

	app, ok := h.Applications.GetApplicationByID(ctx, body.ApplicationID)
	if !ok {
		return utils.NotFoundResponse(c, fmt.Sprintf("Application '%s' not found", body.ApplicationID))
	}

	method := body.PaymentMethod
	if method == "" {
		method = models.PaymentMethodEWallet
	}
	amount := h.Payments.FeeFor(app.Type)

	result, err := h.Payments.ProcessPayment(ctx, models.PaymentRecord{
		Amount:        amount,
		PaymentMethod: method,
		ServiceType:   app.Type,
		ApplicationID: app.ID,
		Status:        models.PaymentStatusProcessing,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return utils.ErrorResponse(c, result.Error, fiber.StatusServiceUnavailable, "payment.cancelled")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "processPayment")
	}

	response := PaymentResponse{
		PaymentResult:   result,
		Amount:          amount,
		FormattedAmount: services.FormatCurrency(amount),
	}
	if !result.Success {
		return c.Status(fiber.StatusPaymentRequired).JSON(response)
	}

	paid := models.PaymentStatusCompleted
	updated, found, err := h.Applications.UpdateApplication(ctx, app.ID, models.ApplicationUpdate{
		PaymentStatus: &paid,
		TransactionID: &result.TransactionID,
		PaymentAmount: &amount,
	})
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "updateApplication")
	}
	if found {
		response.Application = &updated
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetPayment handles GET /api/payments/:transactionId
// @Summary Get a payment record
// @Tags Payments
// @Produce json
// @Param transactionId path string true "Transaction ID"
// @Success 200 {object} models.PaymentRecord
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /payments/{transactionId} [get]
func (h *PaymentsHandler) GetPayment(c *fiber.Ctx) error {
	id := models.TransactionID(c.Params("transactionId"))

	record, ok := h.Payments.GetPaymentRecord(c.UserContext(), id)
	if !ok {
		return utils.NotFoundResponse(c, fmt.Sprintf("Payment '%s' not found", id))
	}

	return c.Status(fiber.StatusOK).JSON(record)
}

// GetReceipt handles GET /api/payments/:transactionId/receipt
// @Summary Plain text receipt of a payment
// @Tags Payments
// @Produce plain
// @Param transactionId path string true "Transaction ID"
// @Success 200 {string} string
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /payments/{transactionId}/receipt [get]
func (h *PaymentsHandler) GetReceipt(c *fiber.Ctx) error {
	id := models.TransactionID(c.Params("transactionId"))

	record, ok := h.Payments.GetPaymentRecord(c.UserContext(), id)
	if !ok {
		return utils.NotFoundResponse(c, fmt.Sprintf("Payment '%s' not found", id))
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(fiber.StatusOK).SendString(services.GenerateReceipt(record))
}

// Stats handles GET /api/payments/stats
// @Summary Payment totals
// @Tags Payments
// @Produce json
// @Success 200 {object} models.PaymentStats
// @Security BearerAuth
// @Router /payments/stats [get]
func (h *PaymentsHandler) Stats(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.Payments.PaymentStats(c.UserContext()))
}
