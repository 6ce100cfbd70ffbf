package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/canconnect/internal/catalog"
	"github.com/localnerve/canconnect/internal/middleware"
	"github.com/localnerve/canconnect/internal/models"
	"github.com/localnerve/canconnect/internal/services"
	"github.com/localnerve/canconnect/internal/types"
	"github.com/localnerve/canconnect/internal/utils"
	"github.com/localnerve/canconnect/internal/validate"
)

// ApplicationsHandler handles application routes
type ApplicationsHandler struct {
	Applications *services.ApplicationService
	Payments     *services.PaymentService
	Catalog      *catalog.Catalog
}

// CreateApplicationRequest is the body of POST /api/applications
type CreateApplicationRequest struct {
	ServiceType string                 `json:"serviceType" example:"Barangay Clearance"`
	FormData    map[string]interface{} `json:"formData"`
}

// StatusUpdateRequest is the body of PUT /api/applications/:id/status
type StatusUpdateRequest struct {
	Status models.Status `json:"status" example:"processing"`
	Steps  []models.Step `json:"steps,omitempty"`
}

// ApplicationPatchRequest is the body of PATCH /api/applications/:id
type ApplicationPatchRequest struct {
	Status        *models.Status         `json:"status,omitempty"`
	Steps         []models.Step          `json:"steps,omitempty"`
	FormData      map[string]interface{} `json:"formData,omitempty"`
	PaymentStatus *models.PaymentStatus  `json:"paymentStatus,omitempty"`
	TransactionID *models.TransactionID  `json:"transactionId,omitempty"`
	PaymentAmount *types.FlexFloat64     `json:"paymentAmount,omitempty" swaggertype:"number"`
}

// touchesPayment reports whether the patch sets any payment link field
func (r ApplicationPatchRequest) touchesPayment() bool {
	return r.PaymentStatus != nil || r.TransactionID != nil || r.PaymentAmount != nil
}

func (r ApplicationPatchRequest) update() models.ApplicationUpdate {
	u := models.ApplicationUpdate{
		Status:        r.Status,
		Steps:         r.Steps,
		FormData:      r.FormData,
		PaymentStatus: r.PaymentStatus,
		TransactionID: r.TransactionID,
	}
	if r.PaymentAmount != nil {
		amount := r.PaymentAmount.Float64()
		u.PaymentAmount = &amount
	}
	return u
}

// CreateApplication handles POST /api/applications
// @Summary Submit an application
// @Description Create a pending application for a service. A known service slug is stored as its display name.
// @Tags Applications
// @Accept json
// @Produce json
// @Param body body CreateApplicationRequest true "Service type and form fields"
// @Success 201 {object} models.ApplicationRecord
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /applications [post]
func (h *ApplicationsHandler) CreateApplication(c *fiber.Ctx) error {
	var body CreateApplicationRequest
	if ok, err := decodeBody(c, validate.CreateApplication, &body); !ok {
		return err
	}

	serviceType := body.ServiceType
	if svc, ok := h.Catalog.Resolve(serviceType); ok {
		serviceType = svc.Name
	}

	record, err := h.Applications.AddApplication(c.UserContext(), serviceType, body.FormData)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "addApplication")
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

// ListApplications handles GET /api/applications?q=...&status=...
// @Summary List or search applications
// @Description Without q, every application. With q, a case-insensitive match on id or service type.
// @Tags Applications
// @Produce json
// @Param q query string false "Search text"
// @Param status query string false "Comma-separated statuses to keep"
// @Success 200 {array} models.ApplicationRecord
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /applications [get]
func (h *ApplicationsHandler) ListApplications(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var result []models.ApplicationRecord
	if q := c.Query("q"); q != "" {
		result = h.Applications.SearchApplications(ctx, q)
	} else {
		result = h.Applications.AllApplications(ctx)
	}

	if statuses := parseList(c, "status"); len(statuses) > 0 {
		keep := make(map[models.Status]struct{}, len(statuses))
		for _, s := range statuses {
			keep[models.Status(s)] = struct{}{}
		}
		filtered := make([]models.ApplicationRecord, 0, len(result))
		for _, rec := range result {
			if _, ok := keep[rec.Status]; ok {
				filtered = append(filtered, rec)
			}
		}
		result = filtered
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// GetApplication handles GET /api/applications/:id
// @Summary Track an application
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} models.ApplicationRecord
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /applications/{id} [get]
func (h *ApplicationsHandler) GetApplication(c *fiber.Ctx) error {
	id := models.ApplicationID(c.Params("id"))

	record, ok := h.Applications.GetApplicationByID(c.UserContext(), id)
	if !ok {
		return utils.NotFoundResponse(c, fmt.Sprintf("Application '%s' not found", id))
	}

	return c.Status(fiber.StatusOK).JSON(record)
}

// PatchApplication handles PATCH /api/applications/:id
// @Summary Update application fields
// @Description Merge the given fields into the application. The id cannot be changed.
// @Description Payment fields can only be set by staff.
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param body body ApplicationPatchRequest true "Fields to update"
// @Success 200 {object} models.ApplicationRecord
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /applications/{id} [patch]
func (h *ApplicationsHandler) PatchApplication(c *fiber.Ctx) error {
	id := models.ApplicationID(c.Params("id"))

	var body ApplicationPatchRequest
	if ok, err := decodeBody(c, validate.ApplicationPatch, &body); !ok {
		return err
	}
	if body.touchesPayment() {
		if user, _ := middleware.CurrentUser(c); !user.IsStaff() {
			return utils.ErrorResponse(c, "Payment fields can only be set by staff", fiber.StatusForbidden, "auth.staff")
		}
	}

	record, ok, err := h.Applications.UpdateApplication(c.UserContext(), id, body.update())
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "updateApplication")
	}
	if !ok {
		return utils.NotFoundResponse(c, fmt.Sprintf("Application '%s' not found", id))
	}

	return c.Status(fiber.StatusOK).JSON(record)
}

// UpdateStatus handles PUT /api/applications/:id/status
// @Summary Set application status
// @Description Staff only. Steps, when given, replace the tracking steps wholesale.
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param body body StatusUpdateRequest true "New status and optional steps"
// @Success 200 {object} models.ApplicationRecord
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /applications/{id}/status [put]
func (h *ApplicationsHandler) UpdateStatus(c *fiber.Ctx) error {
	id := models.ApplicationID(c.Params("id"))

	var body StatusUpdateRequest
	if ok, err := decodeBody(c, validate.StatusUpdate, &body); !ok {
		return err
	}

	record, ok, err := h.Applications.UpdateApplicationStatus(c.UserContext(), id, body.Status, body.Steps)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "updateApplicationStatus")
	}
	if !ok {
		return utils.NotFoundResponse(c, fmt.Sprintf("Application '%s' not found", id))
	}

	return c.Status(fiber.StatusOK).JSON(record)
}

// DeleteApplication handles DELETE /api/applications/:id
// @Summary Delete an application
// @Tags Applications
// @Param id path string true "Application ID"
// @Success 204
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /applications/{id} [delete]
func (h *ApplicationsHandler) DeleteApplication(c *fiber.Ctx) error {
	id := models.ApplicationID(c.Params("id"))

	removed, err := h.Applications.DeleteApplication(c.UserContext(), id)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deleteApplication")
	}
	if !removed {
		return utils.NotFoundResponse(c, fmt.Sprintf("Application '%s' not found", id))
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Stats handles GET /api/applications/stats
// @Summary Application counts by status
// @Tags Applications
// @Produce json
// @Success 200 {object} models.ApplicationStats
// @Security BearerAuth
// @Router /applications/stats [get]
func (h *ApplicationsHandler) Stats(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.Applications.ApplicationStats(c.UserContext()))
}

// ApplicationPayments handles GET /api/applications/:id/payments
// @Summary Payments made for an application
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {array} models.PaymentRecord
// @Security BearerAuth
// @Router /applications/{id}/payments [get]
func (h *ApplicationsHandler) ApplicationPayments(c *fiber.Ctx) error {
	id := models.ApplicationID(c.Params("id"))
	return c.Status(fiber.StatusOK).JSON(h.Payments.ApplicationPayments(c.UserContext(), id))
}
