package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/canconnect/internal/catalog"
	"github.com/localnerve/canconnect/internal/services"
	"github.com/localnerve/canconnect/internal/utils"
)

// CatalogHandler serves the list of government services and their fees
type CatalogHandler struct {
	Catalog *catalog.Catalog
}

// ServiceListing is a catalog entry as returned by the API
type ServiceListing struct {
	catalog.Listing
	FormattedFee string `json:"formattedFee" example:"₱50.00"`
}

func listing(l catalog.Listing) ServiceListing {
	return ServiceListing{Listing: l, FormattedFee: services.FormatCurrency(l.Fee)}
}

// ListServices handles GET /api/services
// @Summary List available services
// @Tags Services
// @Produce json
// @Param category query string false "Only services of this category"
// @Success 200 {array} ServiceListing
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /services [get]
func (h *CatalogHandler) ListServices(c *fiber.Ctx) error {
	category := c.Query("category")
	if category != "" {
		known := false
		for _, cat := range h.Catalog.Categories() {
			if cat == category {
				known = true
				break
			}
		}
		if !known {
			return utils.ErrorResponse(c, fmt.Sprintf("Unknown category '%s'", category), fiber.StatusBadRequest, validationErrorType)
		}
	}

	all := h.Catalog.All(category)
	out := make([]ServiceListing, 0, len(all))
	for _, l := range all {
		out = append(out, listing(l))
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

// GetService handles GET /api/services/:slug
// @Summary Get one service and its fee
// @Tags Services
// @Produce json
// @Param slug path string true "Service slug or display name"
// @Success 200 {object} ServiceListing
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /services/{slug} [get]
func (h *CatalogHandler) GetService(c *fiber.Ctx) error {
	slug := c.Params("slug")

	svc, ok := h.Catalog.Resolve(slug)
	if !ok {
		return utils.NotFoundResponse(c, fmt.Sprintf("Service '%s' not found", slug))
	}

	return c.Status(fiber.StatusOK).JSON(listing(catalog.Listing{ServiceType: svc, Fee: h.Catalog.FeeFor(svc.Slug)}))
}
