package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/canconnect/internal/catalog"
	"github.com/localnerve/canconnect/internal/config"
	"github.com/localnerve/canconnect/internal/logger"
	"github.com/localnerve/canconnect/internal/middleware"
	"github.com/localnerve/canconnect/internal/services"
	"github.com/localnerve/canconnect/internal/store"
)

// Deps is everything the API routes need
type Deps struct {
	Config       *config.Config
	Backend      store.Backend
	Log          logger.Logger
	Catalog      *catalog.Catalog
	Applications *services.ApplicationService
	Payments     *services.PaymentService
	Auth         *services.AuthService
}

// RegisterRoutes mounts the portal API on api
func RegisterRoutes(api fiber.Router, d Deps) {
	apps := &ApplicationsHandler{Applications: d.Applications, Payments: d.Payments, Catalog: d.Catalog}
	pays := &PaymentsHandler{Applications: d.Applications, Payments: d.Payments}
	cat := &CatalogHandler{Catalog: d.Catalog}
	auth := &AuthHandler{Auth: d.Auth}
	health := &HealthHandler{Config: d.Config, Backend: d.Backend, Log: d.Log}

	user := middleware.AuthUser(d.Auth)
	staff := middleware.AuthStaff(d.Auth)
	admin := middleware.AuthAdmin(d.Auth)

	api.Get("/health", health.Health)

	// Public catalog
	api.Get("/services", cat.ListServices)
	api.Get("/services/:slug", cat.GetService)

	// Sessions
	api.Post("/auth/login", auth.Login)
	api.Post("/auth/register", auth.Register)
	api.Post("/auth/logout", auth.Logout)
	api.Get("/auth/me", user, auth.Me)

	// Applications; tracking by id is public
	a := api.Group("/applications")
	a.Get("/stats", staff, apps.Stats)
	a.Post("/", user, apps.CreateApplication)
	a.Get("/", staff, apps.ListApplications)
	a.Get("/:id", apps.GetApplication)
	a.Patch("/:id", user, apps.PatchApplication)
	a.Put("/:id/status", staff, apps.UpdateStatus)
	a.Delete("/:id", admin, apps.DeleteApplication)
	a.Get("/:id/payments", user, apps.ApplicationPayments)

	// Payments
	p := api.Group("/payments")
	p.Get("/stats", staff, pays.Stats)
	p.Post("/", user, pays.CreatePayment)
	p.Get("/:transactionId", user, pays.GetPayment)
	p.Get("/:transactionId/receipt", user, pays.GetReceipt)
}
