// main.go
//
// CanConnect e-government portal service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of canconnect.
// canconnect is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// canconnect is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with canconnect.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/canconnect/internal/catalog"
	"github.com/localnerve/canconnect/internal/config"
	"github.com/localnerve/canconnect/internal/handlers"
	"github.com/localnerve/canconnect/internal/logger"
	"github.com/localnerve/canconnect/internal/middleware"
	"github.com/localnerve/canconnect/internal/models"
	"github.com/localnerve/canconnect/internal/services"
	"github.com/localnerve/canconnect/internal/store"

	_ "github.com/localnerve/canconnect/docs/api" // Swagger docs
)

// @title CanConnect API
// @version 1.0.0
// @description E-government portal: service applications, tracking and fee payments
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/canconnect
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = zl.Sync() }()
	appLog := logger.NewZapAdapter(zl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the record store
	opened, err := store.Open(ctx, cfg, appLog)
	if err != nil {
		appLog.WithError(err).Error("failed to open record store", map[string]interface{}{"backend": cfg.StoreBackend})
		os.Exit(1)
	}
	defer func() {
		if err := opened.Close(); err != nil {
			appLog.WithError(err).Warn("failed to close record store", nil)
		}
	}()

	cat := catalog.New(cfg.DefaultServiceFee)
	deps := handlers.Deps{
		Config:  cfg,
		Backend: opened.Backend,
		Log:     appLog,
		Catalog: cat,
		Applications: services.NewApplicationService(
			store.NewJSONStore[models.ApplicationRecord](opened.Backend, store.ApplicationsKey, appLog), cat, appLog),
		Payments: services.NewPaymentService(
			store.NewJSONStore[models.PaymentRecord](opened.Backend, store.PaymentsKey, appLog), cat, appLog,
			services.PaymentSettings{
				Delay:       cfg.PaymentDelay,
				SuccessRate: cfg.PaymentSuccessRate,
				Currency:    cfg.Currency,
			}),
		Auth: services.NewAuthService(cfg.AuthDelay, appLog),
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("canconnect")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())
	handlers.RegisterRoutes(api, deps)

	// 404 handler
	app.Use(handlers.NotFound)

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		appLog.Info("gracefully shutting down", nil)
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	appLog.Info("starting server", map[string]interface{}{
		"port":  cfg.Port,
		"store": opened.Name,
	})
	if err := app.Listen(":" + cfg.Port); err != nil {
		appLog.WithError(err).Error("server stopped with error", nil)
		return
	}

	appLog.Info("server stopped", nil)
}
