package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/localnerve/canconnect/internal/catalog"
	"github.com/localnerve/canconnect/internal/config"
	"github.com/localnerve/canconnect/internal/logger"
	"github.com/localnerve/canconnect/internal/models"
	"github.com/localnerve/canconnect/internal/services"
	"github.com/localnerve/canconnect/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand(openRuntime)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "canconnect: %v\n", err)
		os.Exit(1)
	}
}

// runtime is what every command operates on
type runtime struct {
	applications *services.ApplicationService
	payments     *services.PaymentService
	catalog      *catalog.Catalog
	close        func() error
}

type opener func(ctx context.Context, envFile string) (*runtime, error)

func openRuntime(ctx context.Context, envFile string) (*runtime, error) {
	if envFile != "" {
		if err := os.Setenv("ENV_FILE", envFile); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	// Command output goes to stdout; only problems are logged
	log := logger.NewStructured("warn", "console")

	opened, err := store.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return newRuntime(opened.Backend, catalog.New(cfg.DefaultServiceFee), log, opened.Close), nil
}

func newRuntime(backend store.Backend, cat *catalog.Catalog, log logger.Logger, closeFn func() error) *runtime {
	return &runtime{
		applications: services.NewApplicationService(
			store.NewJSONStore[models.ApplicationRecord](backend, store.ApplicationsKey, log), cat, log),
		payments: services.NewPaymentService(
			store.NewJSONStore[models.PaymentRecord](backend, store.PaymentsKey, log), cat, log,
			services.DefaultPaymentSettings),
		catalog: cat,
		close:   closeFn,
	}
}
