package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/localnerve/canconnect/internal/config"
	"github.com/localnerve/canconnect/internal/logger"
	"github.com/localnerve/canconnect/internal/services"
	"github.com/localnerve/canconnect/internal/store"
	"github.com/localnerve/canconnect/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.NewStructured("error", cfg.LogFormat)
	ctx := context.Background()

	opened, err := store.Open(ctx, cfg, appLog)
	if err != nil {
		log.Fatalf("Failed to open record store: %v", err)
	}
	defer opened.Close()

	// Perform health check
	result := services.HealthCheck(ctx, cfg, opened.Backend, appLog)

	// The server answers too when it is running alongside
	if err := utils.PingServer(ctx, cfg.Port); err != nil {
		result.Details["server"] = err.Error()
	} else {
		result.Details["server"] = "ok"
	}

	// Output result as JSON
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health check result: %v", err)
	}

	fmt.Println(string(output))

	// Exit with appropriate code
	if result.Status != "healthy" {
		opened.Close()
		os.Exit(1)
	}
}
