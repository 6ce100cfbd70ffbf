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
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/canconnect/internal/config"
	"github.com/localnerve/canconnect/internal/testutil"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")

	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	usage := `
Start a record store container for local development, using STORE_BACKEND and
DB_TYPE from the environment. The image comes from POSTGRES_IMAGE, MARIADB_IMAGE,
MYSQL_IMAGE or REDIS_IMAGE. Prints the settings the server needs to reach it and
runs until interrupted.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to the .env file

example
  testcontainers -f /path/to/something/.env
`
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	} else {
		log.Printf("No environment file specified, using current environment variables\n")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	container, err := start(ctx)
	if err != nil {
		log.Fatalf("Failed to create store container: %v\n", err)
	}
	printEnv(container.Config)

	<-ctx.Done()
	log.Printf("Received signal, terminating store container...\n")
	if err := container.Terminate(context.Background()); err != nil {
		log.Printf("Failed to terminate store container: %v\n", err)
	}
}

func start(ctx context.Context) (*testutil.Container, error) {
	backend := envOr("STORE_BACKEND", config.BackendSQL)
	if backend == config.BackendRedis {
		return testutil.RunRedis(ctx, envOr("REDIS_IMAGE", "redis:7-alpine"))
	}
	if backend != config.BackendSQL {
		return nil, fmt.Errorf("no container for store backend %q", backend)
	}

	dbType := envOr("DB_TYPE", "postgres")
	switch dbType {
	case "postgres":
		return testutil.RunDatabase(ctx, dbType, envOr("POSTGRES_IMAGE", "postgres:17-alpine"))
	case "mariadb":
		return testutil.RunDatabase(ctx, dbType, envOr("MARIADB_IMAGE", "mariadb:11"))
	case "mysql":
		return testutil.RunDatabase(ctx, dbType, envOr("MYSQL_IMAGE", "mysql:8.4"))
	}
	return nil, fmt.Errorf("no container for database type %q", dbType)
}

func printEnv(cfg *config.Config) {
	fmt.Printf("STORE_BACKEND=%s\n", cfg.StoreBackend)
	if cfg.StoreBackend == config.BackendRedis {
		fmt.Printf("REDIS_ADDR=%s\n", cfg.RedisAddr)
		return
	}
	fmt.Printf("DB_TYPE=%s\n", cfg.DBType)
	fmt.Printf("DB_HOST=%s\n", cfg.DBHost)
	fmt.Printf("DB_PORT=%s\n", cfg.DBPort)
	fmt.Printf("DB_DATABASE=%s\n", cfg.DBDatabase)
	fmt.Printf("DB_APP_USER=%s\n", cfg.DBAppUser)
	fmt.Printf("DB_APP_PASSWORD=%s\n", cfg.DBAppPassword)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
