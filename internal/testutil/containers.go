// containers.go
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

package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/localnerve/canconnect/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Container is a started store container and the config that reaches it
type Container struct {
	Container testcontainers.Container
	Config    *config.Config
}

// Terminate stops the container
func (c *Container) Terminate(ctx context.Context) error {
	if c == nil || c.Container == nil {
		return nil
	}
	return c.Container.Terminate(ctx)
}

// RunDatabase starts a database container of dbType from image and returns a
// config whose SQL settings point at it
func RunDatabase(ctx context.Context, dbType, image string) (*Container, error) {
	containerPort, env := dbContainerSettings(dbType)

	c, host, port, err := run(ctx, image, containerPort, env)
	if err != nil {
		return nil, err
	}

	c.Config = &config.Config{
		StoreBackend:         config.BackendSQL,
		DBType:               dbType,
		DBHost:               host,
		DBPort:               port,
		DBDatabase:           "canconnect",
		DBAppUser:            "canconnect",
		DBAppPassword:        "canconnect",
		DBAppConnectionLimit: 4,
	}
	return c, nil
}

// RunRedis starts a redis container from image and returns a config for the redis backend
func RunRedis(ctx context.Context, image string) (*Container, error) {
	c, host, port, err := run(ctx, image, "6379", nil)
	if err != nil {
		return nil, err
	}

	c.Config = &config.Config{
		StoreBackend: config.BackendRedis,
		RedisAddr:    host + ":" + port,
	}
	return c, nil
}

func run(ctx context.Context, image, containerPort string, env map[string]string) (*Container, string, string, error) {
	tcpPort, err := nat.NewPort("tcp", containerPort)
	if err != nil {
		return nil, "", "", fmt.Errorf("create port: %w", err)
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{string(tcpPort)},
			Env:          env,
			WaitingFor:   wait.ForListeningPort(tcpPort).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, "", "", fmt.Errorf("start %s: %w", image, err)
	}
	c := &Container{Container: container}

	host, err := container.Host(ctx)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, "", "", fmt.Errorf("container host: %w", err)
	}
	mapped, err := container.MappedPort(ctx, tcpPort)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, "", "", fmt.Errorf("mapped port: %w", err)
	}

	return c, host, mapped.Port(), nil
}

// StartDatabase starts the database image named by the given env variable
// (e.g. POSTGRES_IMAGE=postgres:17-alpine) for the duration of the test.
// The test is skipped in -short mode or when the variable is unset.
func StartDatabase(t *testing.T, dbType, imageEnv string) *Container {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	image := os.Getenv(imageEnv)
	if image == "" {
		t.Skipf("%s not set, skipping container test", imageEnv)
	}

	c, err := RunDatabase(context.Background(), dbType, image)
	if err != nil {
		t.Fatalf("Failed to start database container: %v", err)
	}
	t.Cleanup(func() {
		if err := c.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate database container: %v", err)
		}
	})

	return c
}

func dbContainerSettings(dbType string) (string, map[string]string) {
	switch dbType {
	case "mysql", "mariadb":
		return "3306", map[string]string{
			"MYSQL_ROOT_PASSWORD": "root",
			"MYSQL_DATABASE":      "canconnect",
			"MYSQL_USER":          "canconnect",
			"MYSQL_PASSWORD":      "canconnect",
		}
	}
	return "5432", map[string]string{
		"POSTGRES_DB":       "canconnect",
		"POSTGRES_USER":     "canconnect",
		"POSTGRES_PASSWORD": "canconnect",
	}
}
