package testutil

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/tripsit/tripsit-api/internal/config"
)

const postgresPort = "5432"

// PostgresContainer is a disposable PostgreSQL server.
type PostgresContainer struct {
	Container testcontainers.Container
	Host      string
	Port      string
	Database  config.DatabaseConfig
}

// Terminate stops and removes the container.
func (pc *PostgresContainer) Terminate(ctx context.Context) error {
	if pc == nil || pc.Container == nil {
		return nil
	}
	return pc.Container.Terminate(ctx)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// StartPostgres starts a PostgreSQL container and returns the database
// settings to reach it from the host. POSTGRES_IMAGE, POSTGRES_USER,
// POSTGRES_PASSWORD and POSTGRES_DATABASE override the defaults.
func StartPostgres(ctx context.Context) (*PostgresContainer, error) {
	tcpPort, err := nat.NewPort("tcp", postgresPort)
	if err != nil {
		return nil, fmt.Errorf("create postgres port: %w", err)
	}

	user := envOr("POSTGRES_USER", "tripsit")
	password := envOr("POSTGRES_PASSWORD", "tripsit")
	name := envOr("POSTGRES_DATABASE", "tripsit")

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        envOr("POSTGRES_IMAGE", "postgres:16-alpine"),
			ExposedPorts: []string{string(tcpPort)},
			Env: map[string]string{
				"POSTGRES_USER":     user,
				"POSTGRES_PASSWORD": password,
				"POSTGRES_DB":       name,
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForListeningPort(tcpPort),
			).WithDeadline(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("postgres host: %w", err)
	}
	mapped, err := container.MappedPort(ctx, tcpPort)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("postgres mapped port: %w", err)
	}

	return &PostgresContainer{
		Container: container,
		Host:      host,
		Port:      mapped.Port(),
		Database: config.DatabaseConfig{
			Type:        "postgres",
			Host:        host,
			Port:        mapped.Port(),
			Name:        name,
			User:        user,
			Password:    password,
			MaxConns:    5,
			AutoMigrate: true,
		},
	}, nil
}
