package services

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tripsit/tripsit-api/internal/config"
	"github.com/tripsit/tripsit-api/internal/testutil"
)

func TestHealthCheckDatabaseOnly(t *testing.T) {
	db := testutil.NewTestDB(t)
	cfg := &config.Config{Database: config.DatabaseConfig{Type: "sqlite", Name: ":memory:"}}

	result := HealthCheck(context.Background(), cfg, db)
	assert.True(t, result.Healthy())
	assert.Equal(t, "ok", result.Database)
	assert.Equal(t, StatusDisabled, result.SMTP)
	assert.Equal(t, StatusDisabled, result.Redis)
}

func TestHealthCheckUnreachableRedis(t *testing.T) {
	db := testutil.NewTestDB(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	cfg := &config.Config{
		Database: config.DatabaseConfig{Type: "sqlite", Name: ":memory:"},
		Redis:    config.RedisConfig{URL: "redis://" + addr},
	}

	result := HealthCheck(context.Background(), cfg, db)
	assert.False(t, result.Healthy())
	assert.Equal(t, StatusUnhealthy, result.Status)
	assert.Equal(t, "unreachable", result.Redis)
	assert.Contains(t, result.ErrorMessage, "Redis ping failed")
}
