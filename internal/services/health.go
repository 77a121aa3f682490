package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tripsit/tripsit-api/internal/config"
	"github.com/tripsit/tripsit-api/internal/pkg/logger"
	"github.com/tripsit/tripsit-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Health states.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDisabled  = "disabled"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	SMTP         string            `json:"smtp"`
	Redis        string            `json:"redis"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// Healthy reports whether every configured dependency answered.
func (r HealthCheckResult) Healthy() bool {
	return r.Status == StatusHealthy
}

func (r *HealthCheckResult) fail(component, detail string, err error) {
	r.Status = StatusUnhealthy
	r.Details[component+"_error"] = err.Error()
	msg := fmt.Sprintf("%s: %v", detail, err)
	if r.ErrorMessage == "" {
		r.ErrorMessage = msg
	} else {
		r.ErrorMessage = strings.Join([]string{r.ErrorMessage, msg}, "; ")
	}
	logger.Warn("health check failed", zap.String("component", component), zap.Error(err))
}

// HealthCheck performs a comprehensive health check of the service
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB) HealthCheckResult {
	result := HealthCheckResult{
		Status:  StatusHealthy,
		SMTP:    StatusDisabled,
		Redis:   StatusDisabled,
		Details: make(map[string]string),
	}

	sqlDB, err := db.DB()
	if err != nil {
		result.Database = "error"
		result.fail("database", "Database connection error", err)
	} else if err := sqlDB.PingContext(ctx); err != nil {
		result.Database = "unreachable"
		result.fail("database", "Database ping failed", err)
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.Database.Type
		result.Details["database_name"] = cfg.Database.Name
	}

	if cfg.MailEnabled() {
		if err := utils.PingHostPort(ctx, cfg.SMTP.Host, cfg.SMTP.Port, utils.DefaultPingTimeout); err != nil {
			result.SMTP = "unreachable"
			result.fail("smtp", "SMTP ping failed", err)
		} else {
			result.SMTP = "ok"
		}
	}

	if cfg.Redis.URL != "" {
		if err := utils.PingService(ctx, cfg.Redis.URL, utils.DefaultPingTimeout); err != nil {
			result.Redis = "unreachable"
			result.fail("redis", "Redis ping failed", err)
		} else {
			result.Redis = "ok"
		}
	}

	if result.Healthy() {
		logger.Debug("health check passed")
	}

	return result
}
