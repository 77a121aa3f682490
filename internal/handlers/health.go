package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tripsit/tripsit-api/internal/config"
	"github.com/tripsit/tripsit-api/internal/services"
	"gorm.io/gorm"
)

// HealthHandler reports the state of the service dependencies
type HealthHandler struct {
	Config *config.Config
	DB     *gorm.DB
}

// Check handles GET /health
// @Summary Health check
// @Description Pings the database and any configured SMTP relay or redis cache
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	result := services.HealthCheck(c.UserContext(), h.Config, h.DB)
	status := fiber.StatusOK
	if !result.Healthy() {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
