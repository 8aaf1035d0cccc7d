package handlers

import (
	"context"
	"time"

	"hseinspect/internal/app"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandler reports liveness plus whether postgres and valkey answer.
// A failing dependency turns the response into a 503 for load balancers.
func HealthHandler(router fiber.Router, app *app.App) {
	log := logger.New("handlers").File("health_handler").Function("health")

	router.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
		defer cancel()

		status, code := "ok", fiber.StatusOK
		if err := app.Database.Ping(ctx); err != nil {
			log.Warn("health check failed", "error", err)
			status, code = "degraded", fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status":      status,
			"version":     app.Config.GeneralVersion,
			"environment": app.Config.Environment,
			"service":     "hseinspect_api",
		})
	})
}
