package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sila-platform/sila-api/database"
)

// HandleCheckHealth reports liveness plus database reachability.
func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	if err := store.HealthCheck(); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
