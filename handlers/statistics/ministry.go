package statistics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sila-platform/sila-api/utils/middleware"
	"github.com/sila-platform/sila-api/utils/response"
)

// GetMinistryStatistics handles GET /ministry/statistics.
func (h *StatisticsHandler) GetMinistryStatistics(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if !identity.IsMinistry() {
		return response.Forbidden(c, "Only ministry users can view ministry statistics")
	}
	name, err := identity.MinistryName()
	if err != nil {
		return response.BadRequest(c, "Ministry name not found")
	}

	stats, err := h.stats.MinistryStatistics(name, filtersFromQuery(c))
	if err != nil {
		return response.InternalServerError(c, "Failed to compute statistics")
	}
	return response.Success(c, stats)
}

// ExportMinistryStatistics handles POST /ministry/statistics.
func (h *StatisticsHandler) ExportMinistryStatistics(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if !identity.IsMinistry() {
		return response.Forbidden(c, "Only ministry users can export statistics")
	}
	name, err := identity.MinistryName()
	if err != nil {
		return response.BadRequest(c, "Ministry name not found")
	}

	var req ExportRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	exportType := req.ExportType
	if exportType == "" {
		exportType = "applications"
	}

	filename, data, err := h.exports.MinistryCSV(name, exportType, filtersFromBody(&req))
	if err != nil {
		return response.InternalServerError(c, "Failed to export statistics")
	}
	return sendCSV(c, filename, data)
}
