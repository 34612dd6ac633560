package statistics

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sila-platform/sila-api/model"
	"github.com/sila-platform/sila-api/utils/access"
	"github.com/sila-platform/sila-api/utils/middleware"
	"github.com/sila-platform/sila-api/utils/query"
	"github.com/sila-platform/sila-api/utils/response"
	"gorm.io/gorm"
)

// resolveCharity picks the charity whose dashboard is requested: a
// charity admin always gets its own, a ministry actor names one via
// charity_id.
func (h *StatisticsHandler) resolveCharity(c *fiber.Ctx, identity *access.Identity, charityID string) (*model.Charity, error) {
	if identity.Charity != nil {
		return identity.Charity, nil
	}
	if identity.IsMinistry() {
		if id := query.ParseID(charityID); id != 0 {
			var charity model.Charity
			if err := h.db.First(&charity, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, response.NotFound(c, "")
				}
				return nil, response.InternalServerError(c, "Failed to load charity")
			}
			return &charity, nil
		}
	}
	return nil, response.BadRequest(c, "Charity not found")
}

// GetCharityStatistics handles GET /charity/statistics.
func (h *StatisticsHandler) GetCharityStatistics(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if !identity.IsMinistry() && !identity.IsCharityAdmin() {
		return response.Forbidden(c, "Only charity admins can view charity statistics")
	}

	charity, err := h.resolveCharity(c, identity, c.Query("charity_id"))
	if err != nil {
		return err
	}

	stats, err := h.stats.CharityStatistics(charity, filtersFromQuery(c))
	if err != nil {
		return response.InternalServerError(c, "Failed to compute statistics")
	}
	return response.Success(c, stats)
}

// ExportCharityStatistics handles POST /charity/statistics.
func (h *StatisticsHandler) ExportCharityStatistics(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if !identity.IsMinistry() && !identity.IsCharityAdmin() {
		return response.Forbidden(c, "Only charity admins can export statistics")
	}

	var req ExportRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	charity, err := h.resolveCharity(c, identity, string(req.CharityID))
	if err != nil {
		return err
	}

	exportType := req.ExportType
	if exportType == "" {
		exportType = "all"
	}

	filename, data, err := h.exports.CharityCSV(charity, exportType, filtersFromBody(&req))
	if err != nil {
		return response.InternalServerError(c, "Failed to export statistics")
	}
	return sendCSV(c, filename, data)
}
