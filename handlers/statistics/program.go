package statistics

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sila-platform/sila-api/model"
	"github.com/sila-platform/sila-api/utils/middleware"
	"github.com/sila-platform/sila-api/utils/query"
	"github.com/sila-platform/sila-api/utils/response"
	"gorm.io/gorm"
)

// GetProgramStatistics handles GET /programs/:program_id/statistics.
func (h *StatisticsHandler) GetProgramStatistics(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if !identity.IsMinistry() {
		return response.Forbidden(c, "Only ministry users can view program statistics")
	}

	id := query.ParseID(c.Params("program_id"))
	var program model.Program
	if err := h.db.First(&program, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "")
		}
		return response.InternalServerError(c, "Failed to load program")
	}

	stats, err := h.stats.ProgramStatistics(&program)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute statistics")
	}
	return response.Success(c, stats)
}
