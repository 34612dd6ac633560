package program

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sila-platform/sila-api/model"
	"github.com/sila-platform/sila-api/utils/access"
	"github.com/sila-platform/sila-api/utils/middleware"
	"github.com/sila-platform/sila-api/utils/query"
	"github.com/sila-platform/sila-api/utils/response"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ApplicationRequest is the application payload. Everything beyond the
// free-form data blob (beneficiary, program, status) is derived
// server-side.
type ApplicationRequest struct {
	ApplicationData datatypes.JSON `json:"application_data"`
}

// ListApplications handles GET /programs/:program_id/applications. The
// scope decides whose applications are visible; an empty list and an
// out-of-scope program look the same.
func (h *ProgramHandler) ListApplications(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	programID := query.ParseID(c.Params("program_id"))

	var apps []model.ProgramApplication
	err := h.db.Scopes(access.ApplicationScope(identity, programID)).Order("program_applications.id").Find(&apps).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to load applications")
	}
	return response.Success(c, apps)
}

// Apply handles POST /programs/:program_id/applications. The duplicate
// pre-check gives the friendly error; the unique index on
// (beneficiary, program) is what actually holds under concurrency, and
// its violation maps to the same message.
func (h *ProgramHandler) Apply(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if !identity.IsBeneficiary() {
		return response.Forbidden(c, "Only beneficiaries can apply to programs")
	}

	programID := query.ParseID(c.Params("program_id"))
	var program model.Program
	if err := h.db.First(&program, programID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "")
		}
		return response.InternalServerError(c, "Failed to load program")
	}

	beneficiary := identity.Beneficiary

	var count int64
	err := h.db.Model(&model.ProgramApplication{}).
		Where("beneficiary_id = ? AND program_id = ?", beneficiary.ID, program.ID).
		Count(&count).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to check existing applications")
	}
	if count > 0 {
		return response.BadRequest(c, "You have already applied to this program")
	}

	var req ApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	application := model.ProgramApplication{
		BeneficiaryID:   beneficiary.ID,
		ProgramID:       program.ID,
		Status:          model.ApplicationStatusPending,
		ApplicationData: req.ApplicationData,
	}
	if err := h.db.Create(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return response.BadRequest(c, "You have already applied to this program")
		}
		return response.InternalServerError(c, "Failed to create application")
	}
	return response.Created(c, application)
}
