package program

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sila-platform/sila-api/model"
	"github.com/sila-platform/sila-api/utils/access"
	"github.com/sila-platform/sila-api/utils/middleware"
	"github.com/sila-platform/sila-api/utils/query"
	"github.com/sila-platform/sila-api/utils/response"
	"github.com/sila-platform/sila-api/utils/validation"
	"gorm.io/gorm"
)

// ProgramHandler owns the program endpoints. Listing is public and
// shows active programs; a ministry actor sees its own programs in
// every status. The owner name on a program is always forced to the
// acting ministry's name, never taken from the payload.
type ProgramHandler struct {
	db *gorm.DB
}

// NewProgramHandler creates a new program handler
func NewProgramHandler(db *gorm.DB) *ProgramHandler {
	return &ProgramHandler{
		db: db,
	}
}

// ProgramRequest is the create payload. Dates use YYYY-MM-DD.
type ProgramRequest struct {
	Name                   string `json:"name" validate:"required"`
	Description            string `json:"description"`
	Status                 string `json:"status"`
	EligibilityCriteria    string `json:"eligibility_criteria"`
	EstimatedBeneficiaries string `json:"estimated_beneficiaries"`
	IconURL                string `json:"icon_url"`
	MaxCapacity            *int   `json:"max_capacity"`
	ApplicationDeadline    string `json:"application_deadline"`
	StartDate              string `json:"start_date"`
	EndDate                string `json:"end_date"`
}

// ProgramUpdateRequest is the partial update payload.
type ProgramUpdateRequest struct {
	Name                   *string `json:"name"`
	Description            *string `json:"description"`
	Status                 *string `json:"status"`
	EligibilityCriteria    *string `json:"eligibility_criteria"`
	EstimatedBeneficiaries *string `json:"estimated_beneficiaries"`
	IconURL                *string `json:"icon_url"`
	MaxCapacity            *int    `json:"max_capacity"`
	ApplicationDeadline    *string `json:"application_deadline"`
	StartDate              *string `json:"start_date"`
	EndDate                *string `json:"end_date"`
}

// List handles GET /programs. Anonymous and non-ministry callers see
// active programs only.
func (h *ProgramHandler) List(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	var programs []model.Program
	if err := h.db.Scopes(access.ProgramScope(identity)).Order("id").Find(&programs).Error; err != nil {
		return response.InternalServerError(c, "Failed to load programs")
	}
	return response.Success(c, programs)
}

// Create handles POST /programs.
func (h *ProgramHandler) Create(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if !identity.IsMinistry() {
		return response.Forbidden(c, "Only ministry users can create programs")
	}
	name, err := identity.MinistryName()
	if err != nil {
		return response.BadRequest(c, "Ministry name not found. Please update your profile.")
	}

	var req ProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.NewValidator().ValidateStruct(&req); err != nil {
		return response.ValidationErrors(c, validation.FormatValidationErrors(err))
	}

	status := req.Status
	if status == "" {
		status = model.ProgramStatusActive
	}

	program := model.Program{
		Name:                   req.Name,
		Description:            req.Description,
		MinistryOwner:          name,
		Status:                 status,
		EligibilityCriteria:    req.EligibilityCriteria,
		EstimatedBeneficiaries: req.EstimatedBeneficiaries,
		IconURL:                req.IconURL,
		MaxCapacity:            req.MaxCapacity,
		ApplicationDeadline:    query.ParseDate(req.ApplicationDeadline),
		StartDate:              query.ParseDate(req.StartDate),
		EndDate:                query.ParseDate(req.EndDate),
	}
	if err := h.db.Create(&program).Error; err != nil {
		return response.InternalServerError(c, "Failed to create program")
	}
	return response.Created(c, program)
}

// load fetches one program by id and applies the visibility predicate:
// hidden programs 404, foreign ministry programs 403.
func (h *ProgramHandler) load(c *fiber.Ctx, identity *access.Identity) (*model.Program, error) {
	id := query.ParseID(c.Params("program_id"))
	if id == 0 {
		return nil, response.NotFound(c, "")
	}
	var program model.Program
	if err := h.db.First(&program, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFound(c, "")
		}
		return nil, response.InternalServerError(c, "Failed to load program")
	}
	if err := access.ProgramAccess(identity, &program); err != nil {
		if errors.Is(err, access.ErrProgramDenied) {
			return nil, response.Forbidden(c, err.Error())
		}
		return nil, response.NotFound(c, err.Error())
	}
	return &program, nil
}

// Get handles GET /programs/:program_id.
func (h *ProgramHandler) Get(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	program, err := h.load(c, identity)
	if err != nil {
		return err
	}
	return response.Success(c, program)
}

// Update handles PUT/PATCH /programs/:program_id.
func (h *ProgramHandler) Update(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if !identity.IsMinistry() {
		return response.Forbidden(c, "Only ministry users can update programs")
	}

	program, err := h.load(c, identity)
	if err != nil {
		return err
	}

	name, nameErr := identity.MinistryName()
	if nameErr == nil && program.MinistryOwner != "" && !access.OwnsProgram(name, program.MinistryOwner) {
		return response.Forbidden(c, "You can only update programs that belong to your ministry")
	}

	var req ProgramUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name != nil {
		program.Name = *req.Name
	}
	if req.Description != nil {
		program.Description = *req.Description
	}
	if req.Status != nil {
		program.Status = *req.Status
	}
	if req.EligibilityCriteria != nil {
		program.EligibilityCriteria = *req.EligibilityCriteria
	}
	if req.EstimatedBeneficiaries != nil {
		program.EstimatedBeneficiaries = *req.EstimatedBeneficiaries
	}
	if req.IconURL != nil {
		program.IconURL = *req.IconURL
	}
	if req.MaxCapacity != nil {
		program.MaxCapacity = req.MaxCapacity
	}
	if req.ApplicationDeadline != nil {
		program.ApplicationDeadline = query.ParseDate(*req.ApplicationDeadline)
	}
	if req.StartDate != nil {
		program.StartDate = query.ParseDate(*req.StartDate)
	}
	if req.EndDate != nil {
		program.EndDate = query.ParseDate(*req.EndDate)
	}
	if nameErr == nil {
		program.MinistryOwner = name
	}

	if err := h.db.Save(program).Error; err != nil {
		return response.InternalServerError(c, "Failed to update program")
	}
	return response.Success(c, program)
}

// Delete handles DELETE /programs/:program_id.
func (h *ProgramHandler) Delete(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if !identity.IsMinistry() {
		return response.Forbidden(c, "Only ministry users can delete programs")
	}

	program, err := h.load(c, identity)
	if err != nil {
		return err
	}

	name, nameErr := identity.MinistryName()
	if nameErr == nil && program.MinistryOwner != "" && !access.OwnsProgram(name, program.MinistryOwner) {
		return response.Forbidden(c, "You can only delete programs that belong to your ministry")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("program_id = ?", program.ID).Delete(&model.ProgramApplication{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(program).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to delete program")
	}
	return response.NoContent(c)
}
