package charity

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

// CharityHandler owns the charity CRUD endpoints. Reads are scoped by
// role; every mutation is ministry-only.
type CharityHandler struct {
	db *gorm.DB
}

// NewCharityHandler creates a new charity handler
func NewCharityHandler(db *gorm.DB) *CharityHandler {
	return &CharityHandler{
		db: db,
	}
}

// CharityRequest is the create payload.
type CharityRequest struct {
	Name               string `json:"name" validate:"required"`
	RegistrationNumber string `json:"registration_number" validate:"required"`
	IssuingAuthority   string `json:"issuing_authority"`
	CharityType        string `json:"charity_type"`
	Email              string `json:"email" validate:"required,email"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`
	City               string `json:"city"`
	Region             string `json:"region"`
	Description        string `json:"description"`
	Website            string `json:"website"`
	LicenseCertificate string `json:"license_certificate"`
	AdminIDDocument    string `json:"admin_id_document"`
}

// CharityUpdateRequest is the partial update payload.
type CharityUpdateRequest struct {
	Name               *string `json:"name"`
	RegistrationNumber *string `json:"registration_number"`
	IssuingAuthority   *string `json:"issuing_authority"`
	CharityType        *string `json:"charity_type"`
	Email              *string `json:"email"`
	Phone              *string `json:"phone"`
	Address            *string `json:"address"`
	City               *string `json:"city"`
	Region             *string `json:"region"`
	Description        *string `json:"description"`
	Website            *string `json:"website"`
	LicenseCertificate *string `json:"license_certificate"`
	AdminIDDocument    *string `json:"admin_id_document"`
	IsActive           *bool   `json:"is_active"`
}

// List handles GET /charities.
func (h *CharityHandler) List(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	var charities []model.Charity
	if err := h.db.Scopes(access.CharityScope(identity)).Order("id").Find(&charities).Error; err != nil {
		return response.InternalServerError(c, "Failed to load charities")
	}
	return response.Success(c, charities)
}

// Create handles POST /charities.
func (h *CharityHandler) Create(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if !identity.IsMinistry() {
		return response.Forbidden(c, "Only superusers can create charities")
	}

	var req CharityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.NewValidator().ValidateStruct(&req); err != nil {
		return response.ValidationErrors(c, validation.FormatValidationErrors(err))
	}

	charity := model.Charity{
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		IssuingAuthority:   req.IssuingAuthority,
		CharityType:        req.CharityType,
		Email:              req.Email,
		Phone:              req.Phone,
		Address:            req.Address,
		City:               req.City,
		Region:             req.Region,
		Description:        req.Description,
		Website:            req.Website,
		LicenseCertificate: req.LicenseCertificate,
		AdminIDDocument:    req.AdminIDDocument,
		IsActive:           true,
	}
	if err := h.db.Create(&charity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return response.BadRequest(c, "Registration number already exists.")
		}
		return response.InternalServerError(c, "Failed to create charity")
	}
	return response.Created(c, charity)
}

// load fetches one charity within the actor's scope. Out-of-scope rows
// are indistinguishable from missing ones.
func (h *CharityHandler) load(c *fiber.Ctx, identity *access.Identity) (*model.Charity, error) {
	id := query.ParseID(c.Params("charity_id"))
	if id == 0 {
		return nil, response.NotFound(c, "")
	}
	var charity model.Charity
	err := h.db.Scopes(access.CharityScope(identity)).First(&charity, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFound(c, "")
		}
		return nil, response.InternalServerError(c, "Failed to load charity")
	}
	return &charity, nil
}

// Get handles GET /charities/:charity_id.
func (h *CharityHandler) Get(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	charity, err := h.load(c, identity)
	if err != nil {
		return err
	}
	return response.Success(c, charity)
}

// Update handles PUT/PATCH /charities/:charity_id.
func (h *CharityHandler) Update(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if !identity.IsMinistry() {
		return response.Forbidden(c, "Only superusers can update charities")
	}

	charity, err := h.load(c, identity)
	if err != nil {
		return err
	}

	var req CharityUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name != nil {
		charity.Name = *req.Name
	}
	if req.RegistrationNumber != nil {
		charity.RegistrationNumber = *req.RegistrationNumber
	}
	if req.IssuingAuthority != nil {
		charity.IssuingAuthority = *req.IssuingAuthority
	}
	if req.CharityType != nil {
		charity.CharityType = *req.CharityType
	}
	if req.Email != nil {
		charity.Email = *req.Email
	}
	if req.Phone != nil {
		charity.Phone = *req.Phone
	}
	if req.Address != nil {
		charity.Address = *req.Address
	}
	if req.City != nil {
		charity.City = *req.City
	}
	if req.Region != nil {
		charity.Region = *req.Region
	}
	if req.Description != nil {
		charity.Description = *req.Description
	}
	if req.Website != nil {
		charity.Website = *req.Website
	}
	if req.LicenseCertificate != nil {
		charity.LicenseCertificate = *req.LicenseCertificate
	}
	if req.AdminIDDocument != nil {
		charity.AdminIDDocument = *req.AdminIDDocument
	}
	if req.IsActive != nil {
		charity.IsActive = *req.IsActive
	}

	if err := h.db.Save(charity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return response.BadRequest(c, "Registration number already exists.")
		}
		return response.InternalServerError(c, "Failed to update charity")
	}
	return response.Success(c, charity)
}

// Delete handles DELETE /charities/:charity_id. The charity exclusively
// owns its beneficiaries and events, so everything hanging off them
// goes in the same transaction.
func (h *CharityHandler) Delete(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if !identity.IsMinistry() {
		return response.Forbidden(c, "Only superusers can delete charities")
	}

	charity, err := h.load(c, identity)
	if err != nil {
		return err
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		return purgeCharity(tx, charity)
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to delete charity")
	}
	return response.NoContent(c)
}

// purgeCharity removes a charity and everything hanging off it. Rows
// are removed outright rather than soft-deleted: a lingering row would
// keep its unique registration_number, email and national_id values
// reserved forever.
func purgeCharity(tx *gorm.DB, charity *model.Charity) error {
	var beneficiaryIDs []uint
	if err := tx.Model(&model.Beneficiary{}).Where("charity_id = ?", charity.ID).Pluck("id", &beneficiaryIDs).Error; err != nil {
		return err
	}
	var eventIDs []uint
	if err := tx.Model(&model.Event{}).Where("charity_id = ?", charity.ID).Pluck("id", &eventIDs).Error; err != nil {
		return err
	}

	if len(beneficiaryIDs) > 0 {
		if err := tx.Unscoped().Where("beneficiary_id IN ?", beneficiaryIDs).Delete(&model.ProgramApplication{}).Error; err != nil {
			return err
		}
	}
	if len(eventIDs) > 0 {
		if err := tx.Unscoped().Where("event_id IN ?", eventIDs).Delete(&model.EventRegistration{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Unscoped().Where("charity_id = ?", charity.ID).Delete(&model.Beneficiary{}).Error; err != nil {
		return err
	}
	if err := tx.Unscoped().Where("charity_id = ?", charity.ID).Delete(&model.Event{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Delete(charity).Error
}
