package beneficiary

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sila-platform/sila-api/model"
	"github.com/sila-platform/sila-api/services"
	"github.com/sila-platform/sila-api/utils/access"
	"github.com/sila-platform/sila-api/utils/middleware"
	"github.com/sila-platform/sila-api/utils/query"
	"github.com/sila-platform/sila-api/utils/response"
	"gorm.io/gorm"
)

// BeneficiaryHandler owns the beneficiary CRUD endpoints. Creation
// builds the login account and the profile together; the profile is
// pinned to the creating admin's charity.
type BeneficiaryHandler struct {
	db    *gorm.DB
	users *services.UserService
}

// NewBeneficiaryHandler creates a new beneficiary handler
func NewBeneficiaryHandler(db *gorm.DB) *BeneficiaryHandler {
	return &BeneficiaryHandler{
		db:    db,
		users: services.NewUserService(db),
	}
}

// UserPayload is the nested account block of a create/update payload.
type UserPayload struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Username  string  `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// CreateRequest is the beneficiary creation payload.
type CreateRequest struct {
	User          *UserPayload `json:"user"`
	Charity       uint         `json:"charity"`
	NationalID    string       `json:"national_id"`
	Phone         string       `json:"phone"`
	Address       string       `json:"address"`
	City          string       `json:"city"`
	Region        string       `json:"region"`
	DateOfBirth   string       `json:"date_of_birth"`
	FamilySize    *int         `json:"family_size"`
	MonthlyIncome *float64     `json:"monthly_income"`
	SpecialNeeds  string       `json:"special_needs"`
	IsActive      *bool        `json:"is_active"`
}

// UpdateRequest is the partial update payload. The charity assignment
// is not updatable.
type UpdateRequest struct {
	User          *UserPayload `json:"user"`
	NationalID    *string      `json:"national_id"`
	Phone         *string      `json:"phone"`
	Address       *string      `json:"address"`
	City          *string      `json:"city"`
	Region        *string      `json:"region"`
	DateOfBirth   *string      `json:"date_of_birth"`
	FamilySize    *int         `json:"family_size"`
	MonthlyIncome *float64     `json:"monthly_income"`
	SpecialNeeds  *string      `json:"special_needs"`
	IsActive      *bool        `json:"is_active"`
}

// List handles GET /beneficiaries.
func (h *BeneficiaryHandler) List(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	var beneficiaries []model.Beneficiary
	err := h.db.Preload("User").Scopes(access.BeneficiaryScope(identity)).Order("id").Find(&beneficiaries).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to load beneficiaries")
	}
	return response.Success(c, beneficiaries)
}

// Create handles POST /beneficiaries. A charity admin always creates
// into its own charity; a ministry actor must name one explicitly.
func (h *BeneficiaryHandler) Create(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if !identity.IsMinistry() && !identity.IsCharityAdmin() {
		return response.Forbidden(c, "Only charity admins can create beneficiaries")
	}

	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	charity := identity.Charity
	if identity.IsMinistry() && charity == nil && req.Charity != 0 {
		var found model.Charity
		if err := h.db.First(&found, req.Charity).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NotFound(c, "")
			}
			return response.InternalServerError(c, "Failed to load charity")
		}
		charity = &found
	}
	if charity == nil {
		return response.BadRequest(c, "Charity is required")
	}

	if req.User == nil || req.User.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if req.User.Password == "" {
		return response.BadRequest(c, "Password is required")
	}
	taken, err := h.users.EmailTaken(req.User.Email)
	if err != nil {
		return response.InternalServerError(c, "Failed to check email")
	}
	if taken {
		return response.BadRequest(c, "Email already exists")
	}

	if req.NationalID == "" {
		return response.BadRequest(c, "National ID is required")
	}
	var count int64
	if err := h.db.Model(&model.Beneficiary{}).Where("national_id = ?", req.NationalID).Count(&count).Error; err != nil {
		return response.InternalServerError(c, "Failed to check national ID")
	}
	if count > 0 {
		return response.BadRequest(c, "National ID already exists")
	}

	firstName, lastName := "", ""
	if req.User.FirstName != nil {
		firstName = *req.User.FirstName
	}
	if req.User.LastName != nil {
		lastName = *req.User.LastName
	}

	var beneficiary model.Beneficiary
	err = h.db.Transaction(func(tx *gorm.DB) error {
		user, err := h.users.CreateUser(tx, services.NewUserInput{
			Email:     req.User.Email,
			Password:  req.User.Password,
			Username:  req.User.Username,
			FirstName: firstName,
			LastName:  lastName,
		})
		if err != nil {
			return err
		}

		beneficiary = model.Beneficiary{
			UserID:       user.ID,
			User:         user,
			CharityID:    charity.ID,
			NationalID:   req.NationalID,
			Phone:        req.Phone,
			Address:      req.Address,
			City:         req.City,
			Region:       req.Region,
			DateOfBirth:  query.ParseDate(req.DateOfBirth),
			SpecialNeeds: req.SpecialNeeds,
			FamilySize:   1,
			IsActive:     true,
		}
		if req.FamilySize != nil {
			beneficiary.FamilySize = *req.FamilySize
		}
		if req.MonthlyIncome != nil {
			beneficiary.MonthlyIncome = *req.MonthlyIncome
		}
		if req.IsActive != nil {
			beneficiary.IsActive = *req.IsActive
		}
		return tx.Create(&beneficiary).Error
	})
	if err != nil {
		if err == services.ErrUsernameExhausted {
			return response.BadRequest(c, err.Error())
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return response.BadRequest(c, "National ID already exists")
		}
		return response.InternalServerError(c, "Failed to create beneficiary")
	}

	return response.Created(c, beneficiary)
}

func (h *BeneficiaryHandler) load(c *fiber.Ctx, identity *access.Identity) (*model.Beneficiary, error) {
	id := query.ParseID(c.Params("beneficiary_id"))
	if id == 0 {
		return nil, response.NotFound(c, "")
	}
	var beneficiary model.Beneficiary
	err := h.db.Preload("User").Scopes(access.BeneficiaryScope(identity)).First(&beneficiary, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFound(c, "")
		}
		return nil, response.InternalServerError(c, "Failed to load beneficiary")
	}
	return &beneficiary, nil
}

// Get handles GET /beneficiaries/:beneficiary_id.
func (h *BeneficiaryHandler) Get(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	beneficiary, err := h.load(c, identity)
	if err != nil {
		return err
	}
	return response.Success(c, beneficiary)
}

// canManage reports whether the actor administers the beneficiary's
// charity or is the ministry.
func canManage(identity *access.Identity, beneficiary *model.Beneficiary) bool {
	if identity.IsMinistry() {
		return true
	}
	return identity.IsCharityAdmin() && identity.Charity.ID == beneficiary.CharityID
}

// Update handles PUT/PATCH /beneficiaries/:beneficiary_id. A
// beneficiary may edit its own profile fields; only managers may touch
// the nested account names.
func (h *BeneficiaryHandler) Update(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	beneficiary, err := h.load(c, identity)
	if err != nil {
		return err
	}

	isSelf := identity.IsBeneficiary() && identity.Beneficiary.ID == beneficiary.ID
	if !canManage(identity, beneficiary) && !isSelf {
		return response.Forbidden(c, "You can only update your own profile")
	}

	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.User != nil && canManage(identity, beneficiary) && beneficiary.User != nil {
		if req.User.FirstName != nil {
			beneficiary.User.FirstName = *req.User.FirstName
		}
		if req.User.LastName != nil {
			beneficiary.User.LastName = *req.User.LastName
		}
		if err := h.db.Save(beneficiary.User).Error; err != nil {
			return response.InternalServerError(c, "Failed to update user")
		}
	}

	if req.NationalID != nil {
		beneficiary.NationalID = *req.NationalID
	}
	if req.Phone != nil {
		beneficiary.Phone = *req.Phone
	}
	if req.Address != nil {
		beneficiary.Address = *req.Address
	}
	if req.City != nil {
		beneficiary.City = *req.City
	}
	if req.Region != nil {
		beneficiary.Region = *req.Region
	}
	if req.DateOfBirth != nil {
		beneficiary.DateOfBirth = query.ParseDate(*req.DateOfBirth)
	}
	if req.FamilySize != nil {
		beneficiary.FamilySize = *req.FamilySize
	}
	if req.MonthlyIncome != nil {
		beneficiary.MonthlyIncome = *req.MonthlyIncome
	}
	if req.SpecialNeeds != nil {
		beneficiary.SpecialNeeds = *req.SpecialNeeds
	}
	if req.IsActive != nil {
		beneficiary.IsActive = *req.IsActive
	}

	if err := h.db.Save(beneficiary).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return response.BadRequest(c, "National ID already exists")
		}
		return response.InternalServerError(c, "Failed to update beneficiary")
	}
	return response.Success(c, beneficiary)
}

// Delete handles DELETE /beneficiaries/:beneficiary_id.
func (h *BeneficiaryHandler) Delete(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	beneficiary, err := h.load(c, identity)
	if err != nil {
		return err
	}

	if !canManage(identity, beneficiary) {
		return response.Forbidden(c, "You don't have permission to delete this beneficiary")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		return purgeBeneficiary(tx, beneficiary)
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to delete beneficiary")
	}
	return response.NoContent(c)
}

// purgeBeneficiary removes a beneficiary with its applications and
// registrations. Removal is outright: a soft-deleted row would keep
// its unique national_id and user_id reserved.
func purgeBeneficiary(tx *gorm.DB, beneficiary *model.Beneficiary) error {
	if err := tx.Unscoped().Where("beneficiary_id = ?", beneficiary.ID).Delete(&model.ProgramApplication{}).Error; err != nil {
		return err
	}
	if err := tx.Unscoped().Where("beneficiary_id = ?", beneficiary.ID).Delete(&model.EventRegistration{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Delete(beneficiary).Error
}
