package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sila-platform/sila-api/model"
	"github.com/sila-platform/sila-api/services"
	"github.com/sila-platform/sila-api/utils/response"
	"gorm.io/gorm"
)

// CharityRegisterRequest is the self-service charity onboarding
// payload. Document fields carry URLs; upload mechanics live outside
// this API.
type CharityRegisterRequest struct {
	AdminName          string `json:"admin_name"`
	Email              string `json:"email"`
	Password           string `json:"password"`
	Phone              string `json:"phone"`
	OrganizationName   string `json:"organization_name"`
	RegistrationNumber string `json:"registration_number"`
	IssuingAuthority   string `json:"issuing_authority"`
	CharityType        string `json:"charity_type"`
	Address            string `json:"address"`
	LicenseCertificate string `json:"license_certificate"`
	AdminIDDocument    string `json:"admin_id_document"`
}

// requiredFields returns the payload fields in validation order.
func (r *CharityRegisterRequest) requiredFields() []struct{ name, value string } {
	return []struct{ name, value string }{
		{"admin_name", r.AdminName},
		{"email", r.Email},
		{"password", r.Password},
		{"phone", r.Phone},
		{"organization_name", r.OrganizationName},
		{"registration_number", r.RegistrationNumber},
		{"issuing_authority", r.IssuingAuthority},
		{"charity_type", r.CharityType},
		{"address", r.Address},
		{"license_certificate", r.LicenseCertificate},
		{"admin_id_document", r.AdminIDDocument},
	}
}

// RegisterCharity handles POST /charities/register. The account and the
// charity are created together; the charity starts inactive until a
// ministry reviewer flips it on.
func (h *AuthHandler) RegisterCharity(c *fiber.Ctx) error {
	var req CharityRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	for _, f := range req.requiredFields() {
		if f.value == "" {
			return response.BadRequest(c, f.name+" is required.")
		}
	}

	taken, err := h.users.EmailTaken(req.Email)
	if err != nil {
		return response.InternalServerError(c, "Failed to check email")
	}
	if taken {
		return response.BadRequest(c, "Email already exists.")
	}

	var count int64
	if err := h.db.Model(&model.Charity{}).Where("registration_number = ?", req.RegistrationNumber).Count(&count).Error; err != nil {
		return response.InternalServerError(c, "Failed to check registration number")
	}
	if count > 0 {
		return response.BadRequest(c, "Registration number already exists.")
	}

	firstName, lastName := services.SplitFullName(req.AdminName)

	var user *model.User
	var charity model.Charity
	err = h.db.Transaction(func(tx *gorm.DB) error {
		created, err := h.users.CreateUser(tx, services.NewUserInput{
			Email:     req.Email,
			Password:  req.Password,
			FirstName: firstName,
			LastName:  lastName,
		})
		if err != nil {
			return err
		}
		user = created

		charity = model.Charity{
			Name:               req.OrganizationName,
			RegistrationNumber: req.RegistrationNumber,
			IssuingAuthority:   req.IssuingAuthority,
			CharityType:        req.CharityType,
			Email:              req.Email,
			Phone:              req.Phone,
			Address:            req.Address,
			LicenseCertificate: req.LicenseCertificate,
			AdminIDDocument:    req.AdminIDDocument,
			IsActive:           false,
			AdminUserID:        &created.ID,
		}
		return tx.Create(&charity).Error
	})
	if err != nil {
		if err == services.ErrUsernameExhausted {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to register charity")
	}

	pair, err := h.tokenPair(user, &charity)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate tokens")
	}
	return response.Created(c, pair)
}
