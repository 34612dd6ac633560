package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sila-platform/sila-api/services"
	"github.com/sila-platform/sila-api/utils/response"
	"gorm.io/gorm"
)

// MinistryRegisterRequest is the ministry onboarding payload. The
// ministry name becomes the account's display name, which is the only
// thing tying the ministry to its programs. Position, contact number,
// code and authorization document are validated but kept out of the
// user record; they matter to the review workflow, not to this API.
type MinistryRegisterRequest struct {
	ResponsiblePersonName string `json:"responsible_person_name"`
	Position              string `json:"position"`
	MinistryEmail         string `json:"ministry_email"`
	Password              string `json:"password"`
	ContactNumber         string `json:"contact_number"`
	MinistryName          string `json:"ministry_name"`
	MinistryCode          string `json:"ministry_code"`
	AuthorizationDocument string `json:"authorization_document"`
}

func (r *MinistryRegisterRequest) requiredFields() []struct{ name, value string } {
	return []struct{ name, value string }{
		{"responsible_person_name", r.ResponsiblePersonName},
		{"position", r.Position},
		{"ministry_email", r.MinistryEmail},
		{"password", r.Password},
		{"contact_number", r.ContactNumber},
		{"ministry_name", r.MinistryName},
		{"ministry_code", r.MinistryCode},
		{"authorization_document", r.AuthorizationDocument},
	}
}

// RegisterMinistry handles POST /ministries/register.
func (h *AuthHandler) RegisterMinistry(c *fiber.Ctx) error {
	var req MinistryRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	for _, f := range req.requiredFields() {
		if f.value == "" {
			return response.BadRequest(c, f.name+" is required.")
		}
	}

	taken, err := h.users.EmailTaken(req.MinistryEmail)
	if err != nil {
		return response.InternalServerError(c, "Failed to check email")
	}
	if taken {
		return response.BadRequest(c, "Email already exists.")
	}

	_, lastName := services.SplitFullName(req.ResponsiblePersonName)

	var pair *TokenPairResponse
	err = h.db.Transaction(func(tx *gorm.DB) error {
		user, err := h.users.CreateUser(tx, services.NewUserInput{
			Email:       req.MinistryEmail,
			Password:    req.Password,
			FirstName:   req.MinistryName,
			LastName:    lastName,
			IsSuperuser: true,
		})
		if err != nil {
			return err
		}
		pair, err = h.tokenPair(user, nil)
		return err
	})
	if err != nil {
		if err == services.ErrUsernameExhausted {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to register ministry")
	}

	return response.Created(c, pair)
}
