package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sila-platform/sila-api/model"
	authutil "github.com/sila-platform/sila-api/utils/auth"
	"github.com/sila-platform/sila-api/utils/response"
	"github.com/sila-platform/sila-api/utils/validation"
	"gorm.io/gorm"
)

// SignupRequest is the plain account signup payload. Unlike the charity
// and ministry registration flows, the caller picks the username.
type SignupRequest struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Signup handles POST /users/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validation.NewValidator().ValidateStruct(&req); err != nil {
		return response.ValidationErrors(c, validation.FormatValidationErrors(err))
	}

	var count int64
	if err := h.db.Model(&model.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		return response.InternalServerError(c, "Failed to check username")
	}
	if count > 0 {
		return response.ValidationErrors(c, map[string]string{"username": "A user with that username already exists."})
	}

	hash, err := authutil.HashPassword(req.Password)
	if err != nil {
		return response.InternalServerError(c, "Failed to hash password")
	}

	user := model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}
	if err := h.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return response.ValidationErrors(c, map[string]string{"username": "A user with that username already exists."})
		}
		return response.InternalServerError(c, "Failed to create user")
	}

	// A brand new account cannot administer a charity yet.
	pair, err := h.tokenPair(&user, nil)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate tokens")
	}
	return response.Created(c, pair)
}
