package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sila-platform/sila-api/model"
	authutil "github.com/sila-platform/sila-api/utils/auth"
	"github.com/sila-platform/sila-api/utils/middleware"
	"github.com/sila-platform/sila-api/utils/response"
)

// ProfileUpdateRequest is the partial-update payload for PATCH
// /users/profile. Pointer fields distinguish "absent" from "set to
// empty". charity_name is a passthrough that renames the charity the
// account administers, not a user column.
type ProfileUpdateRequest struct {
	Username    *string `json:"username"`
	Email       *string `json:"email"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Password    *string `json:"password"`
	CharityName *string `json:"charity_name"`
}

// GetProfile handles GET /users/profile.
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	return response.Success(c, userResponse(identity.User, identity.Charity))
}

// UpdateProfile handles PATCH /users/profile. A ministry account that
// changes its display name drags every program claimed under the old
// name along to the new one, keeping the name-based ownership link
// intact.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	user := identity.User

	var req ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.CharityName != nil && *req.CharityName != "" && identity.Charity != nil {
		identity.Charity.Name = *req.CharityName
		if err := h.db.Save(identity.Charity).Error; err != nil {
			return response.InternalServerError(c, "Failed to update charity name")
		}
	}

	oldFirstName := user.FirstName

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := authutil.HashPassword(*req.Password)
		if err != nil {
			return response.InternalServerError(c, "Failed to hash password")
		}
		user.PasswordHash = hash
	}

	if err := h.db.Save(user).Error; err != nil {
		return response.InternalServerError(c, "Failed to update profile")
	}

	if user.IsSuperuser && req.FirstName != nil {
		newFirstName := *req.FirstName
		if oldFirstName != "" && newFirstName != "" && oldFirstName != newFirstName {
			err := h.db.Model(&model.Program{}).
				Where("ministry_owner ILIKE ?", "%"+oldFirstName+"%").
				Update("ministry_owner", newFirstName).Error
			if err != nil {
				return response.InternalServerError(c, "Failed to update program ownership")
			}
		}
	}

	return response.Success(c, userResponse(user, identity.Charity))
}
