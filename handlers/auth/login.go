package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sila-platform/sila-api/model"
	"github.com/sila-platform/sila-api/utils/access"
	authutil "github.com/sila-platform/sila-api/utils/auth"
	"github.com/sila-platform/sila-api/utils/response"
	"gorm.io/gorm"
)

// LoginRequest is the credentials payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /users/login. Unknown email and wrong password
// produce the same message so the endpoint does not confirm which
// emails have accounts.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "Email and password are required")
	}

	ip := c.IP()

	var user model.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if h.bruteForceProtection != nil {
				h.bruteForceProtection.RecordFailedAttempt(c, ip)
			}
			return response.Unauthorized(c, "Invalid credentials")
		}
		return response.InternalServerError(c, "Failed to load user")
	}

	if err := authutil.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		if h.bruteForceProtection != nil {
			h.bruteForceProtection.RecordFailedAttempt(c, ip)
		}
		return response.Unauthorized(c, "Invalid credentials")
	}

	if h.bruteForceProtection != nil {
		h.bruteForceProtection.RecordSuccessfulAttempt(c, ip)
	}

	identity, err := access.Resolve(h.db, &user)
	if err != nil {
		return response.InternalServerError(c, "Failed to resolve user role")
	}

	pair, err := h.tokenPair(&user, identity.Charity)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate tokens")
	}
	return response.Success(c, pair)
}
