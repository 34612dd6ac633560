package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sila-platform/sila-api/utils/middleware"
	"github.com/sila-platform/sila-api/utils/response"
)

// RefreshToken handles GET /users/token/refresh. The route sits behind
// the auth middleware, so a valid access token buys a fresh pair.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if !identity.IsAuthenticated() {
		return response.Unauthorized(c, "")
	}

	pair, err := h.tokenPair(identity.User, identity.Charity)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate tokens")
	}
	return response.Success(c, pair)
}
