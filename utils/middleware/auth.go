package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sila-platform/sila-api/model"
	"github.com/sila-platform/sila-api/utils/access"
	"github.com/sila-platform/sila-api/utils/auth"
	"github.com/sila-platform/sila-api/utils/response"
	"gorm.io/gorm"
)

// AuthMiddleware handles JWT authentication and per-request role
// resolution. The resolved access.Identity is stored in Locals so
// handlers never re-derive roles from structural links themselves.
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	db         *gorm.DB
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		db:         db,
	}
}

// Required is middleware that requires a valid JWT access token.
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := m.authenticate(c)
		if err != nil {
			return err
		}
		if !identity.IsAuthenticated() {
			return response.Unauthorized(c, "Missing authorization token")
		}
		storeIdentity(c, identity)
		return c.Next()
	}
}

// Optional is middleware that resolves an identity when a token is
// present but lets anonymous requests through.
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := m.authenticate(c)
		if err != nil {
			return err
		}
		storeIdentity(c, identity)
		return c.Next()
	}
}

// authenticate resolves the request identity. A missing header yields
// the anonymous identity; a present-but-invalid token is rejected.
func (m *AuthMiddleware) authenticate(c *fiber.Ctx) (*access.Identity, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return access.Anonymous(), nil
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, response.Unauthorized(c, "Invalid authorization format")
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		if err == auth.ErrExpiredToken {
			return nil, response.Unauthorized(c, "Token has expired")
		}
		return nil, response.Unauthorized(c, "Invalid token")
	}

	if claims.TokenType != "access" {
		return nil, response.Unauthorized(c, "Invalid token type")
	}

	var user model.User
	if err := m.db.First(&user, claims.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.Unauthorized(c, "User not found")
		}
		return nil, response.InternalServerError(c, "Failed to load user")
	}

	identity, err := access.Resolve(m.db, &user)
	if err != nil {
		return nil, response.InternalServerError(c, "Failed to resolve user role")
	}
	return identity, nil
}

func storeIdentity(c *fiber.Ctx, identity *access.Identity) {
	c.Locals("identity", identity)
	if identity.IsAuthenticated() {
		c.Locals("user_id", identity.User.ID)
	}
}

// GetIdentity extracts the resolved identity from context. Requests
// that skipped the auth middleware count as anonymous.
func GetIdentity(c *fiber.Ctx) *access.Identity {
	identity, ok := c.Locals("identity").(*access.Identity)
	if !ok || identity == nil {
		return access.Anonymous()
	}
	return identity
}
