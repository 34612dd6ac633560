package auth

import (
	"github.com/sila-platform/sila-api/model"
	"github.com/sila-platform/sila-api/services"
	authutil "github.com/sila-platform/sila-api/utils/auth"
	"github.com/sila-platform/sila-api/utils/middleware"
	"gorm.io/gorm"
)

// AuthHandler owns the account endpoints: signup, login, token refresh,
// profile and the two self-service registration flows.
type AuthHandler struct {
	db                   *gorm.DB
	jwtManager           *authutil.JWTManager
	bruteForceProtection *middleware.BruteForceProtection
	users                *services.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, jwtManager *authutil.JWTManager, bruteForceProtection *middleware.BruteForceProtection) *AuthHandler {
	return &AuthHandler{
		db:                   db,
		jwtManager:           jwtManager,
		bruteForceProtection: bruteForceProtection,
		users:                services.NewUserService(db),
	}
}

// CharityAdminInfo is the charity link embedded in user payloads.
type CharityAdminInfo struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// UserResponse is the account shape returned by every auth endpoint.
// CharityAdmin is null unless the account administers a charity.
type UserResponse struct {
	ID           uint              `json:"id"`
	Username     string            `json:"username"`
	Email        string            `json:"email"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	IsSuperuser  bool              `json:"is_superuser"`
	CharityAdmin *CharityAdminInfo `json:"charity_admin"`
}

// TokenPairResponse bundles fresh tokens with the account payload.
type TokenPairResponse struct {
	Refresh string       `json:"refresh"`
	Access  string       `json:"access"`
	User    UserResponse `json:"user"`
}

func userResponse(user *model.User, charity *model.Charity) UserResponse {
	res := UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		IsSuperuser: user.IsSuperuser,
	}
	if charity != nil {
		res.CharityAdmin = &CharityAdminInfo{ID: charity.ID, Name: charity.Name}
	}
	return res
}

func (h *AuthHandler) tokenPair(user *model.User, charity *model.Charity) (*TokenPairResponse, error) {
	accessToken, refreshToken, err := h.jwtManager.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &TokenPairResponse{
		Refresh: refreshToken,
		Access:  accessToken,
		User:    userResponse(user, charity),
	}, nil
}
