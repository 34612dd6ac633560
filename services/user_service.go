package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sila-platform/sila-api/model"
	"github.com/sila-platform/sila-api/utils/auth"
	"gorm.io/gorm"
)

// ErrUsernameExhausted is returned when no free numeric suffix exists
// for a username base.
var ErrUsernameExhausted = errors.New("Could not generate unique username")

// usernameSuffixLimit caps the numeric suffix probe.
const usernameSuffixLimit = 1000

// UserService creates accounts. Usernames are derived from the email
// local part and deduplicated with a numeric suffix.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		db: db,
	}
}

// NewUserInput is the account payload shared by the signup flows.
type NewUserInput struct {
	Email       string
	Password    string
	Username    string // optional, derived from email when empty
	FirstName   string
	LastName    string
	IsSuperuser bool
}

// UsernameBase derives the default username from an email address.
func UsernameBase(email string) string {
	if at := strings.Index(email, "@"); at >= 0 {
		return email[:at]
	}
	return email
}

// GenerateUniqueUsername probes base, base1, base2, ... base999 against
// the exists predicate and returns the first free candidate. The probe
// gives up before ever trying the base1000 suffix.
func GenerateUniqueUsername(base string, exists func(string) (bool, error)) (string, error) {
	username := base
	for counter := 1; ; counter++ {
		taken, err := exists(username)
		if err != nil {
			return "", err
		}
		if !taken {
			return username, nil
		}
		if counter >= usernameSuffixLimit {
			return "", ErrUsernameExhausted
		}
		username = fmt.Sprintf("%s%d", base, counter)
	}
}

// EmailTaken reports whether an account already uses the email.
func (s *UserService) EmailTaken(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *UserService) usernameTaken(tx *gorm.DB, username string) (bool, error) {
	var count int64
	if err := tx.Model(&model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateUser hashes the password, settles a unique username and inserts
// the account. Runs inside tx so callers can bundle it with profile
// rows.
func (s *UserService) CreateUser(tx *gorm.DB, input NewUserInput) (*model.User, error) {
	base := input.Username
	if base == "" {
		base = UsernameBase(input.Email)
	}
	username, err := GenerateUniqueUsername(base, func(candidate string) (bool, error) {
		return s.usernameTaken(tx, candidate)
	})
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		IsSuperuser:  input.IsSuperuser,
	}
	if err := tx.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// SplitFullName splits "First Rest of name" into first and last parts.
func SplitFullName(full string) (string, string) {
	parts := strings.Fields(strings.TrimSpace(full))
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
