package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User represents an account in the system. A user becomes a ministry
// actor through the IsSuperuser flag, a charity admin through the
// one-to-one Charity.AdminUserID link, and a beneficiary through the
// one-to-one Beneficiary.UserID link.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"` // Never expose password in JSON
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
	IsSuperuser  bool           `gorm:"default:false" json:"is_superuser"`
}

// FullName returns the display name built from first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
