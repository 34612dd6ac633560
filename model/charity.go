package model

import (
	"time"

	"gorm.io/gorm"
)

// Charity types
const (
	CharityTypeHealth    = "HEALTH"
	CharityTypeEducation = "EDUCATION"
	CharityTypeHousing   = "HOUSING"
	CharityTypeFood      = "FOOD"
	CharityTypeSocial    = "SOCIAL"
	CharityTypeOther     = "OTHER"
)

// Charity represents a registered charitable organization. A charity
// exclusively owns its beneficiaries and events; deleting a charity
// removes them and everything hanging off them.
type Charity struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
	Name               string         `gorm:"not null" json:"name"`
	RegistrationNumber string         `gorm:"uniqueIndex;not null" json:"registration_number"`
	IssuingAuthority   string         `json:"issuing_authority"`
	CharityType        string         `gorm:"type:varchar(50);default:'OTHER'" json:"charity_type"`
	Email              string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone              string         `gorm:"type:varchar(20)" json:"phone"`
	Address            string         `gorm:"type:text" json:"address"`
	City               string         `json:"city"`
	Region             string         `json:"region"`
	Description        string         `gorm:"type:text" json:"description"`
	Website            string         `json:"website"`
	LicenseCertificate string         `json:"license_certificate"` // stored as URL; upload mechanics live elsewhere
	AdminIDDocument    string         `json:"admin_id_document"`
	IsActive           bool           `gorm:"default:true" json:"is_active"`
	AdminUserID        *uint          `gorm:"uniqueIndex" json:"-"`
	AdminUser          *User          `gorm:"foreignKey:AdminUserID;constraint:OnDelete:CASCADE" json:"admin_user,omitempty"`

	// Relationships
	Beneficiaries []Beneficiary `gorm:"foreignKey:CharityID;constraint:OnDelete:CASCADE" json:"-"`
	Events        []Event       `gorm:"foreignKey:CharityID;constraint:OnDelete:CASCADE" json:"-"`
}
