package model

import (
	"time"

	"gorm.io/gorm"
)

// Beneficiary is the profile of an assistance recipient. Each
// beneficiary belongs to exactly one charity; the charity assignment
// is fixed at creation time (re-assignment is not supported).
type Beneficiary struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	UserID        uint           `gorm:"uniqueIndex;not null" json:"-"`
	User          *User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	CharityID     uint           `gorm:"not null;index" json:"charity"`
	Charity       *Charity       `gorm:"foreignKey:CharityID;constraint:OnDelete:CASCADE" json:"-"`
	NationalID    string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"national_id"`
	Phone         string         `gorm:"type:varchar(20)" json:"phone"`
	Address       string         `gorm:"type:text" json:"address"`
	City          string         `json:"city"`
	Region        string         `json:"region"`
	DateOfBirth   *time.Time     `json:"date_of_birth"`
	FamilySize    int            `gorm:"default:1" json:"family_size"`
	MonthlyIncome float64        `gorm:"type:decimal(10,2);default:0" json:"monthly_income"`
	SpecialNeeds  string         `gorm:"type:text" json:"special_needs"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`

	// Relationships
	EventRegistrations  []EventRegistration  `gorm:"foreignKey:BeneficiaryID;constraint:OnDelete:CASCADE" json:"-"`
	ProgramApplications []ProgramApplication `gorm:"foreignKey:BeneficiaryID;constraint:OnDelete:CASCADE" json:"-"`
}
