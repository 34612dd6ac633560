package model

import (
	"time"

	"gorm.io/gorm"
)

// Program lifecycle statuses
const (
	ProgramStatusActive   = "ACTIVE"
	ProgramStatusInactive = "INACTIVE"
	ProgramStatusClosed   = "CLOSED"
)

// Program is a government assistance offering. A program is not owned
// by any charity; it is associated with a ministry only by matching
// MinistryOwner against the ministry actor's display name
// (case-insensitive substring). There is no ministry entity or foreign
// key behind this field.
type Program struct {
	ID                     uint           `gorm:"primaryKey" json:"id"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`
	Name                   string         `gorm:"not null" json:"name"`
	Description            string         `gorm:"type:text" json:"description"`
	MinistryOwner          string         `gorm:"not null;index" json:"ministry_owner"`
	Status                 string         `gorm:"type:varchar(20);default:'ACTIVE'" json:"status"`
	EligibilityCriteria    string         `gorm:"type:text" json:"eligibility_criteria"`
	EstimatedBeneficiaries string         `json:"estimated_beneficiaries"`
	IconURL                string         `gorm:"type:varchar(500)" json:"icon_url"`
	MaxCapacity            *int           `json:"max_capacity"`
	ApplicationDeadline    *time.Time     `json:"application_deadline"`
	StartDate              *time.Time     `json:"start_date"`
	EndDate                *time.Time     `json:"end_date"`

	// Relationships
	Applications []ProgramApplication `gorm:"foreignKey:ProgramID;constraint:OnDelete:CASCADE" json:"-"`
}
