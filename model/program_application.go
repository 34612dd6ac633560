package model

import (
	"time"

	"gorm.io/datatypes"
)

// Application statuses
const (
	ApplicationStatusPending     = "PENDING"
	ApplicationStatusUnderReview = "UNDER_REVIEW"
	ApplicationStatusApproved    = "APPROVED"
	ApplicationStatusRejected    = "REJECTED"
	ApplicationStatusWithdrawn   = "WITHDRAWN"
)

// ProgramApplication links one beneficiary to one program. The
// (beneficiary, program) pair is unique. ReviewedAt is set when a
// ministry reviewer processes the application; processing duration
// metrics only consider applications where it is present.
type ProgramApplication struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	BeneficiaryID   uint           `gorm:"not null;uniqueIndex:uniq_beneficiary_program" json:"beneficiary"`
	Beneficiary     *Beneficiary   `gorm:"foreignKey:BeneficiaryID;constraint:OnDelete:CASCADE" json:"-"`
	ProgramID       uint           `gorm:"not null;uniqueIndex:uniq_beneficiary_program" json:"program"`
	Program         *Program       `gorm:"foreignKey:ProgramID;constraint:OnDelete:CASCADE" json:"-"`
	Status          string         `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	ApplicationData datatypes.JSON `gorm:"type:jsonb" json:"application_data"`
	SubmittedAt     time.Time      `gorm:"autoCreateTime" json:"submitted_at"`
	ReviewedAt      *time.Time     `json:"reviewed_at"`
	ReviewNotes     string         `gorm:"type:text" json:"review_notes"`
}
