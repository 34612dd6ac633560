package model

import (
	"time"
)

// EventRegistration links one beneficiary to one event. The
// (beneficiary, event) pair is unique; the composite index is the
// authoritative guard behind the handler's pre-check.
type EventRegistration struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	BeneficiaryID uint         `gorm:"not null;uniqueIndex:uniq_beneficiary_event" json:"beneficiary"`
	Beneficiary   *Beneficiary `gorm:"foreignKey:BeneficiaryID;constraint:OnDelete:CASCADE" json:"-"`
	EventID       uint         `gorm:"not null;uniqueIndex:uniq_beneficiary_event" json:"event"`
	Event         *Event       `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	RegisteredAt  time.Time    `gorm:"autoCreateTime" json:"registered_at"`
	Attended      bool         `gorm:"default:false" json:"attended"`
	Notes         string       `gorm:"type:text" json:"notes"`
}
