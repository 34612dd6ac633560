package model

import (
	"time"

	"gorm.io/gorm"
)

// Event is a charity-run activity that beneficiaries can register for.
type Event struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	CharityID   uint           `gorm:"not null;index" json:"charity"`
	Charity     *Charity       `gorm:"foreignKey:CharityID;constraint:OnDelete:CASCADE" json:"-"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	EventDate   time.Time      `gorm:"not null" json:"event_date"`
	Location    string         `json:"location"`
	City        string         `json:"city"`
	MaxCapacity *int           `json:"max_capacity"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`

	// Relationships
	Registrations []EventRegistration `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
}

// CharityName is included in event payloads for display purposes.
func (e *Event) CharityName() string {
	if e.Charity == nil {
		return ""
	}
	return e.Charity.Name
}
