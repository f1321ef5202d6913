package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organizer owns events. Both the name and the email must be unique.
type Organizer struct {
	gorm.Model
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name     string    `gorm:"unique;not null" json:"name"`
	Email    string    `gorm:"unique;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Contacts string    `gorm:"not null" json:"contacts"`
	Photo    string    `json:"photo,omitempty"`
	Active   bool      `gorm:"not null;default:true" json:"active"`
	Events   []Event   `gorm:"foreignKey:OrganizerID" json:"events,omitempty"`
}

func (organizer *Organizer) BeforeCreate(tx *gorm.DB) (err error) {
	if organizer.ID == uuid.Nil {
		organizer.ID = uuid.New()
	}
	return
}
