package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a client account. Clients register themselves for events and keep a
// favourites list.
type User struct {
	gorm.Model
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Firstname       string    `gorm:"not null" json:"firstname"`
	Lastname        string    `gorm:"not null" json:"lastname"`
	Email           string    `gorm:"unique;not null" json:"email"`
	Password        string    `gorm:"not null" json:"-"`
	Contacts        string    `gorm:"not null" json:"contacts"`
	Photo           string    `json:"photo,omitempty"`
	Active          bool      `gorm:"not null;default:true" json:"active"`
	FavouriteEvents []Event   `gorm:"many2many:favourite_events;" json:"favourite_events,omitempty"`
	Events          []Event   `gorm:"many2many:participant_events;" json:"participations,omitempty"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}
