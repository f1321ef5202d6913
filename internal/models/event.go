package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event is owned by a single organizer. Active is the organizer's published
// flag, Allow is the admin's authorization flag; an event is publicly listed
// only when both are set and the row is not soft deleted.
type Event struct {
	gorm.Model
	ID              uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name            string     `gorm:"not null" json:"name"`
	Location        string     `gorm:"not null" json:"location"`
	Description     string     `json:"description,omitempty"`
	Price           float64    `json:"price"`
	AvailablePlaces int        `gorm:"not null" json:"available_places"`
	RemainingPlaces int        `gorm:"not null" json:"remaining_places"`
	StartAt         time.Time  `gorm:"not null" json:"start_at"`
	EndAt           time.Time  `gorm:"not null" json:"end_at"`
	Image           string     `json:"image,omitempty"`
	Active          bool       `gorm:"not null;default:false" json:"active"`
	Allow           bool       `gorm:"not null;default:true" json:"allow"`
	OrganizerID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"organizer_id"`
	Organizer       *Organizer `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
	Participants    []User     `gorm:"many2many:participant_events;" json:"participants,omitempty"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}
