package models

import (
	"time"

	"github.com/google/uuid"
)

// Participation is the join row behind Event.Participants. The composite
// primary key rejects a duplicate (event, user) pair at the storage layer.
type Participation struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	EventID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Participation) TableName() string {
	return "participant_events"
}

// Favourite is the join row behind User.FavouriteEvents.
type Favourite struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	EventID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Favourite) TableName() string {
	return "favourite_events"
}
