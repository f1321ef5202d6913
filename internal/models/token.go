package models

import "time"

// RevokedToken is an append-only blocklist entry. A token whose jti appears
// here fails authentication permanently, even before its natural expiry.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Jti       string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"jti"`
	CreatedAt time.Time `json:"created_at"`
}
