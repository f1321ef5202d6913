package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin     = "admin"
	RoleSuperuser = "superuser"
)

// Admin holds exactly one role. A superuser can do everything an admin can,
// plus manage the admins themselves.
type Admin struct {
	gorm.Model
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Username string    `gorm:"not null" json:"username"`
	Email    string    `gorm:"unique;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Contacts string    `gorm:"not null" json:"contacts"`
	Role     string    `gorm:"type:varchar(10);not null" json:"role"`
	Active   bool      `gorm:"not null;default:true" json:"active"`
}

func (admin *Admin) BeforeCreate(tx *gorm.DB) (err error) {
	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	return
}
