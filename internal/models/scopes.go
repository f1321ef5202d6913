package models

import "gorm.io/gorm"

// Visible filters events that may appear in public listings: published by the
// organizer and authorized by an admin. Soft-deleted rows are already excluded
// by gorm.
func Visible(db *gorm.DB) *gorm.DB {
	return db.Where("active = ? AND allow = ?", true, true)
}

// ActiveOnly filters identity rows that are enabled. Admin operations such as
// activation toggling query without this scope.
func ActiveOnly(db *gorm.DB) *gorm.DB {
	return db.Where("active = ?", true)
}
