package models

import "gorm.io/gorm"

// User represents an account allowed to change the recipe catalogue.
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string
}
