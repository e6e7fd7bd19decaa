package models

import (
	"time"

	"gorm.io/gorm"
)

// Role titles recognised when choosing a document's signature block.
const (
	RoleDirector   = "Directeur"
	RoleAccountant = "Comptable"
	RoleDefault    = "Utilisateur"
)

// User represents an authenticated user in the system.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name      string         `gorm:"size:255" json:"name,omitempty"`
	Title     string         `gorm:"size:50" json:"title,omitempty"`
	Password  string         `gorm:"size:255;not null" json:"-"` // Hashed, never exposed in JSON
}

// RoleTitle returns the user's title, defaulting to RoleDefault.
func (u User) RoleTitle() string {
	if u.Title == "" {
		return RoleDefault
	}
	return u.Title
}
