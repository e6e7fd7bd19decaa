package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Client is a customer of the firm. StructuredID follows CL-YY-NN.
type Client struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	StructuredID string    `gorm:"size:64;uniqueIndex;not null" json:"structured_id"`
	LastName     string    `gorm:"size:255;not null" json:"last_name"`
	FirstName    string    `gorm:"size:255;not null" json:"first_name"`
	Phone        string    `gorm:"size:50" json:"phone,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

// FullName returns "nom prenom", the form printed on documents.
func (c Client) FullName() string {
	return strings.TrimSpace(c.LastName + " " + c.FirstName)
}

// Validate checks the fields the store requires.
func (c *Client) Validate() error {
	switch {
	case c.StructuredID == "":
		return invalid("client", "structured_id")
	case strings.TrimSpace(c.LastName) == "":
		return invalid("client", "last_name")
	case strings.TrimSpace(c.FirstName) == "":
		return invalid("client", "first_name")
	}
	return nil
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return c.Validate()
}
