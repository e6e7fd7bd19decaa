// Package models holds the GORM record types persisted by the store.
package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date format used for project start dates and
// transaction dates. Dates carry no time component.
const DateLayout = "2006-01-02"

// ErrInvalidRecord is returned by the BeforeCreate hooks when a record is
// missing a field the store requires.
var ErrInvalidRecord = errors.New("invalid record")

func invalid(entity, field string) error {
	return fmt.Errorf("%w: %s.%s is required", ErrInvalidRecord, entity, field)
}

// assignID sets a store-assigned opaque key if the record has none yet.
func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// ParseDate parses a calendar date anchored at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// All returns every model managed by AutoMigrate, in dependency order.
func All() []any {
	return []any{
		&User{},
		&CompanySettings{},
		&Client{},
		&Project{},
		&Transaction{},
		&Archive{},
	}
}
