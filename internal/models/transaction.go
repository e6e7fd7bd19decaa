package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is a payment received for a project.
// StructuredID follows TR-YY-<project structured id>-XXX.
type Transaction struct {
	ID           string              `gorm:"primaryKey;size:36" json:"id"`
	StructuredID string              `gorm:"size:64;uniqueIndex;not null" json:"structured_id"`
	ProjectID    string              `gorm:"size:36;index;not null" json:"project_id"`
	Amount       decimal.NullDecimal `gorm:"type:decimal(20,2)" json:"amount"`
	Date         string              `gorm:"size:10;index" json:"date"`
	CreatedAt    time.Time           `gorm:"index" json:"created_at"`
}

// AmountOrZero returns the amount, or zero when the stored value is null.
// Legacy records imported with a non-numeric amount are stored as null.
func (t Transaction) AmountOrZero() decimal.Decimal {
	if !t.Amount.Valid {
		return decimal.Zero
	}
	return t.Amount.Decimal
}

func (t *Transaction) Validate() error {
	switch {
	case t.StructuredID == "":
		return invalid("transaction", "structured_id")
	case t.ProjectID == "":
		return invalid("transaction", "project_id")
	case t.Amount.Valid && !t.Amount.Decimal.IsPositive():
		return invalid("transaction", "amount")
	}
	return nil
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.ID)
	return t.Validate()
}
