package models

import (
	"time"

	"gorm.io/gorm"
)

// ArchiveType distinguishes invoices from receipts. The value is also the
// tag leading the archive id.
type ArchiveType string

const (
	ArchiveInvoice ArchiveType = "F"
	ArchiveReceipt ArchiveType = "R"
)

// Valid reports whether t is a known document type.
func (t ArchiveType) Valid() bool {
	return t == ArchiveInvoice || t == ArchiveReceipt
}

// Label returns the French document name.
func (t ArchiveType) Label() string {
	switch t {
	case ArchiveInvoice:
		return "Facture"
	case ArchiveReceipt:
		return "Reçu"
	}
	return string(t)
}

// Archive is an immutable snapshot of a generated invoice or receipt.
// ArchiveID follows <T>-YY-<project structured id>-XXX.
type Archive struct {
	ID                  string      `gorm:"primaryKey;size:36" json:"id"`
	ArchiveID           string      `gorm:"size:64;uniqueIndex;not null" json:"archive_id"`
	Type                ArchiveType `gorm:"size:1;not null" json:"type"`
	ProjectID           string      `gorm:"size:36;index" json:"project_id"`
	ProjectStructuredID string      `gorm:"size:64" json:"project_structured_id"`
	HTMLContent         string      `gorm:"type:text" json:"html_content,omitempty"`
	ArchivedAt          time.Time   `gorm:"index" json:"archived_at"`
}

func (a *Archive) Validate() error {
	switch {
	case a.ArchiveID == "":
		return invalid("archive", "archive_id")
	case !a.Type.Valid():
		return invalid("archive", "type")
	}
	return nil
}

func (a *Archive) BeforeCreate(tx *gorm.DB) error {
	assignID(&a.ID)
	if a.ArchivedAt.IsZero() {
		a.ArchivedAt = time.Now().UTC()
	}
	return a.Validate()
}
