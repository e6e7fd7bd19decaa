package models

import (
	"strings"
	"time"
)

// CompanySettings is the letterhead printed on invoices and receipts.
// A single row is kept; defaults come from configuration.
type CompanySettings struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name      string `gorm:"size:255;not null" json:"name"`
	Tagline   string `gorm:"size:255" json:"tagline,omitempty"`
	LegalForm string `gorm:"size:50" json:"legal_form,omitempty"`
	Email     string `gorm:"size:255" json:"email,omitempty"`
	RCCM      string `gorm:"size:100" json:"rccm,omitempty"`
	IFU       string `gorm:"size:100" json:"ifu,omitempty"`
	// Phones is a " | " separated list, printed as-is in the footer.
	Phones  string `gorm:"size:255" json:"phones,omitempty"`
	LogoURL string `gorm:"size:500" json:"logo_url,omitempty"`

	// Signatory signs invoices when the current user cannot.
	Signatory string `gorm:"size:255" json:"signatory,omitempty"`
}

// FooterLines returns the non-empty legal lines of the footer.
func (c CompanySettings) FooterLines() []string {
	var lines []string
	var legal []string
	if c.LegalForm != "" {
		legal = append(legal, c.LegalForm)
	}
	if c.Email != "" {
		legal = append(legal, c.Email)
	}
	if len(legal) > 0 {
		lines = append(lines, strings.Join(legal, " - "))
	}
	var ids []string
	if c.RCCM != "" {
		ids = append(ids, "RCCM : "+c.RCCM)
	}
	if c.IFU != "" {
		ids = append(ids, "IF : "+c.IFU)
	}
	if len(ids) > 0 {
		lines = append(lines, strings.Join(ids, " | "))
	}
	if c.Phones != "" {
		lines = append(lines, "Tél : "+c.Phones)
	}
	return lines
}
