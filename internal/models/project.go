package models

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectStatusOngoing  ProjectStatus = "En cours"
	ProjectStatusDone     ProjectStatus = "Terminé"
	ProjectStatusOnHold   ProjectStatus = "En pause"
	ProjectStatusCanceled ProjectStatus = "Annulé"
)

// ProjectStatuses lists the accepted statuses.
var ProjectStatuses = []ProjectStatus{ProjectStatusOngoing, ProjectStatusDone, ProjectStatusOnHold, ProjectStatusCanceled}

// Valid reports whether s is one of ProjectStatuses.
func (s ProjectStatus) Valid() bool {
	return slices.Contains(ProjectStatuses, s)
}

// Project is a piece of work billed to one client.
// StructuredID follows P-YY-<client structured id>-PP.
type Project struct {
	ID           string          `gorm:"primaryKey;size:36" json:"id"`
	StructuredID string          `gorm:"size:64;uniqueIndex;not null" json:"structured_id"`
	ClientID     string          `gorm:"size:36;index;not null" json:"client_id"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	Type         string          `gorm:"size:100;not null" json:"type"`
	StartDate    string          `gorm:"size:10" json:"start_date"`
	Cost         decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"cost"`
	Status       ProjectStatus   `gorm:"size:50;default:'En cours'" json:"status"`
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`
}

func (p *Project) Validate() error {
	switch {
	case p.StructuredID == "":
		return invalid("project", "structured_id")
	case p.ClientID == "":
		return invalid("project", "client_id")
	case strings.TrimSpace(p.Name) == "":
		return invalid("project", "name")
	case p.Cost.IsNegative():
		return invalid("project", "cost")
	}
	return nil
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	if p.Status == "" {
		p.Status = ProjectStatusOngoing
	}
	return p.Validate()
}
