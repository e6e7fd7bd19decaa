package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/validation"
	"gorm.io/gorm"
)

// CompanyService reads and updates the letterhead printed on documents.
type CompanyService struct {
	db       *gorm.DB
	defaults models.CompanySettings
}

func NewCompanyService(db *gorm.DB, defaults models.CompanySettings) *CompanyService {
	return &CompanyService{db: db, defaults: defaults}
}

// Get returns the stored settings, or the configured defaults when none
// were saved yet.
func (s *CompanyService) Get(ctx context.Context) (models.CompanySettings, error) {
	var settings models.CompanySettings
	err := s.db.WithContext(ctx).Order("id").First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.defaults, nil
	}
	if err != nil {
		return models.CompanySettings{}, fmt.Errorf("load company settings: %w", err)
	}
	return settings, nil
}

// Save replaces the settings row.
func (s *CompanyService) Save(ctx context.Context, in models.CompanySettings) (models.CompanySettings, error) {
	v := make(validation.Violations)
	validation.Required("name", in.Name, v)
	if err := v.Err(); err != nil {
		return models.CompanySettings{}, err
	}
	var existing models.CompanySettings
	err := s.db.WithContext(ctx).Order("id").First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CompanySettings{}, fmt.Errorf("load company settings: %w", err)
	}
	in.ID = existing.ID
	in.CreatedAt = existing.CreatedAt
	in.Name = strings.TrimSpace(in.Name)
	if err := s.db.WithContext(ctx).Save(&in).Error; err != nil {
		return models.CompanySettings{}, fmt.Errorf("save company settings: %w", err)
	}
	return in, nil
}
