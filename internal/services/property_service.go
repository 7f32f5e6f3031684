package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mgrist/texlien/internal/logger"
	"github.com/mgrist/texlien/internal/models"
	"github.com/mgrist/texlien/internal/repository"
	"github.com/mgrist/texlien/internal/scoring"
)

// ErrPropertyNotFound is returned when a property lookup finds nothing.
var ErrPropertyNotFound = errors.New("property not found")

// PropertyService defines the interface for property business logic.
type PropertyService interface {
	// GetByID returns ErrPropertyNotFound when no property exists.
	GetByID(ctx context.Context, id int64) (*models.Property, error)

	// Search returns properties matching the filter; empty slice when
	// nothing matches.
	Search(ctx context.Context, filter repository.PropertySearchFilter) ([]models.Property, error)

	// Create inserts a manually entered property.
	Create(ctx context.Context, p *models.Property) (*models.Property, error)

	// Deactivate marks a property inactive. Properties are never deleted.
	Deactivate(ctx context.Context, id int64) error

	// SaveEnrichment stores the latest market signals for a property.
	SaveEnrichment(ctx context.Context, propertyID int64, e *models.Enrichment) error

	// Score computes the 0-100 investment score from the property's stored
	// enrichment. Missing enrichment scores as all factors absent, except the
	// condition factor, which falls back to the property's own year built.
	Score(ctx context.Context, propertyID int64) (*scoring.Result, error)
}

type propertyService struct {
	properties repository.PropertyRepository
	log        *logger.Logger
}

// NewPropertyService creates a new instance of PropertyService.
func NewPropertyService(properties repository.PropertyRepository, log *logger.Logger) PropertyService {
	return &propertyService{properties: properties, log: log}
}

func (s *propertyService) GetByID(ctx context.Context, id int64) (*models.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load property: %w", err)
	}
	if p == nil {
		return nil, ErrPropertyNotFound
	}
	return p, nil
}

func (s *propertyService) Search(ctx context.Context, filter repository.PropertySearchFilter) ([]models.Property, error) {
	return s.properties.Search(ctx, filter)
}

func (s *propertyService) Create(ctx context.Context, p *models.Property) (*models.Property, error) {
	p.Active = true
	id, err := s.properties.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}
	p.ID = id

	s.log.Info("Property created", map[string]interface{}{
		"property_id":   id,
		"parcel_number": p.ParcelNumber,
		"county_id":     p.CountyID,
	})
	return p, nil
}

func (s *propertyService) Deactivate(ctx context.Context, id int64) error {
	if err := s.properties.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("failed to deactivate property %d: %w", id, err)
	}
	s.log.Info("Property deactivated", map[string]interface{}{"property_id": id})
	return nil
}

func (s *propertyService) SaveEnrichment(ctx context.Context, propertyID int64, e *models.Enrichment) error {
	p, err := s.GetByID(ctx, propertyID)
	if err != nil {
		return err
	}
	if err := s.properties.UpsertEnrichment(ctx, p.ID, e); err != nil {
		return fmt.Errorf("failed to save enrichment: %w", err)
	}
	return nil
}

func (s *propertyService) Score(ctx context.Context, propertyID int64) (*scoring.Result, error) {
	p, err := s.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	e, err := s.properties.GetEnrichment(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load enrichment: %w", err)
	}

	// Construction year lives on the property record too; an enrichment row
	// without one does not make the condition factor unknown.
	if p.YearBuilt != nil && (e == nil || e.YearBuilt == nil) {
		if e == nil {
			e = &models.Enrichment{}
		}
		e.YearBuilt = p.YearBuilt
	}

	result := scoring.Score(e)
	s.log.Debug("Property scored", map[string]interface{}{
		"property_id":     propertyID,
		"total":           result.Total,
		"missing_factors": result.MissingFactors,
	})
	return &result, nil
}
