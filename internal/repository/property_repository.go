package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/mgrist/texlien/internal/database"
	"github.com/mgrist/texlien/internal/models"
	"github.com/shopspring/decimal"
)

// PropertySearchFilter narrows a property search. Zero values mean
// "no constraint".
type PropertySearchFilter struct {
	City             string
	PropertyType     string
	CountyID         int64
	MinAssessedValue *decimal.Decimal
	MaxAssessedValue *decimal.Decimal
	ActiveOnly       bool
	Limit            int
	Offset           int
}

// PropertyRepository defines the interface for property data access.
type PropertyRepository interface {
	// GetByID returns nil, nil when no property exists (not an error).
	GetByID(ctx context.Context, id int64) (*models.Property, error)

	// GetByParcelNumber returns nil, nil when no property exists.
	GetByParcelNumber(ctx context.Context, parcelNumber string) (*models.Property, error)

	// Search returns properties matching the filter, newest first.
	// Returns an empty slice when nothing matches.
	Search(ctx context.Context, filter PropertySearchFilter) ([]models.Property, error)

	// Create inserts a property and returns its assigned ID.
	Create(ctx context.Context, p *models.Property) (int64, error)

	// UpsertScraped inserts a scraped property or refreshes the existing row
	// keyed on parcel number, returning the row ID.
	UpsertScraped(ctx context.Context, p *models.Property) (int64, error)

	// Deactivate marks a property inactive. Properties are never deleted.
	Deactivate(ctx context.Context, id int64) error

	// GetEnrichment returns nil, nil when no enrichment row exists.
	GetEnrichment(ctx context.Context, propertyID int64) (*models.Enrichment, error)

	// UpsertEnrichment stores the latest enrichment signals for a property.
	UpsertEnrichment(ctx context.Context, propertyID int64, e *models.Enrichment) error
}

type propertyRepository struct {
	db *database.Database
}

// NewPropertyRepository creates a new instance of PropertyRepository.
func NewPropertyRepository(db *database.Database) PropertyRepository {
	return &propertyRepository{db: db}
}

const propertyColumns = `
	id, county_id, parcel_number, owner_name, address, city, state, zip_code,
	legal_description, property_type, assessed_value, market_value,
	square_footage, year_built, homestead_exemption, agricultural_exemption,
	senior_exemption, mineral_rights, latitude, longitude, notes, active,
	created_at, updated_at`

func scanProperty(row pgx.Row) (*models.Property, error) {
	var p models.Property
	err := row.Scan(
		&p.ID, &p.CountyID, &p.ParcelNumber, &p.OwnerName, &p.Address, &p.City,
		&p.State, &p.ZipCode, &p.LegalDescription, &p.PropertyType,
		&p.AssessedValue, &p.MarketValue, &p.SquareFootage, &p.YearBuilt,
		&p.HomesteadExemption, &p.AgriculturalExemption, &p.SeniorExemption,
		&p.MineralRights, &p.Latitude, &p.Longitude, &p.Notes, &p.Active,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *propertyRepository) GetByID(ctx context.Context, id int64) (*models.Property, error) {
	query := `SELECT` + propertyColumns + ` FROM properties WHERE id = $1`

	p, err := scanProperty(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query property %d: %w", id, err)
	}
	return p, nil
}

func (r *propertyRepository) GetByParcelNumber(ctx context.Context, parcelNumber string) (*models.Property, error) {
	query := `SELECT` + propertyColumns + ` FROM properties WHERE parcel_number = $1`

	p, err := scanProperty(r.db.Pool.QueryRow(ctx, query, parcelNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query property by parcel %q: %w", parcelNumber, err)
	}
	return p, nil
}

const defaultSearchLimit = 50

func (r *propertyRepository) Search(ctx context.Context, filter PropertySearchFilter) ([]models.Property, error) {
	var conds []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.CountyID > 0 {
		add("county_id = $%d", filter.CountyID)
	}
	if filter.PropertyType != "" {
		add("property_type = $%d", filter.PropertyType)
	}
	if filter.City != "" {
		add("LOWER(city) = LOWER($%d)", filter.City)
	}
	if filter.MinAssessedValue != nil {
		add("assessed_value >= $%d", *filter.MinAssessedValue)
	}
	if filter.MaxAssessedValue != nil {
		add("assessed_value <= $%d", *filter.MaxAssessedValue)
	}
	if filter.ActiveOnly {
		conds = append(conds, "active")
	}

	query := `SELECT` + propertyColumns + ` FROM properties`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search properties: %w", err)
	}
	defer rows.Close()

	results := []models.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		results = append(results, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property rows: %w", err)
	}
	return results, nil
}

func (r *propertyRepository) Create(ctx context.Context, p *models.Property) (int64, error) {
	query := `
		INSERT INTO properties (
			county_id, parcel_number, owner_name, address, city, state,
			zip_code, legal_description, property_type, assessed_value,
			market_value, square_footage, year_built, homestead_exemption,
			agricultural_exemption, senior_exemption, mineral_rights,
			latitude, longitude, notes, active
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
		RETURNING id`

	var id int64
	err := r.db.Pool.QueryRow(ctx, query,
		p.CountyID, p.ParcelNumber, p.OwnerName, p.Address, p.City, p.State,
		p.ZipCode, p.LegalDescription, p.PropertyType, p.AssessedValue,
		p.MarketValue, p.SquareFootage, p.YearBuilt, p.HomesteadExemption,
		p.AgriculturalExemption, p.SeniorExemption, p.MineralRights,
		p.Latitude, p.Longitude, p.Notes, p.Active,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert property %q: %w", p.ParcelNumber, err)
	}
	return id, nil
}

func (r *propertyRepository) UpsertScraped(ctx context.Context, p *models.Property) (int64, error) {
	// Scraped imports refresh valuation and ownership fields but never touch
	// manually entered notes or deactivate a row.
	query := `
		INSERT INTO properties (
			county_id, parcel_number, owner_name, address, city, state,
			zip_code, legal_description, property_type, assessed_value,
			market_value, year_built, homestead_exemption,
			agricultural_exemption, senior_exemption, mineral_rights, active
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,TRUE)
		ON CONFLICT (parcel_number) DO UPDATE SET
			owner_name = EXCLUDED.owner_name,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			zip_code = EXCLUDED.zip_code,
			legal_description = EXCLUDED.legal_description,
			property_type = EXCLUDED.property_type,
			assessed_value = EXCLUDED.assessed_value,
			market_value = EXCLUDED.market_value,
			year_built = EXCLUDED.year_built,
			homestead_exemption = EXCLUDED.homestead_exemption,
			agricultural_exemption = EXCLUDED.agricultural_exemption,
			senior_exemption = EXCLUDED.senior_exemption,
			mineral_rights = EXCLUDED.mineral_rights,
			updated_at = NOW()
		RETURNING id`

	var id int64
	err := r.db.Pool.QueryRow(ctx, query,
		p.CountyID, p.ParcelNumber, p.OwnerName, p.Address, p.City, p.State,
		p.ZipCode, p.LegalDescription, p.PropertyType, p.AssessedValue,
		p.MarketValue, p.YearBuilt, p.HomesteadExemption,
		p.AgriculturalExemption, p.SeniorExemption, p.MineralRights,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert scraped property %q: %w", p.ParcelNumber, err)
	}
	return id, nil
}

func (r *propertyRepository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE properties SET active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate property %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("property %d does not exist", id)
	}
	return nil
}

func (r *propertyRepository) GetEnrichment(ctx context.Context, propertyID int64) (*models.Enrichment, error) {
	query := `
		SELECT roi_percent, crime_level, walkability, school_rating,
			year_built, market_trend, cap_rate, cash_on_cash_rate
		FROM property_enrichments
		WHERE property_id = $1`

	var e models.Enrichment
	err := r.db.Pool.QueryRow(ctx, query, propertyID).Scan(
		&e.ROIPercent, &e.CrimeLevel, &e.Walkability, &e.SchoolRating,
		&e.YearBuilt, &e.MarketTrend, &e.CapRate, &e.CashOnCashRate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query enrichment for property %d: %w", propertyID, err)
	}
	return &e, nil
}

func (r *propertyRepository) UpsertEnrichment(ctx context.Context, propertyID int64, e *models.Enrichment) error {
	query := `
		INSERT INTO property_enrichments (
			property_id, roi_percent, crime_level, walkability, school_rating,
			year_built, market_trend, cap_rate, cash_on_cash_rate, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW())
		ON CONFLICT (property_id) DO UPDATE SET
			roi_percent = EXCLUDED.roi_percent,
			crime_level = EXCLUDED.crime_level,
			walkability = EXCLUDED.walkability,
			school_rating = EXCLUDED.school_rating,
			year_built = EXCLUDED.year_built,
			market_trend = EXCLUDED.market_trend,
			cap_rate = EXCLUDED.cap_rate,
			cash_on_cash_rate = EXCLUDED.cash_on_cash_rate,
			updated_at = NOW()`

	_, err := r.db.Pool.Exec(ctx, query, propertyID,
		e.ROIPercent, e.CrimeLevel, e.Walkability, e.SchoolRating,
		e.YearBuilt, e.MarketTrend, e.CapRate, e.CashOnCashRate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert enrichment for property %d: %w", propertyID, err)
	}
	return nil
}
