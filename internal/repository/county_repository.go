package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mgrist/texlien/internal/database"
	"github.com/mgrist/texlien/internal/models"
)

// CountyRepository defines the interface for county data access.
type CountyRepository interface {
	// GetByID returns nil, nil when no county exists (not an error).
	GetByID(ctx context.Context, id int64) (*models.County, error)

	// ListActive returns counties whose sale lists are being tracked.
	ListActive(ctx context.Context) ([]models.County, error)
}

type countyRepository struct {
	db *database.Database
}

// NewCountyRepository creates a new instance of CountyRepository.
func NewCountyRepository(db *database.Database) CountyRepository {
	return &countyRepository{db: db}
}

const countyColumns = `id, name, state, tax_sale_list_url, auction_note, active, created_at`

func scanCounty(row pgx.Row) (*models.County, error) {
	var c models.County
	err := row.Scan(&c.ID, &c.Name, &c.State, &c.TaxSaleListURL, &c.AuctionNote, &c.Active, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *countyRepository) GetByID(ctx context.Context, id int64) (*models.County, error) {
	query := `SELECT ` + countyColumns + ` FROM counties WHERE id = $1`

	c, err := scanCounty(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query county %d: %w", id, err)
	}
	return c, nil
}

func (r *countyRepository) ListActive(ctx context.Context) ([]models.County, error) {
	query := `SELECT ` + countyColumns + ` FROM counties WHERE active ORDER BY name`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query counties: %w", err)
	}
	defer rows.Close()

	results := []models.County{}
	for rows.Next() {
		c, err := scanCounty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan county row: %w", err)
		}
		results = append(results, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating county rows: %w", err)
	}
	return results, nil
}
