package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mgrist/texlien/internal/database"
	"github.com/mgrist/texlien/internal/models"
)

// TaxSaleRepository defines the interface for tax sale data access.
type TaxSaleRepository interface {
	// GetByID returns nil, nil when no sale exists (not an error).
	GetByID(ctx context.Context, id int64) (*models.TaxSale, error)

	// ListUpcoming returns scheduled sales with a sale date on or after the
	// given day, soonest first.
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.TaxSale, error)

	// Create inserts a sale and returns its assigned ID.
	Create(ctx context.Context, sale *models.TaxSale) (int64, error)

	// UpsertScheduled inserts a scraped sale or refreshes the scheduled row
	// keyed on property and sale date. Sales already in a terminal status
	// are left untouched.
	UpsertScheduled(ctx context.Context, sale *models.TaxSale) (int64, error)

	// UpdateStatus transitions a sale's status. Returns ErrStaleStatus when
	// the row is no longer in fromStatus.
	UpdateStatus(ctx context.Context, id int64, fromStatus, toStatus string) error
}

type taxSaleRepository struct {
	db *database.Database
}

// NewTaxSaleRepository creates a new instance of TaxSaleRepository.
func NewTaxSaleRepository(db *database.Database) TaxSaleRepository {
	return &taxSaleRepository{db: db}
}

const taxSaleColumns = `
	id, property_id, county_id, sale_date, minimum_bid, taxes_owed,
	total_judgment, status, created_at, updated_at`

func scanTaxSale(row pgx.Row) (*models.TaxSale, error) {
	var s models.TaxSale
	err := row.Scan(
		&s.ID, &s.PropertyID, &s.CountyID, &s.SaleDate, &s.MinimumBid,
		&s.TaxesOwed, &s.TotalJudgment, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *taxSaleRepository) GetByID(ctx context.Context, id int64) (*models.TaxSale, error) {
	query := `SELECT` + taxSaleColumns + ` FROM tax_sales WHERE id = $1`

	s, err := scanTaxSale(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query tax sale %d: %w", id, err)
	}
	return s, nil
}

func (r *taxSaleRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.TaxSale, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	query := `SELECT` + taxSaleColumns + `
		FROM tax_sales
		WHERE status = $1 AND sale_date >= $2
		ORDER BY sale_date
		LIMIT $3`

	rows, err := r.db.Pool.Query(ctx, query, models.SaleStatusScheduled, from, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming tax sales: %w", err)
	}
	defer rows.Close()

	results := []models.TaxSale{}
	for rows.Next() {
		s, err := scanTaxSale(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax sale row: %w", err)
		}
		results = append(results, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tax sale rows: %w", err)
	}
	return results, nil
}

func (r *taxSaleRepository) Create(ctx context.Context, sale *models.TaxSale) (int64, error) {
	query := `
		INSERT INTO tax_sales (
			property_id, county_id, sale_date, minimum_bid, taxes_owed,
			total_judgment, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id`

	var id int64
	err := r.db.Pool.QueryRow(ctx, query,
		sale.PropertyID, sale.CountyID, sale.SaleDate, sale.MinimumBid,
		sale.TaxesOwed, sale.TotalJudgment, sale.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert tax sale for property %d: %w", sale.PropertyID, err)
	}
	return id, nil
}

func (r *taxSaleRepository) UpsertScheduled(ctx context.Context, sale *models.TaxSale) (int64, error) {
	query := `
		INSERT INTO tax_sales (
			property_id, county_id, sale_date, minimum_bid, taxes_owed,
			total_judgment, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (property_id, sale_date) DO UPDATE SET
			minimum_bid = EXCLUDED.minimum_bid,
			taxes_owed = EXCLUDED.taxes_owed,
			total_judgment = EXCLUDED.total_judgment,
			updated_at = NOW()
		WHERE tax_sales.status = $7
		RETURNING id`

	var id int64
	err := r.db.Pool.QueryRow(ctx, query,
		sale.PropertyID, sale.CountyID, sale.SaleDate, sale.MinimumBid,
		sale.TaxesOwed, sale.TotalJudgment, models.SaleStatusScheduled,
	).Scan(&id)
	if err != nil {
		// A terminal sale blocks the conflict update; report the existing
		// row instead of failing the whole import.
		if errors.Is(err, pgx.ErrNoRows) {
			existing := r.db.Pool.QueryRow(ctx,
				`SELECT id FROM tax_sales WHERE property_id = $1 AND sale_date = $2`,
				sale.PropertyID, sale.SaleDate)
			if scanErr := existing.Scan(&id); scanErr == nil {
				return id, nil
			}
		}
		return 0, fmt.Errorf("failed to upsert tax sale for property %d: %w", sale.PropertyID, err)
	}
	return id, nil
}

func (r *taxSaleRepository) UpdateStatus(ctx context.Context, id int64, fromStatus, toStatus string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE tax_sales SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		toStatus, id, fromStatus)
	if err != nil {
		return fmt.Errorf("failed to update tax sale %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tax sale %d: %w", id, ErrStaleStatus)
	}
	return nil
}
