package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mgrist/texlien/internal/database"
	"github.com/mgrist/texlien/internal/models"
)

// ErrStaleStatus is returned when a status update finds the row in a
// different state than expected, meaning another writer got there first.
var ErrStaleStatus = errors.New("investment status changed concurrently")

// InvestmentRepository defines the interface for investment data access.
type InvestmentRepository interface {
	// GetByID returns nil, nil when no investment exists (not an error).
	GetByID(ctx context.Context, id int64) (*models.Investment, error)

	// ListByUser returns all of a user's investments, newest purchase first.
	ListByUser(ctx context.Context, userID int64) ([]models.Investment, error)

	// ListActive returns every active investment across all users, for the
	// alert evaluation job.
	ListActive(ctx context.Context) ([]models.Investment, error)

	// Create inserts an investment and returns its assigned ID.
	Create(ctx context.Context, inv *models.Investment) (int64, error)

	// UpdateStatus transitions an investment from one status to another.
	// Returns ErrStaleStatus when the row is no longer in fromStatus.
	UpdateStatus(ctx context.Context, id int64, fromStatus, toStatus string) error

	// CreateRedemption inserts the redemption record and transitions the
	// investment from active to redeemed in one transaction.
	CreateRedemption(ctx context.Context, red *models.Redemption) (int64, error)

	// GetRedemption returns nil, nil when the investment has no redemption.
	GetRedemption(ctx context.Context, investmentID int64) (*models.Redemption, error)
}

type investmentRepository struct {
	db *database.Database
}

// NewInvestmentRepository creates a new instance of InvestmentRepository.
func NewInvestmentRepository(db *database.Database) InvestmentRepository {
	return &investmentRepository{db: db}
}

const investmentColumns = `
	id, user_id, tax_sale_id, property_id, purchase_date, purchase_amount,
	deed_recording_fee, other_costs, total_investment, deed_type,
	redemption_period_months, redemption_deadline, status,
	created_at, updated_at`

func scanInvestment(row pgx.Row) (*models.Investment, error) {
	var inv models.Investment
	err := row.Scan(
		&inv.ID, &inv.UserID, &inv.TaxSaleID, &inv.PropertyID,
		&inv.PurchaseDate, &inv.PurchaseAmount, &inv.DeedRecordingFee,
		&inv.OtherCosts, &inv.TotalInvestment, &inv.DeedType,
		&inv.RedemptionPeriodMonths, &inv.RedemptionDeadline, &inv.Status,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *investmentRepository) GetByID(ctx context.Context, id int64) (*models.Investment, error) {
	query := `SELECT` + investmentColumns + ` FROM investments WHERE id = $1`

	inv, err := scanInvestment(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query investment %d: %w", id, err)
	}
	return inv, nil
}

func (r *investmentRepository) ListByUser(ctx context.Context, userID int64) ([]models.Investment, error) {
	query := `SELECT` + investmentColumns + `
		FROM investments WHERE user_id = $1 ORDER BY purchase_date DESC, id DESC`

	return r.list(ctx, query, userID)
}

func (r *investmentRepository) ListActive(ctx context.Context) ([]models.Investment, error) {
	query := `SELECT` + investmentColumns + `
		FROM investments WHERE status = $1 ORDER BY redemption_deadline`

	return r.list(ctx, query, models.InvestmentStatusActive)
}

func (r *investmentRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Investment, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query investments: %w", err)
	}
	defer rows.Close()

	results := []models.Investment{}
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment row: %w", err)
		}
		results = append(results, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investment rows: %w", err)
	}
	return results, nil
}

func (r *investmentRepository) Create(ctx context.Context, inv *models.Investment) (int64, error) {
	query := `
		INSERT INTO investments (
			user_id, tax_sale_id, property_id, purchase_date, purchase_amount,
			deed_recording_fee, other_costs, total_investment, deed_type,
			redemption_period_months, redemption_deadline, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id`

	var id int64
	err := r.db.Pool.QueryRow(ctx, query,
		inv.UserID, inv.TaxSaleID, inv.PropertyID, inv.PurchaseDate,
		inv.PurchaseAmount, inv.DeedRecordingFee, inv.OtherCosts,
		inv.TotalInvestment, inv.DeedType, inv.RedemptionPeriodMonths,
		inv.RedemptionDeadline, inv.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert investment for sale %d: %w", inv.TaxSaleID, err)
	}
	return id, nil
}

func (r *investmentRepository) UpdateStatus(ctx context.Context, id int64, fromStatus, toStatus string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE investments SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		toStatus, id, fromStatus)
	if err != nil {
		return fmt.Errorf("failed to update investment %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("investment %d: %w", id, ErrStaleStatus)
	}
	return nil
}

func (r *investmentRepository) CreateRedemption(ctx context.Context, red *models.Redemption) (int64, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin redemption transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// The status guard makes the insert race-safe: a concurrent redemption
	// or clear-title transition leaves zero rows updated here.
	tag, err := tx.Exec(ctx,
		`UPDATE investments SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		models.InvestmentStatusRedeemed, red.InvestmentID, models.InvestmentStatusActive)
	if err != nil {
		return 0, fmt.Errorf("failed to transition investment %d to redeemed: %w", red.InvestmentID, err)
	}
	if tag.RowsAffected() == 0 {
		return 0, fmt.Errorf("investment %d: %w", red.InvestmentID, ErrStaleStatus)
	}

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO redemptions (
			investment_id, redemption_date, redemption_amount, penalty_amount,
			penalty_percentage, days_held, same_day, annualized_return,
			county_processing_fee, net_profit, redeemer_info, payment_method
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id`,
		red.InvestmentID, red.RedemptionDate, red.RedemptionAmount,
		red.PenaltyAmount, red.PenaltyPercentage, red.DaysHeld, red.SameDay,
		red.AnnualizedReturn, red.CountyProcessingFee, red.NetProfit,
		red.RedeemerInfo, red.PaymentMethod,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert redemption for investment %d: %w", red.InvestmentID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit redemption transaction: %w", err)
	}
	return id, nil
}

func (r *investmentRepository) GetRedemption(ctx context.Context, investmentID int64) (*models.Redemption, error) {
	query := `
		SELECT id, investment_id, redemption_date, redemption_amount,
			penalty_amount, penalty_percentage, days_held, same_day,
			annualized_return, county_processing_fee, net_profit,
			redeemer_info, payment_method, created_at
		FROM redemptions
		WHERE investment_id = $1`

	var red models.Redemption
	err := r.db.Pool.QueryRow(ctx, query, investmentID).Scan(
		&red.ID, &red.InvestmentID, &red.RedemptionDate, &red.RedemptionAmount,
		&red.PenaltyAmount, &red.PenaltyPercentage, &red.DaysHeld, &red.SameDay,
		&red.AnnualizedReturn, &red.CountyProcessingFee, &red.NetProfit,
		&red.RedeemerInfo, &red.PaymentMethod, &red.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query redemption for investment %d: %w", investmentID, err)
	}
	return &red, nil
}
