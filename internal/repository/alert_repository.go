package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mgrist/texlien/internal/database"
	"github.com/mgrist/texlien/internal/models"
)

// AlertRepository defines the interface for alert data access.
type AlertRepository interface {
	// CreateIfAbsent inserts an alert unless one already exists for the same
	// investment, type, and alert date. Returns true when a row was inserted.
	CreateIfAbsent(ctx context.Context, alert *models.Alert) (bool, error)

	// ListByUser returns a user's alerts, newest alert date first.
	ListByUser(ctx context.Context, userID int64, unreadOnly bool) ([]models.Alert, error)

	// ListUnsent returns alerts that have not yet been delivered, oldest first.
	ListUnsent(ctx context.Context) ([]models.Alert, error)

	// MarkSent records the delivery timestamp for an alert.
	MarkSent(ctx context.Context, id int64) error

	// MarkRead flags an alert as read by its owner.
	MarkRead(ctx context.Context, id int64, userID int64) error
}

type alertRepository struct {
	db *database.Database
}

// NewAlertRepository creates a new instance of AlertRepository.
func NewAlertRepository(db *database.Database) AlertRepository {
	return &alertRepository{db: db}
}

const alertColumns = `
	id, user_id, investment_id, alert_type, alert_date, message, urgent,
	is_sent, sent_at, is_read, created_at`

func scanAlert(row pgx.Row) (*models.Alert, error) {
	var a models.Alert
	err := row.Scan(
		&a.ID, &a.UserID, &a.InvestmentID, &a.AlertType, &a.AlertDate,
		&a.Message, &a.Urgent, &a.IsSent, &a.SentAt, &a.IsRead, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *alertRepository) CreateIfAbsent(ctx context.Context, alert *models.Alert) (bool, error) {
	// The unique index on (investment_id, alert_type, alert_date) makes the
	// daily evaluation job idempotent.
	query := `
		INSERT INTO alerts (
			user_id, investment_id, alert_type, alert_date, message, urgent
		) VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (investment_id, alert_type, alert_date) DO NOTHING
		RETURNING id`

	err := r.db.Pool.QueryRow(ctx, query,
		alert.UserID, alert.InvestmentID, alert.AlertType, alert.AlertDate,
		alert.Message, alert.Urgent,
	).Scan(&alert.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert alert for investment %d: %w", alert.InvestmentID, err)
	}
	return true, nil
}

func (r *alertRepository) ListByUser(ctx context.Context, userID int64, unreadOnly bool) ([]models.Alert, error) {
	query := `SELECT` + alertColumns + ` FROM alerts WHERE user_id = $1`
	if unreadOnly {
		query += ` AND NOT is_read`
	}
	query += ` ORDER BY alert_date DESC, id DESC`

	return r.list(ctx, query, userID)
}

func (r *alertRepository) ListUnsent(ctx context.Context) ([]models.Alert, error) {
	query := `SELECT` + alertColumns + ` FROM alerts WHERE NOT is_sent ORDER BY alert_date, id`

	return r.list(ctx, query)
}

func (r *alertRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Alert, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	results := []models.Alert{}
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert row: %w", err)
		}
		results = append(results, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alert rows: %w", err)
	}
	return results, nil
}

func (r *alertRepository) MarkSent(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE alerts SET is_sent = TRUE, sent_at = NOW() WHERE id = $1 AND NOT is_sent`, id)
	if err != nil {
		return fmt.Errorf("failed to mark alert %d sent: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("alert %d missing or already sent", id)
	}
	return nil
}

func (r *alertRepository) MarkRead(ctx context.Context, id int64, userID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE alerts SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark alert %d read: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("alert %d not found for user %d", id, userID)
	}
	return nil
}
