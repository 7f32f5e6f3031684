package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mgrist/texlien/internal/alerts"
	"github.com/mgrist/texlien/internal/logger"
	"github.com/mgrist/texlien/internal/mailer"
	"github.com/mgrist/texlien/internal/models"
	"github.com/mgrist/texlien/internal/repository"
)

// ErrAlertNotFound is returned when an alert lookup or update finds nothing.
var ErrAlertNotFound = errors.New("alert not found")

// AlertService defines the interface for the deadline-reminder pipeline.
type AlertService interface {
	// EvaluateDeadlines scans active investments and persists a deadline
	// alert for each one inside the look-ahead horizon. Idempotent: alerts
	// already persisted for the same deadline are skipped. Returns the
	// number of new alerts created.
	EvaluateDeadlines(ctx context.Context, now time.Time) (int, error)

	// DeliverPending emails every unsent alert to its owner and marks it
	// sent. A failed send leaves the alert unsent for the next run.
	DeliverPending(ctx context.Context) error

	// ListForUser returns a user's alerts, optionally unread only.
	ListForUser(ctx context.Context, userID int64, unreadOnly bool) ([]models.Alert, error)

	// MarkRead flags a user's alert as read. Returns ErrAlertNotFound when
	// the alert does not exist or belongs to someone else.
	MarkRead(ctx context.Context, id int64, userID int64) error
}

type alertService struct {
	alerts      repository.AlertRepository
	investments repository.InvestmentRepository
	users       repository.UserRepository
	mail        mailer.Mailer
	log         *logger.Logger
	horizonDays int
}

// NewAlertService creates a new instance of AlertService.
func NewAlertService(
	alertRepo repository.AlertRepository,
	investments repository.InvestmentRepository,
	users repository.UserRepository,
	mail mailer.Mailer,
	horizonDays int,
	log *logger.Logger,
) AlertService {
	return &alertService{
		alerts:      alertRepo,
		investments: investments,
		users:       users,
		mail:        mail,
		log:         log,
		horizonDays: horizonDays,
	}
}

func (s *alertService) EvaluateDeadlines(ctx context.Context, now time.Time) (int, error) {
	active, err := s.investments.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active investments: %w", err)
	}

	invs := make([]*models.Investment, len(active))
	for i := range active {
		invs[i] = &active[i]
	}

	created := 0
	for _, cand := range alerts.DueAlerts(invs, now, s.horizonDays) {
		alert := &models.Alert{
			UserID:       cand.UserID,
			InvestmentID: cand.InvestmentID,
			AlertType:    cand.AlertType,
			AlertDate:    cand.AlertDate,
			Message:      cand.Message,
			Urgent:       cand.Urgent,
		}
		inserted, err := s.alerts.CreateIfAbsent(ctx, alert)
		if err != nil {
			return created, fmt.Errorf("failed to persist alert for investment %d: %w", cand.InvestmentID, err)
		}
		if inserted {
			created++
		}
	}

	s.log.Info("Deadline alerts evaluated", map[string]interface{}{
		"active_investments": len(active),
		"horizon_days":       s.horizonDays,
		"alerts_created":     created,
	})
	return created, nil
}

func (s *alertService) DeliverPending(ctx context.Context) error {
	pending, err := s.alerts.ListUnsent(ctx)
	if err != nil {
		return fmt.Errorf("failed to list unsent alerts: %w", err)
	}

	for _, alert := range pending {
		if s.mail.Enabled() {
			user, err := s.users.GetByID(ctx, alert.UserID)
			if err != nil {
				return fmt.Errorf("failed to load user %d: %w", alert.UserID, err)
			}
			if user == nil || !user.Active {
				// Orphaned or deactivated account; mark sent so the alert
				// stops cycling through the queue.
				s.log.Warn("Skipping alert for inactive user", map[string]interface{}{
					"alert_id": alert.ID,
					"user_id":  alert.UserID,
				})
			} else if err := s.mail.Send(user.Email, subjectFor(&alert), alert.Message); err != nil {
				s.log.Error("Failed to deliver alert, will retry", err, map[string]interface{}{
					"alert_id": alert.ID,
					"user_id":  alert.UserID,
				})
				continue
			}
		}

		if err := s.alerts.MarkSent(ctx, alert.ID); err != nil {
			return fmt.Errorf("failed to mark alert %d sent: %w", alert.ID, err)
		}
	}

	if len(pending) > 0 {
		s.log.Info("Alert delivery pass complete", map[string]interface{}{
			"pending": len(pending),
			"mailer":  s.mail.Enabled(),
		})
	}
	return nil
}

func subjectFor(a *models.Alert) string {
	if a.Urgent {
		return "URGENT: redemption deadline approaching"
	}
	return "Redemption deadline reminder"
}

func (s *alertService) ListForUser(ctx context.Context, userID int64, unreadOnly bool) ([]models.Alert, error) {
	return s.alerts.ListByUser(ctx, userID, unreadOnly)
}

func (s *alertService) MarkRead(ctx context.Context, id int64, userID int64) error {
	if err := s.alerts.MarkRead(ctx, id, userID); err != nil {
		return fmt.Errorf("%w: alert %d", ErrAlertNotFound, id)
	}
	return nil
}
