// Package alerts decides which investments need a deadline reminder given
// "now" and a configurable look-ahead horizon. Evaluation is pure and
// idempotent; deduplication against already-persisted alerts belongs to the
// caller.
package alerts

import (
	"fmt"
	"time"

	"github.com/mgrist/texlien/internal/models"
)

// UrgentThresholdDays is the remaining-day count at or below which a
// candidate is flagged urgent.
const UrgentThresholdDays = 7

// Candidate is a due alert that has not yet been persisted.
type Candidate struct {
	AlertDate     time.Time
	AlertType     string
	Message       string
	UserID        int64
	InvestmentID  int64
	DaysRemaining int
	Urgent        bool
}

// DueAlerts returns a redemption-deadline candidate for every active
// investment whose deadline falls within [now, now+horizonDays]. Investments
// already past their deadline are excluded: they belong to the clear-title
// workflow, not the reminder stream.
func DueAlerts(investments []*models.Investment, now time.Time, horizonDays int) []Candidate {
	var due []Candidate
	for _, inv := range investments {
		if inv == nil || inv.Status != models.InvestmentStatusActive {
			continue
		}
		remaining := inv.DaysUntilDeadline(now)
		if remaining < 0 || remaining > horizonDays {
			continue
		}
		due = append(due, Candidate{
			UserID:        inv.UserID,
			InvestmentID:  inv.ID,
			AlertType:     models.AlertTypeRedemptionDeadline,
			AlertDate:     inv.RedemptionDeadline,
			DaysRemaining: remaining,
			Urgent:        remaining <= UrgentThresholdDays,
			Message:       deadlineMessage(inv, remaining),
		})
	}
	return due
}

func deadlineMessage(inv *models.Investment, remaining int) string {
	switch remaining {
	case 0:
		return fmt.Sprintf("Redemption period for investment #%d expires today (%s)",
			inv.ID, inv.RedemptionDeadline.Format("2006-01-02"))
	case 1:
		return fmt.Sprintf("Redemption period for investment #%d expires tomorrow (%s)",
			inv.ID, inv.RedemptionDeadline.Format("2006-01-02"))
	}
	return fmt.Sprintf("Redemption period for investment #%d expires in %d days (%s)",
		inv.ID, remaining, inv.RedemptionDeadline.Format("2006-01-02"))
}
