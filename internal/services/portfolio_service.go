package services

import (
	"context"
	"fmt"

	"github.com/mgrist/texlien/internal/logger"
	"github.com/mgrist/texlien/internal/models"
	"github.com/mgrist/texlien/internal/portfolio"
	"github.com/mgrist/texlien/internal/repository"
)

// PortfolioService defines the interface for portfolio-wide reporting.
type PortfolioService interface {
	// Summary rolls up a user's investments into dashboard statistics.
	// A user with no investments gets an all-zero summary.
	Summary(ctx context.Context, userID int64) (*portfolio.Summary, error)
}

type portfolioService struct {
	investments repository.InvestmentRepository
	log         *logger.Logger
}

// NewPortfolioService creates a new instance of PortfolioService.
func NewPortfolioService(investments repository.InvestmentRepository, log *logger.Logger) PortfolioService {
	return &portfolioService{investments: investments, log: log}
}

func (s *portfolioService) Summary(ctx context.Context, userID int64) (*portfolio.Summary, error) {
	invs, err := s.investments.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}

	holdings := make([]portfolio.Holding, 0, len(invs))
	for i := range invs {
		inv := &invs[i]
		h := portfolio.Holding{Investment: inv}

		// Redemption records carry the realized profit for redeemed and
		// subsequently sold investments.
		if inv.Status != models.InvestmentStatusActive {
			red, err := s.investments.GetRedemption(ctx, inv.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to load redemption for investment %d: %w", inv.ID, err)
			}
			h.Redemption = red
		}
		holdings = append(holdings, h)
	}

	summary := portfolio.Summarize(holdings)
	s.log.Debug("Portfolio summarized", map[string]interface{}{
		"user_id":        userID,
		"holdings":       len(holdings),
		"total_invested": summary.TotalInvested.String(),
	})
	return &summary, nil
}
