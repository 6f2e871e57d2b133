package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fintrackhq/fintrack/internal/core/domain"
	portsrepo "github.com/fintrackhq/fintrack/internal/core/ports/repositories"
	portssvc "github.com/fintrackhq/fintrack/internal/core/ports/services"
)

// PortfolioService provides read access to a user's holdings.
type PortfolioService struct {
	BaseService
	portfolioRepo portsrepo.PortfolioSnapshotReader
}

// NewPortfolioService creates a new PortfolioService.
func NewPortfolioService(portfolioRepo portsrepo.PortfolioSnapshotReader) *PortfolioService {
	return &PortfolioService{
		portfolioRepo: portfolioRepo,
	}
}

// Ensure PortfolioService implements the facade
var _ portssvc.PortfolioSvcFacade = (*PortfolioService)(nil)

// GetPortfolio loads the user's portfolio snapshot.
func (s *PortfolioService) GetPortfolio(ctx context.Context, userID string, txnLimit int) (*domain.PortfolioSnapshot, error) {
	snapshot, err := s.portfolioRepo.GetPortfolioSnapshot(ctx, userID, txnLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	s.LogDebug(ctx, "Portfolio snapshot loaded",
		slog.String("user_id", userID),
		slog.Int("accounts", len(snapshot.Accounts)),
		slog.Int("recent_transactions", len(snapshot.RecentTransactions)))
	return snapshot, nil
}
