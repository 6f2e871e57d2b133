package services

import (
	"context"

	"github.com/fintrackhq/fintrack/internal/core/domain"
)

// PortfolioSvcFacade exposes read access to a user's holdings.
type PortfolioSvcFacade interface {
	// GetPortfolio returns the user's currency setting, accounts, budgets,
	// goals and up to txnLimit most recent transactions. Returns
	// apperrors.ErrNotFound for an unknown user.
	GetPortfolio(ctx context.Context, userID string, txnLimit int) (*domain.PortfolioSnapshot, error)
}
