package repositories

import (
	"context"
	"time"

	"github.com/fintrackhq/fintrack/internal/core/domain"
)

// PortfolioReader reads the monetary records the conversion engine rewrites.
type PortfolioReader interface {
	// ListTransactionDates returns the distinct day-normalized dates of
	// the user's transactions. One historical rate is resolved per date
	// rather than per transaction.
	ListTransactionDates(ctx context.Context, userID string) ([]time.Time, error)
}

// PortfolioSnapshotReader loads a read-only view of a user's holdings.
type PortfolioSnapshotReader interface {
	// GetPortfolioSnapshot loads the user row plus all accounts, budgets
	// and goals, and up to txnLimit most recent transactions. Returns
	// apperrors.ErrNotFound when the user does not exist.
	GetPortfolioSnapshot(ctx context.Context, userID string, txnLimit int) (*domain.PortfolioSnapshot, error)
}

// PortfolioConverter executes the all-or-nothing multi-entity rewrite.
type PortfolioConverter interface {
	// ApplyConversion rewrites every monetary record the user owns inside
	// a single transaction: transaction amounts by their date's historical
	// rate (current rate when the date is absent from the plan), account
	// balances, budget amounts and goal amounts by the current rate, and
	// finally the user's currency setting. Externally-synced accounts are
	// stamped with the pre-conversion currency. On any failure nothing is
	// committed and apperrors.ErrAtomicWriteFailed is returned.
	ApplyConversion(ctx context.Context, userID string, plan domain.ConversionPlan) (domain.ConversionSummary, error)
}

// PortfolioRepositoryFacade combines portfolio read and rewrite interfaces
type PortfolioRepositoryFacade interface {
	PortfolioReader
	PortfolioSnapshotReader
	PortfolioConverter
}
