package services

import (
	"context"

	"github.com/fintrackhq/fintrack/internal/core/domain"
)

// ConversionSvcFacade is the entry point of the currency conversion engine.
type ConversionSvcFacade interface {
	// Convert re-denominates every monetary record the user owns from
	// fromCode to toCode: historical rates for transactions, the current
	// rate for accounts, budgets and goals, all inside one atomic rewrite
	// serialized per user. Errors: apperrors.ErrSameCurrency,
	// apperrors.ErrConversionInProgress, apperrors.ErrRateUnavailable,
	// apperrors.ErrAtomicWriteFailed.
	Convert(ctx context.Context, userID, fromCode, toCode string) (domain.ConversionSummary, error)

	// ListConversions returns the user's conversion audit trail, newest
	// first.
	ListConversions(ctx context.Context, userID string, limit int) ([]domain.ConversionLog, error)
}
