package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RateResolverSvc resolves exchange rates, cache first, provider second,
// stale cache as a bounded last resort.
type RateResolverSvc interface {
	// ResolveRate resolves the rate for a currency pair. A nil date means
	// "now" (current rate); a past date resolves the historical rate for
	// that calendar day. Returns apperrors.ErrRateUnavailable when both
	// the provider and the stale-cache fallback are exhausted.
	ResolveRate(ctx context.Context, fromCode, toCode string, date *time.Time) (decimal.Decimal, error)
}

// HistoricalRateBatchSvc resolves one rate per distinct transaction date.
type HistoricalRateBatchSvc interface {
	// ResolveHistoricalRates collapses the user's transaction dates to
	// distinct calendar days and resolves each day's rate concurrently.
	// The result maps day-normalized dates to rates.
	ResolveHistoricalRates(ctx context.Context, userID, fromCode, toCode string) (map[time.Time]decimal.Decimal, error)
}

// RateResolverSvcFacade combines the rate-resolution service interfaces
type RateResolverSvcFacade interface {
	RateResolverSvc
	HistoricalRateBatchSvc
}
