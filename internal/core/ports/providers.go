package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RateProvider abstracts the external exchange-rate service. A nil date
// requests the latest rate; a past date requests the historical rate for
// that calendar day. Implementations retry transient failures internally
// and surface apperrors.ErrProvider once retries are exhausted; they never
// fall back to cached data themselves.
type RateProvider interface {
	FetchRate(ctx context.Context, fromCode, toCode string, date *time.Time) (decimal.Decimal, error)
}
