package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateCacheEntry is a durably cached exchange rate for a currency pair on
// a given calendar day. Entries for past days are effectively permanent;
// entries for the current day expire after 24 hours.
type RateCacheEntry struct {
	RateDate         time.Time       `json:"rateDate"` // Day-normalized; part of the unique key
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"` // Strictly positive
	CreatedAt        time.Time       `json:"createdAt"`
	ExpiresAt        time.Time       `json:"expiresAt"`
}

// IsValidAt reports whether the entry is still within its freshness window.
func (e RateCacheEntry) IsValidAt(now time.Time) bool {
	return e.ExpiresAt.After(now)
}

// DayOf normalizes a timestamp to its UTC calendar day. All rate-cache
// keys and historical-rate map keys go through this, so equality on the
// resulting time.Time is well defined.
func DayOf(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}
