package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateCacheEntry represents a row of the exchange_rate_cache table.
// (rate_date, from_currency_code, to_currency_code) is the unique key;
// writes are idempotent upserts.
type RateCacheEntry struct {
	RateDate         time.Time       `db:"rate_date"`
	FromCurrencyCode string          `db:"from_currency_code"`
	ToCurrencyCode   string          `db:"to_currency_code"`
	Rate             decimal.Decimal `db:"rate"`
	CreatedAt        time.Time       `db:"created_at"`
	ExpiresAt        time.Time       `db:"expires_at"`
}
