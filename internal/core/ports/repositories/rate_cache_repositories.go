package repositories

import (
	"context"
	"time"

	"github.com/fintrackhq/fintrack/internal/core/domain"
)

// RateCacheReader defines read operations for the durable rate cache.
type RateCacheReader interface {
	// FindEntry retrieves the cache entry for a currency pair on a
	// day-normalized date, regardless of expiry. Returns
	// apperrors.ErrNotFound when no entry exists.
	FindEntry(ctx context.Context, fromCode, toCode string, rateDate time.Time) (*domain.RateCacheEntry, error)

	// FindLatestEntry retrieves the most recently created entry for a
	// currency pair across all dates, regardless of expiry. Used for the
	// stale-cache fallback when the provider is down.
	FindLatestEntry(ctx context.Context, fromCode, toCode string) (*domain.RateCacheEntry, error)
}

// RateCacheWriter defines write operations for the durable rate cache.
type RateCacheWriter interface {
	// UpsertEntry inserts or replaces the entry for the entry's
	// (rateDate, from, to) key. Idempotent; concurrent upserts of the
	// same key are last-write-wins.
	UpsertEntry(ctx context.Context, entry domain.RateCacheEntry) error
}

// RateCacheRepositoryFacade combines all rate-cache repository interfaces
type RateCacheRepositoryFacade interface {
	RateCacheReader
	RateCacheWriter
}
