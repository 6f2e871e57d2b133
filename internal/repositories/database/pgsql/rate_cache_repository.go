package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fintrackhq/fintrack/internal/apperrors"
	"github.com/fintrackhq/fintrack/internal/core/domain"
	portsrepo "github.com/fintrackhq/fintrack/internal/core/ports/repositories"
	"github.com/fintrackhq/fintrack/internal/models"
	"github.com/fintrackhq/fintrack/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxRateCacheRepository implements the rate cache over the
// exchange_rate_cache table. (rate_date, from, to) is the unique key.
type PgxRateCacheRepository struct {
	BaseRepository
}

// newPgxRateCacheRepository creates a new repository for cached rates.
func newPgxRateCacheRepository(pool *pgxpool.Pool) portsrepo.RateCacheRepositoryFacade {
	return &PgxRateCacheRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.RateCacheRepositoryFacade = (*PgxRateCacheRepository)(nil)

// UpsertEntry inserts or replaces the cached rate for the entry's key.
// Concurrent upserts of the same key are harmless last-write-wins.
func (r *PgxRateCacheRepository) UpsertEntry(ctx context.Context, entry domain.RateCacheEntry) error {
	modelEntry := mapping.ToModelRateCacheEntry(entry)
	modelEntry.FromCurrencyCode = strings.ToUpper(modelEntry.FromCurrencyCode)
	modelEntry.ToCurrencyCode = strings.ToUpper(modelEntry.ToCurrencyCode)

	query := `
		INSERT INTO exchange_rate_cache (rate_date, from_currency_code, to_currency_code, rate, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (rate_date, from_currency_code, to_currency_code) DO UPDATE SET
			rate = EXCLUDED.rate,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at;
	`

	_, err := r.Pool.Exec(ctx, query,
		modelEntry.RateDate.Format("2006-01-02"),
		modelEntry.FromCurrencyCode,
		modelEntry.ToCurrencyCode,
		modelEntry.Rate,
		modelEntry.CreatedAt,
		modelEntry.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert rate cache entry %s/%s: %w",
			modelEntry.FromCurrencyCode, modelEntry.ToCurrencyCode, err)
	}
	return nil
}

// FindEntry retrieves the cache entry for a pair on a specific day,
// regardless of expiry. Expiry is the resolver's decision, not the store's.
func (r *PgxRateCacheRepository) FindEntry(ctx context.Context, fromCode, toCode string, rateDate time.Time) (*domain.RateCacheEntry, error) {
	query := `
		SELECT rate_date, from_currency_code, to_currency_code, rate, created_at, expires_at
		FROM exchange_rate_cache
		WHERE from_currency_code = $1 AND to_currency_code = $2 AND rate_date = $3;
	`
	return r.queryEntry(ctx, query,
		strings.ToUpper(fromCode), strings.ToUpper(toCode), domain.DayOf(rateDate).Format("2006-01-02"))
}

// FindLatestEntry retrieves the most recently cached entry for a pair
// across all dates. Used for the stale-cache fallback.
func (r *PgxRateCacheRepository) FindLatestEntry(ctx context.Context, fromCode, toCode string) (*domain.RateCacheEntry, error) {
	query := `
		SELECT rate_date, from_currency_code, to_currency_code, rate, created_at, expires_at
		FROM exchange_rate_cache
		WHERE from_currency_code = $1 AND to_currency_code = $2
		ORDER BY rate_date DESC, created_at DESC
		LIMIT 1;
	`
	return r.queryEntry(ctx, query, strings.ToUpper(fromCode), strings.ToUpper(toCode))
}

func (r *PgxRateCacheRepository) queryEntry(ctx context.Context, query string, args ...any) (*domain.RateCacheEntry, error) {
	var modelEntry models.RateCacheEntry
	err := r.Pool.QueryRow(ctx, query, args...).Scan(
		&modelEntry.RateDate,
		&modelEntry.FromCurrencyCode,
		&modelEntry.ToCurrencyCode,
		&modelEntry.Rate,
		&modelEntry.CreatedAt,
		&modelEntry.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query rate cache: %w", err)
	}

	domainEntry := mapping.ToDomainRateCacheEntry(modelEntry)
	domainEntry.RateDate = domain.DayOf(domainEntry.RateDate)
	return &domainEntry, nil
}
