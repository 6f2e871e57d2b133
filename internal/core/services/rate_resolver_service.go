package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fintrackhq/fintrack/internal/apperrors"
	"github.com/fintrackhq/fintrack/internal/core/domain"
	"github.com/fintrackhq/fintrack/internal/core/ports"
	portsrepo "github.com/fintrackhq/fintrack/internal/core/ports/repositories"
	portssvc "github.com/fintrackhq/fintrack/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	// Rates for past days never change; a multi-year expiry makes them
	// effectively permanent without a special case in the store.
	historicalRateTTL = 10 * 365 * 24 * time.Hour
	currentRateTTL    = 24 * time.Hour

	// An expired cached rate may still be served when the provider is
	// down, but only this long after it was fetched.
	staleFallbackMaxAge = 7 * 24 * time.Hour

	defaultHistoricalFanout = 8
)

// RateResolverService resolves exchange rates cache-first, fetching from
// the external provider on a miss and falling back to a bounded-staleness
// cached rate when the provider is down. It also resolves the historical
// rate map for a user's transactions, one fetch per distinct calendar day.
type RateResolverService struct {
	BaseService
	rateCacheRepo portsrepo.RateCacheRepositoryFacade
	portfolioRepo portsrepo.PortfolioReader
	provider      ports.RateProvider
	fanoutLimit   int
	now           func() time.Time
}

// RateResolverOption is a functional option for configuring the resolver
type RateResolverOption func(*RateResolverService)

// WithHistoricalFanout bounds the number of concurrent historical fetches
func WithHistoricalFanout(n int) RateResolverOption {
	return func(s *RateResolverService) {
		if n > 0 {
			s.fanoutLimit = n
		}
	}
}

// WithClock overrides the time source (used by tests)
func WithClock(now func() time.Time) RateResolverOption {
	return func(s *RateResolverService) {
		s.now = now
	}
}

// NewRateResolverService creates a new RateResolverService.
func NewRateResolverService(rateCacheRepo portsrepo.RateCacheRepositoryFacade, portfolioRepo portsrepo.PortfolioReader, provider ports.RateProvider, options ...RateResolverOption) *RateResolverService {
	svc := &RateResolverService{
		rateCacheRepo: rateCacheRepo,
		portfolioRepo: portfolioRepo,
		provider:      provider,
		fanoutLimit:   defaultHistoricalFanout,
		now:           time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure RateResolverService implements the facade
var _ portssvc.RateResolverSvcFacade = (*RateResolverService)(nil)

// ResolveRate resolves the rate for a pair. A nil date means "now".
// Lookup order: fresh cache entry, provider fetch (upserted into the
// cache with the TTL policy), then the stale-cache fallback bounded at
// seven days, after which ErrRateUnavailable surfaces.
func (s *RateResolverService) ResolveRate(ctx context.Context, fromCode, toCode string, date *time.Time) (decimal.Decimal, error) {
	fromCode = strings.ToUpper(fromCode)
	toCode = strings.ToUpper(toCode)

	now := s.now()
	day := domain.DayOf(now)
	if date != nil {
		day = domain.DayOf(*date)
	}

	entry, err := s.rateCacheRepo.FindEntry(ctx, fromCode, toCode, day)
	if err == nil && entry.IsValidAt(now) {
		return entry.Rate, nil
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return decimal.Zero, fmt.Errorf("failed to read rate cache: %w", err)
	}

	rate, provErr := s.provider.FetchRate(ctx, fromCode, toCode, date)
	if provErr == nil {
		expiresAt := now.Add(currentRateTTL)
		if day.Before(domain.DayOf(now)) {
			expiresAt = now.Add(historicalRateTTL)
		}
		cacheEntry := domain.RateCacheEntry{
			RateDate:         day,
			FromCurrencyCode: fromCode,
			ToCurrencyCode:   toCode,
			Rate:             rate,
			CreatedAt:        now,
			ExpiresAt:        expiresAt,
		}
		// A cache write failure must not fail the resolution itself.
		if err := s.rateCacheRepo.UpsertEntry(ctx, cacheEntry); err != nil {
			s.LogError(ctx, err, "Failed to cache fetched rate",
				slog.String("from", fromCode), slog.String("to", toCode))
		}
		return rate, nil
	}

	s.LogError(ctx, provErr, "Rate provider exhausted, trying stale cache",
		slog.String("from", fromCode), slog.String("to", toCode))

	latest, lerr := s.rateCacheRepo.FindLatestEntry(ctx, fromCode, toCode)
	if lerr == nil && now.Sub(latest.CreatedAt) < staleFallbackMaxAge {
		s.LogInfo(ctx, "Serving stale cached rate",
			slog.String("from", fromCode), slog.String("to", toCode),
			slog.Time("cached_at", latest.CreatedAt))
		return latest.Rate, nil
	}

	return decimal.Zero, fmt.Errorf("%w: %s->%s: %v", apperrors.ErrRateUnavailable, fromCode, toCode, provErr)
}

// ResolveHistoricalRates resolves one rate per distinct calendar day in
// the user's transaction history, concurrently with a bounded fan-out.
// Every resolution is cache-aware, so repeated days across runs stay
// cheap after the first fetch.
func (s *RateResolverService) ResolveHistoricalRates(ctx context.Context, userID, fromCode, toCode string) (map[time.Time]decimal.Decimal, error) {
	dates, err := s.portfolioRepo.ListTransactionDates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transaction dates: %w", err)
	}

	// The query already deduplicates, but normalization here keeps map
	// keys well defined regardless of what the reader returns.
	seen := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := domain.DayOf(d)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}

	rates := make(map[time.Time]decimal.Decimal, len(days))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanoutLimit)
	for _, day := range days {
		g.Go(func() error {
			d := day
			rate, err := s.ResolveRate(gctx, fromCode, toCode, &d)
			if err != nil {
				return err
			}
			mu.Lock()
			rates[d] = rate
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.LogDebug(ctx, "Resolved historical rates",
		slog.String("user_id", userID), slog.Int("distinct_dates", len(days)))
	return rates, nil
}
