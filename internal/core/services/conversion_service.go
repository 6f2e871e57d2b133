package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fintrackhq/fintrack/internal/apperrors"
	"github.com/fintrackhq/fintrack/internal/core/domain"
	portsrepo "github.com/fintrackhq/fintrack/internal/core/ports/repositories"
	portssvc "github.com/fintrackhq/fintrack/internal/core/ports/services"
)

// ConversionService is the conversion orchestrator: it acquires the
// per-user lock by inserting the IN_PROGRESS log row, drives rate
// resolution, executes the atomic rewrite and finalizes the log. It never
// retries; errors are recorded as FAILED and re-raised unchanged for the
// caller to map.
type ConversionService struct {
	BaseService
	conversionLogRepo portsrepo.ConversionLogRepositoryFacade
	portfolioRepo     portsrepo.PortfolioRepositoryFacade
	rateResolver      portssvc.RateResolverSvcFacade
	now               func() time.Time
}

// ConversionOption is a functional option for configuring the service
type ConversionOption func(*ConversionService)

// WithConversionClock overrides the time source (used by tests)
func WithConversionClock(now func() time.Time) ConversionOption {
	return func(s *ConversionService) {
		s.now = now
	}
}

// NewConversionService creates a new ConversionService.
func NewConversionService(conversionLogRepo portsrepo.ConversionLogRepositoryFacade, portfolioRepo portsrepo.PortfolioRepositoryFacade, rateResolver portssvc.RateResolverSvcFacade, options ...ConversionOption) *ConversionService {
	svc := &ConversionService{
		conversionLogRepo: conversionLogRepo,
		portfolioRepo:     portfolioRepo,
		rateResolver:      rateResolver,
		now:               time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure ConversionService implements the facade
var _ portssvc.ConversionSvcFacade = (*ConversionService)(nil)

// Convert re-denominates every monetary record the user owns from
// fromCode to toCode. Transactions use the historical rate of their day;
// accounts, budgets and goals use the current rate; everything is written
// in one all-or-nothing rewrite. A second call for the same user fails
// with ErrConversionInProgress until the first reaches a terminal state.
func (s *ConversionService) Convert(ctx context.Context, userID, fromCode, toCode string) (summary domain.ConversionSummary, err error) {
	fromCode = strings.ToUpper(fromCode)
	toCode = strings.ToUpper(toCode)

	// Rejected before any log row or provider call is made.
	if fromCode == toCode {
		return summary, fmt.Errorf("%w: %s", apperrors.ErrSameCurrency, fromCode)
	}

	startedAt := s.now()
	logID, err := s.conversionLogRepo.BeginConversion(ctx, userID, fromCode, toCode, startedAt)
	if err != nil {
		return summary, err
	}

	s.LogInfo(ctx, "Currency conversion started",
		slog.String("user_id", userID),
		slog.String("from", fromCode),
		slog.String("to", toCode),
		slog.String("conversion_log_id", logID))

	// The log must never stay IN_PROGRESS after this call returns, even
	// on panic. Anything short of a completed run is recorded as FAILED.
	completed := false
	defer func() {
		if completed {
			return
		}
		durationMs := s.now().Sub(startedAt).Milliseconds()
		cause := "conversion aborted"
		if err != nil {
			cause = err.Error()
		}
		if p := recover(); p != nil {
			cause = fmt.Sprintf("panic: %v", p)
			if ferr := s.conversionLogRepo.FailConversion(ctx, logID, cause, durationMs); ferr != nil {
				s.LogError(ctx, ferr, "Failed to mark conversion log as failed after panic",
					slog.String("conversion_log_id", logID))
			}
			panic(p)
		}
		if ferr := s.conversionLogRepo.FailConversion(ctx, logID, cause, durationMs); ferr != nil {
			s.LogError(ctx, ferr, "Failed to mark conversion log as failed",
				slog.String("conversion_log_id", logID))
		}
	}()

	// Point-in-time values (accounts, budgets, goals) use the current rate.
	currentRate, err := s.rateResolver.ResolveRate(ctx, fromCode, toCode, nil)
	if err != nil {
		return summary, err
	}

	// Transactions are fixed at their historical date; one rate per
	// distinct calendar day.
	historicalRates, err := s.rateResolver.ResolveHistoricalRates(ctx, userID, fromCode, toCode)
	if err != nil {
		return summary, err
	}

	plan := domain.ConversionPlan{
		FromCurrencyCode: fromCode,
		ToCurrencyCode:   toCode,
		CurrentRate:      currentRate,
		HistoricalRates:  historicalRates,
	}

	summary, err = s.portfolioRepo.ApplyConversion(ctx, userID, plan)
	if err != nil {
		return domain.ConversionSummary{}, err
	}

	durationMs := s.now().Sub(startedAt).Milliseconds()
	if err = s.conversionLogRepo.CompleteConversion(ctx, logID, summary, currentRate, durationMs); err != nil {
		return summary, fmt.Errorf("failed to finalize conversion log: %w", err)
	}
	completed = true

	s.LogInfo(ctx, "Currency conversion completed",
		slog.String("user_id", userID),
		slog.String("conversion_log_id", logID),
		slog.Int("transactions", summary.TransactionCount),
		slog.Int("accounts", summary.AccountCount),
		slog.Int("budgets", summary.BudgetCount),
		slog.Int("goals", summary.GoalCount),
		slog.Int64("duration_ms", durationMs))
	return summary, nil
}

// ListConversions returns the user's conversion audit trail, newest first.
func (s *ConversionService) ListConversions(ctx context.Context, userID string, limit int) ([]domain.ConversionLog, error) {
	logs, err := s.conversionLogRepo.ListConversionsByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversions in service: %w", err)
	}
	return logs, nil
}
