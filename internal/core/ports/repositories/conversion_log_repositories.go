package repositories

import (
	"context"
	"time"

	"github.com/fintrackhq/fintrack/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ConversionLogWriter defines the lock/log transitions for conversions.
type ConversionLogWriter interface {
	// BeginConversion atomically inserts an IN_PROGRESS log row for the
	// user and returns its ID. The insert relies on the persistence
	// layer's partial unique constraint; if another conversion is already
	// in progress for the user it returns apperrors.ErrConversionInProgress.
	BeginConversion(ctx context.Context, userID, fromCode, toCode string, startedAt time.Time) (string, error)

	// CompleteConversion transitions IN_PROGRESS -> COMPLETED, recording
	// the final counts, the current rate used, and the duration.
	CompleteConversion(ctx context.Context, logID string, summary domain.ConversionSummary, rate decimal.Decimal, durationMs int64) error

	// FailConversion transitions IN_PROGRESS -> FAILED, recording the
	// error message and the duration.
	FailConversion(ctx context.Context, logID string, errMessage string, durationMs int64) error
}

// ConversionLogReader defines read access to the conversion audit trail.
type ConversionLogReader interface {
	// ListConversionsByUser retrieves the user's conversion history,
	// newest first.
	ListConversionsByUser(ctx context.Context, userID string, limit int) ([]domain.ConversionLog, error)
}

// ConversionLogRepositoryFacade combines the lock/log repository interfaces
type ConversionLogRepositoryFacade interface {
	ConversionLogWriter
	ConversionLogReader
}
