package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fintrackhq/fintrack/internal/apperrors"
	"github.com/fintrackhq/fintrack/internal/core/domain"
	portsrepo "github.com/fintrackhq/fintrack/internal/core/ports/repositories"
	"github.com/fintrackhq/fintrack/internal/models"
	"github.com/fintrackhq/fintrack/internal/utils/mapping"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxConversionLogRepository implements the conversion lock/log over the
// conversion_logs table. The table carries a partial unique index on
// (user_id) WHERE status = 'IN_PROGRESS', which is what serializes
// conversions per user across process instances.
type PgxConversionLogRepository struct {
	BaseRepository
}

// newPgxConversionLogRepository creates a new repository for conversion logs.
func newPgxConversionLogRepository(pool *pgxpool.Pool) portsrepo.ConversionLogRepositoryFacade {
	return &PgxConversionLogRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ConversionLogRepositoryFacade = (*PgxConversionLogRepository)(nil)

// BeginConversion inserts an IN_PROGRESS log row for the user. The insert
// itself is the lock acquisition: a unique violation on the partial index
// means another conversion is already running.
func (r *PgxConversionLogRepository) BeginConversion(ctx context.Context, userID, fromCode, toCode string, startedAt time.Time) (string, error) {
	logID := uuid.NewString()

	query := `
		INSERT INTO conversion_logs (conversion_log_id, user_id, from_currency_code, to_currency_code, status, started_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query, logID, userID, fromCode, toCode, string(domain.ConversionInProgress), startedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return "", apperrors.ErrConversionInProgress
			}
		}
		return "", fmt.Errorf("failed to begin conversion for user %s: %w", userID, err)
	}
	return logID, nil
}

// CompleteConversion transitions IN_PROGRESS -> COMPLETED exactly once.
func (r *PgxConversionLogRepository) CompleteConversion(ctx context.Context, logID string, summary domain.ConversionSummary, rate decimal.Decimal, durationMs int64) error {
	query := `
		UPDATE conversion_logs
		SET status = $2, exchange_rate = $3, transaction_count = $4, account_count = $5,
			budget_count = $6, goal_count = $7, completed_at = $8, duration_ms = $9
		WHERE conversion_log_id = $1 AND status = $10;
	`
	tag, err := r.Pool.Exec(ctx, query,
		logID, string(domain.ConversionCompleted), rate,
		summary.TransactionCount, summary.AccountCount, summary.BudgetCount, summary.GoalCount,
		time.Now(), durationMs, string(domain.ConversionInProgress),
	)
	if err != nil {
		return fmt.Errorf("failed to complete conversion log %s: %w", logID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: conversion log %s is not in progress", apperrors.ErrNotFound, logID)
	}
	return nil
}

// FailConversion transitions IN_PROGRESS -> FAILED exactly once.
func (r *PgxConversionLogRepository) FailConversion(ctx context.Context, logID string, errMessage string, durationMs int64) error {
	query := `
		UPDATE conversion_logs
		SET status = $2, error_message = $3, completed_at = $4, duration_ms = $5
		WHERE conversion_log_id = $1 AND status = $6;
	`
	tag, err := r.Pool.Exec(ctx, query,
		logID, string(domain.ConversionFailed), errMessage, time.Now(), durationMs,
		string(domain.ConversionInProgress),
	)
	if err != nil {
		return fmt.Errorf("failed to mark conversion log %s as failed: %w", logID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: conversion log %s is not in progress", apperrors.ErrNotFound, logID)
	}
	return nil
}

// ListConversionsByUser retrieves the user's conversion history, newest first.
func (r *PgxConversionLogRepository) ListConversionsByUser(ctx context.Context, userID string, limit int) ([]domain.ConversionLog, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT conversion_log_id, user_id, from_currency_code, to_currency_code, status,
			exchange_rate, transaction_count, account_count, budget_count, goal_count,
			error_message, started_at, completed_at, duration_ms
		FROM conversion_logs
		WHERE user_id = $1
		ORDER BY started_at DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversion logs: %w", err)
	}
	defer rows.Close()

	modelLogs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ConversionLog, error) {
		var logRow models.ConversionLog
		err := row.Scan(
			&logRow.ConversionLogID,
			&logRow.UserID,
			&logRow.FromCurrencyCode,
			&logRow.ToCurrencyCode,
			&logRow.Status,
			&logRow.ExchangeRate,
			&logRow.TransactionCount,
			&logRow.AccountCount,
			&logRow.BudgetCount,
			&logRow.GoalCount,
			&logRow.ErrorMessage,
			&logRow.StartedAt,
			&logRow.CompletedAt,
			&logRow.DurationMs,
		)
		return logRow, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan conversion logs: %w", err)
	}

	return mapping.ToDomainConversionLogSlice(modelLogs), nil
}
