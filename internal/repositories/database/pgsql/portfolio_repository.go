package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fintrackhq/fintrack/internal/apperrors"
	"github.com/fintrackhq/fintrack/internal/core/domain"
	portsrepo "github.com/fintrackhq/fintrack/internal/core/ports/repositories"
	"github.com/fintrackhq/fintrack/internal/models"
	"github.com/fintrackhq/fintrack/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPortfolioRepository reads and atomically rewrites the monetary
// records a user owns: transactions, accounts, budgets, goals and the
// user's currency setting.
type PgxPortfolioRepository struct {
	BaseRepository
	lockTimeout      time.Duration
	statementTimeout time.Duration
}

// newPgxPortfolioRepository creates a new portfolio repository. The two
// timeouts bound lock acquisition and statement execution inside the
// conversion rewrite.
func newPgxPortfolioRepository(pool *pgxpool.Pool, lockTimeout, statementTimeout time.Duration) portsrepo.PortfolioRepositoryFacade {
	return &PgxPortfolioRepository{
		BaseRepository:   BaseRepository{Pool: pool},
		lockTimeout:      lockTimeout,
		statementTimeout: statementTimeout,
	}
}

// Ensure implementation matches interface
var _ portsrepo.PortfolioRepositoryFacade = (*PgxPortfolioRepository)(nil)

// ListTransactionDates returns the distinct UTC calendar days of the
// user's transactions, oldest first.
func (r *PgxPortfolioRepository) ListTransactionDates(ctx context.Context, userID string) ([]time.Time, error) {
	query := `
		SELECT DISTINCT (transaction_date AT TIME ZONE 'UTC')::date
		FROM transactions
		WHERE user_id = $1
		ORDER BY 1;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction dates: %w", err)
	}
	defer rows.Close()

	dates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (time.Time, error) {
		var d time.Time
		err := row.Scan(&d)
		return domain.DayOf(d), err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan transaction dates: %w", err)
	}
	return dates, nil
}

// GetPortfolioSnapshot loads the user's holdings in one read pass: the
// user row, every account, budget and goal, and the most recent
// transactions up to txnLimit.
func (r *PgxPortfolioRepository) GetPortfolioSnapshot(ctx context.Context, userID string, txnLimit int) (*domain.PortfolioSnapshot, error) {
	if txnLimit <= 0 {
		txnLimit = 50
	}

	var userRow models.User
	err := r.Pool.QueryRow(ctx, `
		SELECT user_id, name, currency_code, created_at, created_by, last_updated_at, last_updated_by, deleted_at
		FROM users
		WHERE user_id = $1 AND deleted_at IS NULL;`, userID,
	).Scan(
		&userRow.UserID, &userRow.Name, &userRow.CurrencyCode,
		&userRow.CreatedAt, &userRow.CreatedBy, &userRow.LastUpdatedAt, &userRow.LastUpdatedBy,
		&userRow.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to query user %s: %w", userID, err)
	}

	accountRows, err := r.Pool.Query(ctx, `
		SELECT account_id, user_id, name, account_type, currency_code, balance,
			external_source, original_currency, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		FROM accounts
		WHERE user_id = $1
		ORDER BY name;`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer accountRows.Close()
	accounts, err := pgx.CollectRows(accountRows, func(row pgx.CollectableRow) (models.Account, error) {
		var a models.Account
		err := row.Scan(&a.AccountID, &a.UserID, &a.Name, &a.AccountType, &a.CurrencyCode, &a.Balance,
			&a.ExternalSource, &a.OriginalCurrency, &a.IsActive,
			&a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan accounts: %w", err)
	}

	budgetRows, err := r.Pool.Query(ctx, `
		SELECT budget_id, user_id, category, amount, currency_code, period_start, period_end,
			created_at, created_by, last_updated_at, last_updated_by
		FROM budgets
		WHERE user_id = $1
		ORDER BY period_start DESC;`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer budgetRows.Close()
	budgets, err := pgx.CollectRows(budgetRows, func(row pgx.CollectableRow) (models.Budget, error) {
		var b models.Budget
		err := row.Scan(&b.BudgetID, &b.UserID, &b.Category, &b.Amount, &b.CurrencyCode, &b.PeriodStart, &b.PeriodEnd,
			&b.CreatedAt, &b.CreatedBy, &b.LastUpdatedAt, &b.LastUpdatedBy)
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan budgets: %w", err)
	}

	goalRows, err := r.Pool.Query(ctx, `
		SELECT goal_id, user_id, name, target_amount, current_amount, currency_code, target_date,
			created_at, created_by, last_updated_at, last_updated_by
		FROM goals
		WHERE user_id = $1
		ORDER BY name;`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer goalRows.Close()
	goals, err := pgx.CollectRows(goalRows, func(row pgx.CollectableRow) (models.Goal, error) {
		var g models.Goal
		err := row.Scan(&g.GoalID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.CurrencyCode, &g.TargetDate,
			&g.CreatedAt, &g.CreatedBy, &g.LastUpdatedAt, &g.LastUpdatedBy)
		return g, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan goals: %w", err)
	}

	txnRows, err := r.Pool.Query(ctx, `
		SELECT transaction_id, user_id, account_id, amount, transaction_type, currency_code,
			description, transaction_date,
			created_at, created_by, last_updated_at, last_updated_by
		FROM transactions
		WHERE user_id = $1
		ORDER BY transaction_date DESC
		LIMIT $2;`, userID, txnLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer txnRows.Close()
	txns, err := pgx.CollectRows(txnRows, func(row pgx.CollectableRow) (models.Transaction, error) {
		var t models.Transaction
		err := row.Scan(&t.TransactionID, &t.UserID, &t.AccountID, &t.Amount, &t.TransactionType, &t.CurrencyCode,
			&t.Description, &t.TransactionDate,
			&t.CreatedAt, &t.CreatedBy, &t.LastUpdatedAt, &t.LastUpdatedBy)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}

	return &domain.PortfolioSnapshot{
		User:               mapping.ToDomainUser(userRow),
		Accounts:           mapping.ToDomainAccountSlice(accounts),
		Budgets:            mapping.ToDomainBudgetSlice(budgets),
		Goals:              mapping.ToDomainGoalSlice(goals),
		RecentTransactions: mapping.ToDomainTransactionSlice(txns),
	}, nil
}

// ApplyConversion executes the all-or-nothing rewrite in one transaction.
// Each transaction amount is multiplied by the historical rate of its day
// (current rate when the day is absent from the plan); accounts, budgets
// and goals use the current rate; externally-synced accounts are stamped
// with the pre-conversion currency; finally the user's currency setting
// flips to the target. Any failure rolls everything back and surfaces as
// apperrors.ErrAtomicWriteFailed.
func (r *PgxPortfolioRepository) ApplyConversion(ctx context.Context, userID string, plan domain.ConversionPlan) (domain.ConversionSummary, error) {
	var summary domain.ConversionSummary

	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return summary, fmt.Errorf("%w: begin: %v", apperrors.ErrAtomicWriteFailed, err)
	}
	// Rollback is a no-op once the commit below succeeds.
	defer func() { _ = r.Rollback(ctx, tx) }()

	// SET LOCAL scopes both timeouts to this transaction only.
	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%d'", r.lockTimeout.Milliseconds())); err != nil {
		return summary, fmt.Errorf("%w: set lock_timeout: %v", apperrors.ErrAtomicWriteFailed, err)
	}
	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = '%d'", r.statementTimeout.Milliseconds())); err != nil {
		return summary, fmt.Errorf("%w: set statement_timeout: %v", apperrors.ErrAtomicWriteFailed, err)
	}

	now := time.Now()

	// Transactions: one update per distinct historical day.
	days := make([]time.Time, 0, len(plan.HistoricalRates))
	for day := range plan.HistoricalRates {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	dayKeys := make([]string, 0, len(days))
	for _, day := range days {
		rate := plan.HistoricalRates[day]
		tag, err := tx.Exec(ctx, `
			UPDATE transactions
			SET amount = amount * $1, currency_code = $2, last_updated_at = $3
			WHERE user_id = $4 AND transaction_date >= $5 AND transaction_date < $6;`,
			rate, plan.ToCurrencyCode, now, userID, day, day.Add(24*time.Hour),
		)
		if err != nil {
			return summary, fmt.Errorf("%w: rewrite transactions for %s: %v",
				apperrors.ErrAtomicWriteFailed, day.Format("2006-01-02"), err)
		}
		summary.TransactionCount += int(tag.RowsAffected())
		dayKeys = append(dayKeys, day.Format("2006-01-02"))
	}

	// Transactions dated outside the resolved set (possible when writes
	// land between date extraction and the rewrite) fall back to the
	// current rate. Known precision edge case, kept deliberately.
	tag, err := tx.Exec(ctx, `
		UPDATE transactions
		SET amount = amount * $1, currency_code = $2, last_updated_at = $3
		WHERE user_id = $4 AND (transaction_date AT TIME ZONE 'UTC')::date <> ALL($5::date[]);`,
		plan.CurrentRate, plan.ToCurrencyCode, now, userID, dayKeys,
	)
	if err != nil {
		return summary, fmt.Errorf("%w: rewrite unmapped transactions: %v", apperrors.ErrAtomicWriteFailed, err)
	}
	summary.TransactionCount += int(tag.RowsAffected())

	// Accounts: point-in-time balances use the current rate. Synced
	// accounts keep a marker of the pre-conversion currency so a future
	// re-sync from the aggregator can be reconciled.
	tag, err = tx.Exec(ctx, `
		UPDATE accounts
		SET balance = balance * $1, currency_code = $2, last_updated_at = $3,
			original_currency = CASE WHEN external_source IS NOT NULL THEN $4 ELSE original_currency END
		WHERE user_id = $5;`,
		plan.CurrentRate, plan.ToCurrencyCode, now, plan.FromCurrencyCode, userID,
	)
	if err != nil {
		return summary, fmt.Errorf("%w: rewrite accounts: %v", apperrors.ErrAtomicWriteFailed, err)
	}
	summary.AccountCount = int(tag.RowsAffected())

	tag, err = tx.Exec(ctx, `
		UPDATE budgets
		SET amount = amount * $1, currency_code = $2, last_updated_at = $3
		WHERE user_id = $4;`,
		plan.CurrentRate, plan.ToCurrencyCode, now, userID,
	)
	if err != nil {
		return summary, fmt.Errorf("%w: rewrite budgets: %v", apperrors.ErrAtomicWriteFailed, err)
	}
	summary.BudgetCount = int(tag.RowsAffected())

	tag, err = tx.Exec(ctx, `
		UPDATE goals
		SET target_amount = target_amount * $1, current_amount = current_amount * $1,
			currency_code = $2, last_updated_at = $3
		WHERE user_id = $4;`,
		plan.CurrentRate, plan.ToCurrencyCode, now, userID,
	)
	if err != nil {
		return summary, fmt.Errorf("%w: rewrite goals: %v", apperrors.ErrAtomicWriteFailed, err)
	}
	summary.GoalCount = int(tag.RowsAffected())

	if _, err = tx.Exec(ctx, `
		UPDATE users
		SET currency_code = $1, last_updated_at = $2
		WHERE user_id = $3;`,
		plan.ToCurrencyCode, now, userID,
	); err != nil {
		return summary, fmt.Errorf("%w: update user currency: %v", apperrors.ErrAtomicWriteFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return summary, fmt.Errorf("%w: commit: %v", apperrors.ErrAtomicWriteFailed, err)
	}
	return summary, nil
}
