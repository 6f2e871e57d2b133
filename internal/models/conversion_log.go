package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// ConversionLog represents a row of the conversion_logs table.
//
// The table carries a partial unique index on (user_id) WHERE
// status = 'IN_PROGRESS'; inserting a second in-progress row for the same
// user fails with a unique violation, which is what makes Begin race-free.
type ConversionLog struct {
	ConversionLogID  string              `db:"conversion_log_id"`
	UserID           string              `db:"user_id"`
	FromCurrencyCode string              `db:"from_currency_code"`
	ToCurrencyCode   string              `db:"to_currency_code"`
	Status           string              `db:"status"`
	ExchangeRate     decimal.NullDecimal `db:"exchange_rate"`
	TransactionCount int                 `db:"transaction_count"`
	AccountCount     int                 `db:"account_count"`
	BudgetCount      int                 `db:"budget_count"`
	GoalCount        int                 `db:"goal_count"`
	ErrorMessage     sql.NullString      `db:"error_message"`
	StartedAt        time.Time           `db:"started_at"`
	CompletedAt      sql.NullTime        `db:"completed_at"`
	DurationMs       sql.NullInt64       `db:"duration_ms"`
}
