package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget represents a row of the budgets table.
type Budget struct {
	BudgetID     string          `db:"budget_id"`
	UserID       string          `db:"user_id"`
	Category     string          `db:"category"`
	Amount       decimal.Decimal `db:"amount"`
	CurrencyCode string          `db:"currency_code"`
	PeriodStart  time.Time       `db:"period_start"`
	PeriodEnd    time.Time       `db:"period_end"`
	AuditFields
}
