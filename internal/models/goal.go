package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal represents a row of the goals table.
type Goal struct {
	GoalID        string          `db:"goal_id"`
	UserID        string          `db:"user_id"`
	Name          string          `db:"name"`
	TargetAmount  decimal.Decimal `db:"target_amount"`
	CurrentAmount decimal.Decimal `db:"current_amount"`
	CurrencyCode  string          `db:"currency_code"`
	TargetDate    *time.Time      `db:"target_date"`
	AuditFields
}
