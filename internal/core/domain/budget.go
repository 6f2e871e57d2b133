package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget represents a spending limit for a category over a period.
// Amount is a point-in-time value and is converted at the current rate.
type Budget struct {
	BudgetID     string          `json:"budgetID"` // Primary Key (e.g., UUID)
	UserID       string          `json:"userID"`   // FK -> users.user_id (Not Null)
	Category     string          `json:"category"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	PeriodStart  time.Time       `json:"periodStart"`
	PeriodEnd    time.Time       `json:"periodEnd"`
	AuditFields
}
