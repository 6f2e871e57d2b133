package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal represents a savings goal. Both the target and the amount saved so
// far are point-in-time values and are converted at the current rate.
type Goal struct {
	GoalID        string          `json:"goalID"` // Primary Key (e.g., UUID)
	UserID        string          `json:"userID"` // FK -> users.user_id (Not Null)
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	CurrencyCode  string          `json:"currencyCode"`
	TargetDate    *time.Time      `json:"targetDate,omitempty"` // Nullable
	AuditFields
}
