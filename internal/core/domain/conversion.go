package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConversionStatus tracks the lifecycle of a currency conversion run.
type ConversionStatus string

const (
	ConversionInProgress ConversionStatus = "IN_PROGRESS"
	ConversionCompleted  ConversionStatus = "COMPLETED"
	ConversionFailed     ConversionStatus = "FAILED"
)

// ConversionLog is the append-only audit record of a conversion run. The
// partial uniqueness of (userID, status=IN_PROGRESS) in the persistence
// layer doubles as the per-user conversion lock.
type ConversionLog struct {
	ConversionLogID  string           `json:"conversionLogID"` // Primary Key (e.g., UUID)
	UserID           string           `json:"userID"`          // FK -> users.user_id (Not Null)
	FromCurrencyCode string           `json:"fromCurrencyCode"`
	ToCurrencyCode   string           `json:"toCurrencyCode"`
	Status           ConversionStatus `json:"status"`
	ExchangeRate     decimal.Decimal  `json:"exchangeRate"` // Current rate used; zero until completed
	TransactionCount int              `json:"transactionCount"`
	AccountCount     int              `json:"accountCount"`
	BudgetCount      int              `json:"budgetCount"`
	GoalCount        int              `json:"goalCount"`
	ErrorMessage     string           `json:"errorMessage,omitempty"` // Nullable
	StartedAt        time.Time        `json:"startedAt"`
	CompletedAt      *time.Time       `json:"completedAt,omitempty"` // Nullable
	DurationMs       *int64           `json:"durationMs,omitempty"`  // Nullable
}

// ConversionSummary holds the per-entity counts of a completed conversion.
type ConversionSummary struct {
	TransactionCount int `json:"transactionCount"`
	AccountCount     int `json:"accountCount"`
	BudgetCount      int `json:"budgetCount"`
	GoalCount        int `json:"goalCount"`
}

// ConversionPlan carries the resolved rates the atomic rewrite applies.
// HistoricalRates is keyed by day-normalized transaction date; transactions
// whose date is absent fall back to CurrentRate.
type ConversionPlan struct {
	FromCurrencyCode string
	ToCurrencyCode   string
	CurrentRate      decimal.Decimal
	HistoricalRates  map[time.Time]decimal.Decimal
}
