package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether money left or entered an account.
type TransactionType string

const (
	Expense TransactionType = "EXPENSE"
	Income  TransactionType = "INCOME"
)

// Transaction represents a single dated monetary movement owned by a user.
// Amount is fixed at the transaction's date, which is why currency
// conversion applies the historical rate for that day rather than the
// current one.
type Transaction struct {
	TransactionID   string          `json:"transactionID"` // Primary Key (e.g., UUID)
	UserID          string          `json:"userID"`        // FK -> users.user_id (Not Null)
	AccountID       string          `json:"accountID"`     // FK -> accounts.account_id (Not Null)
	Amount          decimal.Decimal `json:"amount"`        // Precise decimal type
	TransactionType TransactionType `json:"transactionType"`
	CurrencyCode    string          `json:"currencyCode"`
	Description     string          `json:"description"` // Nullable
	TransactionDate time.Time       `json:"transactionDate"`
	AuditFields
}
