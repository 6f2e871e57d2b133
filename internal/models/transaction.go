package models

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

// Transaction represents a row of the transactions table.
// Note: Amount uses github.com/shopspring/decimal; repeated multiplication
// during conversion must not go through floating point.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	UserID          string          `db:"user_id"`
	AccountID       string          `db:"account_id"`
	Amount          decimal.Decimal `db:"amount"`
	TransactionType TransactionType `db:"transaction_type"`
	CurrencyCode    string          `db:"currency_code"`
	Description     string          `db:"description"`
	TransactionDate time.Time       `db:"transaction_date"`
	AuditFields
}
