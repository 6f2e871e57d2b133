package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// AccountType distinguishes the broad kind of account.
type AccountType string

const (
	Checking   AccountType = "CHECKING"
	Savings    AccountType = "SAVINGS"
	CreditCard AccountType = "CREDIT_CARD"
	Cash       AccountType = "CASH"
	Investment AccountType = "INVESTMENT"
)

// Account represents a row of the accounts table. ExternalSource and
// OriginalCurrency are nullable columns.
type Account struct {
	AccountID        string          `db:"account_id"`
	UserID           string          `db:"user_id"`
	Name             string          `db:"name"`
	AccountType      AccountType     `db:"account_type"`
	CurrencyCode     string          `db:"currency_code"`
	Balance          decimal.Decimal `db:"balance"`
	ExternalSource   sql.NullString  `db:"external_source"`
	OriginalCurrency sql.NullString  `db:"original_currency"`
	IsActive         bool            `db:"is_active"`
	AuditFields
}
