package domain

import (
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

// Account represents a financial account within the core domain.
// ExternalSource is non-empty for accounts synced from a bank-aggregation
// integration; those accounts get an OriginalCurrency stamp during a
// currency conversion so a later re-sync can be reconciled against the
// pre-conversion currency.
type Account struct {
	AccountID        string          `json:"accountID"` // Primary Key (e.g., UUID)
	UserID           string          `json:"userID"`    // FK -> users.user_id (Not Null)
	Name             string          `json:"name"`
	AccountType      AccountType     `json:"accountType"`
	CurrencyCode     string          `json:"currencyCode"`
	Balance          decimal.Decimal `json:"balance"`          // Point-in-time balance
	ExternalSource   string          `json:"externalSource"`   // Nullable; aggregator identifier
	OriginalCurrency string          `json:"originalCurrency"` // Nullable; set on conversion of synced accounts
	IsActive         bool            `json:"isActive"`
	AuditFields
}

// IsExternallySynced reports whether the account originates from an
// outside bank-aggregation source rather than manual entry.
func (a Account) IsExternallySynced() bool {
	return a.ExternalSource != ""
}
