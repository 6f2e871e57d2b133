package dto

import (
	"time"

	"github.com/fintrackhq/fintrack/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PortfolioResponse is the read-only view of a user's holdings.
type PortfolioResponse struct {
	UserID             string                `json:"userID"`
	CurrencyCode       string                `json:"currencyCode"`
	Accounts           []AccountResponse     `json:"accounts"`
	Budgets            []BudgetResponse      `json:"budgets"`
	Goals              []GoalResponse        `json:"goals"`
	RecentTransactions []TransactionResponse `json:"recentTransactions"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID        string          `json:"accountID"`
	Name             string          `json:"name"`
	AccountType      string          `json:"accountType"`
	CurrencyCode     string          `json:"currencyCode"`
	Balance          decimal.Decimal `json:"balance"`
	ExternalSource   string          `json:"externalSource,omitempty"`
	OriginalCurrency string          `json:"originalCurrency,omitempty"`
	IsActive         bool            `json:"isActive"`
}

// BudgetResponse defines the data returned for a budget.
type BudgetResponse struct {
	BudgetID     string          `json:"budgetID"`
	Category     string          `json:"category"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	PeriodStart  time.Time       `json:"periodStart"`
	PeriodEnd    time.Time       `json:"periodEnd"`
}

// GoalResponse defines the data returned for a goal.
type GoalResponse struct {
	GoalID        string          `json:"goalID"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	CurrencyCode  string          `json:"currencyCode"`
	TargetDate    *time.Time      `json:"targetDate,omitempty"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID   string          `json:"transactionID"`
	AccountID       string          `json:"accountID"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType string          `json:"transactionType"`
	CurrencyCode    string          `json:"currencyCode"`
	Description     string          `json:"description,omitempty"`
	TransactionDate time.Time       `json:"transactionDate"`
}

// ToPortfolioResponse converts a domain snapshot to its DTO
func ToPortfolioResponse(s *domain.PortfolioSnapshot) PortfolioResponse {
	resp := PortfolioResponse{
		UserID:             s.User.UserID,
		CurrencyCode:       s.User.CurrencyCode,
		Accounts:           make([]AccountResponse, len(s.Accounts)),
		Budgets:            make([]BudgetResponse, len(s.Budgets)),
		Goals:              make([]GoalResponse, len(s.Goals)),
		RecentTransactions: make([]TransactionResponse, len(s.RecentTransactions)),
	}
	for i, a := range s.Accounts {
		resp.Accounts[i] = AccountResponse{
			AccountID:        a.AccountID,
			Name:             a.Name,
			AccountType:      string(a.AccountType),
			CurrencyCode:     a.CurrencyCode,
			Balance:          a.Balance,
			ExternalSource:   a.ExternalSource,
			OriginalCurrency: a.OriginalCurrency,
			IsActive:         a.IsActive,
		}
	}
	for i, b := range s.Budgets {
		resp.Budgets[i] = BudgetResponse{
			BudgetID:     b.BudgetID,
			Category:     b.Category,
			Amount:       b.Amount,
			CurrencyCode: b.CurrencyCode,
			PeriodStart:  b.PeriodStart,
			PeriodEnd:    b.PeriodEnd,
		}
	}
	for i, g := range s.Goals {
		resp.Goals[i] = GoalResponse{
			GoalID:        g.GoalID,
			Name:          g.Name,
			TargetAmount:  g.TargetAmount,
			CurrentAmount: g.CurrentAmount,
			CurrencyCode:  g.CurrencyCode,
			TargetDate:    g.TargetDate,
		}
	}
	for i, t := range s.RecentTransactions {
		resp.RecentTransactions[i] = TransactionResponse{
			TransactionID:   t.TransactionID,
			AccountID:       t.AccountID,
			Amount:          t.Amount,
			TransactionType: string(t.TransactionType),
			CurrencyCode:    t.CurrencyCode,
			Description:     t.Description,
			TransactionDate: t.TransactionDate,
		}
	}
	return resp
}
