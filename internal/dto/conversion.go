package dto

import (
	"time"

	"github.com/fintrackhq/fintrack/internal/core/domain"
)

// ConvertCurrencyRequest defines the data needed to start a conversion.
// Both codes are validated at the API boundary; the engine assumes
// well-formed input.
type ConvertCurrencyRequest struct {
	FromCurrencyCode string `json:"fromCurrency" binding:"required,uppercase,len=3"`
	ToCurrencyCode   string `json:"toCurrency" binding:"required,uppercase,len=3"`
}

// ConversionSummaryResponse reports the per-entity counts of a completed
// conversion.
type ConversionSummaryResponse struct {
	TransactionCount int `json:"transactionCount"`
	AccountCount     int `json:"accountCount"`
	BudgetCount      int `json:"budgetCount"`
	GoalCount        int `json:"goalCount"`
}

// ConversionLogResponse is one row of the conversion audit trail.
type ConversionLogResponse struct {
	ConversionLogID  string     `json:"conversionLogID"`
	FromCurrencyCode string     `json:"fromCurrency"`
	ToCurrencyCode   string     `json:"toCurrency"`
	Status           string     `json:"status"`
	ExchangeRate     string     `json:"exchangeRate"`
	TransactionCount int        `json:"transactionCount"`
	AccountCount     int        `json:"accountCount"`
	BudgetCount      int        `json:"budgetCount"`
	GoalCount        int        `json:"goalCount"`
	ErrorMessage     string     `json:"errorMessage,omitempty"`
	StartedAt        time.Time  `json:"startedAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	DurationMs       *int64     `json:"durationMs,omitempty"`
}

// ToConversionSummaryResponse converts a domain summary to its DTO
func ToConversionSummaryResponse(s domain.ConversionSummary) ConversionSummaryResponse {
	return ConversionSummaryResponse{
		TransactionCount: s.TransactionCount,
		AccountCount:     s.AccountCount,
		BudgetCount:      s.BudgetCount,
		GoalCount:        s.GoalCount,
	}
}

// ToConversionLogResponse converts a domain log row to its DTO
func ToConversionLogResponse(l domain.ConversionLog) ConversionLogResponse {
	return ConversionLogResponse{
		ConversionLogID:  l.ConversionLogID,
		FromCurrencyCode: l.FromCurrencyCode,
		ToCurrencyCode:   l.ToCurrencyCode,
		Status:           string(l.Status),
		ExchangeRate:     l.ExchangeRate.String(),
		TransactionCount: l.TransactionCount,
		AccountCount:     l.AccountCount,
		BudgetCount:      l.BudgetCount,
		GoalCount:        l.GoalCount,
		ErrorMessage:     l.ErrorMessage,
		StartedAt:        l.StartedAt,
		CompletedAt:      l.CompletedAt,
		DurationMs:       l.DurationMs,
	}
}

// ToListConversionLogResponse converts a slice of domain log rows to DTOs
func ToListConversionLogResponse(logs []domain.ConversionLog) []ConversionLogResponse {
	res := make([]ConversionLogResponse, len(logs))
	for i, l := range logs {
		res[i] = ToConversionLogResponse(l)
	}
	return res
}
