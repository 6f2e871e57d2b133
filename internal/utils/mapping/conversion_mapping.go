package mapping

import (
	"github.com/fintrackhq/fintrack/internal/core/domain"
	"github.com/fintrackhq/fintrack/internal/models"
	"github.com/shopspring/decimal"
)

// ToDomainConversionLog converts a model ConversionLog to a domain ConversionLog
func ToDomainConversionLog(m models.ConversionLog) domain.ConversionLog {
	d := domain.ConversionLog{
		ConversionLogID:  m.ConversionLogID,
		UserID:           m.UserID,
		FromCurrencyCode: m.FromCurrencyCode,
		ToCurrencyCode:   m.ToCurrencyCode,
		Status:           domain.ConversionStatus(m.Status),
		TransactionCount: m.TransactionCount,
		AccountCount:     m.AccountCount,
		BudgetCount:      m.BudgetCount,
		GoalCount:        m.GoalCount,
		StartedAt:        m.StartedAt,
	}
	if m.ExchangeRate.Valid {
		d.ExchangeRate = m.ExchangeRate.Decimal
	} else {
		d.ExchangeRate = decimal.Zero
	}
	if m.ErrorMessage.Valid {
		d.ErrorMessage = m.ErrorMessage.String
	}
	if m.CompletedAt.Valid {
		t := m.CompletedAt.Time
		d.CompletedAt = &t
	}
	if m.DurationMs.Valid {
		ms := m.DurationMs.Int64
		d.DurationMs = &ms
	}
	return d
}

// ToDomainConversionLogSlice converts a slice of model ConversionLogs to domain ones
func ToDomainConversionLogSlice(ms []models.ConversionLog) []domain.ConversionLog {
	ds := make([]domain.ConversionLog, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainConversionLog(m)
	}
	return ds
}
