package mapping

import (
	"github.com/fintrackhq/fintrack/internal/core/domain"
	"github.com/fintrackhq/fintrack/internal/models"
)

// ToModelRateCacheEntry converts a domain RateCacheEntry to a model RateCacheEntry
func ToModelRateCacheEntry(d domain.RateCacheEntry) models.RateCacheEntry {
	return models.RateCacheEntry{
		RateDate:         d.RateDate,
		FromCurrencyCode: d.FromCurrencyCode,
		ToCurrencyCode:   d.ToCurrencyCode,
		Rate:             d.Rate,
		CreatedAt:        d.CreatedAt,
		ExpiresAt:        d.ExpiresAt,
	}
}

// ToDomainRateCacheEntry converts a model RateCacheEntry to a domain RateCacheEntry
func ToDomainRateCacheEntry(m models.RateCacheEntry) domain.RateCacheEntry {
	return domain.RateCacheEntry{
		RateDate:         m.RateDate,
		FromCurrencyCode: m.FromCurrencyCode,
		ToCurrencyCode:   m.ToCurrencyCode,
		Rate:             m.Rate,
		CreatedAt:        m.CreatedAt,
		ExpiresAt:        m.ExpiresAt,
	}
}
