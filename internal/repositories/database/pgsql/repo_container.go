package pgsql

import (
	"time"

	portsrepo "github.com/fintrackhq/fintrack/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires all pgx repositories over one pool. The two
// durations bound lock acquisition and execution of the conversion rewrite.
func NewRepositoryProvider(dbPool *pgxpool.Pool, lockTimeout, statementTimeout time.Duration) portsrepo.RepositoryProvider {
	currencyRepo := newPgxCurrencyRepository(dbPool)
	rateCacheRepo := newPgxRateCacheRepository(dbPool)
	conversionLogRepo := newPgxConversionLogRepository(dbPool)
	portfolioRepo := newPgxPortfolioRepository(dbPool, lockTimeout, statementTimeout)

	return portsrepo.RepositoryProvider{
		CurrencyRepo:      currencyRepo,
		RateCacheRepo:     rateCacheRepo,
		ConversionLogRepo: conversionLogRepo,
		PortfolioRepo:     portfolioRepo,
	}
}
