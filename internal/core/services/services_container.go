package services

import (
	"github.com/fintrackhq/fintrack/internal/core/ports"
	portsrepo "github.com/fintrackhq/fintrack/internal/core/ports/repositories"
	portssvc "github.com/fintrackhq/fintrack/internal/core/ports/services"
	"github.com/fintrackhq/fintrack/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, rateProvider ports.RateProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Currency = NewCurrencyService(repos.CurrencyRepo)

	container.Portfolio = NewPortfolioService(repos.PortfolioRepo)

	container.Rates = NewRateResolverService(
		repos.RateCacheRepo,
		repos.PortfolioRepo,
		rateProvider,
		WithHistoricalFanout(cfg.HistoricalRateFanout),
	)

	container.Conversion = NewConversionService(
		repos.ConversionLogRepo,
		repos.PortfolioRepo,
		container.Rates,
	)

	return container
}
