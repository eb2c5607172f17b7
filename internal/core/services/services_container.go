package services

import (
	portsrepo "github.com/fxbureau/bureau_backend/internal/core/ports/repositories"
	portssvc "github.com/fxbureau/bureau_backend/internal/core/ports/services"
	"github.com/fxbureau/bureau_backend/internal/platform/config"
	"github.com/fxbureau/bureau_backend/internal/utils/fieldcrypt"
	"github.com/fxbureau/bureau_backend/pkg/metrics"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, codec *fieldcrypt.Codec, collector *metrics.Collector) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Operator = NewOperatorService(repos.Operator, cfg)
	container.Currency = NewCurrencyService(repos.Currency)
	container.Exchange = NewExchangeService(repos.Currency, cfg.QuoteMaxAge, collector)
	container.Customer = NewCustomerService(repos.Customer, codec)
	container.Settlement = NewSettlementService(repos.Settlement, container.Customer, collector)

	return container
}

// Compile-time interface implementation checks.
var (
	_ portssvc.OperatorSvcFacade         = (*operatorService)(nil)
	_ portssvc.CurrencySvcFacade         = (*currencyService)(nil)
	_ portssvc.ExchangeSvcFacade         = (*exchangeService)(nil)
	_ portssvc.CustomerResolverSvcFacade = (*customerService)(nil)
	_ portssvc.SettlementSvcFacade       = (*settlementService)(nil)
)
