package repositories

// RepositoryProvider groups the concrete repositories handed to the service
// container at startup.
type RepositoryProvider struct {
	Operator   OperatorRepositoryFacade
	Currency   CurrencyRepositoryFacade
	Customer   CustomerSearcher
	Settlement SettlementRepositoryFacade
}
