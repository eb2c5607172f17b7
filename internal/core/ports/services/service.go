package services

// ServiceContainer holds instances of all the application services. It is the
// main entry point for accessing service functionality, particularly in the
// handlers.
type ServiceContainer struct {
	Operator   OperatorSvcFacade
	Currency   CurrencySvcFacade
	Exchange   ExchangeSvcFacade
	Customer   CustomerResolverSvcFacade
	Settlement SettlementSvcFacade
}
