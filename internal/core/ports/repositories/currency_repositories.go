package repositories

import (
	"context"

	"github.com/fxbureau/bureau_backend/internal/core/domain"
)

// CurrencyReader defines read operations for currency data.
type CurrencyReader interface {
	// FindCurrencyByCode retrieves a specific currency by its code.
	FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all available currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencyWriter defines write operations for currency data.
type CurrencyWriter interface {
	// SaveCurrency persists a new currency.
	SaveCurrency(ctx context.Context, currency domain.Currency) error
}

// QuoteReader defines read operations for daily currency quotes.
type QuoteReader interface {
	// FindLatestQuote retrieves the most recently fetched quote for a currency.
	FindLatestQuote(ctx context.Context, currencyCode string) (*domain.CurrencyQuote, error)
}

// QuoteWriter defines write operations for daily currency quotes.
type QuoteWriter interface {
	// SaveQuote persists a rate-feed snapshot. Quotes are append-only.
	SaveQuote(ctx context.Context, quote domain.CurrencyQuote) error
}

// ThresholdReader defines read operations for denomination threshold rules.
type ThresholdReader interface {
	// ListThresholdRules retrieves a currency's rules sorted ascending by MaxSterling.
	ListThresholdRules(ctx context.Context, currencyCode string) ([]domain.ThresholdRule, error)
}

// ThresholdWriter defines write operations for denomination threshold rules.
type ThresholdWriter interface {
	// ReplaceThresholdRules swaps the full rule set for a currency.
	ReplaceThresholdRules(ctx context.Context, currencyCode string, rules []domain.ThresholdRule) error
}

// CurrencyRepositoryFacade combines all currency-related repository interfaces.
type CurrencyRepositoryFacade interface {
	CurrencyReader
	CurrencyWriter
	QuoteReader
	QuoteWriter
	ThresholdReader
	ThresholdWriter
}
