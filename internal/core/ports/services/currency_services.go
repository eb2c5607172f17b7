package services

import (
	"context"

	"github.com/fxbureau/bureau_backend/internal/core/domain"
	"github.com/fxbureau/bureau_backend/internal/dto"
)

// CurrencySvcFacade exposes currency, quote and threshold-rule management.
type CurrencySvcFacade interface {
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorOperatorID string) (*domain.Currency, error)
	GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)

	// IngestQuote records one trading day's snapshot from the external rate feed.
	IngestQuote(ctx context.Context, currencyCode string, req dto.CreateQuoteRequest) (*domain.CurrencyQuote, error)

	// GetLatestQuote returns the freshest quote for a currency without any
	// staleness judgement; settlement-path callers go through the exchange
	// service which enforces the maximum age.
	GetLatestQuote(ctx context.Context, currencyCode string) (*domain.CurrencyQuote, error)

	ReplaceThresholdRules(ctx context.Context, currencyCode string, req dto.ReplaceThresholdsRequest, updaterOperatorID string) ([]domain.ThresholdRule, error)
	ListThresholdRules(ctx context.Context, currencyCode string) ([]domain.ThresholdRule, error)
}
