package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fxbureau/bureau_backend/internal/apperrors"
	"github.com/fxbureau/bureau_backend/internal/core/domain"
	portsrepo "github.com/fxbureau/bureau_backend/internal/core/ports/repositories"
	portssvc "github.com/fxbureau/bureau_backend/internal/core/ports/services"
	"github.com/fxbureau/bureau_backend/internal/dto"
	"github.com/fxbureau/bureau_backend/internal/middleware"
)

var (
	ErrQuoteRatesInvalid   = errors.New("quote rates must be positive")
	ErrDenominationInvalid = errors.New("denominations must be positive and distinct")
)

// currencyService manages currencies, daily quotes and threshold rules.
type currencyService struct {
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewCurrencyService creates a new CurrencySvcFacade.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

// CreateCurrency implements portssvc.CurrencySvcFacade.
func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorOperatorID string) (*domain.Currency, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	code := strings.ToUpper(req.CurrencyCode)

	if existing, err := s.currencyRepo.FindCurrencyByCode(ctx, code); err == nil && existing != nil {
		return nil, fmt.Errorf("currency %s: %w", code, apperrors.ErrDuplicate)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing currency: %w", err)
	}

	now := time.Now()
	currency := domain.Currency{
		CurrencyCode: code,
		Symbol:       req.Symbol,
		Name:         req.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorOperatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorOperatorID,
		},
	}
	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		return nil, fmt.Errorf("failed to save currency %s: %w", code, err)
	}

	logger.Info("Currency created", slog.String("currency_code", code))
	return &currency, nil
}

// GetCurrencyByCode implements portssvc.CurrencySvcFacade.
func (s *currencyService) GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	return s.currencyRepo.FindCurrencyByCode(ctx, strings.ToUpper(code))
}

// ListCurrencies implements portssvc.CurrencySvcFacade.
func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	return s.currencyRepo.ListCurrencies(ctx)
}

// IngestQuote implements portssvc.CurrencySvcFacade. Quotes are append-only
// snapshots; the next day's fetch supersedes rather than overwrites.
func (s *currencyService) IngestQuote(ctx context.Context, currencyCode string, req dto.CreateQuoteRequest) (*domain.CurrencyQuote, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	code := strings.ToUpper(currencyCode)

	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, code); err != nil {
		return nil, err
	}

	if req.Rate.LessThanOrEqual(decimal.Zero) || req.BuyRate.LessThanOrEqual(decimal.Zero) || req.SellRate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrQuoteRatesInvalid)
	}

	denominations, err := normalizeDenominations(req.Denominations)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}

	quote := domain.CurrencyQuote{
		QuoteID:       uuid.NewString(),
		CurrencyCode:  code,
		Rate:          req.Rate,
		BuyRate:       req.BuyRate,
		SellRate:      req.SellRate,
		Denominations: denominations,
		FetchedAt:     time.Now(),
	}
	if err := s.currencyRepo.SaveQuote(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to save quote for %s: %w", code, err)
	}

	logger.Info("Quote ingested", slog.String("currency_code", code), slog.String("sell_rate", quote.SellRate.String()))
	return &quote, nil
}

// normalizeDenominations validates and sorts a denomination set descending.
func normalizeDenominations(denominations []decimal.Decimal) ([]decimal.Decimal, error) {
	if len(denominations) == 0 {
		return nil, ErrDenominationInvalid
	}
	sorted := make([]decimal.Decimal, len(denominations))
	copy(sorted, denominations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].GreaterThan(sorted[j]) })
	for i, d := range sorted {
		if d.LessThanOrEqual(decimal.Zero) {
			return nil, ErrDenominationInvalid
		}
		if i > 0 && d.Equal(sorted[i-1]) {
			return nil, ErrDenominationInvalid
		}
	}
	return sorted, nil
}

// GetLatestQuote implements portssvc.CurrencySvcFacade.
func (s *currencyService) GetLatestQuote(ctx context.Context, currencyCode string) (*domain.CurrencyQuote, error) {
	return s.currencyRepo.FindLatestQuote(ctx, strings.ToUpper(currencyCode))
}

// ReplaceThresholdRules implements portssvc.CurrencySvcFacade.
func (s *currencyService) ReplaceThresholdRules(ctx context.Context, currencyCode string, req dto.ReplaceThresholdsRequest, updaterOperatorID string) ([]domain.ThresholdRule, error) {
	code := strings.ToUpper(currencyCode)
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, code); err != nil {
		return nil, err
	}

	now := time.Now()
	rules := make([]domain.ThresholdRule, len(req.Rules))
	for i, r := range req.Rules {
		if r.MaxSterling.LessThanOrEqual(decimal.Zero) || r.Threshold.IsNegative() {
			return nil, fmt.Errorf("%w: threshold rule amounts out of range", apperrors.ErrValidation)
		}
		rules[i] = domain.ThresholdRule{
			RuleID:       uuid.NewString(),
			CurrencyCode: code,
			MaxSterling:  r.MaxSterling,
			Threshold:    r.Threshold,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     updaterOperatorID,
				LastUpdatedAt: now,
				LastUpdatedBy: updaterOperatorID,
			},
		}
	}
	// Stored ascending by MaxSterling, the order the engine matches in.
	sort.Slice(rules, func(i, j int) bool { return rules[i].MaxSterling.LessThan(rules[j].MaxSterling) })

	if err := s.currencyRepo.ReplaceThresholdRules(ctx, code, rules); err != nil {
		return nil, fmt.Errorf("failed to replace threshold rules for %s: %w", code, err)
	}
	return rules, nil
}

// ListThresholdRules implements portssvc.CurrencySvcFacade.
func (s *currencyService) ListThresholdRules(ctx context.Context, currencyCode string) ([]domain.ThresholdRule, error) {
	return s.currencyRepo.ListThresholdRules(ctx, strings.ToUpper(currencyCode))
}
