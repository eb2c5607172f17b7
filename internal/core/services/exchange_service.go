package services

import (
	"context"
	"fmt"
	"time"

	"github.com/fxbureau/bureau_backend/internal/apperrors"
	"github.com/fxbureau/bureau_backend/internal/core/domain"
	portsrepo "github.com/fxbureau/bureau_backend/internal/core/ports/repositories"
	portssvc "github.com/fxbureau/bureau_backend/internal/core/ports/services"
	"github.com/fxbureau/bureau_backend/internal/dto"
	"github.com/fxbureau/bureau_backend/internal/utils/fxcalc"
	"github.com/fxbureau/bureau_backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

// exchangeService runs the rounding and denomination engine against the
// latest quote for a currency. It performs no writes.
type exchangeService struct {
	currencyRepo portsrepo.CurrencyRepositoryFacade
	quoteMaxAge  time.Duration
	collector    *metrics.Collector
}

// NewExchangeService creates a new ExchangeSvcFacade.
func NewExchangeService(currencyRepo portsrepo.CurrencyRepositoryFacade, quoteMaxAge time.Duration, collector *metrics.Collector) portssvc.ExchangeSvcFacade {
	return &exchangeService{currencyRepo: currencyRepo, quoteMaxAge: quoteMaxAge, collector: collector}
}

var _ portssvc.ExchangeSvcFacade = (*exchangeService)(nil)

// currentQuote fetches the latest quote and refuses stale ones. Yesterday's
// rates must never settle today's transactions.
func (s *exchangeService) currentQuote(ctx context.Context, currencyCode string) (*domain.CurrencyQuote, error) {
	quote, err := s.currencyRepo.FindLatestQuote(ctx, currencyCode)
	if err != nil {
		return nil, err
	}
	if s.quoteMaxAge > 0 && time.Since(quote.FetchedAt) > s.quoteMaxAge {
		return nil, fmt.Errorf("%w: quote for %s fetched at %s", apperrors.ErrStaleQuote, currencyCode, quote.FetchedAt.Format(time.RFC3339))
	}
	return quote, nil
}

// Convert implements portssvc.ExchangeSvcFacade.
func (s *exchangeService) Convert(ctx context.Context, req dto.ConvertRequest) (*dto.ConvertResponse, error) {
	quote, err := s.currentQuote(ctx, req.CurrencyCode)
	if err != nil {
		return nil, err
	}

	var conv fxcalc.Conversion
	switch req.Direction {
	case dto.FromHome:
		conv, err = fxcalc.ConvertFromHome(req.Amount, *quote, req.TransactionType)
	case dto.FromForeign:
		conv, err = fxcalc.ConvertFromForeign(req.Amount, *quote, req.TransactionType)
	default:
		return nil, fmt.Errorf("%w: unknown conversion direction %q", apperrors.ErrValidation, req.Direction)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	return &dto.ConvertResponse{
		CurrencyCode:  req.CurrencyCode,
		HomeAmount:    conv.HomeAmount,
		ForeignAmount: conv.ForeignAmount,
		ExchangeRate:  conv.Rate,
	}, nil
}

// PreviewDenominations implements portssvc.ExchangeSvcFacade.
func (s *exchangeService) PreviewDenominations(ctx context.Context, req dto.DenominationPreviewRequest) (*dto.DenominationPreviewResponse, error) {
	quote, err := s.currentQuote(ctx, req.CurrencyCode)
	if err != nil {
		return nil, err
	}
	rules, err := s.currencyRepo.ListThresholdRules(ctx, req.CurrencyCode)
	if err != nil {
		return nil, err
	}

	d := fxcalc.Decompose(req.ForeignAmount, *quote, rules, req.TransactionType)
	if s.collector != nil && d.Residual.IsPositive() {
		s.collector.AllocationShortfall()
	}
	return &dto.DenominationPreviewResponse{
		CurrencyCode: req.CurrencyCode,
		Counts:       dto.ToDenominationCountDTOs(d.Counts),
		Residual:     d.Residual,
	}, nil
}

// VerificationTier implements portssvc.ExchangeSvcFacade.
func (s *exchangeService) VerificationTier(total decimal.Decimal) dto.TierResponse {
	tier := domain.TierForTotal(total)
	return dto.TierResponse{
		TotalSterling:       total,
		Tier:                tier,
		PrimaryIDRequired:   tier == domain.TierMedium || tier == domain.TierHigh,
		SecondaryIDRequired: tier == domain.TierHigh,
	}
}

// PaymentSplit implements portssvc.ExchangeSvcFacade.
func (s *exchangeService) PaymentSplit(cashTendered, total decimal.Decimal) domain.PaymentSplit {
	return domain.ReconcilePayment(cashTendered, total)
}
