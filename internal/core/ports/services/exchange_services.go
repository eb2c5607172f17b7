package services

import (
	"context"

	"github.com/fxbureau/bureau_backend/internal/dto"
	"github.com/shopspring/decimal"

	"github.com/fxbureau/bureau_backend/internal/core/domain"
)

// ExchangeSvcFacade exposes the live-feedback calculations the wizard steps
// call as data is entered. All methods are side-effect free.
type ExchangeSvcFacade interface {
	// Convert runs the rounding engine against the latest quote.
	Convert(ctx context.Context, req dto.ConvertRequest) (*dto.ConvertResponse, error)

	// PreviewDenominations decomposes a foreign payout under the currency's
	// threshold rules. A non-zero residual is reported, not rejected.
	PreviewDenominations(ctx context.Context, req dto.DenominationPreviewRequest) (*dto.DenominationPreviewResponse, error)

	// VerificationTier reports the tier a running total requires.
	VerificationTier(total decimal.Decimal) dto.TierResponse

	// PaymentSplit derives the cash/card split for a tender against a total.
	PaymentSplit(cashTendered, total decimal.Decimal) domain.PaymentSplit
}
