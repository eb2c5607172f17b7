package dto

import (
	"github.com/fxbureau/bureau_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ConvertDirection selects which side of the conversion the operator typed.
type ConvertDirection string

const (
	FromHome    ConvertDirection = "FROM_HOME"
	FromForeign ConvertDirection = "FROM_FOREIGN"
)

// ConvertRequest asks the engine for a conversion under denomination
// granularity, used for live feedback on the currency-details step.
type ConvertRequest struct {
	CurrencyCode    string                 `json:"currencyCode" binding:"required,len=3,uppercase"`
	TransactionType domain.TransactionType `json:"transactionType" binding:"required,oneof=BUY SELL"`
	Direction       ConvertDirection       `json:"direction" binding:"required,oneof=FROM_HOME FROM_FOREIGN"`
	Amount          decimal.Decimal        `json:"amount" binding:"required"`
}

// ConvertResponse carries both re-derived sides of a conversion.
type ConvertResponse struct {
	CurrencyCode  string          `json:"currencyCode"`
	HomeAmount    decimal.Decimal `json:"homeAmount"`
	ForeignAmount decimal.Decimal `json:"foreignAmount"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`
}

// DenominationCountDTO mirrors domain.DenominationCount on the wire.
type DenominationCountDTO struct {
	Denomination decimal.Decimal `json:"denomination"`
	Count        int64           `json:"count"`
}

// DenominationPreviewRequest asks for a breakdown of a foreign payout.
type DenominationPreviewRequest struct {
	CurrencyCode    string                 `json:"currencyCode" binding:"required,len=3,uppercase"`
	TransactionType domain.TransactionType `json:"transactionType" binding:"required,oneof=BUY SELL"`
	ForeignAmount   decimal.Decimal        `json:"foreignAmount" binding:"required"`
}

// DenominationPreviewResponse is the engine's best-effort allocation. A
// non-zero residual means the amount cannot be fully paid out as-is.
type DenominationPreviewResponse struct {
	CurrencyCode string                 `json:"currencyCode"`
	Counts       []DenominationCountDTO `json:"counts"`
	Residual     decimal.Decimal        `json:"residual"`
}

// TierResponse reports the verification tier a running total puts a draft in.
type TierResponse struct {
	TotalSterling       decimal.Decimal         `json:"totalSterling"`
	Tier                domain.VerificationTier `json:"tier"`
	PrimaryIDRequired   bool                    `json:"primaryIdRequired"`
	SecondaryIDRequired bool                    `json:"secondaryIdRequired"`
}

// PaymentSplitRequest asks for the derived cash/card split.
type PaymentSplitRequest struct {
	CashTendered  decimal.Decimal `json:"cashTendered"`
	TotalSterling decimal.Decimal `json:"totalSterling" binding:"required"`
}

// PaymentSplitResponse mirrors domain.PaymentSplit on the wire.
type PaymentSplitResponse struct {
	Cash   decimal.Decimal `json:"cash"`
	Card   decimal.Decimal `json:"card"`
	Change decimal.Decimal `json:"change"`
}

// ToDenominationCountDTOs converts a domain breakdown to its wire form.
func ToDenominationCountDTOs(counts []domain.DenominationCount) []DenominationCountDTO {
	out := make([]DenominationCountDTO, len(counts))
	for i, dc := range counts {
		out[i] = DenominationCountDTO{Denomination: dc.Denomination, Count: dc.Count}
	}
	return out
}
