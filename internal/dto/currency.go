package dto

import (
	"time"

	"github.com/fxbureau/bureau_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCurrencyRequest defines the structure for adding a currency.
type CreateCurrencyRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required,len=3,uppercase"`
	Symbol       string `json:"symbol" binding:"required"`
	Name         string `json:"name" binding:"required"`
}

// CurrencyResponse defines API responses containing currency details.
type CurrencyResponse struct {
	CurrencyCode string    `json:"currencyCode"`
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	CreatedBy    string    `json:"createdBy"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse.
func ToCurrencyResponse(c *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode: c.CurrencyCode,
		Symbol:       c.Symbol,
		Name:         c.Name,
		CreatedAt:    c.CreatedAt,
		CreatedBy:    c.CreatedBy,
	}
}

// CreateQuoteRequest carries one trading day's snapshot from the rate feed.
type CreateQuoteRequest struct {
	Rate          decimal.Decimal   `json:"rate" binding:"required"`
	BuyRate       decimal.Decimal   `json:"buyRate" binding:"required"`
	SellRate      decimal.Decimal   `json:"sellRate" binding:"required"`
	Denominations []decimal.Decimal `json:"denominations" binding:"required,min=1"`
}

// QuoteResponse defines API responses containing quote details.
type QuoteResponse struct {
	QuoteID       string            `json:"quoteID"`
	CurrencyCode  string            `json:"currencyCode"`
	Rate          decimal.Decimal   `json:"rate"`
	BuyRate       decimal.Decimal   `json:"buyRate"`
	SellRate      decimal.Decimal   `json:"sellRate"`
	Denominations []decimal.Decimal `json:"denominations"`
	FetchedAt     time.Time         `json:"fetchedAt"`
}

// ToQuoteResponse converts a domain.CurrencyQuote to QuoteResponse.
func ToQuoteResponse(q *domain.CurrencyQuote) QuoteResponse {
	return QuoteResponse{
		QuoteID:       q.QuoteID,
		CurrencyCode:  q.CurrencyCode,
		Rate:          q.Rate,
		BuyRate:       q.BuyRate,
		SellRate:      q.SellRate,
		Denominations: q.Denominations,
		FetchedAt:     q.FetchedAt,
	}
}

// ThresholdRuleRequest is one denomination threshold rule.
type ThresholdRuleRequest struct {
	MaxSterling decimal.Decimal `json:"maxSterling" binding:"required"`
	Threshold   decimal.Decimal `json:"threshold"`
}

// ReplaceThresholdsRequest swaps a currency's full rule set.
type ReplaceThresholdsRequest struct {
	Rules []ThresholdRuleRequest `json:"rules" binding:"required,dive"`
}

// ThresholdRuleResponse defines API responses containing a threshold rule.
type ThresholdRuleResponse struct {
	RuleID       string          `json:"ruleID"`
	CurrencyCode string          `json:"currencyCode"`
	MaxSterling  decimal.Decimal `json:"maxSterling"`
	Threshold    decimal.Decimal `json:"threshold"`
}

// ToThresholdRuleResponse converts a domain.ThresholdRule to its response DTO.
func ToThresholdRuleResponse(r domain.ThresholdRule) ThresholdRuleResponse {
	return ThresholdRuleResponse{
		RuleID:       r.RuleID,
		CurrencyCode: r.CurrencyCode,
		MaxSterling:  r.MaxSterling,
		Threshold:    r.Threshold,
	}
}
