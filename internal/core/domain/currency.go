package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency represents a currency the bureau trades in.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key (e.g., "EUR")
	Symbol       string `json:"symbol"`       // e.g., "€"
	Name         string `json:"name"`         // e.g., "Euro"
	AuditFields
}

// CurrencyQuote is an immutable snapshot of one trading day's rates for a
// currency, as delivered by the external rate feed. It is never mutated once
// fetched, only superseded by the next day's fetch.
type CurrencyQuote struct {
	QuoteID       string            `json:"quoteID"` // Primary Key (UUID)
	CurrencyCode  string            `json:"currencyCode"`
	Rate          decimal.Decimal   `json:"rate"`          // mid rate, informational
	BuyRate       decimal.Decimal   `json:"buyRate"`       // bureau buys foreign at this rate
	SellRate      decimal.Decimal   `json:"sellRate"`      // bureau sells foreign at this rate
	Denominations []decimal.Decimal `json:"denominations"` // positive face values, stored descending
	FetchedAt     time.Time         `json:"fetchedAt"`
}

// RateFor returns the quote rate applicable to the given transaction type.
func (q CurrencyQuote) RateFor(txnType TransactionType) decimal.Decimal {
	if txnType == Buy {
		return q.BuyRate
	}
	return q.SellRate
}

// SmallestDenomination returns the lowest face value the till can pay out,
// or zero when the quote carries no denomination set.
func (q CurrencyQuote) SmallestDenomination() decimal.Decimal {
	smallest := decimal.Zero
	for _, d := range q.Denominations {
		if smallest.IsZero() || d.LessThan(smallest) {
			smallest = d
		}
	}
	return smallest
}

// ThresholdRule limits when a denomination may appear in a payout: a
// denomination whose sterling value is below MaxSterling may only be used once
// the total foreign payout reaches Threshold. Rules for a currency are kept
// sorted ascending by MaxSterling.
type ThresholdRule struct {
	RuleID       string          `json:"ruleID"`
	CurrencyCode string          `json:"currencyCode"`
	MaxSterling  decimal.Decimal `json:"maxSterling"`
	Threshold    decimal.Decimal `json:"threshold"`
	AuditFields
}
