// Package fxcalc holds the pure monetary calculations of the settlement core:
// home/foreign conversion under denomination granularity, and decomposition of
// a foreign payout into physical note and coin counts.
package fxcalc

import (
	"fmt"
	"sort"

	"github.com/fxbureau/bureau_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FallbackThreshold applies to a denomination no threshold rule matches.
var FallbackThreshold = decimal.NewFromInt(5000)

// maxDecomposePasses bounds the allocation loop; combined with the no-progress
// exit it rules out an infinite loop on intractable remainders.
const maxDecomposePasses = 10000

// Conversion is the result of a home/foreign conversion. The home amount is
// re-derived from the achievable foreign amount, so it may differ from the
// operator's raw input.
type Conversion struct {
	HomeAmount    decimal.Decimal
	ForeignAmount decimal.Decimal
	Rate          decimal.Decimal
}

// ConvertFromHome converts a home-currency amount into the foreign amount the
// till can physically pay out. The foreign amount is rounded up to the nearest
// multiple of the quote's smallest denomination, and the home amount actually
// charged is re-derived from it at 2 decimal places. Rounding is always
// upward, so the customer is never undercharged.
func ConvertFromHome(homeAmount decimal.Decimal, quote domain.CurrencyQuote, txnType domain.TransactionType) (Conversion, error) {
	rate := quote.RateFor(txnType)
	if rate.LessThanOrEqual(decimal.Zero) {
		return Conversion{}, fmt.Errorf("quote for %s has non-positive %s rate %s", quote.CurrencyCode, txnType, rate)
	}
	smallest := quote.SmallestDenomination()
	if smallest.LessThanOrEqual(decimal.Zero) {
		return Conversion{}, fmt.Errorf("quote for %s has no usable denominations", quote.CurrencyCode)
	}

	foreign := ceilToMultiple(homeAmount.Mul(rate), smallest)
	home := foreign.Div(rate).Round(2)
	return Conversion{HomeAmount: home, ForeignAmount: foreign, Rate: rate}, nil
}

// ConvertFromForeign derives the home amount for a requested foreign amount.
// If the foreign amount is not a multiple of the smallest denomination it is
// first rounded up to the nearest multiple; otherwise it is used as given.
func ConvertFromForeign(foreignAmount decimal.Decimal, quote domain.CurrencyQuote, txnType domain.TransactionType) (Conversion, error) {
	rate := quote.RateFor(txnType)
	if rate.LessThanOrEqual(decimal.Zero) {
		return Conversion{}, fmt.Errorf("quote for %s has non-positive %s rate %s", quote.CurrencyCode, txnType, rate)
	}
	smallest := quote.SmallestDenomination()
	if smallest.LessThanOrEqual(decimal.Zero) {
		return Conversion{}, fmt.Errorf("quote for %s has no usable denominations", quote.CurrencyCode)
	}

	foreign := foreignAmount
	if !foreign.Mod(smallest).IsZero() {
		foreign = ceilToMultiple(foreign, smallest)
	}
	home := foreign.Div(rate).Round(2)
	return Conversion{HomeAmount: home, ForeignAmount: foreign, Rate: rate}, nil
}

// Decomposition is the outcome of allocating a foreign amount across
// denominations. Residual is whatever could not be allocated; a non-zero
// residual is not an error here, the submission validator rejects it.
type Decomposition struct {
	Counts   []domain.DenominationCount
	Residual decimal.Decimal
}

// ThresholdFor returns the minimum foreign payout size below which the given
// denomination is withheld. Rules are matched ascending by MaxSterling: the
// first rule whose MaxSterling exceeds the denomination's sterling value
// applies. Absent a match the fallback threshold applies.
func ThresholdFor(denomination, rate decimal.Decimal, rules []domain.ThresholdRule) decimal.Decimal {
	if rate.LessThanOrEqual(decimal.Zero) {
		return FallbackThreshold
	}
	sterlingValue := denomination.Div(rate)
	sorted := make([]domain.ThresholdRule, len(rules))
	copy(sorted, rules)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MaxSterling.LessThan(sorted[j].MaxSterling)
	})
	for _, r := range sorted {
		if r.MaxSterling.GreaterThan(sterlingValue) {
			return r.Threshold
		}
	}
	return FallbackThreshold
}

// Decompose allocates a foreign amount across the quote's denominations.
// The allocation is greedy per pass: denominations are tried in descending
// order and each usable one is applied at most once per pass before the next
// is considered. A denomination is usable only when the total payout reaches
// its threshold, so large notes are withheld from small payouts. The loop
// exits when the remainder hits zero or a full pass makes no progress; the
// tie-break order must stay exactly as is to match manual till reconciliation.
func Decompose(foreignAmount decimal.Decimal, quote domain.CurrencyQuote, rules []domain.ThresholdRule, txnType domain.TransactionType) Decomposition {
	denoms := make([]decimal.Decimal, len(quote.Denominations))
	copy(denoms, quote.Denominations)
	sort.Slice(denoms, func(i, j int) bool { return denoms[i].GreaterThan(denoms[j]) })

	rate := quote.RateFor(txnType)
	usable := make([]bool, len(denoms))
	for i, d := range denoms {
		usable[i] = foreignAmount.GreaterThanOrEqual(ThresholdFor(d, rate, rules))
	}

	counts := make([]int64, len(denoms))
	remainder := foreignAmount
	for pass := 0; pass < maxDecomposePasses && remainder.IsPositive(); pass++ {
		progress := false
		for i, d := range denoms {
			if !usable[i] || remainder.LessThan(d) {
				continue
			}
			remainder = remainder.Sub(d)
			counts[i]++
			progress = true
		}
		if !progress {
			break
		}
	}

	// Every input denomination appears in the output, zero where unused.
	out := make([]domain.DenominationCount, len(denoms))
	for i, d := range denoms {
		out[i] = domain.DenominationCount{Denomination: d, Count: counts[i]}
	}
	return Decomposition{Counts: out, Residual: remainder}
}

// ceilToMultiple rounds amount up to the nearest multiple of unit.
func ceilToMultiple(amount, unit decimal.Decimal) decimal.Decimal {
	return amount.Div(unit).Ceil().Mul(unit)
}
