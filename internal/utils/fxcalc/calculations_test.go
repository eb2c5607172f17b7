package fxcalc_test

import (
	"testing"

	"github.com/fxbureau/bureau_backend/internal/core/domain"
	"github.com/fxbureau/bureau_backend/internal/utils/fxcalc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func eurQuote(sellRate string) domain.CurrencyQuote {
	return domain.CurrencyQuote{
		CurrencyCode: "EUR",
		BuyRate:      dec("1.19"),
		SellRate:     dec(sellRate),
		Denominations: []decimal.Decimal{
			dec("500"), dec("200"), dec("100"), dec("50"), dec("20"), dec("10"), dec("5"),
		},
	}
}

// Withholds the 500 note (sterling value ~427 at 1.17) below a 1000 payout.
func eurThresholds() []domain.ThresholdRule {
	return []domain.ThresholdRule{
		{CurrencyCode: "EUR", MaxSterling: dec("200"), Threshold: dec("0")},
		{CurrencyCode: "EUR", MaxSterling: dec("1000"), Threshold: dec("1000")},
	}
}

func TestConvertFromHome_AlreadyRepresentable(t *testing.T) {
	// 100 * 1.15 = 115, an exact multiple of the smallest denomination (5),
	// so the home amount comes back unchanged.
	conv, err := fxcalc.ConvertFromHome(dec("100"), eurQuote("1.15"), domain.Sell)
	require.NoError(t, err)
	assert.True(t, conv.ForeignAmount.Equal(dec("115")), "foreign = %s", conv.ForeignAmount)
	assert.True(t, conv.HomeAmount.Equal(dec("100")), "home = %s", conv.HomeAmount)
}

func TestConvertFromHome_CeilsToSmallestDenomination(t *testing.T) {
	// 100 * 1.17 = 117, not a multiple of 5: rounds up to 120 and the home
	// amount charged is re-derived from what the till can actually pay.
	conv, err := fxcalc.ConvertFromHome(dec("100"), eurQuote("1.17"), domain.Sell)
	require.NoError(t, err)
	assert.True(t, conv.ForeignAmount.Equal(dec("120")), "foreign = %s", conv.ForeignAmount)
	assert.True(t, conv.HomeAmount.Equal(dec("102.56")), "home = %s", conv.HomeAmount)
}

func TestConvertFromHome_RoundTripNeverUndercharges(t *testing.T) {
	quote := eurQuote("1.17")
	for _, home := range []string{"0.01", "1", "37.50", "100", "499.99", "5000", "12345.67"} {
		conv, err := fxcalc.ConvertFromHome(dec(home), quote, domain.Sell)
		require.NoError(t, err)

		round, err := fxcalc.ConvertFromForeign(conv.ForeignAmount, quote, domain.Sell)
		require.NoError(t, err)
		assert.True(t, round.HomeAmount.GreaterThanOrEqual(dec(home)),
			"home %s round-tripped to %s", home, round.HomeAmount)
		assert.True(t, round.ForeignAmount.Equal(conv.ForeignAmount))
	}
}

func TestConvertFromForeign_UsesGivenMultipleAsIs(t *testing.T) {
	conv, err := fxcalc.ConvertFromForeign(dec("115"), eurQuote("1.15"), domain.Sell)
	require.NoError(t, err)
	assert.True(t, conv.ForeignAmount.Equal(dec("115")))
	assert.True(t, conv.HomeAmount.Equal(dec("100")))
}

func TestConvertFromForeign_RoundsNonMultipleUp(t *testing.T) {
	conv, err := fxcalc.ConvertFromForeign(dec("117"), eurQuote("1.17"), domain.Sell)
	require.NoError(t, err)
	assert.True(t, conv.ForeignAmount.Equal(dec("120")))
}

func TestConvertFromHome_RejectsBadQuote(t *testing.T) {
	quote := eurQuote("1.17")
	quote.SellRate = decimal.Zero
	_, err := fxcalc.ConvertFromHome(dec("100"), quote, domain.Sell)
	assert.Error(t, err)

	quote = eurQuote("1.17")
	quote.Denominations = nil
	_, err = fxcalc.ConvertFromHome(dec("100"), quote, domain.Sell)
	assert.Error(t, err)
}

func TestDecompose_WithholdsLargeNoteForSmallPayout(t *testing.T) {
	// 115 is below the 1000 threshold on the 500 note, so the payout is made
	// from smaller denominations: one 100, one 10, one 5.
	d := fxcalc.Decompose(dec("115"), eurQuote("1.17"), eurThresholds(), domain.Sell)

	require.Len(t, d.Counts, 7, "every denomination appears in the output")
	got := map[string]int64{}
	for _, dc := range d.Counts {
		got[dc.Denomination.String()] = dc.Count
	}
	assert.Equal(t, int64(0), got["500"])
	assert.Equal(t, int64(0), got["200"])
	assert.Equal(t, int64(1), got["100"])
	assert.Equal(t, int64(0), got["50"])
	assert.Equal(t, int64(0), got["20"])
	assert.Equal(t, int64(1), got["10"])
	assert.Equal(t, int64(1), got["5"])
	assert.True(t, d.Residual.IsZero(), "residual = %s", d.Residual)
}

func TestDecompose_UsesLargeNoteAboveThreshold(t *testing.T) {
	d := fxcalc.Decompose(dec("1000"), eurQuote("1.17"), eurThresholds(), domain.Sell)
	assert.Equal(t, int64(1), d.Counts[0].Count, "500 note usable at 1000")
	assert.True(t, d.Residual.IsZero())
}

func TestDecompose_PerPassOrderIsDeterministic(t *testing.T) {
	// 700 is still below the 1000 threshold, so even though a single 500+200
	// would cover it, the 500 stays in the drawer and two 200s go out instead.
	d := fxcalc.Decompose(dec("700"), eurQuote("1.17"), eurThresholds(), domain.Sell)
	assert.Equal(t, int64(0), d.Counts[0].Count, "500 withheld below threshold")
	assert.Equal(t, int64(2), d.Counts[1].Count)
	assert.True(t, d.Residual.IsZero())

	// Identical inputs yield identical output.
	again := fxcalc.Decompose(dec("700"), eurQuote("1.17"), eurThresholds(), domain.Sell)
	assert.Equal(t, d, again)
}

func TestDecompose_ReportsResidualOnShortfall(t *testing.T) {
	// 117 leaves 2 unallocatable with a smallest denomination of 5. The
	// engine returns the partial allocation; rejection is the validator's job.
	d := fxcalc.Decompose(dec("117"), eurQuote("1.17"), eurThresholds(), domain.Sell)
	assert.True(t, d.Residual.Equal(dec("2")), "residual = %s", d.Residual)
}

func TestDecompose_MultiplePassesRevisitDenominations(t *testing.T) {
	// 40 with denominations [20, 10]: pass one takes 20 then 10, pass two
	// takes another 10 before stalling at zero. The rule frees every
	// denomination from the first unit; without one the fallback threshold
	// would withhold the whole drawer.
	quote := domain.CurrencyQuote{
		CurrencyCode:  "XTS",
		SellRate:      dec("1"),
		Denominations: []decimal.Decimal{dec("20"), dec("10")},
	}
	rules := []domain.ThresholdRule{
		{CurrencyCode: "XTS", MaxSterling: dec("1000"), Threshold: dec("0")},
	}
	d := fxcalc.Decompose(dec("40"), quote, rules, domain.Sell)
	assert.Equal(t, int64(1), d.Counts[0].Count)
	assert.Equal(t, int64(2), d.Counts[1].Count)
	assert.True(t, d.Residual.IsZero())
}

func TestThresholdFor(t *testing.T) {
	rules := eurThresholds()
	rate := dec("1.17")

	// 500 note is worth ~427 sterling: first rule with MaxSterling above that
	// is the 1000 rule, so the 1000 threshold applies.
	assert.True(t, fxcalc.ThresholdFor(dec("500"), rate, rules).Equal(dec("1000")))
	// 100 note is worth ~85 sterling: the 200 rule applies, threshold 0.
	assert.True(t, fxcalc.ThresholdFor(dec("100"), rate, rules).Equal(dec("0")))
	// No matching rule falls back to the default.
	assert.True(t, fxcalc.ThresholdFor(dec("5000"), rate, rules).Equal(fxcalc.FallbackThreshold))
	// No rules at all also falls back.
	assert.True(t, fxcalc.ThresholdFor(dec("50"), rate, nil).Equal(fxcalc.FallbackThreshold))
}
