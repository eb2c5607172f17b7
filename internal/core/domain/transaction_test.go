package domain_test

import (
	"testing"

	"github.com/fxbureau/bureau_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestReconcilePayment(t *testing.T) {
	cases := []struct {
		name         string
		cashTendered string
		total        string
		wantCash     string
		wantCard     string
		wantChange   string
	}{
		{"all card when no cash tendered", "0", "250.00", "0", "250.00", "0"},
		{"exact cash", "250.00", "250.00", "250.00", "0", "0"},
		{"cash with change", "300", "250.00", "250.00", "0", "50.00"},
		{"split cash and card", "100", "250.00", "100", "150.00", "0"},
		{"zero total", "20", "0", "0", "0", "20"},
		{"negative tender treated as zero", "-5", "100", "0", "100", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			split := domain.ReconcilePayment(d(tc.cashTendered), d(tc.total))
			assert.True(t, split.Cash.Equal(d(tc.wantCash)), "cash = %s", split.Cash)
			assert.True(t, split.Card.Equal(d(tc.wantCard)), "card = %s", split.Card)
			assert.True(t, split.Change.Equal(d(tc.wantChange)), "change = %s", split.Change)
		})
	}
}

func TestReconcilePayment_ClosesExactly(t *testing.T) {
	// Cash + card must equal the total exactly, with no tolerance: the split
	// is derived, never independently entered.
	for _, cash := range []string{"0", "0.01", "99.99", "100", "100.01", "250"} {
		for _, total := range []string{"0", "57.43", "100", "9999.99"} {
			split := domain.ReconcilePayment(d(cash), d(total))
			assert.True(t, split.Cash.Add(split.Card).Equal(d(total)),
				"cash %s total %s: %s + %s", cash, total, split.Cash, split.Card)
		}
	}
}

func TestLineItemBreakdownValue(t *testing.T) {
	li := domain.LineItem{
		ForeignAmount: d("115"),
		Breakdown: []domain.DenominationCount{
			{Denomination: d("100"), Count: 1},
			{Denomination: d("10"), Count: 1},
			{Denomination: d("5"), Count: 1},
			{Denomination: d("500"), Count: 0},
		},
	}
	assert.True(t, li.BreakdownValue().Equal(d("115")))
}

func TestTransactionRequestSumSterling(t *testing.T) {
	req := domain.TransactionRequest{
		LineItems: []domain.LineItem{
			{SterlingAmount: d("100.50")},
			{SterlingAmount: d("399.50")},
		},
	}
	assert.True(t, req.SumSterling().Equal(d("500")))
}
