package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/fxbureau/bureau_backend/internal/core/domain"
	"github.com/fxbureau/bureau_backend/internal/core/services"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// validDraft builds a draft that passes every rule: one EUR sell leg with a
// breakdown that matches the foreign amount and a split that closes exactly.
func validDraft(total string) domain.TransactionRequest {
	t := dec(total)
	return domain.TransactionRequest{
		TransactionType: domain.Sell,
		TotalSterling:   t,
		LineItems: []domain.LineItem{
			{
				CurrencyCode:    "EUR",
				TransactionType: domain.Sell,
				SterlingAmount:  t,
				ForeignAmount:   t.Mul(dec("1.15")),
				ExchangeRate:    dec("1.15"),
				Breakdown: []domain.DenominationCount{
					{Denomination: t.Mul(dec("1.15")), Count: 1},
				},
			},
		},
		Verification: domain.Verification{
			CashTendered: t,
			PaymentSplit: domain.PaymentSplit{Cash: t, Card: decimal.Zero, Change: decimal.Zero},
		},
	}
}

func issuePaths(issues []domain.Issue) []string {
	paths := make([]string, len(issues))
	for i, issue := range issues {
		paths[i] = issue.Path
	}
	return paths
}

func TestValidateSubmission_CleanDraftPasses(t *testing.T) {
	assert.Empty(t, services.ValidateSubmission(validDraft("100")))
}

func TestValidateSubmission_RequiresLineItems(t *testing.T) {
	req := validDraft("100")
	req.LineItems = nil
	req.TotalSterling = decimal.Zero
	req.Verification.PaymentSplit = domain.PaymentSplit{}

	issues := services.ValidateSubmission(req)
	assert.Contains(t, issuePaths(issues), "lineItems")
}

func TestValidateSubmission_TotalMustMatchLineItems(t *testing.T) {
	req := validDraft("100")
	req.TotalSterling = dec("150")
	req.Verification.PaymentSplit = domain.ReconcilePayment(dec("150"), dec("150"))
	req.Verification.CashTendered = dec("150")

	issues := services.ValidateSubmission(req)
	assert.Contains(t, issuePaths(issues), "totalSterling")
}

func TestValidateSubmission_TotalWithinToleranceAccepted(t *testing.T) {
	req := validDraft("100")
	req.TotalSterling = dec("100.01")
	req.Verification.PaymentSplit = domain.ReconcilePayment(dec("100.01"), dec("100.01"))

	assert.Empty(t, services.ValidateSubmission(req))
}

func TestValidateSubmission_PrimaryIDRequiredAtMediumTier(t *testing.T) {
	req := validDraft("500")

	issues := services.ValidateSubmission(req)
	assert.Contains(t, issuePaths(issues), "verification.primaryId")

	req.Verification.PrimaryID = &domain.IDDocument{Type: domain.IDPassport, Number: "P123"}
	assert.Empty(t, services.ValidateSubmission(req))
}

func TestValidateSubmission_SecondaryIDRequiredAtHighTier(t *testing.T) {
	req := validDraft("5000")
	req.Verification.PrimaryID = &domain.IDDocument{Type: domain.IDPassport, Number: "P123"}

	issues := services.ValidateSubmission(req)
	assert.Contains(t, issuePaths(issues), "verification.secondaryId")
}

func TestValidateSubmission_SecondaryIDTypeMustDiffer(t *testing.T) {
	req := validDraft("5000")
	req.Verification.PrimaryID = &domain.IDDocument{Type: domain.IDPassport, Number: "P123"}
	req.Verification.SecondaryID = &domain.IDDocument{Type: domain.IDPassport, Number: "P999"}

	issues := services.ValidateSubmission(req)
	assert.Contains(t, issuePaths(issues), "verification.secondaryId.type")

	req.Verification.SecondaryID.Type = domain.IDDrivingLicence
	assert.Empty(t, services.ValidateSubmission(req))
}

func TestValidateSubmission_SecondaryTypeNotCheckedBelowHighTier(t *testing.T) {
	// A stale secondary ID with a matching type must not block a draft that
	// has since dropped below the high tier; the tier rules above own
	// presence, this rule owns distinctness only where both are required.
	req := validDraft("600")
	req.Verification.PrimaryID = &domain.IDDocument{Type: domain.IDPassport, Number: "P123"}
	req.Verification.SecondaryID = &domain.IDDocument{Type: domain.IDPassport, Number: "P999"}

	assert.NotContains(t, issuePaths(services.ValidateSubmission(req)), "verification.secondaryId.type")
}

func TestValidateSubmission_PaymentSplitMustClose(t *testing.T) {
	req := validDraft("100")
	req.Verification.PaymentSplit = domain.PaymentSplit{Cash: dec("40"), Card: dec("40")}

	issues := services.ValidateSubmission(req)
	assert.Contains(t, issuePaths(issues), "verification.paymentSplit")
}

func TestValidateSubmission_BreakdownDriftBeyondToleranceRejected(t *testing.T) {
	req := validDraft("100")
	// 0.02 off the foreign amount, just over the permitted drift.
	req.LineItems[0].Breakdown = []domain.DenominationCount{
		{Denomination: req.LineItems[0].ForeignAmount.Sub(dec("0.02")), Count: 1},
	}

	issues := services.ValidateSubmission(req)
	assert.Contains(t, issuePaths(issues), "lineItems[0].denominationBreakdown")
}

func TestValidateSubmission_NegativeAmountsRejected(t *testing.T) {
	req := validDraft("100")
	req.LineItems[0].SterlingAmount = dec("-1")
	req.LineItems[0].ForeignAmount = dec("-1.15")
	req.LineItems[0].ExchangeRate = decimal.Zero

	paths := issuePaths(services.ValidateSubmission(req))
	assert.Contains(t, paths, "lineItems[0].sterlingAmount")
	assert.Contains(t, paths, "lineItems[0].foreignAmount")
	assert.Contains(t, paths, "lineItems[0].exchangeRate")
}

func TestValidateSubmission_CollectsAllIssuesAtOnce(t *testing.T) {
	// One pass reports every violation so the operator fixes the draft once,
	// not issue by issue.
	req := validDraft("5000")
	req.Verification.PrimaryID = &domain.IDDocument{Type: domain.IDPassport, Number: "P123"}
	req.Verification.SecondaryID = &domain.IDDocument{Type: domain.IDPassport, Number: "P999"}
	req.LineItems[0].Breakdown = []domain.DenominationCount{
		{Denomination: req.LineItems[0].ForeignAmount.Sub(dec("0.02")), Count: 1},
	}

	paths := issuePaths(services.ValidateSubmission(req))
	assert.Contains(t, paths, "verification.secondaryId.type")
	assert.Contains(t, paths, "lineItems[0].denominationBreakdown")
	assert.Len(t, paths, 2)
}
