package services

import (
	"fmt"

	"github.com/fxbureau/bureau_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// paymentTolerance bounds acceptable drift between the derived payment split
// and the transaction total.
var paymentTolerance = decimal.RequireFromString("0.01")

// submissionRule is one cross-field policy check over the whole aggregate.
// Violated returns true when the rule is broken. The rule set is a plain
// table so each rule is individually testable.
type submissionRule struct {
	Path     string
	Message  string
	Violated func(req domain.TransactionRequest) bool
}

// lineItemRule is one per-line-item check; the path is suffixed onto
// "lineItems[i]." at validation time.
type lineItemRule struct {
	PathSuffix string
	Message    string
	Violated   func(li domain.LineItem) bool
}

var submissionRules = []submissionRule{
	{
		Path:    "lineItems",
		Message: "at least one currency line item is required",
		Violated: func(req domain.TransactionRequest) bool {
			return len(req.LineItems) == 0
		},
	},
	{
		Path:    "totalSterling",
		Message: "total does not equal the sum of line item sterling amounts",
		Violated: func(req domain.TransactionRequest) bool {
			return req.TotalSterling.Sub(req.SumSterling()).Abs().GreaterThan(paymentTolerance)
		},
	},
	{
		Path:    "verification.primaryId",
		Message: "primary ID is required for transactions of 500 or more",
		Violated: func(req domain.TransactionRequest) bool {
			tier := domain.TierForTotal(req.TotalSterling)
			if tier != domain.TierMedium && tier != domain.TierHigh {
				return false
			}
			return req.Verification.PrimaryID == nil || req.Verification.PrimaryID.Number == ""
		},
	},
	{
		Path:    "verification.secondaryId",
		Message: "secondary ID is required for transactions of 5000 or more",
		Violated: func(req domain.TransactionRequest) bool {
			if domain.TierForTotal(req.TotalSterling) != domain.TierHigh {
				return false
			}
			return req.Verification.SecondaryID == nil || req.Verification.SecondaryID.Number == ""
		},
	},
	{
		Path:    "verification.secondaryId.type",
		Message: "secondary ID type must differ from primary ID type",
		Violated: func(req domain.TransactionRequest) bool {
			if domain.TierForTotal(req.TotalSterling) != domain.TierHigh {
				return false
			}
			v := req.Verification
			if v.PrimaryID == nil || v.SecondaryID == nil {
				return false // presence is checked by the rules above
			}
			return v.PrimaryID.Type == v.SecondaryID.Type
		},
	},
	{
		Path:    "verification.paymentSplit",
		Message: "cash and card amounts do not sum to the transaction total",
		Violated: func(req domain.TransactionRequest) bool {
			split := req.Verification.PaymentSplit
			return split.Cash.Add(split.Card).Sub(req.TotalSterling).Abs().GreaterThan(paymentTolerance)
		},
	},
}

var lineItemRules = []lineItemRule{
	{
		PathSuffix: "sterlingAmount",
		Message:    "sterling amount must not be negative",
		Violated: func(li domain.LineItem) bool {
			return li.SterlingAmount.IsNegative()
		},
	},
	{
		PathSuffix: "foreignAmount",
		Message:    "foreign amount must not be negative",
		Violated: func(li domain.LineItem) bool {
			return li.ForeignAmount.IsNegative()
		},
	},
	{
		PathSuffix: "exchangeRate",
		Message:    "exchange rate must be positive",
		Violated: func(li domain.LineItem) bool {
			return li.ExchangeRate.LessThanOrEqual(decimal.Zero)
		},
	},
	{
		PathSuffix: "denominationBreakdown",
		Message:    "denomination breakdown does not match the foreign amount",
		Violated: func(li domain.LineItem) bool {
			return li.BreakdownValue().Sub(li.ForeignAmount).Abs().GreaterThan(domain.BreakdownTolerance)
		},
	},
}

// ValidateSubmission re-checks the fully assembled draft at the submission
// boundary. Step-local validation only sees one slice of the draft; this is
// the one place cross-step interactions are caught. Any issue rejects the
// whole submission.
func ValidateSubmission(req domain.TransactionRequest) []domain.Issue {
	var issues []domain.Issue

	for _, rule := range submissionRules {
		if rule.Violated(req) {
			issues = append(issues, domain.Issue{Path: rule.Path, Message: rule.Message})
		}
	}

	for i, li := range req.LineItems {
		for _, rule := range lineItemRules {
			if rule.Violated(li) {
				issues = append(issues, domain.Issue{
					Path:    fmt.Sprintf("lineItems[%d].%s", i, rule.PathSuffix),
					Message: rule.Message,
				})
			}
		}
	}

	return issues
}
