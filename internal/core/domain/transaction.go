package domain

import (
	"github.com/shopspring/decimal"
)

// TransactionType indicates the direction of an exchange from the bureau's
// point of view: BUY takes foreign currency in, SELL pays foreign currency out.
type TransactionType string

const (
	Buy  TransactionType = "BUY"
	Sell TransactionType = "SELL"
)

// BreakdownTolerance is the maximum permitted drift between a line item's
// foreign amount and the value of its denomination breakdown.
var BreakdownTolerance = decimal.RequireFromString("0.01")

// DenominationCount pairs a note/coin face value with how many of it a payout
// uses. Breakdowns are kept ordered by descending denomination so they read
// the way a till drawer is counted.
type DenominationCount struct {
	Denomination decimal.Decimal `json:"denomination"`
	Count        int64           `json:"count"`
}

// LineItem is a single currency leg of a transaction. Once the parent
// transaction is persisted the line item is immutable.
type LineItem struct {
	LineItemID      string              `json:"lineItemID"`
	TransactionID   string              `json:"transactionID"`
	CurrencyCode    string              `json:"currencyCode"`
	TransactionType TransactionType     `json:"transactionType"`
	SterlingAmount  decimal.Decimal     `json:"sterlingAmount"`
	ForeignAmount   decimal.Decimal     `json:"foreignAmount"`
	ExchangeRate    decimal.Decimal     `json:"exchangeRate"`
	Breakdown       []DenominationCount `json:"denominationBreakdown"`
	AuditFields
}

// BreakdownValue returns the total foreign value of the denomination breakdown.
func (li LineItem) BreakdownValue() decimal.Decimal {
	total := decimal.Zero
	for _, dc := range li.Breakdown {
		total = total.Add(dc.Denomination.Mul(decimal.NewFromInt(dc.Count)))
	}
	return total
}

// PaymentSplit is the derived division of a transaction total between tendered
// cash and card. It is never edited directly; it is recomputed from the cash
// tendered and the running total.
type PaymentSplit struct {
	Cash   decimal.Decimal `json:"cash"`
	Card   decimal.Decimal `json:"card"`
	Change decimal.Decimal `json:"change"`
}

// ReconcilePayment derives the cash/card split for a total given the physical
// cash the operator was handed. A zero tender puts the whole total on card.
// Cash + Card always equals total exactly.
func ReconcilePayment(cashTendered, total decimal.Decimal) PaymentSplit {
	if cashTendered.IsNegative() {
		cashTendered = decimal.Zero
	}
	cashUsed := decimal.Min(cashTendered, total)
	cardUsed := total.Sub(cashUsed)
	if cardUsed.IsNegative() {
		cardUsed = decimal.Zero
	}
	change := cashTendered.Sub(total)
	if change.IsNegative() {
		change = decimal.Zero
	}
	return PaymentSplit{Cash: cashUsed, Card: cardUsed, Change: change}
}

// TransactionRequest is the fully assembled operator draft, validated
// atomically at submission. It is the only mutable form of a transaction.
type TransactionRequest struct {
	TransactionType TransactionType
	LineItems       []LineItem
	Customer        CustomerDetails
	Verification    Verification
	TotalSterling   decimal.Decimal
}

// SumSterling returns the sterling total across all line items.
func (r TransactionRequest) SumSterling() decimal.Decimal {
	total := decimal.Zero
	for _, li := range r.LineItems {
		total = total.Add(li.SterlingAmount)
	}
	return total
}

// Transaction is the persisted, immutable result of a successful submission.
type Transaction struct {
	TransactionID   string           `json:"transactionID"`
	CustomerID      string           `json:"customerID"`
	TransactionType TransactionType  `json:"transactionType"`
	TotalSterling   decimal.Decimal  `json:"totalSterling"`
	CashAmount      decimal.Decimal  `json:"cashAmount"`
	CardAmount      decimal.Decimal  `json:"cardAmount"`
	ChangeGiven     decimal.Decimal  `json:"changeGiven"`
	Tier            VerificationTier `json:"verificationTier"`
	LineItems       []LineItem       `json:"lineItems"`
	AuditFields
}
