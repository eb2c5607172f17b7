package dto

import (
	"time"

	"github.com/fxbureau/bureau_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// IDDocumentDTO is one identity document as entered by the operator.
type IDDocumentDTO struct {
	Type       domain.IDDocumentType `json:"type" binding:"required,oneof=PASSPORT DRIVING_LICENCE NATIONAL_ID UTILITY_BILL BANK_STATEMENT"`
	Number     string                `json:"number" binding:"required"`
	IssueDate  string                `json:"issueDate,omitempty"`
	ExpiryDate string                `json:"expiryDate,omitempty"`
}

// CustomerInfoRequest is the plaintext customer data from the customer-info step.
type CustomerInfoRequest struct {
	FirstName    string `json:"firstName" binding:"required"`
	LastName     string `json:"lastName" binding:"required"`
	Postcode     string `json:"postcode" binding:"required"`
	AddressLine1 string `json:"addressLine1" binding:"required"`
	City         string `json:"city"`
	Country      string `json:"country"`
	Email        string `json:"email" binding:"omitempty,email"`
	Phone        string `json:"phone"`
	DateOfBirth  string `json:"dateOfBirth"`
}

// VerificationRequest is the identity/payment leg of a submission.
type VerificationRequest struct {
	PrimaryID    *IDDocumentDTO  `json:"primaryId,omitempty"`
	SecondaryID  *IDDocumentDTO  `json:"secondaryId,omitempty"`
	CashTendered decimal.Decimal `json:"cashTendered"`
}

// LineItemRequest is one currency leg of a submission.
type LineItemRequest struct {
	CurrencyCode    string                 `json:"currencyCode" binding:"required,len=3,uppercase"`
	TransactionType domain.TransactionType `json:"transactionType" binding:"required,oneof=BUY SELL"`
	SterlingAmount  decimal.Decimal        `json:"sterlingAmount"`
	ForeignAmount   decimal.Decimal        `json:"foreignAmount"`
	ExchangeRate    decimal.Decimal        `json:"exchangeRate" binding:"required"`
	Breakdown       []DenominationCountDTO `json:"denominationBreakdown" binding:"required"`
}

// SubmitTransactionRequest is the complete operator draft handed over at final
// submission. It is validated atomically; nothing is persisted on failure.
type SubmitTransactionRequest struct {
	TransactionType domain.TransactionType `json:"transactionType" binding:"required,oneof=BUY SELL"`
	LineItems       []LineItemRequest      `json:"lineItems" binding:"required"`
	Customer        CustomerInfoRequest    `json:"customer" binding:"required"`
	Verification    VerificationRequest    `json:"verification"`
	TotalSterling   decimal.Decimal        `json:"totalSterling" binding:"required"`
}

// ToDomain maps the wire request onto the domain aggregate the validator and
// settlement service operate on.
func (r SubmitTransactionRequest) ToDomain() domain.TransactionRequest {
	lineItems := make([]domain.LineItem, len(r.LineItems))
	for i, li := range r.LineItems {
		breakdown := make([]domain.DenominationCount, len(li.Breakdown))
		for j, dc := range li.Breakdown {
			breakdown[j] = domain.DenominationCount{Denomination: dc.Denomination, Count: dc.Count}
		}
		lineItems[i] = domain.LineItem{
			CurrencyCode:    li.CurrencyCode,
			TransactionType: li.TransactionType,
			SterlingAmount:  li.SterlingAmount,
			ForeignAmount:   li.ForeignAmount,
			ExchangeRate:    li.ExchangeRate,
			Breakdown:       breakdown,
		}
	}

	verification := domain.Verification{CashTendered: r.Verification.CashTendered}
	if r.Verification.PrimaryID != nil {
		doc := toIDDocument(*r.Verification.PrimaryID)
		verification.PrimaryID = &doc
	}
	if r.Verification.SecondaryID != nil {
		doc := toIDDocument(*r.Verification.SecondaryID)
		verification.SecondaryID = &doc
	}

	return domain.TransactionRequest{
		TransactionType: r.TransactionType,
		LineItems:       lineItems,
		Customer: domain.CustomerDetails{
			FirstName:    r.Customer.FirstName,
			LastName:     r.Customer.LastName,
			Postcode:     r.Customer.Postcode,
			AddressLine1: r.Customer.AddressLine1,
			City:         r.Customer.City,
			Country:      r.Customer.Country,
			Email:        r.Customer.Email,
			Phone:        r.Customer.Phone,
			DateOfBirth:  r.Customer.DateOfBirth,
		},
		Verification:  verification,
		TotalSterling: r.TotalSterling,
	}
}

func toIDDocument(d IDDocumentDTO) domain.IDDocument {
	return domain.IDDocument{
		Type:       d.Type,
		Number:     d.Number,
		IssueDate:  d.IssueDate,
		ExpiryDate: d.ExpiryDate,
	}
}

// LineItemResponse is one persisted currency leg.
type LineItemResponse struct {
	LineItemID      string                 `json:"lineItemID"`
	CurrencyCode    string                 `json:"currencyCode"`
	TransactionType domain.TransactionType `json:"transactionType"`
	SterlingAmount  decimal.Decimal        `json:"sterlingAmount"`
	ForeignAmount   decimal.Decimal        `json:"foreignAmount"`
	ExchangeRate    decimal.Decimal        `json:"exchangeRate"`
	Breakdown       []DenominationCountDTO `json:"denominationBreakdown"`
}

// TransactionResponse is a persisted transaction as returned by the API.
type TransactionResponse struct {
	TransactionID   string                  `json:"transactionID"`
	CustomerID      string                  `json:"customerID"`
	TransactionType domain.TransactionType  `json:"transactionType"`
	TotalSterling   decimal.Decimal         `json:"totalSterling"`
	CashAmount      decimal.Decimal         `json:"cashAmount"`
	CardAmount      decimal.Decimal         `json:"cardAmount"`
	ChangeGiven     decimal.Decimal         `json:"changeGiven"`
	Tier            domain.VerificationTier `json:"verificationTier"`
	LineItems       []LineItemResponse      `json:"lineItems"`
	CreatedAt       time.Time               `json:"createdAt"`
	CreatedBy       string                  `json:"createdBy"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	lineItems := make([]LineItemResponse, len(txn.LineItems))
	for i, li := range txn.LineItems {
		lineItems[i] = LineItemResponse{
			LineItemID:      li.LineItemID,
			CurrencyCode:    li.CurrencyCode,
			TransactionType: li.TransactionType,
			SterlingAmount:  li.SterlingAmount,
			ForeignAmount:   li.ForeignAmount,
			ExchangeRate:    li.ExchangeRate,
			Breakdown:       ToDenominationCountDTOs(li.Breakdown),
		}
	}
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		CustomerID:      txn.CustomerID,
		TransactionType: txn.TransactionType,
		TotalSterling:   txn.TotalSterling,
		CashAmount:      txn.CashAmount,
		CardAmount:      txn.CardAmount,
		ChangeGiven:     txn.ChangeGiven,
		Tier:            txn.Tier,
		LineItems:       lineItems,
		CreatedAt:       txn.CreatedAt,
		CreatedBy:       txn.CreatedBy,
	}
}

// ValidationFailureResponse is the structured rejection of a submission.
type ValidationFailureResponse struct {
	Issues []domain.Issue `json:"issues"`
}

// ListTransactionsResponse is one page of the transaction listing.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    string                `json:"nextToken,omitempty"`
}
