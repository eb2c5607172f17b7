package domain

import "github.com/shopspring/decimal"

// VerificationTier is the identity-check strictness derived from the
// cumulative sterling value of a transaction request.
type VerificationTier string

const (
	TierLow    VerificationTier = "LOW"
	TierMedium VerificationTier = "MEDIUM"
	TierHigh   VerificationTier = "HIGH"
)

// Tier boundaries in sterling. At 500 primary ID becomes required, at 5000
// a second, differently-typed document is required as well.
var (
	MediumTierFloor = decimal.NewFromInt(500)
	HighTierFloor   = decimal.NewFromInt(5000)
)

// TierForTotal maps a cumulative sterling total to its verification tier.
func TierForTotal(total decimal.Decimal) VerificationTier {
	switch {
	case total.GreaterThanOrEqual(HighTierFloor):
		return TierHigh
	case total.GreaterThanOrEqual(MediumTierFloor):
		return TierMedium
	default:
		return TierLow
	}
}

// IDDocumentType tags the kind of identity document presented.
type IDDocumentType string

const (
	IDPassport       IDDocumentType = "PASSPORT"
	IDDrivingLicence IDDocumentType = "DRIVING_LICENCE"
	IDNationalID     IDDocumentType = "NATIONAL_ID"
	IDUtilityBill    IDDocumentType = "UTILITY_BILL"
	IDBankStatement  IDDocumentType = "BANK_STATEMENT"
)

// IDDocument is one identity document captured during verification.
type IDDocument struct {
	Type       IDDocumentType `json:"type"`
	Number     string         `json:"number"`
	IssueDate  string         `json:"issueDate,omitempty"`
	ExpiryDate string         `json:"expiryDate,omitempty"`
}

// Verification carries the identity and payment leg of a draft request.
type Verification struct {
	PrimaryID    *IDDocument     `json:"primaryId,omitempty"`
	SecondaryID  *IDDocument     `json:"secondaryId,omitempty"`
	CashTendered decimal.Decimal `json:"cashTendered"`
	PaymentSplit PaymentSplit    `json:"paymentSplit"`
}

// ApplyTier clears ID fields that the given tier does not call for. A tier
// downgrade must actively discard stale documents so they cannot leak into a
// later, lower-value submission of the same draft.
func (v *Verification) ApplyTier(tier VerificationTier) {
	switch tier {
	case TierLow:
		v.PrimaryID = nil
		v.SecondaryID = nil
	case TierMedium:
		v.SecondaryID = nil
	}
}
