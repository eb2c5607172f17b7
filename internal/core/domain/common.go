package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // OperatorID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // OperatorID reference
}

// Issue is a single field-level validation failure surfaced to the operator.
// Path uses dotted notation with indexes, e.g. "lineItems[1].denominationBreakdown".
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}
