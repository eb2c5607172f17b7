package domain

// Operator is a till operator who can authenticate and record transactions.
type Operator struct {
	OperatorID   string `json:"operatorID"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	AuditFields
}
