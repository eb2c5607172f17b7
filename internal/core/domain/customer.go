package domain

// CustomerDetails is the plaintext personal data captured on the customer-info
// step of a draft. It is transient: it only ever exists in memory during a
// submission and is encrypted field-by-field before touching storage.
type CustomerDetails struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Postcode     string `json:"postcode"`
	AddressLine1 string `json:"addressLine1"`
	City         string `json:"city"`
	Country      string `json:"country"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	DateOfBirth  string `json:"dateOfBirth"`
}

// Customer is the persisted, encrypted-at-rest customer record. The Enc
// fields hold ciphertext only. First name, last name and postcode are under
// deterministic encryption so equal plaintext yields equal ciphertext and the
// record can be found by exact match; every other field uses randomized
// encryption with a fresh nonce per write.
type Customer struct {
	CustomerID string `json:"customerID"`

	// Searchable (deterministic) fields. Their ciphertext is the stable
	// lookup key and is never rewritten after creation.
	FirstNameEnc string `json:"-"`
	LastNameEnc  string `json:"-"`
	PostcodeEnc  string `json:"-"`

	// Private (randomized) fields.
	AddressLine1Enc string `json:"-"`
	CityEnc         string `json:"-"`
	CountryEnc      string `json:"-"`
	EmailEnc        string `json:"-"`
	PhoneEnc        string `json:"-"`
	DateOfBirthEnc  string `json:"-"`

	// Mutable verification fields, refreshed on repeat visits.
	PrimaryIDTypeEnc     string `json:"-"`
	PrimaryIDNumberEnc   string `json:"-"`
	PrimaryIDExpiryEnc   string `json:"-"`
	SecondaryIDTypeEnc   string `json:"-"`
	SecondaryIDNumberEnc string `json:"-"`

	AuditFields
}

// CustomerResolution is the outcome of a find-or-create lookup. Exactly one
// of NewCustomer or IDUpdate is set; both are persisted in the same database
// transaction as the settlement itself.
type CustomerResolution struct {
	CustomerID  string
	Matched     bool
	NewCustomer *Customer
	IDUpdate    *CustomerIDUpdate
}

// CustomerIDUpdate carries freshly encrypted verification fields for an
// existing customer. Searchable fields are deliberately absent.
type CustomerIDUpdate struct {
	CustomerID           string
	PrimaryIDTypeEnc     string
	PrimaryIDNumberEnc   string
	PrimaryIDExpiryEnc   string
	SecondaryIDTypeEnc   string
	SecondaryIDNumberEnc string
	UpdatedBy            string
}
