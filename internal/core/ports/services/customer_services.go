package services

import (
	"context"

	"github.com/fxbureau/bureau_backend/internal/core/domain"
)

// CustomerResolverSvcFacade finds or prepares a customer record for a
// submission without ever exposing plaintext PII to storage.
type CustomerResolverSvcFacade interface {
	// Resolve looks up the customer by deterministic ciphertext of the
	// searchable fields, disambiguating candidates by their decrypted first
	// address line. It returns either an existing customer ID plus an ID-field
	// update, or a fully encrypted new record ready to persist.
	Resolve(ctx context.Context, details domain.CustomerDetails, verification domain.Verification, operatorID string) (*domain.CustomerResolution, error)
}
