package repositories

import (
	"context"

	"github.com/fxbureau/bureau_backend/internal/core/domain"
)

// CustomerSearcher defines the ciphertext-equality lookup used by the identity
// resolver. All customer writes flow through the settlement repository so they
// commit atomically with the transaction itself.
type CustomerSearcher interface {
	// FindCustomersBySearchKey retrieves candidate records whose deterministic
	// ciphertexts for first name, last name and postcode all match exactly.
	FindCustomersBySearchKey(ctx context.Context, firstNameEnc, lastNameEnc, postcodeEnc string) ([]domain.Customer, error)

	// FindCustomerByID retrieves a single customer record.
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)
}
