package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fxbureau/bureau_backend/internal/core/domain"
	portsrepo "github.com/fxbureau/bureau_backend/internal/core/ports/repositories"
	portssvc "github.com/fxbureau/bureau_backend/internal/core/ports/services"
	"github.com/fxbureau/bureau_backend/internal/middleware"
	"github.com/fxbureau/bureau_backend/internal/utils/fieldcrypt"
)

// customerService resolves a submission's customer details to a record
// without ever writing plaintext PII. Lookups work on deterministic
// ciphertext equality; everything else stays under randomized encryption.
type customerService struct {
	customerRepo portsrepo.CustomerSearcher
	codec        *fieldcrypt.Codec
}

// NewCustomerService creates a new CustomerResolverSvcFacade.
func NewCustomerService(customerRepo portsrepo.CustomerSearcher, codec *fieldcrypt.Codec) portssvc.CustomerResolverSvcFacade {
	return &customerService{customerRepo: customerRepo, codec: codec}
}

var _ portssvc.CustomerResolverSvcFacade = (*customerService)(nil)

// Resolve implements portssvc.CustomerResolverSvcFacade.
func (s *customerService) Resolve(ctx context.Context, details domain.CustomerDetails, verification domain.Verification, operatorID string) (*domain.CustomerResolution, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	firstNameEnc := s.codec.EncryptSearchable(details.FirstName)
	lastNameEnc := s.codec.EncryptSearchable(details.LastName)
	postcodeEnc := s.codec.EncryptSearchable(details.Postcode)

	candidates, err := s.customerRepo.FindCustomersBySearchKey(ctx, firstNameEnc, lastNameEnc, postcodeEnc)
	if err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}

	// The searchable triple deliberately covers only part of the identity, so
	// candidates are disambiguated by their decrypted first address line. A
	// candidate that fails to decrypt is skipped, not fatal.
	for _, candidate := range candidates {
		addressLine1, err := s.codec.Decrypt(candidate.AddressLine1Enc)
		if err != nil {
			logger.Warn("Failed to decrypt candidate address line, treating as no match",
				slog.String("customer_id", candidate.CustomerID),
				slog.String("error", err.Error()))
			continue
		}
		if addressLine1 == details.AddressLine1 {
			update, err := s.buildIDUpdate(candidate.CustomerID, verification, operatorID)
			if err != nil {
				return nil, err
			}
			return &domain.CustomerResolution{
				CustomerID: candidate.CustomerID,
				Matched:    true,
				IDUpdate:   update,
			}, nil
		}
	}

	customer, err := s.buildNewCustomer(details, verification, firstNameEnc, lastNameEnc, postcodeEnc, operatorID)
	if err != nil {
		return nil, err
	}
	return &domain.CustomerResolution{
		CustomerID:  customer.CustomerID,
		Matched:     false,
		NewCustomer: customer,
	}, nil
}

// buildIDUpdate encrypts only the mutable verification fields. Searchable
// ciphertexts are the stable lookup key and are never rewritten.
func (s *customerService) buildIDUpdate(customerID string, verification domain.Verification, operatorID string) (*domain.CustomerIDUpdate, error) {
	update := &domain.CustomerIDUpdate{CustomerID: customerID, UpdatedBy: operatorID}

	var err error
	if doc := verification.PrimaryID; doc != nil {
		if update.PrimaryIDTypeEnc, err = s.codec.EncryptPrivate(string(doc.Type)); err != nil {
			return nil, fmt.Errorf("failed to encrypt primary ID type: %w", err)
		}
		if update.PrimaryIDNumberEnc, err = s.codec.EncryptPrivate(doc.Number); err != nil {
			return nil, fmt.Errorf("failed to encrypt primary ID number: %w", err)
		}
		if update.PrimaryIDExpiryEnc, err = s.codec.EncryptPrivate(doc.ExpiryDate); err != nil {
			return nil, fmt.Errorf("failed to encrypt primary ID expiry: %w", err)
		}
	}
	if doc := verification.SecondaryID; doc != nil {
		if update.SecondaryIDTypeEnc, err = s.codec.EncryptPrivate(string(doc.Type)); err != nil {
			return nil, fmt.Errorf("failed to encrypt secondary ID type: %w", err)
		}
		if update.SecondaryIDNumberEnc, err = s.codec.EncryptPrivate(doc.Number); err != nil {
			return nil, fmt.Errorf("failed to encrypt secondary ID number: %w", err)
		}
	}
	return update, nil
}

// buildNewCustomer encrypts a full record: searchable fields deterministic,
// everything else randomized with a fresh nonce per field.
func (s *customerService) buildNewCustomer(details domain.CustomerDetails, verification domain.Verification, firstNameEnc, lastNameEnc, postcodeEnc, operatorID string) (*domain.Customer, error) {
	now := time.Now()
	customer := &domain.Customer{
		CustomerID:   uuid.NewString(),
		FirstNameEnc: firstNameEnc,
		LastNameEnc:  lastNameEnc,
		PostcodeEnc:  postcodeEnc,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     operatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: operatorID,
		},
	}

	private := []struct {
		plaintext string
		target    *string
	}{
		{details.AddressLine1, &customer.AddressLine1Enc},
		{details.City, &customer.CityEnc},
		{details.Country, &customer.CountryEnc},
		{details.Email, &customer.EmailEnc},
		{details.Phone, &customer.PhoneEnc},
		{details.DateOfBirth, &customer.DateOfBirthEnc},
	}
	for _, field := range private {
		enc, err := s.codec.EncryptPrivate(field.plaintext)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt customer field: %w", err)
		}
		*field.target = enc
	}

	update, err := s.buildIDUpdate(customer.CustomerID, verification, operatorID)
	if err != nil {
		return nil, err
	}
	customer.PrimaryIDTypeEnc = update.PrimaryIDTypeEnc
	customer.PrimaryIDNumberEnc = update.PrimaryIDNumberEnc
	customer.PrimaryIDExpiryEnc = update.PrimaryIDExpiryEnc
	customer.SecondaryIDTypeEnc = update.SecondaryIDTypeEnc
	customer.SecondaryIDNumberEnc = update.SecondaryIDNumberEnc

	return customer, nil
}
