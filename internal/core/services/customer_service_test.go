package services_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fxbureau/bureau_backend/internal/core/domain"
	portsrepo "github.com/fxbureau/bureau_backend/internal/core/ports/repositories"
	portssvc "github.com/fxbureau/bureau_backend/internal/core/ports/services"
	"github.com/fxbureau/bureau_backend/internal/core/services"
	"github.com/fxbureau/bureau_backend/internal/utils/fieldcrypt"
)

// errRepo stands in for any repository failure in these suites.
var errRepo = errors.New("repository failure")

// --- Mock CustomerSearcher ---
type MockCustomerSearcher struct {
	mock.Mock
}

var _ portsrepo.CustomerSearcher = (*MockCustomerSearcher)(nil)

func (m *MockCustomerSearcher) FindCustomersBySearchKey(ctx context.Context, firstNameEnc, lastNameEnc, postcodeEnc string) ([]domain.Customer, error) {
	args := m.Called(ctx, firstNameEnc, lastNameEnc, postcodeEnc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *MockCustomerSearcher) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

type CustomerServiceTestSuite struct {
	suite.Suite
	repo    *MockCustomerSearcher
	codec   *fieldcrypt.Codec
	service portssvc.CustomerResolverSvcFacade
	ctx     context.Context

	details      domain.CustomerDetails
	verification domain.Verification
}

func (s *CustomerServiceTestSuite) SetupTest() {
	var err error
	s.codec, err = fieldcrypt.NewCodec(bytes.Repeat([]byte{0x42}, fieldcrypt.KeySize))
	s.Require().NoError(err)

	s.repo = new(MockCustomerSearcher)
	s.service = services.NewCustomerService(s.repo, s.codec)
	s.ctx = context.Background()

	s.details = domain.CustomerDetails{
		FirstName:    "Jane",
		LastName:     "Doe",
		Postcode:     "SW1A 1AA",
		AddressLine1: "10 Example Street",
		City:         "London",
		Country:      "GB",
		Email:        "jane@example.com",
		Phone:        "07700900000",
		DateOfBirth:  "1990-01-15",
	}
	s.verification = domain.Verification{
		PrimaryID: &domain.IDDocument{Type: domain.IDPassport, Number: "P123", ExpiryDate: "2030-06-01"},
	}
}

// candidate builds a stored customer whose searchable triple matches
// s.details and whose address line holds the given plaintext.
func (s *CustomerServiceTestSuite) candidate(customerID, addressLine1 string) domain.Customer {
	addrEnc, err := s.codec.EncryptPrivate(addressLine1)
	s.Require().NoError(err)
	return domain.Customer{
		CustomerID:      customerID,
		FirstNameEnc:    s.codec.EncryptSearchable(s.details.FirstName),
		LastNameEnc:     s.codec.EncryptSearchable(s.details.LastName),
		PostcodeEnc:     s.codec.EncryptSearchable(s.details.Postcode),
		AddressLine1Enc: addrEnc,
	}
}

func (s *CustomerServiceTestSuite) TestResolve_NoCandidatesCreatesNewCustomer() {
	s.repo.On("FindCustomersBySearchKey", s.ctx,
		s.codec.EncryptSearchable("Jane"),
		s.codec.EncryptSearchable("Doe"),
		s.codec.EncryptSearchable("SW1A 1AA"),
	).Return([]domain.Customer{}, nil).Once()

	resolution, err := s.service.Resolve(s.ctx, s.details, s.verification, "op-1")
	s.Require().NoError(err)

	s.False(resolution.Matched)
	s.Nil(resolution.IDUpdate)
	s.Require().NotNil(resolution.NewCustomer)
	s.Equal(resolution.CustomerID, resolution.NewCustomer.CustomerID)

	// Searchable fields round-trip deterministically, private fields decrypt
	// back to the original plaintext, and no plaintext appears in the record.
	c := resolution.NewCustomer
	s.Equal(s.codec.EncryptSearchable("Jane"), c.FirstNameEnc)

	addr, err := s.codec.Decrypt(c.AddressLine1Enc)
	s.Require().NoError(err)
	s.Equal("10 Example Street", addr)

	idNumber, err := s.codec.Decrypt(c.PrimaryIDNumberEnc)
	s.Require().NoError(err)
	s.Equal("P123", idNumber)

	s.repo.AssertExpectations(s.T())
}

func (s *CustomerServiceTestSuite) TestResolve_MatchesByAddressLine() {
	existing := s.candidate("cust-1", "10 Example Street")
	s.repo.On("FindCustomersBySearchKey", s.ctx, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.Customer{existing}, nil).Once()

	resolution, err := s.service.Resolve(s.ctx, s.details, s.verification, "op-1")
	s.Require().NoError(err)

	s.True(resolution.Matched)
	s.Equal("cust-1", resolution.CustomerID)
	s.Nil(resolution.NewCustomer)
	s.Require().NotNil(resolution.IDUpdate)
	s.Equal("cust-1", resolution.IDUpdate.CustomerID)
	s.Equal("op-1", resolution.IDUpdate.UpdatedBy)

	idType, err := s.codec.Decrypt(resolution.IDUpdate.PrimaryIDTypeEnc)
	s.Require().NoError(err)
	s.Equal(string(domain.IDPassport), idType)
}

func (s *CustomerServiceTestSuite) TestResolve_DisambiguatesBetweenCandidates() {
	// Two people sharing a name and postcode are told apart by address.
	other := s.candidate("cust-other", "99 Different Road")
	target := s.candidate("cust-target", "10 Example Street")
	s.repo.On("FindCustomersBySearchKey", s.ctx, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.Customer{other, target}, nil).Once()

	resolution, err := s.service.Resolve(s.ctx, s.details, s.verification, "op-1")
	s.Require().NoError(err)

	s.True(resolution.Matched)
	s.Equal("cust-target", resolution.CustomerID)
}

func (s *CustomerServiceTestSuite) TestResolve_UndecryptableCandidateIsNoMatch() {
	corrupted := s.candidate("cust-bad", "10 Example Street")
	corrupted.AddressLine1Enc = "not-hex-ciphertext"
	s.repo.On("FindCustomersBySearchKey", s.ctx, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.Customer{corrupted}, nil).Once()

	resolution, err := s.service.Resolve(s.ctx, s.details, s.verification, "op-1")
	s.Require().NoError(err)

	// The corrupted record is skipped, not fatal, and a new record is built.
	s.False(resolution.Matched)
	s.NotNil(resolution.NewCustomer)
}

func (s *CustomerServiceTestSuite) TestResolve_RepositoryErrorPropagates() {
	s.repo.On("FindCustomersBySearchKey", s.ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errRepo).Once()

	_, err := s.service.Resolve(s.ctx, s.details, s.verification, "op-1")
	s.Require().Error(err)
	s.ErrorIs(err, errRepo)
}

func TestCustomerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CustomerServiceTestSuite))
}
