package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fxbureau/bureau_backend/internal/core/domain"
	portsrepo "github.com/fxbureau/bureau_backend/internal/core/ports/repositories"
	portssvc "github.com/fxbureau/bureau_backend/internal/core/ports/services"
	"github.com/fxbureau/bureau_backend/internal/core/services"
)

// --- Mock SettlementRepository ---
type MockSettlementRepository struct {
	mock.Mock
}

var _ portsrepo.SettlementRepositoryFacade = (*MockSettlementRepository)(nil)

func (m *MockSettlementRepository) SaveSettlement(ctx context.Context, txn domain.Transaction, newCustomer *domain.Customer, idUpdate *domain.CustomerIDUpdate) error {
	args := m.Called(ctx, txn, newCustomer, idUpdate)
	return args.Error(0)
}

func (m *MockSettlementRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockSettlementRepository) ListTransactions(ctx context.Context, limit int, before time.Time, beforeID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, limit, before, beforeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// --- Mock CustomerResolver ---
type MockCustomerResolver struct {
	mock.Mock
}

var _ portssvc.CustomerResolverSvcFacade = (*MockCustomerResolver)(nil)

func (m *MockCustomerResolver) Resolve(ctx context.Context, details domain.CustomerDetails, verification domain.Verification, operatorID string) (*domain.CustomerResolution, error) {
	args := m.Called(ctx, details, verification, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerResolution), args.Error(1)
}

type SettlementServiceTestSuite struct {
	suite.Suite
	repo     *MockSettlementRepository
	resolver *MockCustomerResolver
	service  portssvc.SettlementSvcFacade
	ctx      context.Context
}

func (s *SettlementServiceTestSuite) SetupTest() {
	s.repo = new(MockSettlementRepository)
	s.resolver = new(MockCustomerResolver)
	s.service = services.NewSettlementService(s.repo, s.resolver, nil)
	s.ctx = context.Background()
}

func (s *SettlementServiceTestSuite) TestSubmit_PersistsCleanDraft() {
	req := validDraft("250")
	newCustomer := &domain.Customer{CustomerID: "cust-new"}
	s.resolver.On("Resolve", s.ctx, req.Customer, mock.Anything, "op-1").
		Return(&domain.CustomerResolution{CustomerID: "cust-new", NewCustomer: newCustomer}, nil).Once()
	s.repo.On("SaveSettlement", s.ctx, mock.Anything, newCustomer, (*domain.CustomerIDUpdate)(nil)).
		Return(nil).Once()

	txn, issues, err := s.service.SubmitTransaction(s.ctx, req, "op-1")
	s.Require().NoError(err)
	s.Empty(issues)
	s.Require().NotNil(txn)

	s.NotEmpty(txn.TransactionID)
	s.Equal("cust-new", txn.CustomerID)
	s.Equal(domain.TierLow, txn.Tier)
	s.True(txn.CashAmount.Equal(dec("250")))
	s.True(txn.CardAmount.IsZero())
	s.Require().Len(txn.LineItems, 1)
	s.NotEmpty(txn.LineItems[0].LineItemID)
	s.Equal(txn.TransactionID, txn.LineItems[0].TransactionID)
	s.Equal("op-1", txn.CreatedBy)

	s.repo.AssertExpectations(s.T())
	s.resolver.AssertExpectations(s.T())
}

func (s *SettlementServiceTestSuite) TestSubmit_DerivesSplitAndTierServerSide() {
	// Whatever split or IDs arrive on the wire, the service recomputes both.
	req := validDraft("600")
	req.Verification.PrimaryID = &domain.IDDocument{Type: domain.IDPassport, Number: "P123"}
	req.Verification.SecondaryID = &domain.IDDocument{Type: domain.IDDrivingLicence, Number: "D1"}
	req.Verification.CashTendered = dec("200")
	req.Verification.PaymentSplit = domain.PaymentSplit{Cash: dec("600")} // stale client value

	s.resolver.On("Resolve", s.ctx, req.Customer, mock.MatchedBy(func(v domain.Verification) bool {
		// Medium tier: the stale secondary ID must be gone before encryption.
		return v.SecondaryID == nil && v.PrimaryID != nil
	}), "op-1").Return(&domain.CustomerResolution{CustomerID: "cust-1", IDUpdate: &domain.CustomerIDUpdate{CustomerID: "cust-1"}}, nil).Once()
	s.repo.On("SaveSettlement", s.ctx, mock.Anything, (*domain.Customer)(nil), mock.Anything).Return(nil).Once()

	txn, issues, err := s.service.SubmitTransaction(s.ctx, req, "op-1")
	s.Require().NoError(err)
	s.Empty(issues)

	s.Equal(domain.TierMedium, txn.Tier)
	s.True(txn.CashAmount.Equal(dec("200")))
	s.True(txn.CardAmount.Equal(dec("400")))
	s.True(txn.ChangeGiven.IsZero())
}

func (s *SettlementServiceTestSuite) TestSubmit_IssuesBlockAllSideEffects() {
	req := validDraft("500") // medium tier with no primary ID

	txn, issues, err := s.service.SubmitTransaction(s.ctx, req, "op-1")
	s.Require().NoError(err)
	s.Nil(txn)
	s.NotEmpty(issues)

	s.resolver.AssertNotCalled(s.T(), "Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	s.repo.AssertNotCalled(s.T(), "SaveSettlement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *SettlementServiceTestSuite) TestSubmit_ResolverErrorPropagates() {
	req := validDraft("100")
	s.resolver.On("Resolve", s.ctx, req.Customer, mock.Anything, "op-1").
		Return(nil, errRepo).Once()

	_, _, err := s.service.SubmitTransaction(s.ctx, req, "op-1")
	s.Require().Error(err)
	s.ErrorIs(err, errRepo)
	s.repo.AssertNotCalled(s.T(), "SaveSettlement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *SettlementServiceTestSuite) TestSubmit_PersistErrorPropagates() {
	req := validDraft("100")
	s.resolver.On("Resolve", s.ctx, req.Customer, mock.Anything, "op-1").
		Return(&domain.CustomerResolution{CustomerID: "cust-1", NewCustomer: &domain.Customer{CustomerID: "cust-1"}}, nil).Once()
	s.repo.On("SaveSettlement", s.ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(errRepo).Once()

	_, _, err := s.service.SubmitTransaction(s.ctx, req, "op-1")
	s.Require().Error(err)
	s.ErrorIs(err, errRepo)
}

func (s *SettlementServiceTestSuite) TestList_FirstPageAndNextToken() {
	page := make([]domain.Transaction, 2)
	for i := range page {
		page[i] = domain.Transaction{
			TransactionID: []string{"txn-b", "txn-a"}[i],
			TotalSterling: decimal.Zero,
		}
		page[i].CreatedAt = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC).Add(-time.Duration(i) * time.Minute)
	}
	s.repo.On("ListTransactions", s.ctx, 2, mock.Anything, "").Return(page, nil).Once()

	txns, nextToken, err := s.service.ListTransactions(s.ctx, 2, "")
	s.Require().NoError(err)
	s.Len(txns, 2)
	// A full page means there may be more rows.
	s.NotEmpty(nextToken)
}

func (s *SettlementServiceTestSuite) TestList_ShortPageEndsPagination() {
	s.repo.On("ListTransactions", s.ctx, 20, mock.Anything, "").
		Return([]domain.Transaction{{TransactionID: "txn-only"}}, nil).Once()

	txns, nextToken, err := s.service.ListTransactions(s.ctx, 0, "")
	s.Require().NoError(err)
	s.Len(txns, 1)
	s.Empty(nextToken)
}

func (s *SettlementServiceTestSuite) TestList_RejectsMalformedToken() {
	_, _, err := s.service.ListTransactions(s.ctx, 10, "not-a-token")
	s.Require().Error(err)
	s.repo.AssertNotCalled(s.T(), "ListTransactions", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSettlementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettlementServiceTestSuite))
}
