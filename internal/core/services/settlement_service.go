package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fxbureau/bureau_backend/internal/apperrors"
	"github.com/fxbureau/bureau_backend/internal/core/domain"
	portsrepo "github.com/fxbureau/bureau_backend/internal/core/ports/repositories"
	portssvc "github.com/fxbureau/bureau_backend/internal/core/ports/services"
	"github.com/fxbureau/bureau_backend/internal/middleware"
	"github.com/fxbureau/bureau_backend/internal/utils/pagination"
	"github.com/fxbureau/bureau_backend/pkg/metrics"
)

// settlementService orchestrates final submission: derive the payment split
// and tier, validate the whole aggregate once, resolve the customer and
// persist everything as one unit of work.
type settlementService struct {
	settlementRepo portsrepo.SettlementRepositoryFacade
	customerSvc    portssvc.CustomerResolverSvcFacade
	collector      *metrics.Collector
}

// NewSettlementService creates a new SettlementSvcFacade.
func NewSettlementService(settlementRepo portsrepo.SettlementRepositoryFacade, customerSvc portssvc.CustomerResolverSvcFacade, collector *metrics.Collector) portssvc.SettlementSvcFacade {
	return &settlementService{
		settlementRepo: settlementRepo,
		customerSvc:    customerSvc,
		collector:      collector,
	}
}

var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

// SubmitTransaction implements portssvc.SettlementSvcFacade.
func (s *settlementService) SubmitTransaction(ctx context.Context, req domain.TransactionRequest, operatorID string) (*domain.Transaction, []domain.Issue, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	start := time.Now()
	defer func() {
		if s.collector != nil {
			s.collector.ObserveSubmission(time.Since(start))
		}
	}()

	// The split and tier are derived views, recomputed here rather than
	// trusted from the wire. A tier downgrade since the IDs were captured
	// actively discards them.
	tier := domain.TierForTotal(req.TotalSterling)
	req.Verification.ApplyTier(tier)
	req.Verification.PaymentSplit = domain.ReconcilePayment(req.Verification.CashTendered, req.TotalSterling)

	if issues := ValidateSubmission(req); len(issues) > 0 {
		if s.collector != nil {
			s.collector.ValidationFailed()
		}
		logger.Warn("Submission rejected by validator", slog.Int("issue_count", len(issues)))
		return nil, issues, nil
	}

	resolution, err := s.customerSvc.Resolve(ctx, req.Customer, req.Verification, operatorID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve customer: %w", err)
	}
	if s.collector != nil {
		if resolution.Matched {
			s.collector.CustomerMatched()
		} else {
			s.collector.CustomerCreated()
		}
	}

	txn := s.buildTransaction(req, resolution.CustomerID, tier, operatorID)

	if err := s.settlementRepo.SaveSettlement(ctx, txn, resolution.NewCustomer, resolution.IDUpdate); err != nil {
		// The repository commits atomically; the caller may retry safely.
		return nil, nil, fmt.Errorf("failed to persist settlement: %w", err)
	}
	if s.collector != nil {
		s.collector.SettlementPersisted()
	}

	logger.Info("Settlement persisted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("customer_id", txn.CustomerID),
		slog.Bool("customer_matched", resolution.Matched),
		slog.String("tier", string(tier)),
	)
	return &txn, nil, nil
}

func (s *settlementService) buildTransaction(req domain.TransactionRequest, customerID string, tier domain.VerificationTier, operatorID string) domain.Transaction {
	now := time.Now()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     operatorID,
		LastUpdatedAt: now,
		LastUpdatedBy: operatorID,
	}

	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		CustomerID:      customerID,
		TransactionType: req.TransactionType,
		TotalSterling:   req.TotalSterling,
		CashAmount:      req.Verification.PaymentSplit.Cash,
		CardAmount:      req.Verification.PaymentSplit.Card,
		ChangeGiven:     req.Verification.PaymentSplit.Change,
		Tier:            tier,
		AuditFields:     audit,
	}

	txn.LineItems = make([]domain.LineItem, len(req.LineItems))
	for i, li := range req.LineItems {
		li.LineItemID = uuid.NewString()
		li.TransactionID = txn.TransactionID
		li.AuditFields = audit
		txn.LineItems[i] = li
	}
	return txn
}

// GetTransaction implements portssvc.SettlementSvcFacade.
func (s *settlementService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return s.settlementRepo.FindTransactionByID(ctx, transactionID)
}

// ListTransactions implements portssvc.SettlementSvcFacade.
func (s *settlementService) ListTransactions(ctx context.Context, limit int, pageToken string) ([]domain.Transaction, string, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	before := time.Now().Add(time.Hour) // slightly in the future to include just-written rows
	beforeID := ""
	if pageToken != "" {
		var err error
		before, beforeID, err = pagination.DecodeToken(pageToken)
		if err != nil {
			return nil, "", fmt.Errorf("%w: invalid page token: %w", apperrors.ErrValidation, err)
		}
	}

	txns, err := s.settlementRepo.ListTransactions(ctx, limit, before, beforeID)
	if err != nil {
		return nil, "", err
	}

	nextToken := ""
	if len(txns) == limit {
		last := txns[len(txns)-1]
		nextToken = pagination.EncodeToken(last.CreatedAt, last.TransactionID)
	}
	return txns, nextToken, nil
}
