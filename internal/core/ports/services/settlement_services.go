package services

import (
	"context"

	"github.com/fxbureau/bureau_backend/internal/core/domain"
)

// SettlementSvcFacade turns a fully assembled draft into a persisted
// transaction, or a structured list of policy issues.
type SettlementSvcFacade interface {
	// SubmitTransaction validates the aggregate atomically, resolves the
	// customer and persists everything in one unit of work. When the issues
	// slice is non-empty nothing was persisted and the error is nil.
	SubmitTransaction(ctx context.Context, req domain.TransactionRequest, operatorID string) (*domain.Transaction, []domain.Issue, error)

	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions pages through persisted transactions, newest first.
	// The returned token fetches the next page; empty means no more rows.
	ListTransactions(ctx context.Context, limit int, pageToken string) ([]domain.Transaction, string, error)
}
