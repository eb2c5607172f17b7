package repositories

import (
	"context"
	"time"

	"github.com/fxbureau/bureau_backend/internal/core/domain"
)

// SettlementReader defines read operations for persisted transactions.
type SettlementReader interface {
	// FindTransactionByID retrieves a transaction with its line items.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves transactions created before the cursor
	// position, newest first, up to limit. It returns the rows and the cursor
	// fields of the last row for the next page.
	ListTransactions(ctx context.Context, limit int, before time.Time, beforeID string) ([]domain.Transaction, error)
}

// SettlementWriter persists the outcome of a successful submission.
type SettlementWriter interface {
	// SaveSettlement writes the transaction, its line items and the customer
	// change (a brand new record or an ID-field update) in a single database
	// transaction. Either everything commits or nothing does.
	SaveSettlement(ctx context.Context, txn domain.Transaction, newCustomer *domain.Customer, idUpdate *domain.CustomerIDUpdate) error
}

// SettlementRepositoryFacade combines settlement repository interfaces.
type SettlementRepositoryFacade interface {
	SettlementReader
	SettlementWriter
}
