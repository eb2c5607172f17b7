package repositories

import (
	"context"

	"github.com/fxbureau/bureau_backend/internal/core/domain"
)

// OperatorReader defines read operations for operator data.
type OperatorReader interface {
	// FindOperatorByID retrieves an operator by ID.
	FindOperatorByID(ctx context.Context, operatorID string) (*domain.Operator, error)

	// FindOperatorByUsername retrieves an operator by username.
	FindOperatorByUsername(ctx context.Context, username string) (*domain.Operator, error)
}

// OperatorWriter defines write operations for operator data.
type OperatorWriter interface {
	// SaveOperator persists a new operator.
	SaveOperator(ctx context.Context, operator domain.Operator) error
}

// OperatorRepositoryFacade combines operator repository interfaces.
type OperatorRepositoryFacade interface {
	OperatorReader
	OperatorWriter
}
