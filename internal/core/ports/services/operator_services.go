package services

import (
	"context"

	"github.com/fxbureau/bureau_backend/internal/core/domain"
	"github.com/fxbureau/bureau_backend/internal/dto"
)

// OperatorSvcFacade exposes operator management and authentication.
type OperatorSvcFacade interface {
	CreateOperator(ctx context.Context, req dto.CreateOperatorRequest, creatorOperatorID string) (*domain.Operator, error)
	GetOperatorByID(ctx context.Context, operatorID string) (*domain.Operator, error)

	// Authenticate checks credentials and returns a signed session token.
	Authenticate(ctx context.Context, username, password string) (string, *domain.Operator, error)
}
