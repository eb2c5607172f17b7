package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fxbureau/bureau_backend/internal/apperrors"
	"github.com/fxbureau/bureau_backend/internal/core/domain"
	portsrepo "github.com/fxbureau/bureau_backend/internal/core/ports/repositories"
	portssvc "github.com/fxbureau/bureau_backend/internal/core/ports/services"
	"github.com/fxbureau/bureau_backend/internal/dto"
	"github.com/fxbureau/bureau_backend/internal/platform/config"
	"github.com/fxbureau/bureau_backend/internal/utils"
)

// operatorService manages operator accounts and session tokens.
type operatorService struct {
	operatorRepo portsrepo.OperatorRepositoryFacade
	cfg          *config.Config
}

// NewOperatorService creates a new OperatorSvcFacade.
func NewOperatorService(operatorRepo portsrepo.OperatorRepositoryFacade, cfg *config.Config) portssvc.OperatorSvcFacade {
	return &operatorService{operatorRepo: operatorRepo, cfg: cfg}
}

var _ portssvc.OperatorSvcFacade = (*operatorService)(nil)

// CreateOperator implements portssvc.OperatorSvcFacade.
func (s *operatorService) CreateOperator(ctx context.Context, req dto.CreateOperatorRequest, creatorOperatorID string) (*domain.Operator, error) {
	if existing, err := s.operatorRepo.FindOperatorByUsername(ctx, req.Username); err == nil && existing != nil {
		return nil, fmt.Errorf("operator %s: %w", req.Username, apperrors.ErrDuplicate)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing operator: %w", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	operator := domain.Operator{
		OperatorID:   uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hash,
		Name:         req.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorOperatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorOperatorID,
		},
	}
	if err := s.operatorRepo.SaveOperator(ctx, operator); err != nil {
		return nil, fmt.Errorf("failed to save operator: %w", err)
	}
	return &operator, nil
}

// GetOperatorByID implements portssvc.OperatorSvcFacade.
func (s *operatorService) GetOperatorByID(ctx context.Context, operatorID string) (*domain.Operator, error) {
	return s.operatorRepo.FindOperatorByID(ctx, operatorID)
}

// Authenticate implements portssvc.OperatorSvcFacade.
func (s *operatorService) Authenticate(ctx context.Context, username, password string) (string, *domain.Operator, error) {
	operator, err := s.operatorRepo.FindOperatorByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Same error as a wrong password so usernames cannot be probed.
			return "", nil, apperrors.ErrUnauthorized
		}
		return "", nil, fmt.Errorf("failed to look up operator: %w", err)
	}

	if !utils.CheckPasswordHash(password, operator.PasswordHash) {
		return "", nil, apperrors.ErrUnauthorized
	}

	token, err := utils.GenerateJWT(operator.OperatorID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, operator, nil
}
