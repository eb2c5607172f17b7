package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fxbureau/bureau_backend/internal/apperrors"
	"github.com/fxbureau/bureau_backend/internal/core/domain"
	portsrepo "github.com/fxbureau/bureau_backend/internal/core/ports/repositories"
)

type PgxOperatorRepository struct {
	pool *pgxpool.Pool
}

// NewPgxOperatorRepository creates a new repository for operator data.
func NewPgxOperatorRepository(pool *pgxpool.Pool) portsrepo.OperatorRepositoryFacade {
	return &PgxOperatorRepository{pool: pool}
}

// SaveOperator persists a new operator.
func (r *PgxOperatorRepository) SaveOperator(ctx context.Context, operator domain.Operator) error {
	query := `
		INSERT INTO operators (operator_id, username, password_hash, name, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		operator.OperatorID,
		operator.Username,
		operator.PasswordHash,
		operator.Name,
		operator.CreatedAt,
		operator.CreatedBy,
		operator.LastUpdatedAt,
		operator.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert operator %s: %w", operator.OperatorID, err)
	}
	return nil
}

// FindOperatorByID retrieves an operator by ID.
func (r *PgxOperatorRepository) FindOperatorByID(ctx context.Context, operatorID string) (*domain.Operator, error) {
	query := operatorSelect + ` WHERE operator_id = $1;`
	return r.scanOperator(r.pool.QueryRow(ctx, query, operatorID), operatorID)
}

// FindOperatorByUsername retrieves an operator by username.
func (r *PgxOperatorRepository) FindOperatorByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	query := operatorSelect + ` WHERE username = $1;`
	return r.scanOperator(r.pool.QueryRow(ctx, query, username), username)
}

const operatorSelect = `
	SELECT operator_id, username, password_hash, name, created_at, created_by, last_updated_at, last_updated_by
	FROM operators
`

func (r *PgxOperatorRepository) scanOperator(row pgx.Row, key string) (*domain.Operator, error) {
	var operator domain.Operator
	err := row.Scan(
		&operator.OperatorID,
		&operator.Username,
		&operator.PasswordHash,
		&operator.Name,
		&operator.CreatedAt,
		&operator.CreatedBy,
		&operator.LastUpdatedAt,
		&operator.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find operator %s: %w", key, err)
	}
	return &operator, nil
}
