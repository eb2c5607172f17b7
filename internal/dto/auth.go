package dto

import (
	"time"

	"github.com/fxbureau/bureau_backend/internal/core/domain"
)

// LoginRequest carries operator credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	Token      string `json:"token"`
	OperatorID string `json:"operatorID"`
	Name       string `json:"name"`
}

// CreateOperatorRequest defines the structure for creating an operator.
type CreateOperatorRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

// OperatorResponse defines API responses containing operator details.
type OperatorResponse struct {
	OperatorID string    `json:"operatorID"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToOperatorResponse converts a domain.Operator to OperatorResponse.
func ToOperatorResponse(op *domain.Operator) OperatorResponse {
	return OperatorResponse{
		OperatorID: op.OperatorID,
		Username:   op.Username,
		Name:       op.Name,
		CreatedAt:  op.CreatedAt,
	}
}
