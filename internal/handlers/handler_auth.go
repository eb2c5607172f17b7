package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/fxbureau/bureau_backend/internal/apperrors"
	portssvc "github.com/fxbureau/bureau_backend/internal/core/ports/services"
	"github.com/fxbureau/bureau_backend/internal/dto"
	"github.com/fxbureau/bureau_backend/internal/middleware"
)

// authHandler handles operator login.
type authHandler struct {
	operatorService portssvc.OperatorSvcFacade
}

func newAuthHandler(os portssvc.OperatorSvcFacade) *authHandler {
	return &authHandler{operatorService: os}
}

// registerAuthRoutes registers the public authentication routes.
func registerAuthRoutes(r *gin.Engine, services *portssvc.ServiceContainer, loginLimiter *limiter.Limiter) {
	h := newAuthHandler(services.Operator)

	auth := r.Group("/auth")
	if loginLimiter != nil {
		auth.Use(middleware.RateLimit(loginLimiter))
	}
	auth.POST("/login", h.login)
}

// login godoc
// @Summary Authenticate an operator
// @Description Verifies credentials and returns a session token
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   credentials body dto.LoginRequest true "Operator credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	token, operator, err := h.operatorService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			logger.Warn("Failed login attempt", slog.String("username", req.Username))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		logger.Error("Login failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate"})
		return
	}

	logger.Info("Operator logged in", slog.String("operator_id", operator.OperatorID))
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:      token,
		OperatorID: operator.OperatorID,
		Name:       operator.Name,
	})
}

// operatorHandler handles operator account management.
type operatorHandler struct {
	operatorService portssvc.OperatorSvcFacade
}

func newOperatorHandler(os portssvc.OperatorSvcFacade) *operatorHandler {
	return &operatorHandler{operatorService: os}
}

// registerOperatorRoutes registers routes related to operator accounts.
func registerOperatorRoutes(rg *gin.RouterGroup, operatorService portssvc.OperatorSvcFacade) {
	h := newOperatorHandler(operatorService)

	operators := rg.Group("/operators")
	{
		operators.POST("", h.createOperator)
		operators.GET("/:id", h.getOperatorByID)
	}
}

// createOperator godoc
// @Summary Create a new operator
// @Description Adds a new till operator account
// @Tags operators
// @Accept  json
// @Produce  json
// @Param   operator body dto.CreateOperatorRequest true "Operator details"
// @Success 201 {object} dto.OperatorResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Username already exists"
// @Security BearerAuth
// @Router /operators [post]
func (h *operatorHandler) createOperator(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorOperatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	operator, err := h.operatorService.CreateOperator(c.Request.Context(), req, creatorOperatorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
			return
		}
		logger.Error("Failed to create operator", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create operator"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToOperatorResponse(operator))
}

// getOperatorByID godoc
// @Summary Get operator details
// @Tags operators
// @Produce  json
// @Param   id path string true "Operator ID"
// @Success 200 {object} dto.OperatorResponse
// @Failure 404 {object} map[string]string "Operator not found"
// @Security BearerAuth
// @Router /operators/{id} [get]
func (h *operatorHandler) getOperatorByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	operatorID := c.Param("id")

	operator, err := h.operatorService.GetOperatorByID(c.Request.Context(), operatorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Operator not found"})
			return
		}
		logger.Error("Failed to get operator", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get operator"})
		return
	}

	c.JSON(http.StatusOK, dto.ToOperatorResponse(operator))
}
