package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fxbureau/bureau_backend/internal/apperrors"
	portssvc "github.com/fxbureau/bureau_backend/internal/core/ports/services"
	"github.com/fxbureau/bureau_backend/internal/dto"
	"github.com/fxbureau/bureau_backend/internal/middleware"
)

// exchangeHandler serves the live-feedback calculations the till UI calls
// while a draft is being assembled. None of these endpoints persist anything.
type exchangeHandler struct {
	exchangeService portssvc.ExchangeSvcFacade
}

func newExchangeHandler(es portssvc.ExchangeSvcFacade) *exchangeHandler {
	return &exchangeHandler{exchangeService: es}
}

// registerExchangeRoutes registers the calculation endpoints.
func registerExchangeRoutes(rg *gin.RouterGroup, exchangeService portssvc.ExchangeSvcFacade) {
	h := newExchangeHandler(exchangeService)

	exchange := rg.Group("/exchange")
	{
		exchange.POST("/convert", h.convert)
		exchange.POST("/denominations", h.previewDenominations)
		exchange.GET("/verification-tier", h.verificationTier)
		exchange.POST("/payment-split", h.paymentSplit)
	}
}

// convert godoc
// @Summary Convert an amount under denomination granularity
// @Description Rounds the foreign side up to the smallest denomination and re-derives the home side
// @Tags exchange
// @Accept  json
// @Produce  json
// @Param   conversion body dto.ConvertRequest true "Conversion request"
// @Success 200 {object} dto.ConvertResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "No quote found"
// @Failure 409 {object} map[string]string "Quote too old"
// @Security BearerAuth
// @Router /exchange/convert [post]
func (h *exchangeHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.exchangeService.Convert(c.Request.Context(), req)
	if err != nil {
		h.writeCalcError(c, logger, err, "Failed to convert")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// previewDenominations godoc
// @Summary Preview the denomination breakdown of a foreign payout
// @Tags exchange
// @Accept  json
// @Produce  json
// @Param   preview body dto.DenominationPreviewRequest true "Preview request"
// @Success 200 {object} dto.DenominationPreviewResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "No quote found"
// @Failure 409 {object} map[string]string "Quote too old"
// @Security BearerAuth
// @Router /exchange/denominations [post]
func (h *exchangeHandler) previewDenominations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DenominationPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.exchangeService.PreviewDenominations(c.Request.Context(), req)
	if err != nil {
		h.writeCalcError(c, logger, err, "Failed to preview denominations")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// verificationTier godoc
// @Summary Report the verification tier for a running total
// @Tags exchange
// @Produce  json
// @Param   total query string true "Running sterling total"
// @Success 200 {object} dto.TierResponse
// @Failure 400 {object} map[string]string "Invalid total"
// @Security BearerAuth
// @Router /exchange/verification-tier [get]
func (h *exchangeHandler) verificationTier(c *gin.Context) {
	total, err := decimal.NewFromString(c.Query("total"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid total amount"})
		return
	}
	c.JSON(http.StatusOK, h.exchangeService.VerificationTier(total))
}

// paymentSplit godoc
// @Summary Derive the cash/card split for a tender
// @Tags exchange
// @Accept  json
// @Produce  json
// @Param   split body dto.PaymentSplitRequest true "Tender and total"
// @Success 200 {object} dto.PaymentSplitResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /exchange/payment-split [post]
func (h *exchangeHandler) paymentSplit(c *gin.Context) {
	var req dto.PaymentSplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	split := h.exchangeService.PaymentSplit(req.CashTendered, req.TotalSterling)
	c.JSON(http.StatusOK, dto.PaymentSplitResponse{
		Cash:   split.Cash,
		Card:   split.Card,
		Change: split.Change,
	})
}

func (h *exchangeHandler) writeCalcError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No quote found for currency"})
	case errors.Is(err, apperrors.ErrStaleQuote):
		c.JSON(http.StatusConflict, gin.H{"error": "Quote is older than the permitted maximum age"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
