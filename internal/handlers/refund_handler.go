package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/LucasExpRocha/ToolsChallenge/internal/models"
	"github.com/LucasExpRocha/ToolsChallenge/internal/service"
	"github.com/LucasExpRocha/ToolsChallenge/internal/telemetry"
)

type RefundHandler struct {
	processor *service.Processor
}

func NewRefundHandler(processor *service.Processor) *RefundHandler {
	return &RefundHandler{processor: processor}
}

func (h *RefundHandler) RefundPayment(c *gin.Context) {
	externalID := c.Param("id")

	response, err := h.processor.Refund(c.Request.Context(), externalID)
	switch {
	case errors.Is(err, service.ErrBlankID),
		errors.Is(err, service.ErrTransactionNotFound),
		errors.Is(err, service.ErrStatusNotRefundable):
		c.JSON(http.StatusBadRequest, newAPIError(http.StatusBadRequest, err.Error(), c.Request.URL.Path))
		return
	case err != nil:
		telemetry.Logger.Error("refund failed",
			zap.String("external_id", externalID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, newAPIError(http.StatusInternalServerError, "failed to refund transaction", c.Request.URL.Path))
		return
	}

	telemetry.PaymentOutcomes.WithLabelValues("canceled").Inc()
	c.JSON(http.StatusOK, models.RefundResponse{Transaction: response})
}
