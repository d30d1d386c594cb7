package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/LucasExpRocha/ToolsChallenge/internal/models"
	"github.com/LucasExpRocha/ToolsChallenge/internal/service"
	"github.com/LucasExpRocha/ToolsChallenge/internal/telemetry"
)

// transactionPrefix is the legacy text encoding some callers still send:
// the literal prefix followed by the flat JSON object.
const transactionPrefix = "transaction:"

type PaymentHandler struct {
	processor *service.Processor
}

func NewPaymentHandler(processor *service.Processor) *PaymentHandler {
	return &PaymentHandler{processor: processor}
}

func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, newAPIError(http.StatusBadRequest, "could not read request body", c.Request.URL.Path))
		return
	}

	req, err := parseTransactionPayload(payload)
	if err != nil {
		telemetry.Logger.Warn("rejected malformed payment payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, newAPIError(http.StatusBadRequest, "invalid JSON", c.Request.URL.Path))
		return
	}

	response := h.processor.Authorize(c.Request.Context(), req)
	response.Card = models.MaskCard(req.Card)

	if response.Description != nil && response.Description.Status == models.StatusDenied {
		telemetry.PaymentOutcomes.WithLabelValues("denied").Inc()
		c.JSON(http.StatusPaymentRequired, response)
		return
	}
	telemetry.PaymentOutcomes.WithLabelValues("authorized").Inc()
	c.JSON(http.StatusCreated, response)
}

// parseTransactionPayload accepts the three encodings callers use: the
// "transaction:" prefix form, the {"transaction": {...}} wrapper, or the flat
// object itself.
func parseTransactionPayload(payload []byte) (*models.TransactionRequest, error) {
	content := strings.TrimSpace(string(payload))

	if strings.HasPrefix(content, transactionPrefix) {
		content = strings.TrimSpace(strings.TrimPrefix(content, transactionPrefix))
	} else {
		var envelope struct {
			Transaction json.RawMessage `json:"transaction"`
		}
		if err := json.Unmarshal([]byte(content), &envelope); err == nil {
			if inner := strings.TrimSpace(string(envelope.Transaction)); strings.HasPrefix(inner, "{") {
				content = inner
			}
		}
	}

	var req models.TransactionRequest
	if err := json.Unmarshal([]byte(content), &req); err != nil {
		return nil, err
	}
	return &req, nil
}
