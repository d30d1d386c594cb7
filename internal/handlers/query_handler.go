package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/LucasExpRocha/ToolsChallenge/internal/models"
	"github.com/LucasExpRocha/ToolsChallenge/internal/service"
)

const (
	defaultRowsPerPage = 20
	maxRowsPerPage     = 100
)

// External ids used for direct lookup are 15-digit numeric strings.
var queryIDPattern = regexp.MustCompile(`^[0-9]{15}$`)

// QueryPayments serves both the paged listing and the by-id lookup; the
// route decides which by the presence of the :id parameter.
func (h *PaymentHandler) QueryPayments(c *gin.Context) {
	rowsPerPage, page, ok := h.pagination(c)
	if !ok {
		return
	}

	body := models.QueryResponse{
		Data:        []*models.TransactionResponse{},
		RowsPerPage: rowsPerPage,
		Page:        page,
	}

	if id := strings.TrimSpace(c.Param("id")); id != "" {
		if !queryIDPattern.MatchString(id) {
			c.JSON(http.StatusBadRequest, newAPIError(http.StatusBadRequest, "invalid transaction id", c.Request.URL.Path))
			return
		}
		response, err := h.processor.FindOne(c.Request.Context(), id)
		if errors.Is(err, service.ErrTransactionNotFound) {
			c.JSON(http.StatusNotFound, body)
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, newAPIError(http.StatusInternalServerError, "failed to fetch transaction", c.Request.URL.Path))
			return
		}
		body.Data = append(body.Data, response)
		c.JSON(http.StatusOK, body)
		return
	}

	list, err := h.processor.List(c.Request.Context(), page, rowsPerPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, newAPIError(http.StatusInternalServerError, "failed to list transactions", c.Request.URL.Path))
		return
	}
	body.Data = append(body.Data, list...)
	c.JSON(http.StatusOK, body)
}

func (h *PaymentHandler) pagination(c *gin.Context) (rowsPerPage, page int, ok bool) {
	rowsPerPage = defaultRowsPerPage
	if raw := c.Query("rowsPerPage"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxRowsPerPage {
			c.JSON(http.StatusBadRequest, newAPIError(http.StatusBadRequest, "rowsPerPage must be between 1 and 100", c.Request.URL.Path))
			return 0, 0, false
		}
		rowsPerPage = parsed
	}

	if raw := c.Query("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, newAPIError(http.StatusBadRequest, "page must be >= 0", c.Request.URL.Path))
			return 0, 0, false
		}
		page = parsed
	}

	return rowsPerPage, page, true
}
