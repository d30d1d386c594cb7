package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucasExpRocha/ToolsChallenge/internal/models"
	"github.com/LucasExpRocha/ToolsChallenge/internal/repository"
	"github.com/LucasExpRocha/ToolsChallenge/internal/service"
)

func newTestRouter() *gin.Engine {
	repo := repository.NewMemoryTransactionRepository()
	processor := service.NewProcessor(repo, service.NewReferenceSource(), nil, nil)
	return NewRouter(processor)
}

func paymentBody(id string) string {
	return fmt.Sprintf(`{
		"card": "4444123412341234",
		"id": %q,
		"description": {
			"amount": "50.00",
			"dateTime": "01/05/2021 18:30:00",
			"merchant": "PetShop Mundo cão"
		},
		"paymentMethod": {
			"type": "AVISTA",
			"installments": "1"
		}
	}`, id)
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestProcessPaymentAuthorized(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodPost, "/payments", paymentBody("100023568900001"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var response models.TransactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "4444*********1234", response.Card)
	assert.Equal(t, "100023568900001", response.ID)
	require.NotNil(t, response.Description)
	assert.Equal(t, models.StatusAuthorized, response.Description.Status)
	assert.Len(t, response.Description.SettlementReference, 10)
	assert.Len(t, response.Description.AuthorizationCode, 9)
	assert.Equal(t, "PetShop Mundo cão", response.Description.Merchant)
}

func TestProcessPaymentEnvelopeEncodings(t *testing.T) {
	router := newTestRouter()

	wrapped := fmt.Sprintf(`{"transaction": %s}`, paymentBody("100023568900002"))
	rec := doRequest(router, http.MethodPost, "/payments", wrapped)
	assert.Equal(t, http.StatusCreated, rec.Code)

	prefixed := "transaction: " + paymentBody("100023568900003")
	rec = doRequest(router, http.MethodPost, "/payments", prefixed)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestProcessPaymentDuplicate(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodPost, "/payments", paymentBody("100023568900004"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(router, http.MethodPost, "/payments", paymentBody("100023568900004"))
	require.Equal(t, http.StatusPaymentRequired, rec.Code)

	var response models.TransactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.NotNil(t, response.Description)
	assert.Equal(t, models.StatusDenied, response.Description.Status)
	assert.Contains(t, response.Description.Message, "100023568900004")
}

func TestProcessPaymentDenied(t *testing.T) {
	router := newTestRouter()

	body := strings.Replace(paymentBody("100023568900005"), `"50.00"`, `"0.00"`, 1)
	rec := doRequest(router, http.MethodPost, "/payments", body)
	require.Equal(t, http.StatusPaymentRequired, rec.Code)

	var response models.TransactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.NotNil(t, response.Description)
	assert.Equal(t, models.StatusDenied, response.Description.Status)
	assert.Equal(t, "invalid amount", response.Description.Message)
	// The denial still echoes the submitted amount.
	assert.Equal(t, "0.00", response.Description.Amount)
}

func TestProcessPaymentMalformedBody(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodPost, "/payments", "this is not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid JSON")
}

func TestRefundFlow(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodPost, "/payments", paymentBody("100023568900006"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var authorized models.TransactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &authorized))

	rec = doRequest(router, http.MethodPatch, "/refunds/100023568900006", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var refund models.RefundResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &refund))
	require.NotNil(t, refund.Transaction)
	require.NotNil(t, refund.Transaction.Description)
	assert.Equal(t, models.StatusCanceled, refund.Transaction.Description.Status)
	assert.Equal(t, "4444*********1234", refund.Transaction.Card)
	// Reference codes generated at authorization survive the reversal.
	assert.Equal(t, authorized.Description.SettlementReference, refund.Transaction.Description.SettlementReference)
	assert.Equal(t, authorized.Description.AuthorizationCode, refund.Transaction.Description.AuthorizationCode)

	// A second reversal is rejected and nothing changes.
	rec = doRequest(router, http.MethodPatch, "/refunds/100023568900006", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "status")
}

func TestRefundUnknownTransaction(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodPatch, "/refunds/999999999999999", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not found")
}

func TestQueryByID(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodPost, "/payments", paymentBody("100023568900007"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(router, http.MethodGet, "/payments/query/100023568900007", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body models.QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "100023568900007", body.Data[0].ID)
	assert.Equal(t, "4444*********1234", body.Data[0].Card)
	assert.Equal(t, 20, body.RowsPerPage)
	assert.Equal(t, 0, body.Page)
}

func TestQueryByIDNotFound(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodGet, "/payments/query/999999999999999", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body models.QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Data)
}

func TestQueryByIDInvalid(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodGet, "/payments/query/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryPaged(t *testing.T) {
	router := newTestRouter()

	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("10002356890%04d", i)
		rec := doRequest(router, http.MethodPost, "/payments", paymentBody(id))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doRequest(router, http.MethodGet, "/payments/query?page=0&rowsPerPage=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body models.QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, "100023568900003", body.Data[0].ID)
	assert.Equal(t, 2, body.RowsPerPage)
}

func TestQueryPaginationBounds(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodGet, "/payments/query?rowsPerPage=200", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(router, http.MethodGet, "/payments/query?page=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(router, http.MethodGet, "/payments/query?rowsPerPage=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "payment-gateway")
}
