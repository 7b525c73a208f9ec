package interfaces

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sebuszqo/PaymentAdmin/internal/auth"
	"github.com/sebuszqo/PaymentAdmin/internal/finance/domain"
	financeErrors "github.com/sebuszqo/PaymentAdmin/internal/finance/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noAuth(next http.Handler) http.Handler { return next }

func newTestMux(service PaymentServiceInterface) *http.ServeMux {
	mux := http.NewServeMux()
	NewPaymentHandler(service, RespondJSON, RespondError).RegisterRoutes(mux, "/api/protected", noAuth)
	return mux
}

func serve(mux http.Handler, method, target, body string) (*http.Response, map[string]interface{}) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	res := w.Result()
	var response map[string]interface{}
	_ = json.NewDecoder(res.Body).Decode(&response)
	res.Body.Close()
	return res, response
}

func TestGetPaymentMethods_Success(t *testing.T) {
	mockMethods := []domain.PaymentMethod{
		{ID: 1, Name: "Cash Drawer", Type: domain.MethodTypeCash, SortOrder: 1},
		{ID: 2, Name: "Card Terminal", Type: domain.MethodTypeCard, RequiresReference: true, SortOrder: 2},
	}

	res, response := serve(newTestMux(NewMockPaymentService(mockMethods, nil)), http.MethodGet, "/api/protected/payment-methods", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "success", response["status"])
	assert.Equal(t, "Methods retrieved successfully.", response["message"])

	methods, ok := response["data"].([]interface{})
	require.True(t, ok, "Expected 'data' to be an array in the response")
	require.Len(t, methods, len(mockMethods))

	second, ok := methods[1].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), second["id"])
	assert.Equal(t, "Card Terminal", second["name"])
	assert.Equal(t, "Card", second["type"])
	assert.Equal(t, true, second["requiresReference"])
	assert.Equal(t, float64(2), second["sortOrder"])
}

func TestGetPaymentMethods_Error(t *testing.T) {
	res, response := serve(newTestMux(NewMockPaymentService(nil, errors.New("database error"))), http.MethodGet, "/api/protected/payment-methods", "")

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, "error", response["status"])
	assert.Equal(t, "Failed to retrieve payment methods", response["message"])
}

func TestGetPaymentMethod_Success(t *testing.T) {
	service := NewMockPaymentService([]domain.PaymentMethod{
		{ID: 3, Name: "Cash Drawer", Type: domain.MethodTypeCash, SortOrder: 1},
	}, nil)

	res, response := serve(newTestMux(service), http.MethodGet, "/api/protected/payment-methods/3", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "success", response["status"])

	data, ok := response["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), data["id"])
	assert.Equal(t, "Cash Drawer", data["name"])
}

func TestGetPaymentMethod_NotFound(t *testing.T) {
	service := NewMockPaymentService(nil, nil)

	res, response := serve(newTestMux(service), http.MethodGet, "/api/protected/payment-methods/42", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Payment method not found", response["message"])

	res, _ = serve(newTestMux(service), http.MethodGet, "/api/protected/payment-methods/0", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestCreatePaymentMethod_Success(t *testing.T) {
	service := NewMockPaymentService(nil, nil)
	body := `{"name":"Voucher","type":"Other","requiresReference":true,"sortOrder":5}`

	res, response := serve(newTestMux(service), http.MethodPost, "/api/protected/payment-methods", body)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	require.Len(t, service.Created, 1)
	assert.Equal(t, domain.Draft{Name: "Voucher", Type: domain.MethodTypeOther, RequiresReference: true, SortOrder: 5}, service.Created[0])

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Voucher", data["name"])
}

func TestCreatePaymentMethod_InvalidBody(t *testing.T) {
	service := NewMockPaymentService(nil, nil)

	res, response := serve(newTestMux(service), http.MethodPost, "/api/protected/payment-methods", "{")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Invalid request body", response["message"])
	assert.Empty(t, service.Created)
}

func TestCreatePaymentMethod_ValidationError(t *testing.T) {
	service := NewMockPaymentService(nil, financeErrors.ErrNameRequired)

	res, response := serve(newTestMux(service), http.MethodPost, "/api/protected/payment-methods", `{"name":"","type":"Cash"}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Validation failed", response["message"])
	assert.Equal(t, []interface{}{"Name is required"}, response["errors"])
}

func TestUpdatePaymentMethod_KeyedByPathID(t *testing.T) {
	service := NewMockPaymentService(nil, nil)
	body := `{"name":"Cash Drawer","type":"Cash","requiresReference":false,"sortOrder":2}`

	res, response := serve(newTestMux(service), http.MethodPut, "/api/protected/payment-methods/3", body)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, []int{3}, service.UpdatedID)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["id"])
	assert.Equal(t, float64(2), data["sortOrder"])
}

func TestUpdatePaymentMethod_NotFound(t *testing.T) {
	service := NewMockPaymentService(nil, domain.ErrPaymentMethodNotFound)

	res, response := serve(newTestMux(service), http.MethodPut, "/api/protected/payment-methods/42", `{"name":"x","type":"Cash"}`)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Payment method not found", response["message"])
}

func TestUpdatePaymentMethod_NonNumericID(t *testing.T) {
	service := NewMockPaymentService(nil, nil)

	res, _ := serve(newTestMux(service), http.MethodPut, "/api/protected/payment-methods/abc", `{"name":"x","type":"Cash"}`)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Empty(t, service.UpdatedID)
}

func TestDeletePaymentMethod(t *testing.T) {
	service := NewMockPaymentService(nil, nil)

	res, response := serve(newTestMux(service), http.MethodDelete, "/api/protected/payment-methods/7", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "success", response["status"])
	assert.Equal(t, []int{7}, service.DeletedID)
}

func TestDeletePaymentMethod_InternalError(t *testing.T) {
	service := NewMockPaymentService(nil, errors.New("connection reset"))

	res, response := serve(newTestMux(service), http.MethodDelete, "/api/protected/payment-methods/7", "")
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, "Failed to delete payment method", response["message"])
}

func TestNewPaymentHandler_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewPaymentHandler(nil, RespondJSON, RespondError) })
}

type fixedSubjectManager struct{ subject string }

func (m fixedSubjectManager) GenerateAccessJWT(string, time.Duration) (string, error) {
	return "token", nil
}

func (m fixedSubjectManager) ValidateAccessToken(string) (string, error) {
	return m.subject, nil
}

func TestMutations_LogTokenSubject(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	mux := http.NewServeMux()
	protect := auth.JWTAccessTokenMiddleware(fixedSubjectManager{subject: "payment-admin"})
	NewPaymentHandler(NewMockPaymentService(nil, nil), RespondJSON, RespondError).RegisterRoutes(mux, "/api/protected", protect)

	req := httptest.NewRequest(http.MethodDelete, "/api/protected/payment-methods/7", nil)
	req.Header.Set("Authorization", "Bearer token")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "payment-admin", entry["subject"])
	assert.Equal(t, float64(7), entry["id"])
	assert.Equal(t, "payment method deleted", entry["message"])
}
