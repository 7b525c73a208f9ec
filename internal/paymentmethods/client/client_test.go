package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sebuszqo/PaymentAdmin/internal/finance/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]interface{}
}

func newTestServer(t *testing.T, status int, response interface{}) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization")}
		_ = json.NewDecoder(r.Body).Decode(&rec.Body)
		requests = append(requests, rec)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if response != nil {
			_ = json.NewEncoder(w).Encode(response)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func staticToken(ctx context.Context) (string, error) { return "token-123", nil }

func TestGetAll(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data": []map[string]interface{}{
			{"id": 3, "name": "Cash Drawer", "type": "Cash", "requiresReference": false, "sortOrder": 1},
		},
	})

	methods, err := New(srv.URL+"/api/protected", time.Second, staticToken).GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.PaymentMethod{{ID: 3, Name: "Cash Drawer", Type: domain.MethodTypeCash, SortOrder: 1}}, methods)

	require.Len(t, *requests, 1)
	assert.Equal(t, http.MethodGet, (*requests)[0].Method)
	assert.Equal(t, "/api/protected/payment-methods", (*requests)[0].Path)
	assert.Equal(t, "Bearer token-123", (*requests)[0].Auth)
}

func TestGetAll_EmptyData(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, map[string]interface{}{"status": "success", "data": []interface{}{}})

	methods, err := New(srv.URL, time.Second, nil).GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, methods)
	assert.Empty(t, methods)
}

func TestCreate_SendsDraft(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusCreated, map[string]interface{}{
		"status": "success",
		"data":   map[string]interface{}{"id": 9, "name": "Voucher", "type": "Other", "requiresReference": true, "sortOrder": 4},
	})

	created, err := New(srv.URL, time.Second, staticToken).Create(context.Background(), domain.Draft{Name: "Voucher", Type: domain.MethodTypeOther, RequiresReference: true, SortOrder: 4})
	require.NoError(t, err)
	assert.Equal(t, 9, created.ID)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/payment-methods", req.Path)
	assert.Equal(t, map[string]interface{}{"name": "Voucher", "type": "Other", "requiresReference": true, "sortOrder": float64(4)}, req.Body)
}

func TestUpdate_KeyedByID(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   map[string]interface{}{"id": 3, "name": "Cash Drawer", "type": "Cash", "requiresReference": false, "sortOrder": 2},
	})

	updated, err := New(srv.URL, time.Second, staticToken).Update(context.Background(), 3, domain.Draft{Name: "Cash Drawer", Type: domain.MethodTypeCash, SortOrder: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.SortOrder)
	assert.Equal(t, http.MethodPut, (*requests)[0].Method)
	assert.Equal(t, "/payment-methods/3", (*requests)[0].Path)
}

func TestDelete(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusOK, map[string]interface{}{"status": "success"})

	require.NoError(t, New(srv.URL, time.Second, staticToken).Delete(context.Background(), 5))
	assert.Equal(t, http.MethodDelete, (*requests)[0].Method)
	assert.Equal(t, "/payment-methods/5", (*requests)[0].Path)
}

func TestErrorResponses(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		srv, _ := newTestServer(t, http.StatusNotFound, map[string]interface{}{"status": "error", "message": "Payment method not found", "code": 404})

		err := New(srv.URL, time.Second, staticToken).Delete(context.Background(), 5)
		assert.True(t, IsNotFound(err))

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "Payment method not found", apiErr.Message)
	})

	t.Run("validation errors", func(t *testing.T) {
		srv, _ := newTestServer(t, http.StatusBadRequest, map[string]interface{}{"status": "error", "message": "Validation failed", "errors": []string{"Name is required"}})

		_, err := New(srv.URL, time.Second, staticToken).Create(context.Background(), domain.Draft{Type: domain.MethodTypeCash})
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, []string{"Name is required"}, apiErr.Errors)
		assert.Contains(t, err.Error(), "Name is required")
	})

	t.Run("non json body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := New(srv.URL, time.Second, staticToken).GetAll(context.Background())
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	})

	t.Run("token failure stops the call", func(t *testing.T) {
		srv, requests := newTestServer(t, http.StatusOK, nil)
		failing := func(ctx context.Context) (string, error) { return "", errors.New("no secret") }

		_, err := New(srv.URL, time.Second, failing).GetAll(context.Background())
		assert.ErrorContains(t, err, "access token")
		assert.Empty(t, *requests)
	})
}
