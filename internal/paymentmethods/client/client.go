// Package client talks to the payment methods REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sebuszqo/PaymentAdmin/internal/finance/domain"
)

// API is the set of operations the admin screen needs from the backend.
type API interface {
	GetAll(ctx context.Context) ([]domain.PaymentMethod, error)
	Create(ctx context.Context, draft domain.Draft) (domain.PaymentMethod, error)
	Update(ctx context.Context, id int, draft domain.Draft) (domain.PaymentMethod, error)
	Delete(ctx context.Context, id int) error
}

type TokenSource func(ctx context.Context) (string, error)

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []string
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("payment methods api: %d %s: %s", e.StatusCode, e.Message, strings.Join(e.Errors, "; "))
	}
	return fmt.Sprintf("payment methods api: %d %s", e.StatusCode, e.Message)
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
}

func New(baseURL string, timeout time.Duration, token TokenSource) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout}, token)
}

func NewWithHTTPClient(baseURL string, httpClient *http.Client, token TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		token:      token,
	}
}

func (c *Client) GetAll(ctx context.Context) ([]domain.PaymentMethod, error) {
	var methods []domain.PaymentMethod
	if err := c.do(ctx, http.MethodGet, "/payment-methods", nil, &methods); err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	if methods == nil {
		methods = []domain.PaymentMethod{}
	}
	return methods, nil
}

func (c *Client) Create(ctx context.Context, draft domain.Draft) (domain.PaymentMethod, error) {
	var method domain.PaymentMethod
	if err := c.do(ctx, http.MethodPost, "/payment-methods", draft, &method); err != nil {
		return domain.PaymentMethod{}, fmt.Errorf("create payment method: %w", err)
	}
	return method, nil
}

func (c *Client) Update(ctx context.Context, id int, draft domain.Draft) (domain.PaymentMethod, error) {
	var method domain.PaymentMethod
	if err := c.do(ctx, http.MethodPut, "/payment-methods/"+strconv.Itoa(id), draft, &method); err != nil {
		return domain.PaymentMethod{}, fmt.Errorf("update payment method %d: %w", id, err)
	}
	return method, nil
}

func (c *Client) Delete(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, "/payment-methods/"+strconv.Itoa(id), nil, nil); err != nil {
		return fmt.Errorf("delete payment method %d: %w", id, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		token, err := c.token(ctx)
		if err != nil {
			return fmt.Errorf("access token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Dur("took", time.Since(start)).Msg("api call")

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		if resp.StatusCode >= 300 {
			return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := env.Message
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: message, Errors: env.Errors}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
