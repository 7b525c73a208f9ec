package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/sebuszqo/PaymentAdmin/internal/auth"
	"github.com/sebuszqo/PaymentAdmin/internal/finance/domain"
	financeErrors "github.com/sebuszqo/PaymentAdmin/internal/finance/errors"
)

type PaymentServiceInterface interface {
	ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error)
	GetPaymentMethod(ctx context.Context, id int) (*domain.PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, draft domain.Draft) (*domain.PaymentMethod, error)
	UpdatePaymentMethod(ctx context.Context, id int, draft domain.Draft) (*domain.PaymentMethod, error)
	DeletePaymentMethod(ctx context.Context, id int) error
}

type PaymentHandler struct {
	service      PaymentServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewPaymentHandler(
	service PaymentServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *PaymentHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &PaymentHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

// RegisterRoutes mounts the payment method endpoints under prefix, wrapping
// each one with protect.
func (h *PaymentHandler) RegisterRoutes(mux *http.ServeMux, prefix string, protect func(http.Handler) http.Handler) {
	mux.Handle("GET "+prefix+"/payment-methods", protect(http.HandlerFunc(h.GetPaymentMethods)))
	mux.Handle("GET "+prefix+"/payment-methods/{id}", protect(http.HandlerFunc(h.GetPaymentMethod)))
	mux.Handle("POST "+prefix+"/payment-methods", protect(http.HandlerFunc(h.CreatePaymentMethod)))
	mux.Handle("PUT "+prefix+"/payment-methods/{id}", protect(http.HandlerFunc(h.UpdatePaymentMethod)))
	mux.Handle("DELETE "+prefix+"/payment-methods/{id}", protect(http.HandlerFunc(h.DeletePaymentMethod)))
}

func (h *PaymentHandler) GetPaymentMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := h.service.ListPaymentMethods(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list payment methods")
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve payment methods")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Methods retrieved successfully.",
		"data":    methods,
	})
}

func (h *PaymentHandler) GetPaymentMethod(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	method, err := h.service.GetPaymentMethod(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to retrieve payment method")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Method retrieved successfully.",
		"data":    method,
	})
}

func (h *PaymentHandler) CreatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	var draft domain.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	method, err := h.service.CreatePaymentMethod(r.Context(), draft)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to create payment method")
		return
	}

	auditLog(r, method.ID, "payment method created")
	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Payment method successfully created.",
		"data":    method,
	})
}

func (h *PaymentHandler) UpdatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var draft domain.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	method, err := h.service.UpdatePaymentMethod(r.Context(), id, draft)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to update payment method")
		return
	}

	auditLog(r, id, "payment method updated")
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Payment method successfully updated.",
		"data":    method,
	})
}

func (h *PaymentHandler) DeletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeletePaymentMethod(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err, "Failed to delete payment method")
		return
	}

	auditLog(r, id, "payment method deleted")
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Payment method successfully deleted.",
	})
}

func (h *PaymentHandler) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		// ids are positive integers, anything else cannot exist
		h.respondError(w, http.StatusNotFound, "Payment method not found")
		return 0, false
	}
	return id, true
}

// auditLog records who changed which payment method.
func auditLog(r *http.Request, id int, msg string) {
	subject, _ := auth.SubjectFromContext(r.Context())
	log.Info().Str("subject", subject).Int("id", id).Msg(msg)
}

func (h *PaymentHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case financeErrors.IsValidationError(err):
		h.respondError(w, http.StatusBadRequest, "Validation failed", financeErrors.Messages(err))
	case errors.Is(err, domain.ErrPaymentMethodNotFound):
		h.respondError(w, http.StatusNotFound, "Payment method not found")
	default:
		subject, _ := auth.SubjectFromContext(r.Context())
		log.Error().Err(err).Str("subject", subject).Msg(fallback)
		h.respondError(w, http.StatusInternalServerError, fallback)
	}
}
