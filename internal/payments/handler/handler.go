package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trustgate/internal/payments"
	"trustgate/internal/payments/metrics"
	"trustgate/pkg/platform/httputil"
	"trustgate/pkg/requestcontext"
)

// Service defines the interface for staged authorization operations.
type Service interface {
	CreateIntent(ctx context.Context, amount float64, purpose, currency string, metadata map[string]string) (*payments.Record, error)
	Authorize(ctx context.Context, paymentID, authorizedBy, method string) (*payments.Authorization, error)
	Confirm(ctx context.Context, paymentID string) (*payments.Receipt, error)
	Cancel(ctx context.Context, paymentID string) (*payments.Record, error)
	Status(ctx context.Context, paymentID string) (*payments.Record, error)
}

// Handler wires payment endpoints to the engine.
type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs a payments handler with its dependencies.
func New(service Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{service: service, logger: logger, metrics: m}
}

// Register mounts payment endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/payments/intent", h.handleCreateIntent)
	r.Post("/payments/{paymentID}/authorize", h.handleAuthorize)
	r.Post("/payments/{paymentID}/confirm", h.handleConfirm)
	r.Post("/payments/{paymentID}/cancel", h.handleCancel)
	r.Get("/payments/{paymentID}", h.handleStatus)
}

type CreateIntentRequest struct {
	Amount   float64           `json:"amount"`
	Purpose  string            `json:"purpose"`
	Currency string            `json:"currency,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type AuthorizeRequest struct {
	AuthorizedBy string `json:"authorized_by"`
	Method       string `json:"method"`
}

func (h *Handler) handleCreateIntent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateIntentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.CreateIntent(ctx, req.Amount, req.Purpose, req.Currency, req.Metadata)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	paymentID := chi.URLParam(r, "paymentID")
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AuthorizeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	auth, err := h.service.Authorize(ctx, paymentID, req.AuthorizedBy, req.Method)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, auth)
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	paymentID := chi.URLParam(r, "paymentID")

	receipt, err := h.service.Confirm(ctx, paymentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, receipt)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	paymentID := chi.URLParam(r, "paymentID")

	record, err := h.service.Cancel(ctx, paymentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	paymentID := chi.URLParam(r, "paymentID")

	record, err := h.service.Status(ctx, paymentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}
