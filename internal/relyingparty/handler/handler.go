package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trustgate/internal/relyingparty"
	"trustgate/internal/relyingparty/metrics"
	"trustgate/pkg/platform/httputil"
	"trustgate/pkg/requestcontext"
)

// Service defines the interface for relying party operations.
type Service interface {
	RequestAction(ctx context.Context, principalID string, amount float64) (*relyingparty.Transaction, error)
	RequestWithCredential(ctx context.Context, principalID string, amount float64, credential string) (*relyingparty.Transaction, error)
	History(ctx context.Context, principalID string) ([]relyingparty.Transaction, error)
}

// Handler wires investment endpoints to the relying party service.
type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs a relying party handler with its dependencies.
func New(service Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{service: service, logger: logger, metrics: m}
}

// Register mounts investment endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/investments/request", h.handleRequest)
	r.Get("/investments/history/{principalID}", h.handleHistory)
}

// InvestmentRequest is the inbound request body. Credential is optional;
// when present it is validated locally instead of querying the authority.
type InvestmentRequest struct {
	PrincipalID string  `json:"principal_id"`
	Amount      float64 `json:"amount"`
	Credential  string  `json:"credential,omitempty"`
}

func (h *Handler) handleRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[InvestmentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	var (
		txn *relyingparty.Transaction
		err error
	)
	if req.Credential != "" {
		txn, err = h.service.RequestWithCredential(ctx, req.PrincipalID, req.Amount, req.Credential)
	} else {
		txn, err = h.service.RequestAction(ctx, req.PrincipalID, req.Amount)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "investment request failed",
			"request_id", requestID,
			"principal_id", req.PrincipalID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, txn)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principalID := chi.URLParam(r, "principalID")

	txns, err := h.service.History(ctx, principalID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"principal_id": principalID,
		"transactions": txns,
	})
}
