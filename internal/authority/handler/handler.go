package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trustgate/internal/authority"
	"trustgate/internal/authority/metrics"
	dErrors "trustgate/pkg/domain-errors"
	"trustgate/pkg/platform/httputil"
	"trustgate/pkg/requestcontext"
)

// Service defines the interface for authority operations.
type Service interface {
	Submit(ctx context.Context, principalID string, fields map[string]string) (*authority.SubmissionResult, error)
	QueryState(ctx context.Context, principalID string) (authority.State, error)
}

// Handler wires authority endpoints to the authority service.
type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs an authority handler with its dependencies.
func New(service Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{service: service, logger: logger, metrics: m}
}

// Register mounts authority endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/kyc/submit", h.handleSubmit)
	r.Get("/kyc/state/{principalID}", h.handleQueryState)
}

// SubmitRequest is the inbound submission body. IdentityFields flow to the
// service and are never echoed back in any response.
type SubmitRequest struct {
	PrincipalID    string            `json:"principal_id"`
	IdentityFields map[string]string `json:"identity_fields"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SubmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Submit(ctx, req.PrincipalID, req.IdentityFields)
	if err != nil {
		// An incomplete submission still produced a stored rejected state;
		// surface the coded error rather than the partial result.
		if !dErrors.HasCode(err, dErrors.CodeIncompleteIdentity) {
			h.logger.ErrorContext(ctx, "submission failed",
				"request_id", requestID,
				"principal_id", req.PrincipalID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleQueryState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principalID := chi.URLParam(r, "principalID")

	state, err := h.service.QueryState(ctx, principalID)
	if err != nil {
		h.logger.ErrorContext(ctx, "state query failed",
			"request_id", requestcontext.RequestID(ctx),
			"principal_id", principalID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, state)
}
