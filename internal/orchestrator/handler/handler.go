package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trustgate/internal/orchestrator"
	"trustgate/internal/orchestrator/metrics"
	dErrors "trustgate/pkg/domain-errors"
	"trustgate/pkg/platform/httputil"
	"trustgate/pkg/requestcontext"
)

// Service defines the interface for plan execution.
type Service interface {
	Execute(ctx context.Context, p orchestrator.Plan) (*orchestrator.PlanResult, error)
}

// Handler wires plan endpoints to the orchestrator.
type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs an orchestrator handler with its dependencies.
func New(service Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{service: service, logger: logger, metrics: m}
}

// Register mounts plan endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/plans/execute", h.handleExecute)
}

func (h *Handler) handleExecute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[orchestrator.Plan](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if len(req.Steps) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "plan has no steps"))
		return
	}

	result, err := h.service.Execute(ctx, req)
	if err != nil {
		// A halted plan still carries its partial executions; callers get
		// the result body with the failure status, not an error envelope.
		if result != nil && len(result.Executions) > 0 {
			httputil.WriteJSON(w, dErrors.ToHTTPStatus(dErrors.CodeOf(err)), result)
			return
		}
		h.logger.ErrorContext(ctx, "plan execution failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
