// Package httptransport assembles the public HTTP surface. It owns only
// transport concerns; each domain mounts its own handler package.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trustgate/pkg/requestcontext"
)

// Registrar is implemented by every domain handler package.
type Registrar interface {
	Register(r chi.Router)
}

// Handlers groups the per-domain handlers mounted on the router.
type Handlers struct {
	Authority    Registrar
	Payments     Registrar
	RelyingParty Registrar
	Orchestrator Registrar
}

// NewRouter wires all public endpoints plus health and metrics.
func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	h.Authority.Register(r)
	h.Payments.Register(r)
	h.RelyingParty.Register(r)
	h.Orchestrator.Register(r)
	return r
}

// requestID tags every request with an id for log correlation. An inbound
// X-Request-ID is honored so callers can trace across services.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), id)))
	})
}
