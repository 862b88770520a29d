package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustgate/internal/actions"
	"trustgate/internal/audit"
	"trustgate/internal/authority"
	authorityhandler "trustgate/internal/authority/handler"
	"trustgate/internal/orchestrator"
	orchestratorhandler "trustgate/internal/orchestrator/handler"
	"trustgate/internal/payments"
	paymentshandler "trustgate/internal/payments/handler"
	"trustgate/internal/relyingparty"
	relyingpartyhandler "trustgate/internal/relyingparty/handler"
	"trustgate/internal/tasks"
	"trustgate/pkg/testutil"
)

// newTestStack wires the full service graph on in-memory backends, the same
// shape cmd/server builds in production.
func newTestStack(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	auditPublisher := audit.NewPublisher(audit.NewInMemoryStore())

	issuer := authority.NewCredentialIssuer("router-test-key")
	authoritySvc := authority.NewService(
		authority.NewInMemoryStateStore(),
		authority.NewInMemoryIdentityStore(),
		nil, issuer, auditPublisher, logger, nil, "router-test-salt",
	)
	engine := payments.NewService(payments.NewInMemoryStore(), nil, logger, nil)
	partySvc := relyingparty.NewService("platform-a", authoritySvc, issuer,
		relyingparty.NewInMemoryStore(), auditPublisher, logger, nil)
	orchestratorSvc := orchestrator.NewService(
		engine,
		tasks.NewRegistry(logger),
		actions.NewExecutor(logger),
		5*time.Second,
		logger, nil,
	)

	return NewRouter(Handlers{
		Authority:    authorityhandler.New(authoritySvc, logger, nil),
		Payments:     paymentshandler.New(engine, logger, nil),
		RelyingParty: relyingpartyhandler.New(partySvc, logger, nil),
		Orchestrator: orchestratorhandler.New(orchestratorSvc, logger, nil),
	})
}

func TestHealthz(t *testing.T) {
	router := newTestStack(t)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestStack(t)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequestIDPropagation(t *testing.T) {
	router := newTestStack(t)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "caller-supplied-id")
	rr := testutil.DoRequest(router, req)
	assert.Equal(t, "caller-supplied-id", rr.Header().Get("X-Request-ID"))

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/healthz", nil))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

// Full journey over the HTTP surface: an unverified investor is blocked,
// verifies once, is approved, and the credential from that one verification
// is accepted without another authority round trip.
func TestEndToEndInvestorJourney(t *testing.T) {
	router := newTestStack(t)

	// Blocked before verification.
	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/investments/request", map[string]any{
		"principal_id": "INV-E2E", "amount": 500.0,
	}))
	require.Equal(t, http.StatusOK, rr.Code)
	blocked := testutil.DecodeJSON[map[string]any](t, rr)
	assert.Equal(t, "blocked", blocked["status"])

	// Submit identity.
	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/kyc/submit", map[string]any{
		"principal_id": "INV-E2E",
		"identity_fields": map[string]string{
			"name":          "Alice Chen",
			"date_of_birth": "1990-05-15",
			"national_id":   "SSN-123-45-6789",
			"address":       "123 Main St, San Francisco, CA",
		},
	}))
	require.Equal(t, http.StatusOK, rr.Code)
	submission := testutil.DecodeJSON[map[string]any](t, rr)
	assert.Equal(t, "verified", submission["verification_status"])
	credential, _ := submission["credential"].(string)
	require.NotEmpty(t, credential)

	// State view carries capabilities but no identity values.
	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/kyc/state/INV-E2E", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "Alice Chen")
	assert.NotContains(t, rr.Body.String(), "SSN-123-45-6789")

	// Approved after verification.
	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/investments/request", map[string]any{
		"principal_id": "INV-E2E", "amount": 500.0,
	}))
	require.Equal(t, http.StatusOK, rr.Code)
	approved := testutil.DecodeJSON[map[string]any](t, rr)
	assert.Equal(t, "completed", approved["status"])

	// Credential path works too.
	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/investments/request", map[string]any{
		"principal_id": "INV-E2E", "amount": 750.0, "credential": credential,
	}))
	require.Equal(t, http.StatusOK, rr.Code)
	reused := testutil.DecodeJSON[map[string]any](t, rr)
	assert.Equal(t, "completed", reused["status"])
}

func TestEndToEndPlanExecution(t *testing.T) {
	router := newTestStack(t)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/plans/execute", map[string]any{
		"goal": "Book a workspace",
		"steps": []map[string]any{
			{"step_number": 1, "action": "find_workspace", "parameters": map[string]any{"duration_hours": 2.0}},
			{"step_number": 2, "action": "request_payment", "parameters": map[string]any{"amount": 50.0, "purpose": "workspace"}},
			{"step_number": 3, "action": "confirm_booking", "parameters": map[string]any{
				"workspace_id": "${step1.workspace_id}",
				"payment_id":   "${step2.payment_id}",
			}},
		},
	}))
	require.Equal(t, http.StatusOK, rr.Code)

	result := testutil.DecodeJSON[map[string]any](t, rr)
	assert.Equal(t, true, result["completed"])
	executions := result["executions"].([]any)
	require.Len(t, executions, 3)

	booking := executions[2].(map[string]any)["result"].(map[string]any)["data"].(map[string]any)
	payment := executions[1].(map[string]any)["result"].(map[string]any)
	assert.Equal(t, payment["payment_id"], booking["payment_id"])
	assert.NotContains(t, booking["workspace_id"], "${")
}
