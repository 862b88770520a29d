package authority

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustgate/internal/audit"
	"trustgate/internal/message"
	dErrors "trustgate/pkg/domain-errors"
)

func newTestService(t *testing.T) (*Service, *audit.InMemoryStore) {
	t.Helper()
	auditStore := audit.NewInMemoryStore()
	svc := NewService(
		NewInMemoryStateStore(),
		NewInMemoryIdentityStore(),
		DefaultPolicy{},
		NewCredentialIssuer("test-signing-key"),
		audit.NewPublisher(auditStore),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		nil,
		"test-salt",
	)
	return svc, auditStore
}

func validIdentity() map[string]string {
	return map[string]string{
		"name":          "Vansh Ranawat",
		"date_of_birth": "1990-05-15",
		"national_id":   "US-123456789",
		"address":       "123 Main St, San Francisco, CA 94102",
		"email":         "vansh.ranawat@email.com",
	}
}

func TestQueryStateBeforeSubmit(t *testing.T) {
	svc, _ := newTestService(t)

	state, err := svc.QueryState(context.Background(), "INV-404")
	require.NoError(t, err)
	assert.Equal(t, StatusNotVerified, state.Status)
	assert.Empty(t, state.Capabilities)
	assert.Empty(t, state.VerificationID)
}

func TestSubmitValidIdentity(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Submit(ctx, "INV-001", validIdentity())
	require.NoError(t, err)
	assert.Equal(t, StatusVerified, result.Status)
	assert.NotEmpty(t, result.VerificationID)
	assert.NotEmpty(t, result.Credential)

	state, err := svc.QueryState(ctx, "INV-001")
	require.NoError(t, err)
	assert.Equal(t, StatusVerified, state.Status)
	assert.Equal(t, result.VerificationID, state.VerificationID)
	assert.True(t, state.HasCapability(CapabilityInvest))
	assert.True(t, state.HasCapability(CapabilityTrade))
	assert.Equal(t, RiskTierLow, state.RiskTier)
	assert.Contains(t, state.ComplianceFlags, "aml_cleared")
}

func TestSubmitIsIdempotentPerPrincipal(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Submit(ctx, "INV-001", validIdentity())
	require.NoError(t, err)
	second, err := svc.Submit(ctx, "INV-001", validIdentity())
	require.NoError(t, err)

	assert.Equal(t, first.VerificationID, second.VerificationID)
	assert.Equal(t, first.Status, second.Status)
}

func TestSubmitMissingFieldRejects(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	fields := validIdentity()
	delete(fields, "national_id")

	result, err := svc.Submit(ctx, "INV-002", fields)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeIncompleteIdentity))
	require.NotNil(t, result)
	assert.Equal(t, StatusRejected, result.Status)

	state, err := svc.QueryState(ctx, "INV-002")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, state.Status)
	assert.Empty(t, state.Capabilities)
	assert.Empty(t, state.VerificationID)
}

// The capability view must never leak identity field values. The state is
// structurally incapable of carrying them, but serializing it proves the
// full JSON surface is clean.
func TestQueryStateLeaksNoIdentityData(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	fields := validIdentity()
	_, err := svc.Submit(ctx, "INV-003", fields)
	require.NoError(t, err)

	state, err := svc.QueryState(ctx, "INV-003")
	require.NoError(t, err)

	serialized, err := json.Marshal(state)
	require.NoError(t, err)
	for key, value := range fields {
		assert.NotContains(t, string(serialized), value, "identity field %q leaked into state view", key)
	}
}

func TestCredentialRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Submit(ctx, "INV-001", validIdentity())
	require.NoError(t, err)

	claims, err := svc.issuer.Validate(result.Credential)
	require.NoError(t, err)
	assert.Equal(t, "INV-001", claims.PrincipalID)
	assert.Equal(t, result.VerificationID, claims.VerificationID)
	assert.Contains(t, claims.Capabilities, "invest")
}

func TestHandleMessageDispatch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	t.Run("submission envelope", func(t *testing.T) {
		fields := map[string]any{}
		for k, v := range validIdentity() {
			fields[k] = v
		}
		in := message.New(message.KindSubmission, "investor-INV-001", AgentID, map[string]any{
			"principal_id":    "INV-001",
			"identity_fields": fields,
		})
		out, err := svc.HandleMessage(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, message.KindVerificationResponse, out.Kind)
		assert.Equal(t, "investor-INV-001", out.Recipient)
		assert.Equal(t, "verified", out.Payload["verification_status"])
	})

	t.Run("state request envelope", func(t *testing.T) {
		in := message.New(message.KindStateRequest, "relying-party-A", AgentID, map[string]any{
			"principal_id": "INV-001",
		})
		out, err := svc.HandleMessage(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, message.KindStateResponse, out.Kind)
		state, ok := out.Payload["verification_state"].(State)
		require.True(t, ok)
		assert.Equal(t, StatusVerified, state.Status)
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		in := message.New(message.KindInvestmentRequest, "relying-party-A", AgentID, nil)
		_, err := svc.HandleMessage(ctx, in)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func TestSubmissionAuditTrail(t *testing.T) {
	svc, auditStore := newTestService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "INV-001", validIdentity())
	require.NoError(t, err)

	events, err := auditStore.ListByPrincipal(ctx, "INV-001")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "kyc_submission", events[0].Action)
	assert.Equal(t, "verified", events[0].Decision)
}
