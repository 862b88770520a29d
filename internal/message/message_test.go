package message

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAssignsIdentityAndTimestamp(t *testing.T) {
	env := New(KindSubmission, "INV-001", "authority", map[string]any{"principal_id": "INV-001"})

	assert.NotEmpty(t, env.ID)
	assert.False(t, env.Timestamp.IsZero())
	assert.Equal(t, KindSubmission, env.Kind)
	assert.Equal(t, "INV-001", env.Sender)
	assert.Equal(t, "authority", env.Recipient)
}

func TestReplyAddressesOriginalSender(t *testing.T) {
	in := New(KindStateRequest, "platform-a", "authority", nil)
	out := Reply(in, KindStateResponse, "authority", map[string]any{"ok": true})

	assert.Equal(t, "authority", out.Sender)
	assert.Equal(t, "platform-a", out.Recipient)
	assert.NotEqual(t, in.ID, out.ID)
}

func TestEnvelopeWireFormat(t *testing.T) {
	env := New(KindInvestmentRequest, "INV-001", "platform-a", map[string]any{"amount": 500.0})

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"message_type":"investment_request"`)
	assert.Contains(t, string(raw), `"message_id"`)

	var decoded Envelope
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, env.Kind, decoded.Kind)
	assert.Equal(t, 500.0, decoded.Payload["amount"])
}
