package actions

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "trustgate/pkg/domain-errors"
)

func newTestExecutor() *Executor {
	return NewExecutor(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestParseName(t *testing.T) {
	name, err := ParseName("find_workspace")
	require.NoError(t, err)
	assert.Equal(t, FindWorkspace, name)

	_, err = ParseName("launch_rocket")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestFindWorkspaceResult(t *testing.T) {
	executor := newTestExecutor()

	result, err := executor.Execute(context.Background(), FindWorkspace, map[string]any{
		"duration_hours": 4.0,
		"type":           "hot_desk",
	})
	require.NoError(t, err)
	assert.Equal(t, true, result["success"])

	data, ok := result["data"].(map[string]any)
	require.True(t, ok, "result must carry a data envelope for the resolver")
	assert.Contains(t, data["workspace_id"], "WS-")
	assert.Equal(t, 100.0, data["total_price"])
	assert.Equal(t, "hot_desk", data["type"])
}

func TestConfirmBookingEchoesReferences(t *testing.T) {
	executor := newTestExecutor()

	result, err := executor.Execute(context.Background(), ConfirmBooking, map[string]any{
		"workspace_id": "WS-123",
		"payment_id":   "PAY-456",
	})
	require.NoError(t, err)

	data := result["data"].(map[string]any)
	assert.Equal(t, "WS-123", data["workspace_id"])
	assert.Equal(t, "PAY-456", data["payment_id"])
	assert.Equal(t, "confirmed", data["status"])
	assert.Len(t, data["confirmation_code"], 6)
}

func TestSendNotificationDefaults(t *testing.T) {
	executor := newTestExecutor()

	result, err := executor.Execute(context.Background(), SendNotification, map[string]any{
		"message": "Workspace booking confirmed!",
	})
	require.NoError(t, err)

	data := result["data"].(map[string]any)
	assert.Equal(t, "user@example.com", data["recipient"])
	assert.Equal(t, "sent", data["delivery_status"])
}

func TestAllActionsSucceed(t *testing.T) {
	executor := newTestExecutor()

	for _, name := range []Name{FindWorkspace, ConfirmBooking, SendNotification, GatherInformation, AnalyzeData} {
		result, err := executor.Execute(context.Background(), name, nil)
		require.NoError(t, err, "action %s", name)
		assert.Equal(t, string(name), result["action_name"])
		assert.NotNil(t, result["data"])
	}
}
