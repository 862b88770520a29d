package tasks

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "trustgate/pkg/domain-errors"
)

func newTestRegistry() *Registry {
	return NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreateAndGet(t *testing.T) {
	registry := newTestRegistry()
	ctx := context.Background()

	task, err := registry.Create(ctx, "Book workspace", map[string]any{"duration": 2})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, task.Status)
	assert.NotEmpty(t, task.TaskID)

	found, err := registry.Get(ctx, task.TaskID)
	require.NoError(t, err)
	assert.Equal(t, "Book workspace", found.Name)
}

func TestCreateRequiresName(t *testing.T) {
	registry := newTestRegistry()

	_, err := registry.Create(context.Background(), "", nil)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestUpdateStatus(t *testing.T) {
	registry := newTestRegistry()
	ctx := context.Background()

	task, err := registry.Create(ctx, "Book workspace", nil)
	require.NoError(t, err)

	err = registry.UpdateStatus(ctx, task.TaskID, StatusCompleted, map[string]any{"booking_id": "BK-1"})
	require.NoError(t, err)

	found, err := registry.Get(ctx, task.TaskID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, found.Status)
	assert.Equal(t, "BK-1", found.Result["booking_id"])
	assert.True(t, found.UpdatedAt.After(found.CreatedAt) || found.UpdatedAt.Equal(found.CreatedAt))
}

func TestGetUnknownTask(t *testing.T) {
	registry := newTestRegistry()

	_, err := registry.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	err = registry.UpdateStatus(context.Background(), "missing", StatusFailed, nil)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
