package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	dErrors "trustgate/pkg/domain-errors"
)

// Registry tracks tasks in process memory.
type Registry struct {
	mu     sync.RWMutex
	tasks  map[string]Task
	logger *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{tasks: make(map[string]Task), logger: logger}
}

// Create records a new pending task and returns it.
func (r *Registry) Create(ctx context.Context, name string, metadata map[string]any) (*Task, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "task name is required")
	}

	now := time.Now().UTC()
	task := Task{
		TaskID:    uuid.NewString(),
		Name:      name,
		Metadata:  metadata,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	r.tasks[task.TaskID] = task
	r.mu.Unlock()

	r.logger.InfoContext(ctx, "task created", "task_id", task.TaskID, "task_name", name)
	return &task, nil
}

// Get returns a task by id.
func (r *Registry) Get(_ context.Context, taskID string) (*Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.tasks[taskID]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "task not found: "+taskID)
	}
	return &task, nil
}

// UpdateStatus moves a task to a new status, optionally attaching a result.
func (r *Registry) UpdateStatus(_ context.Context, taskID string, status Status, result map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[taskID]
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "task not found: "+taskID)
	}
	task.Status = status
	task.UpdatedAt = time.Now().UTC()
	if result != nil {
		task.Result = result
	}
	r.tasks[taskID] = task
	return nil
}
