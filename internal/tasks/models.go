// Package tasks is the bookkeeping collaborator behind the orchestrator's
// create_task action. It records names and metadata; it never executes
// anything itself.
package tasks

import "time"

// Status enumerates the task lifecycle.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Task is one tracked unit of work.
type Task struct {
	TaskID    string         `json:"task_id"`
	Name      string         `json:"task_name"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Status    Status         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Result    map[string]any `json:"result,omitempty"`
}
