package orchestrator

import (
	"fmt"
	"time"

	"trustgate/internal/actions"
	"trustgate/internal/plan"
	dErrors "trustgate/pkg/domain-errors"
)

// Action is the closed set of step actions the orchestrator dispatches on.
// Generic actions validate against the executor's own closed set, so an
// unknown action is rejected before the step runs.
type Action string

const (
	ActionCreateTask     Action = "create_task"
	ActionRequestPayment Action = "request_payment"
)

// ParseAction classifies a step's action string. Generic actions come back
// as their actions.Name; the two orchestrator-owned kinds come back as the
// Action constant with an empty name.
func ParseAction(s string) (Action, actions.Name, error) {
	switch Action(s) {
	case ActionCreateTask, ActionRequestPayment:
		return Action(s), "", nil
	}
	name, err := actions.ParseName(s)
	if err != nil {
		return "", "", dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown step action %q", s))
	}
	return "", name, nil
}

// Plan is an ordered step list with an opaque goal. The goal is never
// interpreted; it only labels results.
type Plan struct {
	PlanID string      `json:"plan_id,omitempty"`
	Goal   string      `json:"goal,omitempty"`
	Steps  []plan.Step `json:"steps"`
}

// ExecutionStatus enumerates a step execution's lifecycle.
type ExecutionStatus string

const (
	ExecutionPending   ExecutionStatus = "pending"
	ExecutionRunning   ExecutionStatus = "running"
	ExecutionCompleted ExecutionStatus = "completed"
	ExecutionFailed    ExecutionStatus = "failed"
)

// StepExecution records one step's run.
type StepExecution struct {
	ExecutionID string          `json:"execution_id"`
	StepNumber  int             `json:"step_number"`
	Action      string          `json:"action"`
	Status      ExecutionStatus `json:"status"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Result      map[string]any  `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// PlanResult aggregates the executions of one plan run. On failure it still
// carries every execution recorded before the halt.
type PlanResult struct {
	PlanID     string          `json:"plan_id,omitempty"`
	Goal       string          `json:"goal,omitempty"`
	Completed  bool            `json:"completed"`
	Executions []StepExecution `json:"executions"`
}
