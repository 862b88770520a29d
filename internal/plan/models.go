// Package plan models an ordered step list and resolves inter-step
// references in step parameters.
package plan

// Step is one unit of a plan. Parameters may contain literal values or
// references of the form ${stepN.field} into earlier step results.
// Dependencies are informative; execution order is plan order.
type Step struct {
	Number       int            `json:"step_number"`
	Action       string         `json:"action"`
	Description  string         `json:"description,omitempty"`
	Parameters   map[string]any `json:"parameters"`
	Dependencies []int          `json:"dependencies,omitempty"`
	Assignee     string         `json:"assigned_to,omitempty"`
}

// ExecutionContext maps a completed step number to its result payload. It is
// append-only and scoped to a single plan execution.
type ExecutionContext map[int]map[string]any
