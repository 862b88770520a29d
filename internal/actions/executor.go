// Package actions executes the generic non-payment step actions. Handlers
// here simulate downstream systems; real integrations would replace the
// bodies without touching the dispatch.
package actions

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "trustgate/pkg/domain-errors"
)

// Name is the closed set of generic actions the executor handles.
type Name string

const (
	FindWorkspace     Name = "find_workspace"
	ConfirmBooking    Name = "confirm_booking"
	SendNotification  Name = "send_notification"
	GatherInformation Name = "gather_information"
	AnalyzeData       Name = "analyze_data"
)

// ParseName validates an action string against the closed set.
func ParseName(s string) (Name, error) {
	switch Name(s) {
	case FindWorkspace, ConfirmBooking, SendNotification, GatherInformation, AnalyzeData:
		return Name(s), nil
	default:
		return "", dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown action %q", s))
	}
}

// Executor runs generic actions.
type Executor struct {
	logger *slog.Logger
}

func NewExecutor(logger *slog.Logger) *Executor {
	return &Executor{logger: logger}
}

// Execute dispatches one action. The returned map wraps the handler output
// in a data envelope so later steps can reference fields through the
// resolver.
func (e *Executor) Execute(ctx context.Context, name Name, params map[string]any) (map[string]any, error) {
	var data map[string]any
	switch name {
	case FindWorkspace:
		data = e.findWorkspace(params)
	case ConfirmBooking:
		data = e.confirmBooking(params)
	case SendNotification:
		data = e.sendNotification(params)
	case GatherInformation:
		data = e.gatherInformation(params)
	case AnalyzeData:
		data = e.analyzeData(params)
	default:
		return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown action %q", name))
	}

	e.logger.InfoContext(ctx, "action executed", "action", name)
	return map[string]any{
		"action_name": string(name),
		"success":     true,
		"data":        data,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (e *Executor) findWorkspace(params map[string]any) map[string]any {
	duration := floatParam(params, "duration_hours", 1)
	workspaceType := stringParam(params, "type", "premium")

	return map[string]any{
		"workspace_id":   "WS-" + uuid.NewString()[:8],
		"type":           workspaceType,
		"duration_hours": duration,
		"price_per_hour": 25.0,
		"total_price":    25.0 * duration,
		"location":       "Downtown Tech Hub",
		"amenities":      []string{"High-speed WiFi", "Standing desk", "Coffee bar"},
	}
}

func (e *Executor) confirmBooking(params map[string]any) map[string]any {
	return map[string]any{
		"booking_id":        "BK-" + uuid.NewString()[:8],
		"workspace_id":      stringParam(params, "workspace_id", ""),
		"payment_id":        stringParam(params, "payment_id", ""),
		"status":            "confirmed",
		"confirmation_code": strings.ToUpper(uuid.NewString()[:6]),
	}
}

func (e *Executor) sendNotification(params map[string]any) map[string]any {
	return map[string]any{
		"notification_id": "NT-" + uuid.NewString()[:8],
		"recipient":       stringParam(params, "recipient", "user@example.com"),
		"message":         stringParam(params, "message", ""),
		"sent_at":         time.Now().UTC().Format(time.RFC3339),
		"delivery_status": "sent",
	}
}

func (e *Executor) gatherInformation(params map[string]any) map[string]any {
	return map[string]any{
		"query_id": "QRY-" + uuid.NewString()[:8],
		"topic":    stringParam(params, "topic", "general"),
		"sources":  3,
		"summary":  "information gathered",
	}
}

func (e *Executor) analyzeData(params map[string]any) map[string]any {
	return map[string]any{
		"analysis_id": "ANL-" + uuid.NewString()[:8],
		"subject":     stringParam(params, "subject", "dataset"),
		"confidence":  0.92,
		"verdict":     "analysis complete",
	}
}

func stringParam(params map[string]any, key, fallback string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func floatParam(params map[string]any, key string, fallback float64) float64 {
	switch v := params[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return fallback
	}
}
