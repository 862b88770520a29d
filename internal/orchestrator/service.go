// Package orchestrator runs plan steps in declared order. Later steps may
// reference earlier results through the resolver, so execution within one
// plan is strictly sequential; independent plans run concurrently against
// the shared authority and engine.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"trustgate/internal/actions"
	"trustgate/internal/message"
	"trustgate/internal/orchestrator/metrics"
	"trustgate/internal/payments"
	"trustgate/internal/plan"
	"trustgate/internal/tasks"
	dErrors "trustgate/pkg/domain-errors"
)

var tracer = otel.Tracer("trustgate/orchestrator")

// AgentID identifies the orchestrator in envelopes and audit events.
const AgentID = "orchestrator"

// PaymentEngine is the three-stage authorization engine as the orchestrator
// consumes it. Satisfied by *payments.Service.
type PaymentEngine interface {
	CreateIntent(ctx context.Context, amount float64, purpose, currency string, metadata map[string]string) (*payments.Record, error)
	Authorize(ctx context.Context, paymentID, authorizedBy, method string) (*payments.Authorization, error)
	Confirm(ctx context.Context, paymentID string) (*payments.Receipt, error)
}

// TaskRegistry records create_task steps. Satisfied by *tasks.Registry.
type TaskRegistry interface {
	Create(ctx context.Context, name string, metadata map[string]any) (*tasks.Task, error)
}

// ActionExecutor runs generic actions. Satisfied by *actions.Executor.
type ActionExecutor interface {
	Execute(ctx context.Context, name actions.Name, params map[string]any) (map[string]any, error)
}

// Service executes plans. stageTimeout bounds each engine stage of a payment
// step; expiry is surfaced as a retryable timeout, never a state change.
type Service struct {
	engine       PaymentEngine
	tasks        TaskRegistry
	actions      ActionExecutor
	stageTimeout time.Duration
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

func NewService(
	engine PaymentEngine,
	taskRegistry TaskRegistry,
	actionExecutor ActionExecutor,
	stageTimeout time.Duration,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		engine:       engine,
		tasks:        taskRegistry,
		actions:      actionExecutor,
		stageTimeout: stageTimeout,
		logger:       logger,
		metrics:      m,
	}
}

// Execute runs the plan's steps in declared order, fail-fast. The returned
// result always carries every execution recorded so far, including the
// failing one. Cancellation stops issuing new steps; already-completed
// payments stay completed.
func (s *Service) Execute(ctx context.Context, p Plan) (*PlanResult, error) {
	ctx, span := tracer.Start(ctx, "orchestrator.Execute",
		trace.WithAttributes(attribute.Int("steps", len(p.Steps))))
	defer span.End()

	if p.PlanID == "" {
		p.PlanID = "PLAN-" + uuid.NewString()[:8]
	}
	start := time.Now()
	result := &PlanResult{PlanID: p.PlanID, Goal: p.Goal}
	execCtx := plan.ExecutionContext{}

	for _, step := range p.Steps {
		if err := ctx.Err(); err != nil {
			s.metrics.IncrementPlan("cancelled")
			return result, dErrors.Wrap(dErrors.CodeConflict, "plan cancelled, remaining steps not issued", err)
		}

		execution := s.runStep(ctx, step, execCtx)
		result.Executions = append(result.Executions, execution)
		s.metrics.IncrementStep(step.Action, string(execution.Status))

		if execution.Status == ExecutionFailed {
			s.metrics.IncrementPlan("failed")
			s.metrics.ObservePlanDuration(time.Since(start).Seconds())
			s.logger.WarnContext(ctx, "plan halted on step failure",
				"plan_id", p.PlanID,
				"step_number", step.Number,
				"action", step.Action,
				"error", execution.Error,
			)
			return result, dErrors.New(dErrors.CodeConflict,
				fmt.Sprintf("step %d (%s) failed: %s", step.Number, step.Action, execution.Error))
		}

		execCtx[step.Number] = execution.Result
	}

	result.Completed = true
	s.metrics.IncrementPlan("completed")
	s.metrics.ObservePlanDuration(time.Since(start).Seconds())
	s.logger.InfoContext(ctx, "plan completed",
		"plan_id", p.PlanID,
		"steps", len(p.Steps),
	)
	return result, nil
}

func (s *Service) runStep(ctx context.Context, step plan.Step, execCtx plan.ExecutionContext) StepExecution {
	ctx, span := tracer.Start(ctx, "orchestrator.runStep",
		trace.WithAttributes(
			attribute.Int("step_number", step.Number),
			attribute.String("action", step.Action),
		))
	defer span.End()

	execution := StepExecution{
		ExecutionID: "EXEC-" + uuid.NewString()[:8],
		StepNumber:  step.Number,
		Action:      step.Action,
		Status:      ExecutionRunning,
		StartedAt:   time.Now().UTC(),
	}

	resolved := plan.Resolve(step.Parameters, execCtx)
	result, err := s.dispatch(ctx, step.Action, resolved)

	now := time.Now().UTC()
	execution.CompletedAt = &now
	if err != nil {
		execution.Status = ExecutionFailed
		execution.Error = err.Error()
		return execution
	}
	execution.Status = ExecutionCompleted
	execution.Result = result
	return execution
}

func (s *Service) dispatch(ctx context.Context, action string, params map[string]any) (map[string]any, error) {
	kind, name, err := ParseAction(action)
	if err != nil {
		return nil, err
	}
	switch kind {
	case ActionCreateTask:
		return s.createTask(ctx, params)
	case ActionRequestPayment:
		return s.runPaymentFlow(ctx, params)
	default:
		return s.actions.Execute(ctx, name, params)
	}
}

func (s *Service) createTask(ctx context.Context, params map[string]any) (map[string]any, error) {
	name, _ := params["task_name"].(string)
	metadata := make(map[string]any, len(params))
	for k, v := range params {
		if k != "task_name" {
			metadata[k] = v
		}
	}

	task, err := s.tasks.Create(ctx, name, metadata)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"success":    true,
		"task_id":    task.TaskID,
		"task_name":  task.Name,
		"status":     string(task.Status),
		"created_at": task.CreatedAt.Format(time.RFC3339),
	}, nil
}

// runPaymentFlow drives the full create → authorize → confirm sequence. Any
// stage failure is the step's failure; there is no partial success. Each
// stage gets its own deadline so a wedged backend turns into a timeout
// instead of an unbounded wait.
func (s *Service) runPaymentFlow(ctx context.Context, params map[string]any) (map[string]any, error) {
	amount, ok := params["amount"].(float64)
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidAmount, "payment step requires a numeric amount")
	}
	purpose, _ := params["purpose"].(string)
	currency, _ := params["currency"].(string)

	record, err := runStage(ctx, s.stageTimeout, "create", func(ctx context.Context) (*payments.Record, error) {
		return s.engine.CreateIntent(ctx, amount, purpose, currency, stringMetadata(params["metadata"]))
	})
	if err != nil {
		return nil, err
	}

	auth, err := runStage(ctx, s.stageTimeout, "authorize", func(ctx context.Context) (*payments.Authorization, error) {
		return s.engine.Authorize(ctx, record.PaymentID, AgentID, "agent_signature")
	})
	if err != nil {
		return nil, err
	}

	receipt, err := runStage(ctx, s.stageTimeout, "confirm", func(ctx context.Context) (*payments.Receipt, error) {
		return s.engine.Confirm(ctx, record.PaymentID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "payment flow completed",
		"payment_id", record.PaymentID,
		"transaction_id", receipt.TransactionID,
	)
	return map[string]any{
		"success":           true,
		"payment_id":        record.PaymentID,
		"auth_id":           auth.AuthID,
		"receipt_id":        receipt.ReceiptID,
		"transaction_id":    receipt.TransactionID,
		"amount":            receipt.Amount,
		"currency":          receipt.Currency,
		"status":            string(receipt.Status),
		"confirmation_code": receipt.ConfirmationCode,
	}, nil
}

// HandleMessage accepts a delegated plan and replies with a status update
// summarizing the run. A failed plan is still a well-formed reply; only a
// malformed envelope errors.
func (s *Service) HandleMessage(ctx context.Context, in message.Envelope) (message.Envelope, error) {
	switch in.Kind {
	case message.KindTaskDelegation:
		var p Plan
		raw, err := json.Marshal(in.Payload)
		if err == nil {
			err = json.Unmarshal(raw, &p)
		}
		if err != nil || len(p.Steps) == 0 {
			return message.Envelope{}, dErrors.New(dErrors.CodeBadRequest, "task delegation carries no steps")
		}

		result, execErr := s.Execute(ctx, p)
		payload := map[string]any{
			"plan_id":   result.PlanID,
			"completed": result.Completed,
			"steps_run": len(result.Executions),
		}
		if execErr != nil {
			payload["error"] = execErr.Error()
		}
		return message.Reply(in, message.KindStatusUpdate, AgentID, payload), nil

	default:
		return message.Envelope{}, dErrors.New(dErrors.CodeBadRequest,
			fmt.Sprintf("orchestrator cannot handle message kind %q", in.Kind))
	}
}

// runStage bounds one engine call. Deadline expiry comes back as a retryable
// timeout; the engine's durable state is whatever it had committed.
func runStage[T any](ctx context.Context, timeout time.Duration, stage string, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	v, err := fn(ctx)
	if err != nil {
		var zero T
		if errors.Is(err, context.DeadlineExceeded) {
			return zero, dErrors.Wrap(dErrors.CodeTimeout, stage+" stage timed out", err)
		}
		return zero, err
	}
	return v, nil
}

func stringMetadata(v any) map[string]string {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, val := range raw {
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	return out
}
