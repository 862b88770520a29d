package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"trustgate/internal/orchestrator"
	"trustgate/internal/orchestrator/handler/mocks"
	dErrors "trustgate/pkg/domain-errors"
	"trustgate/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/orchestrator-mocks.go -package=mocks Service

func newTestRouter(t *testing.T) (chi.Router, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New(mockService, logger, nil)
	r := chi.NewRouter()
	h.Register(r)
	return r, mockService
}

func TestHandleExecuteCompletedPlan(t *testing.T) {
	router, mockService := newTestRouter(t)

	mockService.EXPECT().
		Execute(gomock.Any(), gomock.Any()).
		Return(&orchestrator.PlanResult{
			PlanID:    "PLAN-1",
			Completed: true,
			Executions: []orchestrator.StepExecution{
				{ExecutionID: "EXEC-1", StepNumber: 1, Action: "send_notification", Status: orchestrator.ExecutionCompleted},
			},
		}, nil)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/plans/execute", map[string]any{
		"goal": "notify",
		"steps": []map[string]any{
			{"step_number": 1, "action": "send_notification", "parameters": map[string]any{"message": "hi"}},
		},
	})
	rr := testutil.DoRequest(router, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	resp := testutil.DecodeJSON[map[string]any](t, rr)
	assert.Equal(t, true, resp["completed"])
	assert.Equal(t, "PLAN-1", resp["plan_id"])
}

func TestHandleExecuteHaltedPlanReturnsPartialResult(t *testing.T) {
	router, mockService := newTestRouter(t)

	mockService.EXPECT().
		Execute(gomock.Any(), gomock.Any()).
		Return(&orchestrator.PlanResult{
			PlanID:    "PLAN-2",
			Completed: false,
			Executions: []orchestrator.StepExecution{
				{ExecutionID: "EXEC-1", StepNumber: 1, Action: "request_payment", Status: orchestrator.ExecutionFailed, Error: "high_risk_rejected"},
			},
		}, dErrors.New(dErrors.CodeConflict, "step 1 (request_payment) failed"))

	req := testutil.NewJSONRequest(t, http.MethodPost, "/plans/execute", map[string]any{
		"steps": []map[string]any{
			{"step_number": 1, "action": "request_payment", "parameters": map[string]any{"amount": 100.0}},
		},
	})
	rr := testutil.DoRequest(router, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	resp := testutil.DecodeJSON[map[string]any](t, rr)
	assert.Equal(t, false, resp["completed"])
	assert.Len(t, resp["executions"], 1)
}

func TestHandleExecuteEmptyPlan(t *testing.T) {
	router, _ := newTestRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/plans/execute", map[string]any{
		"goal": "nothing to do",
	})
	rr := testutil.DoRequest(router, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := testutil.DecodeJSON[map[string]string](t, rr)
	assert.Equal(t, "invalid_input", resp["error"])
}

func TestHandleExecuteMalformedBody(t *testing.T) {
	router, _ := newTestRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/plans/execute", nil)
	rr := testutil.DoRequest(router, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
