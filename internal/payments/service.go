// Package payments is the staged authorization engine: a payment moves
// through create → authorize → confirm as three separate operations so a
// risk veto can land before any irreversible effect, mirroring
// authorization-hold → capture flows.
package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"trustgate/internal/payments/metrics"
	dErrors "trustgate/pkg/domain-errors"
	"trustgate/pkg/platform/keylock"
	"trustgate/pkg/platform/sentinel"
)

var tracer = otel.Tracer("trustgate/payments")

// Service drives payment records through the stage machine. Transitions for
// one payment are serialized through the keyed lock; distinct payments
// proceed in parallel.
type Service struct {
	store     Store
	scorer    RiskScorer
	threshold float64
	logger    *slog.Logger
	metrics   *metrics.Metrics
	locks     *keylock.KeyLock
}

func NewService(store Store, scorer RiskScorer, logger *slog.Logger, m *metrics.Metrics) *Service {
	if scorer == nil {
		scorer = AmountScorer{}
	}
	return &Service{
		store:     store,
		scorer:    scorer,
		threshold: DefaultRiskThreshold,
		logger:    logger,
		metrics:   m,
		locks:     keylock.New(),
	}
}

// CreateIntent declares a payment. Not idempotent: every call mints a new
// payment id, so callers must not blindly retry it after a timeout.
func (s *Service) CreateIntent(ctx context.Context, amount float64, purpose, currency string, metadata map[string]string) (*Record, error) {
	ctx, span := tracer.Start(ctx, "payments.CreateIntent")
	defer span.End()

	if amount < 0 {
		s.metrics.IncrementStage("create", "invalid")
		return nil, dErrors.New(dErrors.CodeInvalidAmount, "amount must not be negative")
	}
	if currency == "" {
		currency = "USD"
	}
	if purpose == "" {
		purpose = "Payment"
	}

	record := Record{
		PaymentID: "PAY-" + uuid.NewString(),
		Amount:    amount,
		Currency:  currency,
		Purpose:   purpose,
		Status:    StatusCreated,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Save(ctx, record); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to save payment", err)
	}

	span.SetAttributes(attribute.String("payment_id", record.PaymentID))
	s.metrics.IncrementStage("create", "ok")
	s.logger.InfoContext(ctx, "payment intent created",
		"payment_id", record.PaymentID,
		"amount", amount,
		"currency", currency,
	)
	return &record, nil
}

// Authorize risk-scores the payment and either moves it to authorized or,
// on a score above the threshold, fails it permanently. The score is
// computed once and immutable afterwards.
func (s *Service) Authorize(ctx context.Context, paymentID, authorizedBy, method string) (*Authorization, error) {
	ctx, span := tracer.Start(ctx, "payments.Authorize",
		trace.WithAttributes(attribute.String("payment_id", paymentID)))
	defer span.End()

	unlock := s.locks.Lock(paymentID)
	defer unlock()

	record, err := s.findRecord(ctx, paymentID)
	if err != nil {
		s.metrics.IncrementStage("authorize", "unknown")
		return nil, err
	}
	if record.Status != StatusCreated {
		s.metrics.IncrementStage("authorize", "sequence_violation")
		return nil, dErrors.New(dErrors.CodeNotAuthorized,
			fmt.Sprintf("payment cannot be authorized from status %q", record.Status))
	}

	score := s.scorer.Score(record)
	s.metrics.ObserveRiskScore(score)
	span.SetAttributes(attribute.Float64("risk_score", score))

	if score > s.threshold {
		// One-way veto: the record fails permanently and a new intent is
		// the only remediation path.
		record.Status = StatusFailed
		record.RiskScore = &score
		if err := s.store.Save(ctx, record); err != nil {
			return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to save payment", err)
		}
		s.metrics.IncrementStage("authorize", "vetoed")
		s.metrics.IncrementRiskVeto()
		s.logger.WarnContext(ctx, "payment vetoed by risk policy",
			"payment_id", paymentID,
			"risk_score", score,
		)
		return nil, dErrors.New(dErrors.CodeHighRiskRejected,
			fmt.Sprintf("payment blocked due to high risk score %.2f", score))
	}

	now := time.Now().UTC()
	record.Status = StatusAuthorized
	record.RiskScore = &score
	record.AuthID = "AUTH-" + uuid.NewString()
	record.AuthorizedBy = authorizedBy
	record.AuthMethod = method
	record.AuthorizedAt = &now
	if err := s.store.Save(ctx, record); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to save payment", err)
	}

	s.metrics.IncrementStage("authorize", "ok")
	s.logger.InfoContext(ctx, "payment authorized",
		"payment_id", paymentID,
		"auth_id", record.AuthID,
		"risk_score", score,
	)
	return &Authorization{
		PaymentID:    paymentID,
		AuthID:       record.AuthID,
		RiskScore:    score,
		AuthorizedAt: now,
		Status:       StatusAuthorized,
	}, nil
}

// Confirm completes an authorized payment and issues its receipt. The
// authorized → processing → completed walk commits as a single store write
// under the per-payment lock, so callers observe it as atomic and a store
// failure never strands a half-completed record. Confirming anything other
// than an authorized payment is rejected, which also blocks double
// confirmation.
func (s *Service) Confirm(ctx context.Context, paymentID string) (*Receipt, error) {
	ctx, span := tracer.Start(ctx, "payments.Confirm",
		trace.WithAttributes(attribute.String("payment_id", paymentID)))
	defer span.End()

	unlock := s.locks.Lock(paymentID)
	defer unlock()

	record, err := s.findRecord(ctx, paymentID)
	if err != nil {
		s.metrics.IncrementStage("confirm", "unknown")
		return nil, err
	}
	if record.Status != StatusAuthorized {
		s.metrics.IncrementStage("confirm", "sequence_violation")
		return nil, dErrors.New(dErrors.CodeNotAuthorized,
			fmt.Sprintf("payment not authorized, current status %q", record.Status))
	}

	now := time.Now().UTC()
	receipt := Receipt{
		ReceiptID:        "RCP-" + uuid.NewString(),
		PaymentID:        paymentID,
		TransactionID:    "TXN-" + uuid.NewString(),
		Amount:           record.Amount,
		Currency:         record.Currency,
		Status:           StatusCompleted,
		CompletedAt:      now,
		ConfirmationCode: strings.ToUpper(uuid.NewString()[:8]),
	}

	// Receipt and final record land in one store write. A failed completion
	// leaves the payment authorized with no receipt, so Confirm stays
	// retryable and a completed record always has its receipt.
	record.Status = StatusCompleted
	record.CompletedAt = &now
	if err := s.store.Complete(ctx, record, receipt); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to complete payment", err)
	}

	s.metrics.IncrementStage("confirm", "ok")
	s.logger.InfoContext(ctx, "payment completed",
		"payment_id", paymentID,
		"transaction_id", receipt.TransactionID,
	)
	return &receipt, nil
}

// Cancel aborts a payment from any non-terminal state.
func (s *Service) Cancel(ctx context.Context, paymentID string) (*Record, error) {
	unlock := s.locks.Lock(paymentID)
	defer unlock()

	record, err := s.findRecord(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if record.Status.Terminal() {
		return nil, dErrors.New(dErrors.CodeNotAuthorized,
			fmt.Sprintf("payment in terminal status %q cannot be cancelled", record.Status))
	}

	record.Status = StatusCancelled
	if err := s.store.Save(ctx, record); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to save payment", err)
	}
	s.metrics.IncrementStage("cancel", "ok")
	return &record, nil
}

// Status returns the current record for a payment.
func (s *Service) Status(ctx context.Context, paymentID string) (*Record, error) {
	record, err := s.findRecord(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Service) findRecord(ctx context.Context, paymentID string) (Record, error) {
	record, err := s.store.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Record{}, dErrors.New(dErrors.CodeUnknownPayment, "payment intent not found: "+paymentID)
		}
		return Record{}, dErrors.Wrap(dErrors.CodeInternal, "failed to load payment", err)
	}
	return record, nil
}
