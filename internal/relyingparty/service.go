// Package relyingparty gates investment requests on the authority's
// capability view. It never sees identity data; its only inputs are the
// principal id, the requested amount, and what the authority says about
// that principal right now.
package relyingparty

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"trustgate/internal/audit"
	"trustgate/internal/authority"
	"trustgate/internal/message"
	"trustgate/internal/relyingparty/metrics"
	dErrors "trustgate/pkg/domain-errors"
)

// BlockReason is the single reason attached to every blocked transaction.
// It deliberately does not distinguish "never verified" from "verified but
// lacking the capability", so a caller learns nothing about the principal's
// standing beyond the denial itself.
const BlockReason = "kyc verification required or insufficient permissions"

// StateQuerier is the relying party's view of the authority. Satisfied by
// *authority.Service; tests substitute fakes.
type StateQuerier interface {
	QueryState(ctx context.Context, principalID string) (authority.State, error)
}

// CredentialValidator checks an authority-issued credential without a round
// trip to the authority. Satisfied by *authority.CredentialIssuer.
type CredentialValidator interface {
	Validate(token string) (*authority.CredentialClaims, error)
}

// Service evaluates investment requests. Each decision is computed fresh
// against the authority; nothing about a principal's standing is cached.
type Service struct {
	partyID     string
	authority   StateQuerier
	credentials CredentialValidator
	store       Store
	audit       *audit.Publisher
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

func NewService(
	partyID string,
	stateQuerier StateQuerier,
	credentials CredentialValidator,
	store Store,
	auditPublisher *audit.Publisher,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		partyID:     partyID,
		authority:   stateQuerier,
		credentials: credentials,
		store:       store,
		audit:       auditPublisher,
		logger:      logger,
		metrics:     m,
	}
}

// RequestAction processes an investment request. The transaction is written
// as pending_verification before the authority is consulted, so the ledger
// records every attempt even when the decision step fails.
func (s *Service) RequestAction(ctx context.Context, principalID string, amount float64) (*Transaction, error) {
	if principalID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "principal id is required")
	}

	txn, err := s.openTransaction(ctx, principalID, amount)
	if err != nil {
		return nil, err
	}

	state, err := s.authority.QueryState(ctx, principalID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to query verification state", err)
	}

	approved := state.Status == authority.StatusVerified && state.HasCapability(authority.CapabilityInvest)
	return s.decide(ctx, txn, approved)
}

// RequestWithCredential decides from a presented credential instead of a
// state query, so a principal verified elsewhere can transact here without
// the authority being reachable. An invalid or mismatched credential blocks
// the transaction rather than erroring: the request itself was well-formed.
func (s *Service) RequestWithCredential(ctx context.Context, principalID string, amount float64, credential string) (*Transaction, error) {
	if principalID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "principal id is required")
	}
	if s.credentials == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "credential validation is not configured")
	}

	txn, err := s.openTransaction(ctx, principalID, amount)
	if err != nil {
		return nil, err
	}

	approved := false
	if claims, err := s.credentials.Validate(credential); err == nil {
		approved = claims.PrincipalID == principalID && hasCapability(claims.Capabilities, authority.CapabilityInvest)
	}
	return s.decide(ctx, txn, approved)
}

// History lists the ledger entries for one principal, oldest first.
func (s *Service) History(ctx context.Context, principalID string) ([]Transaction, error) {
	txns, err := s.store.ListByPrincipal(ctx, principalID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to list transactions", err)
	}
	return txns, nil
}

// HandleMessage dispatches an inbound envelope. Investment requests may carry
// a credential; without one the authority is queried directly.
func (s *Service) HandleMessage(ctx context.Context, in message.Envelope) (message.Envelope, error) {
	switch in.Kind {
	case message.KindInvestmentRequest:
		principalID, _ := in.Payload["principal_id"].(string)
		amount, _ := in.Payload["amount"].(float64)
		credential, _ := in.Payload["credential"].(string)

		var (
			txn *Transaction
			err error
		)
		if credential != "" {
			txn, err = s.RequestWithCredential(ctx, principalID, amount, credential)
		} else {
			txn, err = s.RequestAction(ctx, principalID, amount)
		}
		if err != nil {
			return message.Envelope{}, err
		}

		payload := map[string]any{
			"transaction_id": txn.TransactionID,
			"status":         string(txn.Status),
		}
		if txn.Reason != "" {
			payload["reason"] = txn.Reason
		}
		return message.Reply(in, message.KindInvestmentResponse, s.partyID, payload), nil

	default:
		return message.Envelope{}, dErrors.New(dErrors.CodeBadRequest,
			fmt.Sprintf("relying party cannot handle message kind %q", in.Kind))
	}
}

func (s *Service) openTransaction(ctx context.Context, principalID string, amount float64) (Transaction, error) {
	txn := Transaction{
		TransactionID:  "TXN-" + uuid.NewString(),
		PrincipalID:    principalID,
		RelyingPartyID: s.partyID,
		Amount:         amount,
		Status:         StatusPendingVerification,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.Save(ctx, txn); err != nil {
		return Transaction{}, dErrors.Wrap(dErrors.CodeInternal, "failed to save transaction", err)
	}
	return txn, nil
}

func (s *Service) decide(ctx context.Context, txn Transaction, approved bool) (*Transaction, error) {
	now := time.Now().UTC()
	txn.DecidedAt = &now
	if approved {
		txn.Status = StatusCompleted
	} else {
		txn.Status = StatusBlocked
		txn.Reason = BlockReason
	}
	if err := s.store.Save(ctx, txn); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to save transaction", err)
	}

	s.metrics.IncrementDecision(string(txn.Status))
	s.emitAudit(ctx, txn)
	s.logger.InfoContext(ctx, "investment request decided",
		"transaction_id", txn.TransactionID,
		"principal_id", txn.PrincipalID,
		"status", txn.Status,
	)
	return &txn, nil
}

func (s *Service) emitAudit(ctx context.Context, txn Transaction) {
	if s.audit == nil {
		return
	}
	err := s.audit.Emit(ctx, audit.Event{
		PrincipalID: txn.PrincipalID,
		Subject:     txn.TransactionID,
		Action:      "investment_request",
		Party:       s.partyID,
		Decision:    string(txn.Status),
		Reason:      txn.Reason,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "transaction_id", txn.TransactionID, "error", err)
	}
}

func hasCapability(capabilities []string, want authority.Capability) bool {
	for _, c := range capabilities {
		if c == string(want) {
			return true
		}
	}
	return false
}
