// Package authority owns per-principal verification state. It is the only
// component that ever sees identity fields; everything it exposes is the
// derived verification state and a signed credential.
package authority

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/argon2"

	"trustgate/internal/audit"
	"trustgate/internal/authority/metrics"
	"trustgate/internal/message"
	dErrors "trustgate/pkg/domain-errors"
	"trustgate/pkg/platform/keylock"
	"trustgate/pkg/platform/sentinel"
)

// AgentID identifies the authority in envelopes and audit events.
const AgentID = "authority"

// Service is the verification authority. State mutation for one principal is
// serialized through the keyed lock; distinct principals proceed in parallel.
type Service struct {
	states     StateStore
	identities IdentityStore
	policy     Policy
	issuer     *CredentialIssuer
	audit      *audit.Publisher
	logger     *slog.Logger
	metrics    *metrics.Metrics
	salt       []byte
	locks      *keylock.KeyLock
}

func NewService(
	states StateStore,
	identities IdentityStore,
	policy Policy,
	issuer *CredentialIssuer,
	auditPublisher *audit.Publisher,
	logger *slog.Logger,
	m *metrics.Metrics,
	identitySalt string,
) *Service {
	if policy == nil {
		policy = DefaultPolicy{}
	}
	return &Service{
		states:     states,
		identities: identities,
		policy:     policy,
		issuer:     issuer,
		audit:      auditPublisher,
		logger:     logger,
		metrics:    m,
		salt:       []byte(identitySalt),
		locks:      keylock.New(),
	}
}

// Submit processes an identity submission and replaces the principal's
// verification state. Valid resubmission is idempotent: the verification id
// is derived from the principal id, so one principal never accumulates
// duplicate active ids.
func (s *Service) Submit(ctx context.Context, principalID string, fields map[string]string) (*SubmissionResult, error) {
	if principalID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "principal id is required")
	}

	unlock := s.locks.Lock(principalID)
	defer unlock()

	if missing := missingFields(fields); len(missing) > 0 {
		rejected := State{
			PrincipalID:  principalID,
			Status:       StatusRejected,
			Capabilities: []Capability{},
			RiskTier:     RiskTierMedium,
		}
		if err := s.states.Save(ctx, rejected); err != nil {
			return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to save verification state", err)
		}
		s.metrics.IncrementSubmission(string(StatusRejected))
		s.emitAudit(ctx, principalID, "kyc_submission", string(StatusRejected), "missing required fields")
		return &SubmissionResult{Status: StatusRejected, Reason: "identity verification failed"},
			dErrors.New(dErrors.CodeIncompleteIdentity, "missing required fields: "+strings.Join(missing, ", "))
	}

	verificationID := deriveVerificationID(principalID)
	now := time.Now().UTC()

	record := IdentityRecord{
		PrincipalID:  principalID,
		IdentityHash: s.hashIdentity(fields),
		SubmittedAt:  now,
	}
	if err := s.identities.Save(ctx, record); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to save identity record", err)
	}

	capabilities, riskTier, flags := s.policy.Grants(principalID, fields)
	state := State{
		PrincipalID:     principalID,
		Status:          StatusVerified,
		VerificationID:  verificationID,
		VerifiedAt:      &now,
		Capabilities:    capabilities,
		RiskTier:        riskTier,
		ComplianceFlags: flags,
	}
	if err := s.states.Save(ctx, state); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to save verification state", err)
	}

	credential, err := s.issuer.Issue(state)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to issue credential", err)
	}

	s.metrics.IncrementSubmission(string(StatusVerified))
	s.emitAudit(ctx, principalID, "kyc_submission", string(StatusVerified), "")
	s.logger.InfoContext(ctx, "identity verified",
		"principal_id", principalID,
		"verification_id", verificationID,
	)

	return &SubmissionResult{
		Status:         StatusVerified,
		VerificationID: verificationID,
		VerifiedAt:     &now,
		Credential:     credential,
	}, nil
}

// QueryState returns the capability view for a principal. It never fails for
// an unknown principal: callers get a synthesized not_verified state. The
// returned value carries no identity data.
func (s *Service) QueryState(ctx context.Context, principalID string) (State, error) {
	state, err := s.states.FindByPrincipal(ctx, principalID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncrementStateQuery(false)
			return DefaultState(principalID), nil
		}
		return State{}, dErrors.Wrap(dErrors.CodeInternal, "failed to load verification state", err)
	}
	s.metrics.IncrementStateQuery(true)
	return state, nil
}

// HandleMessage dispatches an inbound envelope onto the two operations.
// Unknown kinds are a caller contract violation, not an expected condition.
func (s *Service) HandleMessage(ctx context.Context, in message.Envelope) (message.Envelope, error) {
	switch in.Kind {
	case message.KindSubmission:
		principalID, _ := in.Payload["principal_id"].(string)
		fields := make(map[string]string)
		if raw, ok := in.Payload["identity_fields"].(map[string]any); ok {
			for k, v := range raw {
				if str, ok := v.(string); ok {
					fields[k] = str
				}
			}
		}
		result, err := s.Submit(ctx, principalID, fields)
		if err != nil && result == nil {
			return message.Envelope{}, err
		}
		payload := map[string]any{"verification_status": string(result.Status)}
		if result.VerificationID != "" {
			payload["verification_id"] = result.VerificationID
		}
		if result.Reason != "" {
			payload["reason"] = result.Reason
		}
		if result.Credential != "" {
			payload["credential"] = result.Credential
		}
		return message.Reply(in, message.KindVerificationResponse, AgentID, payload), nil

	case message.KindStateRequest:
		principalID, _ := in.Payload["principal_id"].(string)
		state, err := s.QueryState(ctx, principalID)
		if err != nil {
			return message.Envelope{}, err
		}
		return message.Reply(in, message.KindStateResponse, AgentID, map[string]any{
			"verification_state": state,
		}), nil

	default:
		return message.Envelope{}, dErrors.New(dErrors.CodeBadRequest,
			fmt.Sprintf("authority cannot handle message kind %q", in.Kind))
	}
}

// deriveVerificationID is deterministic per principal so resubmission never
// mints a second active id.
func deriveVerificationID(principalID string) string {
	sum := sha256.Sum256([]byte(principalID))
	return "KYC-" + strings.ToUpper(hex.EncodeToString(sum[:]))[:12]
}

// hashIdentity produces the salted digest stored in the identity record.
// json.Marshal sorts map keys, so equal submissions hash equally.
func (s *Service) hashIdentity(fields map[string]string) string {
	payload, _ := json.Marshal(fields)
	digest := argon2.IDKey(payload, s.salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(digest)
}

func (s *Service) emitAudit(ctx context.Context, principalID, action, decision, reason string) {
	if s.audit == nil {
		return
	}
	err := s.audit.Emit(ctx, audit.Event{
		PrincipalID: principalID,
		Subject:     principalID,
		Action:      action,
		Party:       AgentID,
		Decision:    decision,
		Reason:      reason,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", action, "error", err)
	}
}
