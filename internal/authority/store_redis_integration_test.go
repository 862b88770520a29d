//go:build integration

package authority_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"trustgate/internal/authority"
	"trustgate/pkg/platform/sentinel"
	"trustgate/pkg/testutil/containers"
)

type RedisStateStoreSuite struct {
	suite.Suite
	store *authority.RedisStateStore
}

func TestRedisStateStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStateStoreSuite))
}

func (s *RedisStateStoreSuite) SetupSuite() {
	client := containers.NewRedisClient(s.T())
	s.store = authority.NewRedisStateStore(client)
}

func (s *RedisStateStoreSuite) TestSaveAndFind() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	state := authority.State{
		PrincipalID:     "INV-REDIS-1",
		Status:          authority.StatusVerified,
		VerificationID:  "KYC-0123456789AB",
		VerifiedAt:      &now,
		Capabilities:    []authority.Capability{authority.CapabilityInvest},
		RiskTier:        authority.RiskTierLow,
		ComplianceFlags: []string{"aml_cleared"},
	}

	s.Require().NoError(s.store.Save(ctx, state))

	found, err := s.store.FindByPrincipal(ctx, "INV-REDIS-1")
	s.Require().NoError(err)
	s.Equal(state.Status, found.Status)
	s.Equal(state.VerificationID, found.VerificationID)
	s.Equal(state.Capabilities, found.Capabilities)
}

func (s *RedisStateStoreSuite) TestFindMissingReturnsNotFound() {
	_, err := s.store.FindByPrincipal(context.Background(), "INV-REDIS-MISSING")
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *RedisStateStoreSuite) TestSaveReplacesState() {
	ctx := context.Background()
	rejected := authority.State{
		PrincipalID:  "INV-REDIS-2",
		Status:       authority.StatusRejected,
		Capabilities: []authority.Capability{},
		RiskTier:     authority.RiskTierMedium,
	}
	s.Require().NoError(s.store.Save(ctx, rejected))

	now := time.Now().UTC()
	verified := rejected
	verified.Status = authority.StatusVerified
	verified.VerificationID = "KYC-FEDCBA987654"
	verified.VerifiedAt = &now
	verified.Capabilities = []authority.Capability{authority.CapabilityInvest}
	s.Require().NoError(s.store.Save(ctx, verified))

	found, err := s.store.FindByPrincipal(ctx, "INV-REDIS-2")
	s.Require().NoError(err)
	s.Equal(authority.StatusVerified, found.Status)
}
