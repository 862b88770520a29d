//go:build integration

package payments_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"trustgate/internal/payments"
	"trustgate/pkg/platform/sentinel"
	"trustgate/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	store *payments.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	db := containers.NewPostgresDB(s.T())
	s.store = payments.NewPostgres(db)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) TestSaveAndFind() {
	ctx := context.Background()
	record := payments.Record{
		PaymentID: "PAY-pg-1",
		Amount:    50,
		Currency:  "USD",
		Purpose:   "booking",
		Status:    payments.StatusCreated,
		Metadata:  map[string]string{"workspace_id": "WS-123"},
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	s.Require().NoError(s.store.Save(ctx, record))

	found, err := s.store.FindByID(ctx, "PAY-pg-1")
	s.Require().NoError(err)
	s.Equal(record.PaymentID, found.PaymentID)
	s.Equal(record.Amount, found.Amount)
	s.Equal(payments.StatusCreated, found.Status)
	s.Equal("WS-123", found.Metadata["workspace_id"])
	s.Nil(found.RiskScore)
	s.Empty(found.AuthID)
	s.Nil(found.AuthorizedAt)
}

func (s *PostgresStoreSuite) TestFindMissingReturnsNotFound() {
	_, err := s.store.FindByID(context.Background(), "PAY-pg-missing")
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *PostgresStoreSuite) TestSaveUpsertsTransition() {
	ctx := context.Background()
	created := payments.Record{
		PaymentID: "PAY-pg-2",
		Amount:    200,
		Currency:  "USD",
		Purpose:   "investment",
		Status:    payments.StatusCreated,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	s.Require().NoError(s.store.Save(ctx, created))

	score := 0.3
	now := time.Now().UTC().Truncate(time.Microsecond)
	authorized := created
	authorized.Status = payments.StatusAuthorized
	authorized.RiskScore = &score
	authorized.AuthID = "AUTH-pg-2"
	authorized.AuthorizedBy = "orchestrator"
	authorized.AuthMethod = "agent_signature"
	authorized.AuthorizedAt = &now
	s.Require().NoError(s.store.Save(ctx, authorized))

	found, err := s.store.FindByID(ctx, "PAY-pg-2")
	s.Require().NoError(err)
	s.Equal(payments.StatusAuthorized, found.Status)
	s.Require().NotNil(found.RiskScore)
	s.Equal(0.3, *found.RiskScore)
	s.Equal("AUTH-pg-2", found.AuthID)
	s.Require().NotNil(found.AuthorizedAt)
	s.True(found.AuthorizedAt.Equal(now))
}

func (s *PostgresStoreSuite) TestCompleteWritesRecordAndReceiptTogether() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	record := payments.Record{
		PaymentID: "PAY-pg-3",
		Amount:    75,
		Currency:  "USD",
		Purpose:   "booking",
		Status:    payments.StatusAuthorized,
		CreatedAt: now,
	}
	s.Require().NoError(s.store.Save(ctx, record))

	record.Status = payments.StatusCompleted
	record.CompletedAt = &now
	receipt := payments.Receipt{
		ReceiptID:        "RCP-pg-3",
		PaymentID:        "PAY-pg-3",
		TransactionID:    "TXN-pg-3",
		Amount:           75,
		Currency:         "USD",
		Status:           payments.StatusCompleted,
		CompletedAt:      now,
		ConfirmationCode: "ABCD1234",
	}
	s.Require().NoError(s.store.Complete(ctx, record, receipt))

	foundRecord, err := s.store.FindByID(ctx, "PAY-pg-3")
	s.Require().NoError(err)
	s.Equal(payments.StatusCompleted, foundRecord.Status)
	s.Require().NotNil(foundRecord.CompletedAt)
	s.True(foundRecord.CompletedAt.Equal(now))

	found, err := s.store.FindReceiptByPayment(ctx, "PAY-pg-3")
	s.Require().NoError(err)
	s.Equal(receipt.ReceiptID, found.ReceiptID)
	s.Equal(receipt.TransactionID, found.TransactionID)
	s.Equal(receipt.ConfirmationCode, found.ConfirmationCode)

	_, err = s.store.FindReceiptByPayment(ctx, "PAY-pg-missing")
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

// A second Complete for the same payment must not mint a second receipt row;
// the primary key rejects it and the transaction rolls back.
func (s *PostgresStoreSuite) TestCompleteRejectsDuplicateReceipt() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	record := payments.Record{
		PaymentID:   "PAY-pg-4",
		Amount:      20,
		Currency:    "USD",
		Purpose:     "booking",
		Status:      payments.StatusCompleted,
		CreatedAt:   now,
		CompletedAt: &now,
	}
	receipt := payments.Receipt{
		ReceiptID:        "RCP-pg-4",
		PaymentID:        "PAY-pg-4",
		TransactionID:    "TXN-pg-4",
		Amount:           20,
		Currency:         "USD",
		Status:           payments.StatusCompleted,
		CompletedAt:      now,
		ConfirmationCode: "EFGH5678",
	}
	s.Require().NoError(s.store.Save(ctx, payments.Record{
		PaymentID: "PAY-pg-4", Amount: 20, Currency: "USD", Purpose: "booking",
		Status: payments.StatusAuthorized, CreatedAt: now,
	}))
	s.Require().NoError(s.store.Complete(ctx, record, receipt))

	receipt.ReceiptID = "RCP-pg-4-dup"
	s.Error(s.store.Complete(ctx, record, receipt))

	found, err := s.store.FindReceiptByPayment(ctx, "PAY-pg-4")
	s.Require().NoError(err)
	s.Equal("RCP-pg-4", found.ReceiptID)
}
