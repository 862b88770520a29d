package payments

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"trustgate/pkg/platform/sentinel"
)

// PostgresStore persists the payment ledger in PostgreSQL. This store is
// pure I/O; transition rules stay in the service.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed payment store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the ledger tables when they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS payments (
			payment_id    TEXT PRIMARY KEY,
			amount        DOUBLE PRECISION NOT NULL,
			currency      TEXT NOT NULL,
			purpose       TEXT NOT NULL,
			status        TEXT NOT NULL,
			risk_score    DOUBLE PRECISION,
			metadata      JSONB,
			auth_id       TEXT,
			authorized_by TEXT,
			auth_method   TEXT,
			created_at    TIMESTAMPTZ NOT NULL,
			authorized_at TIMESTAMPTZ,
			completed_at  TIMESTAMPTZ
		);
		CREATE TABLE IF NOT EXISTS payment_receipts (
			payment_id        TEXT PRIMARY KEY REFERENCES payments(payment_id),
			receipt_id        TEXT NOT NULL,
			transaction_id    TEXT NOT NULL,
			amount            DOUBLE PRECISION NOT NULL,
			currency          TEXT NOT NULL,
			status            TEXT NOT NULL,
			completed_at      TIMESTAMPTZ NOT NULL,
			confirmation_code TEXT NOT NULL
		);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure payments schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, record Record) error {
	return upsertPayment(ctx, s.db, record)
}

// Complete writes the final record and its receipt inside one transaction.
func (s *PostgresStore) Complete(ctx context.Context, record Record, receipt Receipt) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin payment completion: %w", err)
	}
	defer tx.Rollback()

	if err := upsertPayment(ctx, tx, record); err != nil {
		return err
	}
	if err := insertReceipt(ctx, tx, receipt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit payment completion: %w", err)
	}
	return nil
}

// execer is the subset of *sql.DB and *sql.Tx the write helpers need.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertPayment(ctx context.Context, db execer, record Record) error {
	metadata, err := json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("marshal payment metadata: %w", err)
	}
	query := `
		INSERT INTO payments (payment_id, amount, currency, purpose, status, risk_score, metadata,
			auth_id, authorized_by, auth_method, created_at, authorized_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (payment_id) DO UPDATE SET
			status        = EXCLUDED.status,
			risk_score    = EXCLUDED.risk_score,
			auth_id       = EXCLUDED.auth_id,
			authorized_by = EXCLUDED.authorized_by,
			auth_method   = EXCLUDED.auth_method,
			authorized_at = EXCLUDED.authorized_at,
			completed_at  = EXCLUDED.completed_at
	`
	_, err = db.ExecContext(ctx, query,
		record.PaymentID, record.Amount, record.Currency, record.Purpose, record.Status,
		record.RiskScore, metadata, nullable(record.AuthID), nullable(record.AuthorizedBy),
		nullable(record.AuthMethod), record.CreatedAt, record.AuthorizedAt, record.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, paymentID string) (Record, error) {
	query := `
		SELECT payment_id, amount, currency, purpose, status, risk_score, metadata,
			auth_id, authorized_by, auth_method, created_at, authorized_at, completed_at
		FROM payments
		WHERE payment_id = $1
	`
	row := s.db.QueryRowContext(ctx, query, paymentID)

	var (
		record       Record
		riskScore    sql.NullFloat64
		metadata     []byte
		authID       sql.NullString
		authorizedBy sql.NullString
		authMethod   sql.NullString
		authorizedAt sql.NullTime
		completedAt  sql.NullTime
	)
	err := row.Scan(&record.PaymentID, &record.Amount, &record.Currency, &record.Purpose,
		&record.Status, &riskScore, &metadata, &authID, &authorizedBy, &authMethod,
		&record.CreatedAt, &authorizedAt, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, sentinel.ErrNotFound
		}
		return Record{}, fmt.Errorf("find payment: %w", err)
	}

	if riskScore.Valid {
		record.RiskScore = &riskScore.Float64
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &record.Metadata); err != nil {
			return Record{}, fmt.Errorf("unmarshal payment metadata: %w", err)
		}
	}
	record.AuthID = authID.String
	record.AuthorizedBy = authorizedBy.String
	record.AuthMethod = authMethod.String
	if authorizedAt.Valid {
		record.AuthorizedAt = &authorizedAt.Time
	}
	if completedAt.Valid {
		record.CompletedAt = &completedAt.Time
	}
	return record, nil
}

func insertReceipt(ctx context.Context, db execer, receipt Receipt) error {
	query := `
		INSERT INTO payment_receipts (payment_id, receipt_id, transaction_id, amount, currency,
			status, completed_at, confirmation_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := db.ExecContext(ctx, query,
		receipt.PaymentID, receipt.ReceiptID, receipt.TransactionID, receipt.Amount,
		receipt.Currency, receipt.Status, receipt.CompletedAt, receipt.ConfirmationCode,
	)
	if err != nil {
		return fmt.Errorf("save receipt: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindReceiptByPayment(ctx context.Context, paymentID string) (Receipt, error) {
	query := `
		SELECT payment_id, receipt_id, transaction_id, amount, currency, status, completed_at, confirmation_code
		FROM payment_receipts
		WHERE payment_id = $1
	`
	var receipt Receipt
	err := s.db.QueryRowContext(ctx, query, paymentID).Scan(
		&receipt.PaymentID, &receipt.ReceiptID, &receipt.TransactionID, &receipt.Amount,
		&receipt.Currency, &receipt.Status, &receipt.CompletedAt, &receipt.ConfirmationCode,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Receipt{}, sentinel.ErrNotFound
		}
		return Receipt{}, fmt.Errorf("find receipt: %w", err)
	}
	return receipt, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
