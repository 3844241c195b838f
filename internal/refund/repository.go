package refund

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository persists refund audit records
type Repository interface {
	Create(ctx context.Context, refund *Refund) error
	Update(ctx context.Context, refund *Refund) error
	GetByID(ctx context.Context, id string) (*Refund, error)
	GetByOrderID(ctx context.Context, orderID string) ([]*Refund, error)
}

// PostgresRepository is the Postgres-backed refund store
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new refund repository
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const refundColumns = `id, order_id, payment_transaction_id, seller_id, type, amount, escrow_refunded, commission_refunded, reason, initiated_by_user_id, initiated_by_role, status, failure_message, created_at, completed_at`

// Create inserts a new refund record
func (r *PostgresRepository) Create(ctx context.Context, refund *Refund) error {
	query := `
		INSERT INTO refunds (` + refundColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.ExecContext(ctx, query,
		refund.ID,
		refund.OrderID,
		refund.PaymentTransactionID,
		nullString(refund.SellerID),
		refund.Type,
		refund.Amount,
		refund.EscrowRefunded,
		refund.CommissionRefunded,
		refund.Reason,
		refund.InitiatedByUserID,
		refund.InitiatedByRole,
		refund.Status,
		refund.FailureMessage,
		refund.CreatedAt,
		nullTime(refund.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create refund: %w", err)
	}

	return nil
}

// Update rewrites a refund's outcome fields
func (r *PostgresRepository) Update(ctx context.Context, refund *Refund) error {
	query := `
		UPDATE refunds
		SET escrow_refunded = $2,
		    commission_refunded = $3,
		    status = $4,
		    failure_message = $5,
		    completed_at = $6
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		refund.ID,
		refund.EscrowRefunded,
		refund.CommissionRefunded,
		refund.Status,
		refund.FailureMessage,
		nullTime(refund.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to update refund: %w", err)
	}

	return nil
}

// GetByID retrieves a refund by its ID
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Refund, error) {
	query := `SELECT ` + refundColumns + ` FROM refunds WHERE id = $1`

	refund, err := scanRefund(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get refund: %w", err)
	}

	return refund, nil
}

// GetByOrderID retrieves all refunds for an order
func (r *PostgresRepository) GetByOrderID(ctx context.Context, orderID string) ([]*Refund, error) {
	query := `SELECT ` + refundColumns + ` FROM refunds WHERE order_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get refunds: %w", err)
	}
	defer rows.Close()

	var refunds []*Refund
	for rows.Next() {
		refund, err := scanRefund(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan refund: %w", err)
		}
		refunds = append(refunds, refund)
	}
	return refunds, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRefund(s scanner) (*Refund, error) {
	refund := &Refund{}
	var sellerID sql.NullString
	var completedAt sql.NullTime

	if err := s.Scan(
		&refund.ID,
		&refund.OrderID,
		&refund.PaymentTransactionID,
		&sellerID,
		&refund.Type,
		&refund.Amount,
		&refund.EscrowRefunded,
		&refund.CommissionRefunded,
		&refund.Reason,
		&refund.InitiatedByUserID,
		&refund.InitiatedByRole,
		&refund.Status,
		&refund.FailureMessage,
		&refund.CreatedAt,
		&completedAt,
	); err != nil {
		return nil, err
	}

	if sellerID.Valid {
		value := sellerID.String
		refund.SellerID = &value
	}
	if completedAt.Valid {
		value := completedAt.Time
		refund.CompletedAt = &value
	}
	return refund, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
