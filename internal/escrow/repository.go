package escrow

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryUpdate pairs an entry's new state with the RefundedAmount it held
// when it was read
type EntryUpdate struct {
	Entry            *EscrowEntry
	ExpectedRefunded decimal.Decimal
}

// Repository persists escrow entries
type Repository interface {
	CreateEntries(ctx context.Context, entries []*EscrowEntry) error
	GetByOrderID(ctx context.Context, orderID string) ([]*EscrowEntry, error)
	GetByOrderAndSeller(ctx context.Context, orderID, sellerID string) (*EscrowEntry, error)
	GetBySellerID(ctx context.Context, sellerID string, status *Status) ([]*EscrowEntry, error)
	// UpdateEntries rewrites the mutable fields of each entry in one
	// transaction. Each write is guarded by the RefundedAmount read into the
	// snapshot; if any entry was refunded or closed since the read, nothing
	// is written and false is returned
	UpdateEntries(ctx context.Context, updates []EntryUpdate) (bool, error)
	// UpdateRefundFields applies a refund mutation only if the stored
	// RefundedAmount still equals expectedRefunded; returns false when a
	// concurrent refund won the race
	UpdateRefundFields(ctx context.Context, entry *EscrowEntry, expectedRefunded decimal.Decimal) (bool, error)
	// MarkPayoutEligible flags Held entries created before cutoff and
	// returns how many were flagged
	MarkPayoutEligible(ctx context.Context, cutoff time.Time) (int64, error)
}

// PostgresRepository is the Postgres-backed escrow store
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new escrow repository
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const entryColumns = `id, order_id, payment_transaction_id, seller_id, amount, refunded_amount, currency, status, is_eligible_for_payout, audit_note, created_at, last_updated_at, released_at, refunded_at`

// CreateEntries inserts all entries for one hold in a single transaction
func (r *PostgresRepository) CreateEntries(ctx context.Context, entries []*EscrowEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO escrow_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	for _, entry := range entries {
		if _, err := tx.ExecContext(ctx, query,
			entry.ID,
			entry.OrderID,
			entry.PaymentTransactionID,
			entry.SellerID,
			entry.Amount,
			entry.RefundedAmount,
			entry.Currency,
			entry.Status,
			entry.IsEligibleForPayout,
			entry.AuditNote,
			entry.CreatedAt,
			entry.LastUpdatedAt,
			nullTime(entry.ReleasedAt),
			nullTime(entry.RefundedAt),
		); err != nil {
			return fmt.Errorf("failed to insert escrow entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit escrow entries: %w", err)
	}

	return nil
}

// GetByOrderID retrieves all entries for an order
func (r *PostgresRepository) GetByOrderID(ctx context.Context, orderID string) ([]*EscrowEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM escrow_entries WHERE order_id = $1 ORDER BY seller_id`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get escrow entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// GetByOrderAndSeller retrieves the single entry for an order/seller pair
func (r *PostgresRepository) GetByOrderAndSeller(ctx context.Context, orderID, sellerID string) (*EscrowEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM escrow_entries WHERE order_id = $1 AND seller_id = $2`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, orderID, sellerID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get escrow entry: %w", err)
	}

	return entry, nil
}

// GetBySellerID retrieves a seller's entries, optionally filtered by status
func (r *PostgresRepository) GetBySellerID(ctx context.Context, sellerID string, status *Status) ([]*EscrowEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM escrow_entries WHERE seller_id = $1`
	args := []interface{}{sellerID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get escrow entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// UpdateEntries rewrites the mutable fields of each entry in one transaction.
// Every write carries an optimistic check against the RefundedAmount that was
// read into the snapshot, plus a guard against already-closed rows, so a
// refund that committed between the read and this write aborts the batch
func (r *PostgresRepository) UpdateEntries(ctx context.Context, updates []EntryUpdate) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE escrow_entries
		SET refunded_amount = $2,
		    status = $3,
		    is_eligible_for_payout = $4,
		    audit_note = $5,
		    last_updated_at = $6,
		    released_at = $7,
		    refunded_at = $8
		WHERE id = $1 AND refunded_amount = $9 AND status NOT IN ($10, $11)
	`

	for _, update := range updates {
		entry := update.Entry
		result, err := tx.ExecContext(ctx, query,
			entry.ID,
			entry.RefundedAmount,
			entry.Status,
			entry.IsEligibleForPayout,
			entry.AuditNote,
			entry.LastUpdatedAt,
			nullTime(entry.ReleasedAt),
			nullTime(entry.RefundedAt),
			update.ExpectedRefunded,
			StatusReleased,
			StatusRefunded,
		)
		if err != nil {
			return false, fmt.Errorf("failed to update escrow entry: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, fmt.Errorf("failed to read affected rows: %w", err)
		}
		if affected == 0 {
			return false, nil
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit escrow updates: %w", err)
	}

	return true, nil
}

// UpdateRefundFields applies a refund with an optimistic check on the
// previously-read refunded amount
func (r *PostgresRepository) UpdateRefundFields(ctx context.Context, entry *EscrowEntry, expectedRefunded decimal.Decimal) (bool, error) {
	query := `
		UPDATE escrow_entries
		SET refunded_amount = $2,
		    status = $3,
		    last_updated_at = $4,
		    refunded_at = $5
		WHERE id = $1 AND refunded_amount = $6
	`

	result, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.RefundedAmount,
		entry.Status,
		entry.LastUpdatedAt,
		nullTime(entry.RefundedAt),
		expectedRefunded,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update escrow entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}

// MarkPayoutEligible flags Held entries older than the cutoff
func (r *PostgresRepository) MarkPayoutEligible(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE escrow_entries
		SET is_eligible_for_payout = TRUE, last_updated_at = NOW()
		WHERE status = $1 AND is_eligible_for_payout = FALSE AND created_at <= $2
	`

	result, err := r.db.ExecContext(ctx, query, StatusHeld, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to mark payout eligibility: %w", err)
	}

	return result.RowsAffected()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(s scanner) (*EscrowEntry, error) {
	entry := &EscrowEntry{}
	var releasedAt, refundedAt sql.NullTime

	if err := s.Scan(
		&entry.ID,
		&entry.OrderID,
		&entry.PaymentTransactionID,
		&entry.SellerID,
		&entry.Amount,
		&entry.RefundedAmount,
		&entry.Currency,
		&entry.Status,
		&entry.IsEligibleForPayout,
		&entry.AuditNote,
		&entry.CreatedAt,
		&entry.LastUpdatedAt,
		&releasedAt,
		&refundedAt,
	); err != nil {
		return nil, err
	}

	entry.ReleasedAt = timePtr(releasedAt)
	entry.RefundedAt = timePtr(refundedAt)
	return entry, nil
}

func collectEntries(rows *sql.Rows) ([]*EscrowEntry, error) {
	var entries []*EscrowEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan escrow entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	value := t.Time
	return &value
}
