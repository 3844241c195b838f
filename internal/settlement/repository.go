package settlement

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Filter narrows settlement listings; nil fields match everything
type Filter struct {
	SellerID *string
	Year     *int
	Month    *int
	Status   *Status
}

// Repository persists settlements and their line items
type Repository interface {
	// Create inserts a settlement with its line items in one transaction
	Create(ctx context.Context, settlement *Settlement) error
	GetByID(ctx context.Context, id string) (*Settlement, error)
	// GetBySellerPeriod returns the non-archived settlement for the
	// period, or nil
	GetBySellerPeriod(ctx context.Context, sellerID string, year, month int) (*Settlement, error)
	List(ctx context.Context, filter Filter) ([]*Settlement, error)
	// Update rewrites the settlement's mutable fields
	Update(ctx context.Context, settlement *Settlement) error
	// ReplaceLineItems deletes the settlement's line items and inserts the
	// given ones, together with the settlement update, in one transaction
	ReplaceLineItems(ctx context.Context, settlement *Settlement) error
}

// PostgresRepository is the Postgres-backed settlement store
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new settlement repository
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const settlementColumns = `id, seller_id, year, month, gross_sales, total_refunds, net_sales, total_commission, previous_month_adjustments, net_payable, order_count, status, version, audit_notes, generated_at, regenerated_at, finalized_at, exported_at`

const lineItemColumns = `id, settlement_id, order_id, order_number, order_date, gross_amount, refund_amount, net_amount, commission_amount, is_adjustment`

// Create inserts a settlement with its line items in one transaction
func (r *PostgresRepository) Create(ctx context.Context, settlement *Settlement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO settlements (` + settlementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	if _, err := tx.ExecContext(ctx, query, settlementArgs(settlement)...); err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	if err := insertLineItems(ctx, tx, settlement.LineItems); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settlement: %w", err)
	}

	return nil
}

// GetByID retrieves a settlement with its line items
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE id = $1`

	settlement, err := scanSettlement(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	if err := r.loadLineItems(ctx, settlement); err != nil {
		return nil, err
	}
	return settlement, nil
}

// GetBySellerPeriod retrieves the non-archived settlement for a period
func (r *PostgresRepository) GetBySellerPeriod(ctx context.Context, sellerID string, year, month int) (*Settlement, error) {
	query := `
		SELECT ` + settlementColumns + `
		FROM settlements
		WHERE seller_id = $1 AND year = $2 AND month = $3 AND status != $4
	`

	settlement, err := scanSettlement(r.db.QueryRowContext(ctx, query, sellerID, year, month, StatusArchived))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	if err := r.loadLineItems(ctx, settlement); err != nil {
		return nil, err
	}
	return settlement, nil
}

// List retrieves settlements matching the filter, without line items
func (r *PostgresRepository) List(ctx context.Context, filter Filter) ([]*Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE 1=1`
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.SellerID != nil {
		query += ` AND seller_id = ` + arg(*filter.SellerID)
	}
	if filter.Year != nil {
		query += ` AND year = ` + arg(*filter.Year)
	}
	if filter.Month != nil {
		query += ` AND month = ` + arg(*filter.Month)
	}
	if filter.Status != nil {
		query += ` AND status = ` + arg(*filter.Status)
	}
	query += ` ORDER BY year DESC, month DESC, seller_id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*Settlement
	for rows.Next() {
		settlement, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}
	return settlements, rows.Err()
}

// Update rewrites the settlement's mutable fields
func (r *PostgresRepository) Update(ctx context.Context, settlement *Settlement) error {
	if _, err := r.db.ExecContext(ctx, updateQuery, updateArgs(settlement)...); err != nil {
		return fmt.Errorf("failed to update settlement: %w", err)
	}
	return nil
}

// ReplaceLineItems rewrites the settlement and swaps its line items atomically
func (r *PostgresRepository) ReplaceLineItems(ctx context.Context, settlement *Settlement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM settlement_line_items WHERE settlement_id = $1`, settlement.ID); err != nil {
		return fmt.Errorf("failed to delete line items: %w", err)
	}
	if err := insertLineItems(ctx, tx, settlement.LineItems); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, updateQuery, updateArgs(settlement)...); err != nil {
		return fmt.Errorf("failed to update settlement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settlement regeneration: %w", err)
	}

	return nil
}

const updateQuery = `
	UPDATE settlements
	SET gross_sales = $2,
	    total_refunds = $3,
	    net_sales = $4,
	    total_commission = $5,
	    previous_month_adjustments = $6,
	    net_payable = $7,
	    order_count = $8,
	    status = $9,
	    version = $10,
	    audit_notes = $11,
	    regenerated_at = $12,
	    finalized_at = $13,
	    exported_at = $14
	WHERE id = $1
`

func updateArgs(s *Settlement) []interface{} {
	return []interface{}{
		s.ID,
		s.GrossSales,
		s.TotalRefunds,
		s.NetSales,
		s.TotalCommission,
		s.PreviousMonthAdjustments,
		s.NetPayable,
		s.OrderCount,
		s.Status,
		s.Version,
		s.AuditNotes,
		nullTime(s.RegeneratedAt),
		nullTime(s.FinalizedAt),
		nullTime(s.ExportedAt),
	}
}

func settlementArgs(s *Settlement) []interface{} {
	return []interface{}{
		s.ID,
		s.SellerID,
		s.Year,
		s.Month,
		s.GrossSales,
		s.TotalRefunds,
		s.NetSales,
		s.TotalCommission,
		s.PreviousMonthAdjustments,
		s.NetPayable,
		s.OrderCount,
		s.Status,
		s.Version,
		s.AuditNotes,
		s.GeneratedAt,
		nullTime(s.RegeneratedAt),
		nullTime(s.FinalizedAt),
		nullTime(s.ExportedAt),
	}
}

func insertLineItems(ctx context.Context, tx *sql.Tx, items []*LineItem) error {
	query := `
		INSERT INTO settlement_line_items (` + lineItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	for _, item := range items {
		if _, err := tx.ExecContext(ctx, query,
			item.ID,
			item.SettlementID,
			item.OrderID,
			item.OrderNumber,
			item.OrderDate,
			item.GrossAmount,
			item.RefundAmount,
			item.NetAmount,
			item.CommissionAmount,
			item.IsAdjustment,
		); err != nil {
			return fmt.Errorf("failed to insert line item: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) loadLineItems(ctx context.Context, settlement *Settlement) error {
	query := `SELECT ` + lineItemColumns + ` FROM settlement_line_items WHERE settlement_id = $1 ORDER BY is_adjustment, order_date`

	rows, err := r.db.QueryContext(ctx, query, settlement.ID)
	if err != nil {
		return fmt.Errorf("failed to get line items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item := &LineItem{}
		if err := rows.Scan(
			&item.ID,
			&item.SettlementID,
			&item.OrderID,
			&item.OrderNumber,
			&item.OrderDate,
			&item.GrossAmount,
			&item.RefundAmount,
			&item.NetAmount,
			&item.CommissionAmount,
			&item.IsAdjustment,
		); err != nil {
			return fmt.Errorf("failed to scan line item: %w", err)
		}
		settlement.LineItems = append(settlement.LineItems, item)
	}
	return rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSettlement(s scanner) (*Settlement, error) {
	settlement := &Settlement{}
	var regeneratedAt, finalizedAt, exportedAt sql.NullTime

	if err := s.Scan(
		&settlement.ID,
		&settlement.SellerID,
		&settlement.Year,
		&settlement.Month,
		&settlement.GrossSales,
		&settlement.TotalRefunds,
		&settlement.NetSales,
		&settlement.TotalCommission,
		&settlement.PreviousMonthAdjustments,
		&settlement.NetPayable,
		&settlement.OrderCount,
		&settlement.Status,
		&settlement.Version,
		&settlement.AuditNotes,
		&settlement.GeneratedAt,
		&regeneratedAt,
		&finalizedAt,
		&exportedAt,
	); err != nil {
		return nil, err
	}

	settlement.RegeneratedAt = timePtr(regeneratedAt)
	settlement.FinalizedAt = timePtr(finalizedAt)
	settlement.ExportedAt = timePtr(exportedAt)
	return settlement, nil
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
