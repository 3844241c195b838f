package commission

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RuleRepository persists commission rules
type RuleRepository interface {
	CreateRule(ctx context.Context, rule *CommissionRule) error
	GetRuleByID(ctx context.Context, id string) (*CommissionRule, error)
	ListRules(ctx context.Context, includeInactive bool) ([]*CommissionRule, error)
	SetRuleActive(ctx context.Context, id string, active bool) (bool, error)
	// GetCandidateRules returns active rules whose scope could cover the
	// seller/category pair at asOf; final ranking happens in the resolver
	GetCandidateRules(ctx context.Context, sellerID string, categoryID *string, asOf time.Time) ([]*CommissionRule, error)
}

// RecordRepository persists commission records
type RecordRepository interface {
	CreateRecords(ctx context.Context, records []*CommissionRecord) error
	GetByOrderAndSeller(ctx context.Context, orderID, sellerID string) (*CommissionRecord, error)
	GetByOrderID(ctx context.Context, orderID string) ([]*CommissionRecord, error)
	ListBySellerCalculatedBetween(ctx context.Context, sellerID string, from, to time.Time) ([]*CommissionRecord, error)
	// ListBySellerRefundAdjustedBetween returns records calculated before
	// the period whose latest refund recalculation falls inside it
	ListBySellerRefundAdjustedBetween(ctx context.Context, sellerID string, from, to time.Time) ([]*CommissionRecord, error)
	// UpdateRefundFields writes the four refund-tracking fields. The update
	// only applies when the stored RefundedAmount still equals
	// expectedRefunded; returns false when a concurrent writer got there
	// first.
	UpdateRefundFields(ctx context.Context, record *CommissionRecord, expectedRefunded decimal.Decimal) (bool, error)
}

// Repository bundles rule and record persistence behind one implementation
type Repository interface {
	RuleRepository
	RecordRepository
}

// PostgresRepository is the Postgres-backed commission store
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new commission repository
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const ruleColumns = `id, seller_id, category_id, rate, min_commission, max_commission, priority, is_active, valid_from, valid_until, created_at`

// CreateRule inserts a new commission rule
func (r *PostgresRepository) CreateRule(ctx context.Context, rule *CommissionRule) error {
	query := `
		INSERT INTO commission_rules (` + ruleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		rule.ID,
		nullString(rule.SellerID),
		nullString(rule.CategoryID),
		rule.Rate,
		nullDecimal(rule.MinCommission),
		nullDecimal(rule.MaxCommission),
		rule.Priority,
		rule.IsActive,
		rule.ValidFrom,
		nullTime(rule.ValidUntil),
		rule.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create commission rule: %w", err)
	}

	return nil
}

// GetRuleByID retrieves a rule by its ID
func (r *PostgresRepository) GetRuleByID(ctx context.Context, id string) (*CommissionRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM commission_rules WHERE id = $1`

	rule, err := scanRule(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get commission rule: %w", err)
	}

	return rule, nil
}

// ListRules retrieves all rules, optionally including inactive ones
func (r *PostgresRepository) ListRules(ctx context.Context, includeInactive bool) ([]*CommissionRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM commission_rules`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY priority DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list commission rules: %w", err)
	}
	defer rows.Close()

	return collectRules(rows)
}

// SetRuleActive flips a rule's active flag; returns false if the rule is missing
func (r *PostgresRepository) SetRuleActive(ctx context.Context, id string, active bool) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE commission_rules SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return false, fmt.Errorf("failed to update commission rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}

// GetCandidateRules fetches active, in-window rules whose scope could match
func (r *PostgresRepository) GetCandidateRules(ctx context.Context, sellerID string, categoryID *string, asOf time.Time) ([]*CommissionRule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM commission_rules
		WHERE is_active = TRUE
		  AND valid_from <= $3
		  AND (valid_until IS NULL OR valid_until >= $3)
		  AND (seller_id IS NULL OR seller_id = $1)
		  AND (category_id IS NULL OR category_id = $2)
	`

	rows, err := r.db.QueryContext(ctx, query, sellerID, nullString(categoryID), asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate rules: %w", err)
	}
	defer rows.Close()

	return collectRules(rows)
}

const recordColumns = `id, payment_transaction_id, order_id, seller_id, order_amount, commission_rate, commission_amount, refunded_amount, refunded_commission_amount, net_commission_amount, applied_rule_id, rule_description, calculated_at, last_refund_recalculated_at, created_at, last_updated_at`

// CreateRecords inserts all records for one calculation in a single transaction
func (r *PostgresRepository) CreateRecords(ctx context.Context, records []*CommissionRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO commission_records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	for _, record := range records {
		if _, err := tx.ExecContext(ctx, query,
			record.ID,
			record.PaymentTransactionID,
			record.OrderID,
			record.SellerID,
			record.OrderAmount,
			record.CommissionRate,
			record.CommissionAmount,
			record.RefundedAmount,
			record.RefundedCommissionAmount,
			record.NetCommissionAmount,
			nullString(record.AppliedRuleID),
			record.RuleDescription,
			record.CalculatedAt,
			nullTime(record.LastRefundRecalculatedAt),
			record.CreatedAt,
			record.LastUpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert commission record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit commission records: %w", err)
	}

	return nil
}

// GetByOrderAndSeller retrieves the single record for an order/seller pair
func (r *PostgresRepository) GetByOrderAndSeller(ctx context.Context, orderID, sellerID string) (*CommissionRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM commission_records WHERE order_id = $1 AND seller_id = $2`

	record, err := scanRecord(r.db.QueryRowContext(ctx, query, orderID, sellerID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get commission record: %w", err)
	}

	return record, nil
}

// GetByOrderID retrieves all records for an order
func (r *PostgresRepository) GetByOrderID(ctx context.Context, orderID string) ([]*CommissionRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM commission_records WHERE order_id = $1 ORDER BY seller_id`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get commission records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// ListBySellerCalculatedBetween retrieves a seller's records calculated in [from, to)
func (r *PostgresRepository) ListBySellerCalculatedBetween(ctx context.Context, sellerID string, from, to time.Time) ([]*CommissionRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM commission_records
		WHERE seller_id = $1 AND calculated_at >= $2 AND calculated_at < $3
		ORDER BY calculated_at
	`

	rows, err := r.db.QueryContext(ctx, query, sellerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list commission records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// ListBySellerRefundAdjustedBetween retrieves older records refund-adjusted in [from, to)
func (r *PostgresRepository) ListBySellerRefundAdjustedBetween(ctx context.Context, sellerID string, from, to time.Time) ([]*CommissionRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM commission_records
		WHERE seller_id = $1
		  AND calculated_at < $2
		  AND last_refund_recalculated_at >= $2 AND last_refund_recalculated_at < $3
		ORDER BY calculated_at
	`

	rows, err := r.db.QueryContext(ctx, query, sellerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list refund-adjusted records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// UpdateRefundFields writes the refund-tracking fields with an optimistic
// check on the previously-read refunded amount
func (r *PostgresRepository) UpdateRefundFields(ctx context.Context, record *CommissionRecord, expectedRefunded decimal.Decimal) (bool, error) {
	query := `
		UPDATE commission_records
		SET refunded_amount = $2,
		    refunded_commission_amount = $3,
		    net_commission_amount = $4,
		    last_refund_recalculated_at = $5,
		    last_updated_at = $6
		WHERE id = $1 AND refunded_amount = $7
	`

	result, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.RefundedAmount,
		record.RefundedCommissionAmount,
		record.NetCommissionAmount,
		nullTime(record.LastRefundRecalculatedAt),
		record.LastUpdatedAt,
		expectedRefunded,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update commission record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}

// scanner abstracts *sql.Row and *sql.Rows for the scan helpers
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(s scanner) (*CommissionRule, error) {
	rule := &CommissionRule{}
	var sellerID, categoryID sql.NullString
	var minCommission, maxCommission decimal.NullDecimal
	var validUntil sql.NullTime

	if err := s.Scan(
		&rule.ID,
		&sellerID,
		&categoryID,
		&rule.Rate,
		&minCommission,
		&maxCommission,
		&rule.Priority,
		&rule.IsActive,
		&rule.ValidFrom,
		&validUntil,
		&rule.CreatedAt,
	); err != nil {
		return nil, err
	}

	rule.SellerID = stringPtr(sellerID)
	rule.CategoryID = stringPtr(categoryID)
	rule.MinCommission = decimalPtr(minCommission)
	rule.MaxCommission = decimalPtr(maxCommission)
	rule.ValidUntil = timePtr(validUntil)
	return rule, nil
}

func collectRules(rows *sql.Rows) ([]*CommissionRule, error) {
	var rules []*CommissionRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan commission rule: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func scanRecord(s scanner) (*CommissionRecord, error) {
	record := &CommissionRecord{}
	var appliedRuleID sql.NullString
	var lastRecalculatedAt sql.NullTime

	if err := s.Scan(
		&record.ID,
		&record.PaymentTransactionID,
		&record.OrderID,
		&record.SellerID,
		&record.OrderAmount,
		&record.CommissionRate,
		&record.CommissionAmount,
		&record.RefundedAmount,
		&record.RefundedCommissionAmount,
		&record.NetCommissionAmount,
		&appliedRuleID,
		&record.RuleDescription,
		&record.CalculatedAt,
		&lastRecalculatedAt,
		&record.CreatedAt,
		&record.LastUpdatedAt,
	); err != nil {
		return nil, err
	}

	record.AppliedRuleID = stringPtr(appliedRuleID)
	record.LastRefundRecalculatedAt = timePtr(lastRecalculatedAt)
	return record, nil
}

func collectRecords(rows *sql.Rows) ([]*CommissionRecord, error) {
	var records []*CommissionRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan commission record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
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

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	value := s.String
	return &value
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	value := t.Time
	return &value
}

func decimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	value := d.Decimal
	return &value
}
