package commission

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// MemoryRepository is an in-memory commission store used by tests and local
// runs without a database
type MemoryRepository struct {
	mu      sync.RWMutex
	rules   map[string]*CommissionRule
	records map[string]*CommissionRecord
}

// NewMemoryRepository creates an empty in-memory commission repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		rules:   make(map[string]*CommissionRule),
		records: make(map[string]*CommissionRecord),
	}
}

func (r *MemoryRepository) CreateRule(ctx context.Context, rule *CommissionRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *rule
	r.rules[rule.ID] = &copied
	return nil
}

func (r *MemoryRepository) GetRuleByID(ctx context.Context, id string) (*CommissionRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, ok := r.rules[id]
	if !ok {
		return nil, nil
	}
	copied := *rule
	return &copied, nil
}

func (r *MemoryRepository) ListRules(ctx context.Context, includeInactive bool) ([]*CommissionRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rules []*CommissionRule
	for _, rule := range r.rules {
		if !includeInactive && !rule.IsActive {
			continue
		}
		copied := *rule
		rules = append(rules, &copied)
	}
	return rules, nil
}

func (r *MemoryRepository) SetRuleActive(ctx context.Context, id string, active bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rule, ok := r.rules[id]
	if !ok {
		return false, nil
	}
	rule.IsActive = active
	return true, nil
}

func (r *MemoryRepository) GetCandidateRules(ctx context.Context, sellerID string, categoryID *string, asOf time.Time) ([]*CommissionRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var candidates []*CommissionRule
	for _, rule := range r.rules {
		if rule.AppliesTo(sellerID, categoryID, asOf) {
			copied := *rule
			candidates = append(candidates, &copied)
		}
	}
	return candidates, nil
}

func (r *MemoryRepository) CreateRecords(ctx context.Context, records []*CommissionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, record := range records {
		copied := *record
		r.records[record.ID] = &copied
	}
	return nil
}

func (r *MemoryRepository) GetByOrderAndSeller(ctx context.Context, orderID, sellerID string) (*CommissionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, record := range r.records {
		if record.OrderID == orderID && record.SellerID == sellerID {
			copied := *record
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) GetByOrderID(ctx context.Context, orderID string) ([]*CommissionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*CommissionRecord
	for _, record := range r.records {
		if record.OrderID == orderID {
			copied := *record
			records = append(records, &copied)
		}
	}
	return records, nil
}

func (r *MemoryRepository) ListBySellerCalculatedBetween(ctx context.Context, sellerID string, from, to time.Time) ([]*CommissionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*CommissionRecord
	for _, record := range r.records {
		if record.SellerID != sellerID {
			continue
		}
		if record.CalculatedAt.Before(from) || !record.CalculatedAt.Before(to) {
			continue
		}
		copied := *record
		records = append(records, &copied)
	}
	return records, nil
}

func (r *MemoryRepository) ListBySellerRefundAdjustedBetween(ctx context.Context, sellerID string, from, to time.Time) ([]*CommissionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*CommissionRecord
	for _, record := range r.records {
		if record.SellerID != sellerID || record.LastRefundRecalculatedAt == nil {
			continue
		}
		if !record.CalculatedAt.Before(from) {
			continue
		}
		adjusted := *record.LastRefundRecalculatedAt
		if adjusted.Before(from) || !adjusted.Before(to) {
			continue
		}
		copied := *record
		records = append(records, &copied)
	}
	return records, nil
}

func (r *MemoryRepository) UpdateRefundFields(ctx context.Context, record *CommissionRecord, expectedRefunded decimal.Decimal) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.records[record.ID]
	if !ok || !stored.RefundedAmount.Equal(expectedRefunded) {
		return false, nil
	}

	stored.RefundedAmount = record.RefundedAmount
	stored.RefundedCommissionAmount = record.RefundedCommissionAmount
	stored.NetCommissionAmount = record.NetCommissionAmount
	stored.LastRefundRecalculatedAt = record.LastRefundRecalculatedAt
	stored.LastUpdatedAt = record.LastUpdatedAt
	return true, nil
}
