package escrow

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// MemoryRepository is an in-memory escrow store used by tests and local runs
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]*EscrowEntry
}

// NewMemoryRepository creates an empty in-memory escrow repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[string]*EscrowEntry)}
}

func (r *MemoryRepository) CreateEntries(ctx context.Context, entries []*EscrowEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range entries {
		copied := *entry
		r.entries[entry.ID] = &copied
	}
	return nil
}

func (r *MemoryRepository) GetByOrderID(ctx context.Context, orderID string) ([]*EscrowEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []*EscrowEntry
	for _, entry := range r.entries {
		if entry.OrderID == orderID {
			copied := *entry
			entries = append(entries, &copied)
		}
	}
	return entries, nil
}

func (r *MemoryRepository) GetByOrderAndSeller(ctx context.Context, orderID, sellerID string) (*EscrowEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, entry := range r.entries {
		if entry.OrderID == orderID && entry.SellerID == sellerID {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) GetBySellerID(ctx context.Context, sellerID string, status *Status) ([]*EscrowEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []*EscrowEntry
	for _, entry := range r.entries {
		if entry.SellerID != sellerID {
			continue
		}
		if status != nil && entry.Status != *status {
			continue
		}
		copied := *entry
		entries = append(entries, &copied)
	}
	return entries, nil
}

func (r *MemoryRepository) UpdateEntries(ctx context.Context, updates []EntryUpdate) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, update := range updates {
		stored, ok := r.entries[update.Entry.ID]
		if !ok || !stored.RefundedAmount.Equal(update.ExpectedRefunded) || stored.IsClosed() {
			return false, nil
		}
	}

	for _, update := range updates {
		copied := *update.Entry
		r.entries[update.Entry.ID] = &copied
	}
	return true, nil
}

func (r *MemoryRepository) UpdateRefundFields(ctx context.Context, entry *EscrowEntry, expectedRefunded decimal.Decimal) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.entries[entry.ID]
	if !ok || !stored.RefundedAmount.Equal(expectedRefunded) {
		return false, nil
	}

	stored.RefundedAmount = entry.RefundedAmount
	stored.Status = entry.Status
	stored.LastUpdatedAt = entry.LastUpdatedAt
	stored.RefundedAt = entry.RefundedAt
	return true, nil
}

func (r *MemoryRepository) MarkPayoutEligible(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var flagged int64
	for _, entry := range r.entries {
		if entry.Status == StatusHeld && !entry.IsEligibleForPayout && !entry.CreatedAt.After(cutoff) {
			entry.IsEligibleForPayout = true
			flagged++
		}
	}
	return flagged, nil
}
