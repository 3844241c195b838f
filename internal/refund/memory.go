package refund

import (
	"context"
	"sync"
)

// MemoryRepository is an in-memory refund store used by tests and local runs
type MemoryRepository struct {
	mu      sync.RWMutex
	refunds map[string]*Refund
}

// NewMemoryRepository creates an empty in-memory refund repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{refunds: make(map[string]*Refund)}
}

func (r *MemoryRepository) Create(ctx context.Context, refund *Refund) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *refund
	r.refunds[refund.ID] = &copied
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, refund *Refund) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *refund
	r.refunds[refund.ID] = &copied
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*Refund, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	refund, ok := r.refunds[id]
	if !ok {
		return nil, nil
	}
	copied := *refund
	return &copied, nil
}

func (r *MemoryRepository) GetByOrderID(ctx context.Context, orderID string) ([]*Refund, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var refunds []*Refund
	for _, refund := range r.refunds {
		if refund.OrderID == orderID {
			copied := *refund
			refunds = append(refunds, &copied)
		}
	}
	return refunds, nil
}
