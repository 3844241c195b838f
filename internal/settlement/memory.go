package settlement

import (
	"context"
	"sync"
)

// MemoryRepository is an in-memory settlement store used in tests
type MemoryRepository struct {
	mu          sync.RWMutex
	settlements map[string]*Settlement
}

// NewMemoryRepository creates an empty in-memory settlement repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		settlements: make(map[string]*Settlement),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, settlement *Settlement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.settlements[settlement.ID] = copySettlement(settlement)
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*Settlement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	settlement, ok := r.settlements[id]
	if !ok {
		return nil, nil
	}
	return copySettlement(settlement), nil
}

func (r *MemoryRepository) GetBySellerPeriod(ctx context.Context, sellerID string, year, month int) (*Settlement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, settlement := range r.settlements {
		if settlement.SellerID == sellerID && settlement.Year == year && settlement.Month == month && settlement.Status != StatusArchived {
			return copySettlement(settlement), nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) List(ctx context.Context, filter Filter) ([]*Settlement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var settlements []*Settlement
	for _, settlement := range r.settlements {
		if filter.SellerID != nil && settlement.SellerID != *filter.SellerID {
			continue
		}
		if filter.Year != nil && settlement.Year != *filter.Year {
			continue
		}
		if filter.Month != nil && settlement.Month != *filter.Month {
			continue
		}
		if filter.Status != nil && settlement.Status != *filter.Status {
			continue
		}
		settlements = append(settlements, copySettlement(settlement))
	}
	return settlements, nil
}

func (r *MemoryRepository) Update(ctx context.Context, settlement *Settlement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.settlements[settlement.ID]
	if ok {
		updated := copySettlement(settlement)
		updated.LineItems = existing.LineItems
		r.settlements[settlement.ID] = updated
	}
	return nil
}

func (r *MemoryRepository) ReplaceLineItems(ctx context.Context, settlement *Settlement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.settlements[settlement.ID] = copySettlement(settlement)
	return nil
}

func copySettlement(s *Settlement) *Settlement {
	copied := *s
	copied.LineItems = make([]*LineItem, len(s.LineItems))
	for i, item := range s.LineItems {
		itemCopy := *item
		copied.LineItems[i] = &itemCopy
	}
	return &copied
}
