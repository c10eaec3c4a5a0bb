package store

import (
	"sync"

	"github.com/mintbay/mintbay/internal/domain"
)

// SaleStore is a thread-safe in-memory store for completed sales,
// keyed by asset_id. Sales are append-only and chronological.
type SaleStore struct {
	mu    sync.RWMutex
	sales map[string][]*domain.Sale // asset_id → sales (chronological)
}

// NewSaleStore creates an empty SaleStore.
func NewSaleStore() *SaleStore {
	return &SaleStore{
		sales: make(map[string][]*domain.Sale),
	}
}

// Append adds a sale to the asset's chronological history.
func (s *SaleStore) Append(sale *domain.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sales[sale.AssetID] = append(s.sales[sale.AssetID], sale)
}

// GetByAsset returns all sales for an asset in chronological order.
// Returns an empty slice if the asset has no sale history.
func (s *SaleStore) GetByAsset(assetID string) []*domain.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sales := s.sales[assetID]
	if sales == nil {
		return []*domain.Sale{}
	}

	// Return a copy to avoid callers mutating the internal slice.
	result := make([]*domain.Sale, len(sales))
	copy(result, sales)
	return result
}
