package service

import (
	"github.com/mintbay/mintbay/internal/domain"
	"github.com/mintbay/mintbay/internal/engine"
	"github.com/mintbay/mintbay/internal/store"
)

// StatsService exposes the read-only marketplace surface: revenue
// counters, per-asset sale history, and the chain height.
type StatsService struct {
	revenue *store.RevenueStore
	sales   *store.SaleStore
	assets  *store.AssetStore
	chain   *engine.Chain
}

// NewStatsService creates a new StatsService.
func NewStatsService(
	revenue *store.RevenueStore,
	sales *store.SaleStore,
	assets *store.AssetStore,
	chain *engine.Chain,
) *StatsService {
	return &StatsService{
		revenue: revenue,
		sales:   sales,
		assets:  assets,
		chain:   chain,
	}
}

// Revenue returns the marketplace revenue counters.
func (s *StatsService) Revenue() store.RevenueTotals {
	return s.revenue.Totals()
}

// SalesByAsset returns the chronological sale history for an asset.
func (s *StatsService) SalesByAsset(assetID string) ([]*domain.Sale, error) {
	if !s.assets.Exists(assetID) {
		return nil, domain.ErrAssetNotFound
	}
	return s.sales.GetByAsset(assetID), nil
}

// Height returns the current block height.
func (s *StatsService) Height() uint64 {
	return s.chain.Height()
}
