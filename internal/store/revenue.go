package store

import "sync"

// RevenueTotals is a snapshot of the marketplace revenue counters.
type RevenueTotals struct {
	TotalFees      int64
	TotalRoyalties int64
	TotalVolume    int64
	SaleCount      int64
}

// RevenueStore holds the process-wide revenue counters. Counters only
// grow, and only successful trade executions record into them.
type RevenueStore struct {
	mu     sync.RWMutex
	totals RevenueTotals
}

// NewRevenueStore creates a RevenueStore with zeroed counters.
func NewRevenueStore() *RevenueStore {
	return &RevenueStore{}
}

// Record adds one completed sale to the counters.
func (s *RevenueStore) Record(fee, royalty, price int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totals.TotalFees += fee
	s.totals.TotalRoyalties += royalty
	s.totals.TotalVolume += price
	s.totals.SaleCount++
}

// Totals returns a snapshot of the counters.
func (s *RevenueStore) Totals() RevenueTotals {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.totals
}
