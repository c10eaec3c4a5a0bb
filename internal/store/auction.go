package store

import (
	"sort"
	"sync"

	"github.com/mintbay/mintbay/internal/domain"
)

// AuctionStore is a thread-safe in-memory store for auctions, keyed by
// asset_id. At most one auction exists per asset.
type AuctionStore struct {
	mu       sync.RWMutex
	auctions map[string]*domain.Auction
}

// NewAuctionStore creates an empty AuctionStore.
func NewAuctionStore() *AuctionStore {
	return &AuctionStore{
		auctions: make(map[string]*domain.Auction),
	}
}

// Put adds an auction. It returns domain.ErrAuctionExists if an auction
// already occupies the asset.
func (s *AuctionStore) Put(a *domain.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.auctions[a.AssetID]; exists {
		return domain.ErrAuctionExists
	}
	s.auctions[a.AssetID] = a
	return nil
}

// Get retrieves the auction for an asset. It returns
// domain.ErrAuctionNotFound if no auction exists.
func (s *AuctionStore) Get(assetID string) (*domain.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.auctions[assetID]
	if !ok {
		return nil, domain.ErrAuctionNotFound
	}
	return a, nil
}

// Exists returns true if an auction is running for the asset.
func (s *AuctionStore) Exists(assetID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.auctions[assetID]
	return ok
}

// RecordBid sets the leading bid on an auction.
func (s *AuctionStore) RecordBid(assetID, bidder string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.auctions[assetID]
	if !ok {
		return domain.ErrAuctionNotFound
	}
	a.CurrentBid = amount
	a.CurrentBidder = bidder
	if a.ReservePrice > 0 && amount >= a.ReservePrice {
		a.ReserveMet = true
	}
	return nil
}

// Delete removes the auction for an asset, returning the removed record.
// It returns domain.ErrAuctionNotFound if no auction exists.
func (s *AuctionStore) Delete(assetID string) (*domain.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.auctions[assetID]
	if !ok {
		return nil, domain.ErrAuctionNotFound
	}
	delete(s.auctions, assetID)
	return a, nil
}

// List returns active auctions ordered by end block (soonest first), with
// ties broken by asset ID. Pagination is 1-based. Returns the page and the
// total count before pagination.
func (s *AuctionStore) List(page, limit int) ([]*domain.Auction, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*domain.Auction, 0, len(s.auctions))
	for _, a := range s.auctions {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].EndBlock != all[j].EndBlock {
			return all[i].EndBlock < all[j].EndBlock
		}
		return all[i].AssetID < all[j].AssetID
	})

	return paginate(all, page, limit)
}

// EscrowTotal returns the sum of all leading bids currently held in
// escrow. Used to reconcile the escrow account balance.
func (s *AuctionStore) EscrowTotal() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, a := range s.auctions {
		total += a.CurrentBid
	}
	return total
}
