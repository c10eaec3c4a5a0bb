package store

import (
	"sort"
	"sync"

	"github.com/mintbay/mintbay/internal/domain"
)

// ListingStore is a thread-safe in-memory store for fixed-price listings,
// keyed by asset_id. At most one listing exists per asset.
type ListingStore struct {
	mu       sync.RWMutex
	listings map[string]*domain.Listing
}

// NewListingStore creates an empty ListingStore.
func NewListingStore() *ListingStore {
	return &ListingStore{
		listings: make(map[string]*domain.Listing),
	}
}

// Put adds a listing. It returns domain.ErrListingExists if the asset is
// already listed.
func (s *ListingStore) Put(l *domain.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.listings[l.AssetID]; exists {
		return domain.ErrListingExists
	}
	s.listings[l.AssetID] = l
	return nil
}

// Get retrieves the listing for an asset. It returns
// domain.ErrNotForSale if the asset is not listed.
func (s *ListingStore) Get(assetID string) (*domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.listings[assetID]
	if !ok {
		return nil, domain.ErrNotForSale
	}
	return l, nil
}

// Exists returns true if the asset is currently listed.
func (s *ListingStore) Exists(assetID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.listings[assetID]
	return ok
}

// SetPrice updates the listing price for an asset.
func (s *ListingStore) SetPrice(assetID string, price int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[assetID]
	if !ok {
		return domain.ErrNotForSale
	}
	l.Price = price
	return nil
}

// Delete removes the listing for an asset, returning the removed record.
// It returns domain.ErrNotForSale if no listing exists.
func (s *ListingStore) Delete(assetID string) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[assetID]
	if !ok {
		return nil, domain.ErrNotForSale
	}
	delete(s.listings, assetID)
	return l, nil
}

// List returns active listings newest first (highest ListedAt), with ties
// broken by asset ID. Pagination is 1-based. Returns the page and the
// total count before pagination.
func (s *ListingStore) List(page, limit int) ([]*domain.Listing, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*domain.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		all = append(all, l)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].ListedAt != all[j].ListedAt {
			return all[i].ListedAt > all[j].ListedAt
		}
		return all[i].AssetID < all[j].AssetID
	})

	return paginate(all, page, limit)
}

// paginate applies 1-based pagination to a sorted slice.
func paginate[T any](all []T, page, limit int) ([]T, int) {
	total := len(all)
	start := (page - 1) * limit
	if start >= total {
		return []T{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total
}
