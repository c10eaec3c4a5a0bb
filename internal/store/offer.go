package store

import (
	"sync"

	"github.com/google/btree"

	"github.com/mintbay/mintbay/internal/domain"
)

// offerEntry is the B-tree key for the per-asset offer index.
type offerEntry struct {
	Amount    int64
	CreatedAt uint64
	Buyer     string
	Offer     *domain.Offer
}

// offerLess orders offers best-first: amount descending, then created_at
// ascending, then buyer ascending. Min() returns the best offer.
func offerLess(a, b offerEntry) bool {
	if a.Amount != b.Amount {
		return a.Amount > b.Amount
	}
	if a.CreatedAt != b.CreatedAt {
		return a.CreatedAt < b.CreatedAt
	}
	return a.Buyer < b.Buyer
}

// OfferStore is a thread-safe in-memory store for offers, keyed by
// (asset_id, buyer), with a per-asset B-tree index ordered best-first
// for best-offer queries.
type OfferStore struct {
	mu      sync.RWMutex
	offers  map[string]map[string]*domain.Offer // asset_id → buyer → offer
	byAsset map[string]*btree.BTreeG[offerEntry]
}

// NewOfferStore creates an empty OfferStore.
func NewOfferStore() *OfferStore {
	return &OfferStore{
		offers:  make(map[string]map[string]*domain.Offer),
		byAsset: make(map[string]*btree.BTreeG[offerEntry]),
	}
}

// Upsert inserts or replaces the offer for (asset, buyer). A buyer has at
// most one open offer per asset; a new one overwrites the previous.
// Returns true if no prior offer existed.
func (s *OfferStore) Upsert(o *domain.Offer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	byBuyer := s.offers[o.AssetID]
	if byBuyer == nil {
		byBuyer = make(map[string]*domain.Offer)
		s.offers[o.AssetID] = byBuyer
	}

	tree := s.byAsset[o.AssetID]
	if tree == nil {
		const degree = 32
		tree = btree.NewG[offerEntry](degree, offerLess)
		s.byAsset[o.AssetID] = tree
	}

	prev, existed := byBuyer[o.Buyer]
	if existed {
		tree.Delete(entryOf(prev))
	}
	byBuyer[o.Buyer] = o
	tree.ReplaceOrInsert(entryOf(o))

	return !existed
}

// Get retrieves the offer a buyer has open on an asset. It returns
// domain.ErrOfferNotFound if none exists.
func (s *OfferStore) Get(assetID, buyer string) (*domain.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.offers[assetID][buyer]
	if !ok {
		return nil, domain.ErrOfferNotFound
	}
	return o, nil
}

// Delete removes a buyer's offer on an asset, returning the removed
// record. It returns domain.ErrOfferNotFound if none exists.
func (s *OfferStore) Delete(assetID, buyer string) (*domain.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byBuyer := s.offers[assetID]
	o, ok := byBuyer[buyer]
	if !ok {
		return nil, domain.ErrOfferNotFound
	}
	delete(byBuyer, buyer)
	if len(byBuyer) == 0 {
		delete(s.offers, assetID)
	}
	if tree, ok := s.byAsset[assetID]; ok {
		tree.Delete(entryOf(o))
		if tree.Len() == 0 {
			delete(s.byAsset, assetID)
		}
	}
	return o, nil
}

// ListByAsset returns all offers on an asset, best first (highest amount,
// earliest creation). Returns an empty slice if the asset has no offers.
func (s *OfferStore) ListByAsset(assetID string) []*domain.Offer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tree, ok := s.byAsset[assetID]
	if !ok {
		return []*domain.Offer{}
	}
	result := make([]*domain.Offer, 0, tree.Len())
	tree.Ascend(func(e offerEntry) bool {
		result = append(result, e.Offer)
		return true
	})
	return result
}

// Best returns the highest open offer on an asset, or false if there are
// no offers. Expiry is not considered here; callers filter by height.
func (s *OfferStore) Best(assetID string) (*domain.Offer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tree, ok := s.byAsset[assetID]
	if !ok {
		return nil, false
	}
	e, ok := tree.Min()
	if !ok {
		return nil, false
	}
	return e.Offer, true
}

func entryOf(o *domain.Offer) offerEntry {
	return offerEntry{
		Amount:    o.Amount,
		CreatedAt: o.CreatedAt,
		Buyer:     o.Buyer,
		Offer:     o,
	}
}
