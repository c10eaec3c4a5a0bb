package store

import (
	"sort"
	"sync"

	"github.com/mintbay/mintbay/internal/domain"
)

// AssetStore is a thread-safe in-memory asset registry, with a primary
// index by asset_id and a secondary index by owner. It is the single
// source of truth for current ownership.
type AssetStore struct {
	mu      sync.RWMutex
	assets  map[string]*domain.Asset
	byOwner map[string]map[string]*domain.Asset // owner → asset_id → asset
}

// NewAssetStore creates an empty AssetStore.
func NewAssetStore() *AssetStore {
	return &AssetStore{
		assets:  make(map[string]*domain.Asset),
		byOwner: make(map[string]map[string]*domain.Asset),
	}
}

// Create registers a newly minted asset. It returns
// domain.ErrAssetAlreadyExists if the ID is taken.
func (s *AssetStore) Create(a *domain.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.assets[a.AssetID]; exists {
		return domain.ErrAssetAlreadyExists
	}
	s.assets[a.AssetID] = a
	s.indexOwner(a)
	return nil
}

// Get retrieves an asset by ID. It returns
// domain.ErrAssetNotFound if the asset does not exist.
func (s *AssetStore) Get(id string) (*domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.assets[id]
	if !ok {
		return nil, domain.ErrAssetNotFound
	}
	return a, nil
}

// Exists returns true if an asset with the given ID exists.
func (s *AssetStore) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.assets[id]
	return ok
}

// OwnerOf returns the current owner of an asset.
func (s *AssetStore) OwnerOf(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.assets[id]
	if !ok {
		return "", domain.ErrAssetNotFound
	}
	return a.Owner, nil
}

// SetOwner transfers ownership of an asset and updates the owner index.
func (s *AssetStore) SetOwner(id, newOwner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assets[id]
	if !ok {
		return domain.ErrAssetNotFound
	}
	if owned, ok := s.byOwner[a.Owner]; ok {
		delete(owned, id)
		if len(owned) == 0 {
			delete(s.byOwner, a.Owner)
		}
	}
	a.Owner = newOwner
	s.indexOwner(a)
	return nil
}

// ListByOwner returns the assets currently owned by an account, sorted
// by asset ID. Returns an empty slice for unknown owners.
func (s *AssetStore) ListByOwner(owner string) []*domain.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := s.byOwner[owner]
	result := make([]*domain.Asset, 0, len(owned))
	for _, a := range owned {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].AssetID < result[j].AssetID
	})
	return result
}

func (s *AssetStore) indexOwner(a *domain.Asset) {
	if s.byOwner[a.Owner] == nil {
		s.byOwner[a.Owner] = make(map[string]*domain.Asset)
	}
	s.byOwner[a.Owner][a.AssetID] = a
}
