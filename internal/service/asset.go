package service

import (
	"fmt"
	"time"

	"github.com/mintbay/mintbay/internal/domain"
	"github.com/mintbay/mintbay/internal/store"
)

// MintAssetRequest represents the input for minting.
type MintAssetRequest struct {
	AssetID    string
	Creator    string
	RoyaltyBPS int64
	TokenURI   string
}

// AssetDetail bundles an asset with its current market state.
type AssetDetail struct {
	Asset   *domain.Asset
	Listing *domain.Listing // nil if not listed
	Auction *domain.Auction // nil if no auction
}

// AssetService handles minting and registry queries. Minting is the one
// place the royalty rate is validated; it is immutable afterwards, which
// is what keeps the pricing split total by construction.
type AssetService struct {
	assets *store.AssetStore
	ledger *store.LedgerStore

	listings *store.ListingStore
	auctions *store.AuctionStore
}

// NewAssetService creates a new AssetService.
func NewAssetService(
	assets *store.AssetStore,
	ledger *store.LedgerStore,
	listings *store.ListingStore,
	auctions *store.AuctionStore,
) *AssetService {
	return &AssetService{
		assets:   assets,
		ledger:   ledger,
		listings: listings,
		auctions: auctions,
	}
}

// Mint validates the request and registers a new asset owned by its
// creator.
func (s *AssetService) Mint(req MintAssetRequest) (*domain.Asset, error) {
	if !assetIDRegex.MatchString(req.AssetID) {
		return nil, &domain.ValidationError{
			Message: "asset_id must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}
	if !accountIDRegex.MatchString(req.Creator) {
		return nil, &domain.ValidationError{
			Message: "creator must match ^[a-zA-Z0-9_.-]{1,64}$",
		}
	}
	if !domain.ValidRoyaltyBPS(req.RoyaltyBPS) {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("royalty_bps must be between 0 and %d", domain.MaxRoyaltyBPS),
		}
	}
	if len(req.TokenURI) > 2048 {
		return nil, &domain.ValidationError{
			Message: "token_uri must be at most 2048 characters",
		}
	}
	if !s.ledger.Exists(req.Creator) {
		return nil, domain.ErrAccountNotFound
	}

	asset := &domain.Asset{
		AssetID:    req.AssetID,
		Owner:      req.Creator,
		Creator:    req.Creator,
		RoyaltyBPS: req.RoyaltyBPS,
		TokenURI:   req.TokenURI,
		MintedAt:   time.Now(),
	}
	if err := s.assets.Create(asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// Get returns an asset together with any listing or auction on it.
func (s *AssetService) Get(assetID string) (*AssetDetail, error) {
	asset, err := s.assets.Get(assetID)
	if err != nil {
		return nil, err
	}

	detail := &AssetDetail{Asset: asset}
	if l, err := s.listings.Get(assetID); err == nil {
		detail.Listing = l
	}
	if a, err := s.auctions.Get(assetID); err == nil {
		detail.Auction = a
	}
	return detail, nil
}

// ListByOwner returns the assets owned by an account.
func (s *AssetService) ListByOwner(owner string) ([]*domain.Asset, error) {
	if !s.ledger.Exists(owner) {
		return nil, domain.ErrAccountNotFound
	}
	return s.assets.ListByOwner(owner), nil
}
