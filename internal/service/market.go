package service

import (
	"github.com/mintbay/mintbay/internal/domain"
	"github.com/mintbay/mintbay/internal/engine"
	"github.com/mintbay/mintbay/internal/store"
)

// MarketService handles the fixed-price listing lifecycle: list,
// update-price, unlist, buy, and listing browsing.
type MarketService struct {
	trader   *engine.Trader
	listings *store.ListingStore
	events   *EventService
}

// NewMarketService creates a new MarketService. events may be nil, in
// which case no webhooks are dispatched.
func NewMarketService(trader *engine.Trader, listings *store.ListingStore, events *EventService) *MarketService {
	return &MarketService{
		trader:   trader,
		listings: listings,
		events:   events,
	}
}

// List puts an asset up for sale at a fixed price.
func (s *MarketService) List(caller, assetID string, price int64) (*domain.Listing, error) {
	if err := validateIDs(caller, assetID); err != nil {
		return nil, err
	}

	listing, err := s.trader.List(caller, assetID, price)
	if err != nil {
		return nil, err
	}
	if s.events != nil {
		s.events.DispatchListingEvent(EventListed, listing, listing.Seller)
	}
	return listing, nil
}

// UpdatePrice changes the asking price of the caller's listing.
func (s *MarketService) UpdatePrice(caller, assetID string, newPrice int64) (*domain.Listing, error) {
	if err := validateIDs(caller, assetID); err != nil {
		return nil, err
	}

	listing, err := s.trader.UpdatePrice(caller, assetID, newPrice)
	if err != nil {
		return nil, err
	}
	if s.events != nil {
		s.events.DispatchListingEvent(EventPriceUpdated, listing, listing.Seller)
	}
	return listing, nil
}

// Unlist withdraws the caller's listing.
func (s *MarketService) Unlist(caller, assetID string) (*domain.Listing, error) {
	if err := validateIDs(caller, assetID); err != nil {
		return nil, err
	}

	listing, err := s.trader.Unlist(caller, assetID)
	if err != nil {
		return nil, err
	}
	if s.events != nil {
		s.events.DispatchListingEvent(EventUnlisted, listing, listing.Seller)
	}
	return listing, nil
}

// Buy purchases a listed asset at the listed price.
func (s *MarketService) Buy(caller, assetID string) (*domain.Sale, error) {
	if err := validateIDs(caller, assetID); err != nil {
		return nil, err
	}

	sale, err := s.trader.Buy(caller, assetID)
	if err != nil {
		return nil, err
	}
	if s.events != nil {
		s.events.DispatchSaleEvent(EventPurchased, sale, sale.Seller, sale.Buyer)
	}
	return sale, nil
}

// Browse returns a paginated view of active listings, newest first.
func (s *MarketService) Browse(page, limit int) ([]*domain.Listing, int, error) {
	if err := validatePagination(page, limit); err != nil {
		return nil, 0, err
	}
	listings, total := s.listings.List(page, limit)
	return listings, total, nil
}

// validateIDs checks the caller account ID and asset ID shapes shared by
// all trading entry points.
func validateIDs(accountID, assetID string) error {
	if !accountIDRegex.MatchString(accountID) {
		return &domain.ValidationError{
			Message: "account_id must match ^[a-zA-Z0-9_.-]{1,64}$",
		}
	}
	if !assetIDRegex.MatchString(assetID) {
		return &domain.ValidationError{
			Message: "asset_id must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}
	return nil
}

// validatePagination enforces the shared 1-based pagination bounds.
func validatePagination(page, limit int) error {
	if page < 1 {
		return &domain.ValidationError{Message: "page must be >= 1"}
	}
	if limit < 1 || limit > 100 {
		return &domain.ValidationError{Message: "limit must be between 1 and 100"}
	}
	return nil
}
