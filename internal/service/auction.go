package service

import (
	"github.com/mintbay/mintbay/internal/domain"
	"github.com/mintbay/mintbay/internal/engine"
	"github.com/mintbay/mintbay/internal/store"
)

// AuctionService handles the auction lifecycle: start, bid, finalize,
// cancel, and auction browsing.
type AuctionService struct {
	trader   *engine.Trader
	auctions *store.AuctionStore
	events   *EventService
}

// NewAuctionService creates a new AuctionService. events may be nil, in
// which case no webhooks are dispatched.
func NewAuctionService(trader *engine.Trader, auctions *store.AuctionStore, events *EventService) *AuctionService {
	return &AuctionService{
		trader:   trader,
		auctions: auctions,
		events:   events,
	}
}

// Start opens an auction on an asset owned by the caller.
func (s *AuctionService) Start(caller, assetID string, minBid int64, duration uint64, reservePrice int64) (*domain.Auction, error) {
	if err := validateIDs(caller, assetID); err != nil {
		return nil, err
	}

	auction, err := s.trader.StartAuction(caller, assetID, minBid, duration, reservePrice)
	if err != nil {
		return nil, err
	}
	if s.events != nil {
		s.events.DispatchAuctionEvent(EventAuctionStarted, auction, auction.Seller)
	}
	return auction, nil
}

// Bid escrows a new leading bid on an auction.
func (s *AuctionService) Bid(caller, assetID string, amount int64) (*domain.Auction, error) {
	if err := validateIDs(caller, assetID); err != nil {
		return nil, err
	}

	auction, outbid, _, err := s.trader.PlaceBid(caller, assetID, amount)
	if err != nil {
		return nil, err
	}
	if s.events != nil {
		s.events.DispatchAuctionEvent(EventBidPlaced, auction, auction.Seller, caller, outbid)
	}
	return auction, nil
}

// Finalize closes an auction past its end block. Callable by anyone.
// Returns the closed auction and, if there was a winner, the sale.
func (s *AuctionService) Finalize(assetID string) (*domain.Auction, *domain.Sale, error) {
	if !assetIDRegex.MatchString(assetID) {
		return nil, nil, &domain.ValidationError{
			Message: "asset_id must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}

	auction, sale, err := s.trader.FinalizeAuction(assetID)
	if err != nil {
		return nil, nil, err
	}
	if s.events != nil {
		if sale != nil {
			s.events.DispatchSaleEvent(EventAuctionFinalized, sale, sale.Seller, sale.Buyer)
		} else {
			s.events.DispatchAuctionEvent(EventAuctionEndedNoBid, auction, auction.Seller)
		}
	}
	return auction, sale, nil
}

// Cancel withdraws an auction that has received no bids.
func (s *AuctionService) Cancel(caller, assetID string) (*domain.Auction, error) {
	if err := validateIDs(caller, assetID); err != nil {
		return nil, err
	}

	auction, err := s.trader.CancelAuction(caller, assetID)
	if err != nil {
		return nil, err
	}
	if s.events != nil {
		s.events.DispatchAuctionEvent(EventAuctionCancelled, auction, auction.Seller)
	}
	return auction, nil
}

// Browse returns a paginated view of active auctions, ending soonest
// first.
func (s *AuctionService) Browse(page, limit int) ([]*domain.Auction, int, error) {
	if err := validatePagination(page, limit); err != nil {
		return nil, 0, err
	}
	auctions, total := s.auctions.List(page, limit)
	return auctions, total, nil
}
