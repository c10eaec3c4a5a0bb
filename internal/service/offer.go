package service

import (
	"github.com/mintbay/mintbay/internal/domain"
	"github.com/mintbay/mintbay/internal/engine"
	"github.com/mintbay/mintbay/internal/store"
)

// OfferView is an offer annotated with its lazily-evaluated expiry
// status at the current height.
type OfferView struct {
	Offer   *domain.Offer
	Expired bool
}

// OfferService handles buyer-initiated offers: make, cancel, accept, and
// per-asset offer queries.
type OfferService struct {
	trader *engine.Trader
	offers *store.OfferStore
	assets *store.AssetStore
	chain  *engine.Chain
	events *EventService
}

// NewOfferService creates a new OfferService. events may be nil, in
// which case no webhooks are dispatched.
func NewOfferService(
	trader *engine.Trader,
	offers *store.OfferStore,
	assets *store.AssetStore,
	chain *engine.Chain,
	events *EventService,
) *OfferService {
	return &OfferService{
		trader: trader,
		offers: offers,
		assets: assets,
		chain:  chain,
		events: events,
	}
}

// Make records or replaces the caller's offer on an asset.
func (s *OfferService) Make(caller, assetID string, amount int64, expiresAt uint64) (*domain.Offer, error) {
	if err := validateIDs(caller, assetID); err != nil {
		return nil, err
	}

	offer, err := s.trader.MakeOffer(caller, assetID, amount, expiresAt)
	if err != nil {
		return nil, err
	}
	if s.events != nil {
		owner, _ := s.assets.OwnerOf(assetID)
		s.events.DispatchOfferEvent(EventOfferMade, offer, offer.Buyer, owner)
	}
	return offer, nil
}

// Cancel withdraws the caller's own offer on an asset.
func (s *OfferService) Cancel(caller, assetID string) (*domain.Offer, error) {
	if err := validateIDs(caller, assetID); err != nil {
		return nil, err
	}

	offer, err := s.trader.CancelOffer(caller, assetID)
	if err != nil {
		return nil, err
	}
	if s.events != nil {
		s.events.DispatchOfferEvent(EventOfferCancelled, offer, offer.Buyer)
	}
	return offer, nil
}

// Accept sells the asset to the given buyer at their offered amount.
func (s *OfferService) Accept(caller, assetID, buyer string) (*domain.Sale, error) {
	if err := validateIDs(caller, assetID); err != nil {
		return nil, err
	}
	if !accountIDRegex.MatchString(buyer) {
		return nil, &domain.ValidationError{
			Message: "buyer must match ^[a-zA-Z0-9_.-]{1,64}$",
		}
	}

	sale, err := s.trader.AcceptOffer(caller, assetID, buyer)
	if err != nil {
		return nil, err
	}
	if s.events != nil {
		s.events.DispatchSaleEvent(EventOfferAccepted, sale, sale.Seller, sale.Buyer)
	}
	return sale, nil
}

// ListByAsset returns all offers on an asset, best first, each annotated
// with whether it has lapsed at the current height. Expired offers stay
// recorded until cancelled or overwritten.
func (s *OfferService) ListByAsset(assetID string) ([]OfferView, error) {
	if !s.assets.Exists(assetID) {
		return nil, domain.ErrAssetNotFound
	}

	height := s.chain.Height()
	offers := s.offers.ListByAsset(assetID)
	views := make([]OfferView, len(offers))
	for i, o := range offers {
		views[i] = OfferView{Offer: o, Expired: o.Expired(height)}
	}
	return views, nil
}
