package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mintbay/mintbay/internal/domain"
	"github.com/mintbay/mintbay/internal/store"
)

// Trader implements the trading core: the listing, offer, and auction
// state machines and the settlement path that moves value and ownership
// together.
//
// Every public method runs under a single mutex, mirroring the host
// contract of one call at a time against one authoritative state. Each
// method validates everything first; the only fallible mutation is the
// ledger batch, which itself commits entirely or not at all, so every
// failure path leaves all state untouched.
type Trader struct {
	mu sync.Mutex

	chain    *Chain
	ledger   *store.LedgerStore
	assets   *store.AssetStore
	listings *store.ListingStore
	offers   *store.OfferStore
	auctions *store.AuctionStore
	sales    *store.SaleStore
	revenue  *store.RevenueStore

	platformAccount string
}

// NewTrader creates a Trader with the given dependencies. The platform
// account receives marketplace fees; it must exist in the ledger.
func NewTrader(
	chain *Chain,
	ledger *store.LedgerStore,
	assets *store.AssetStore,
	listings *store.ListingStore,
	offers *store.OfferStore,
	auctions *store.AuctionStore,
	sales *store.SaleStore,
	revenue *store.RevenueStore,
	platformAccount string,
) *Trader {
	return &Trader{
		chain:           chain,
		ledger:          ledger,
		assets:          assets,
		listings:        listings,
		offers:          offers,
		auctions:        auctions,
		sales:           sales,
		revenue:         revenue,
		platformAccount: platformAccount,
	}
}

// List creates a fixed-price listing for an asset owned by the caller.
func (t *Trader) List(caller, assetID string, price int64) (*domain.Listing, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	asset, err := t.assets.Get(assetID)
	if err != nil {
		return nil, err
	}
	if asset.Owner != caller {
		return nil, domain.ErrNotOwner
	}
	if price <= 0 {
		return nil, domain.ErrInvalidPrice
	}
	if t.auctions.Exists(assetID) {
		return nil, domain.ErrAuctionActive
	}

	listing := &domain.Listing{
		AssetID:  assetID,
		Seller:   caller,
		Price:    price,
		ListedAt: t.chain.Height(),
	}
	if err := t.listings.Put(listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// UpdatePrice changes the price of the caller's listing.
func (t *Trader) UpdatePrice(caller, assetID string, newPrice int64) (*domain.Listing, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	listing, err := t.listings.Get(assetID)
	if err != nil {
		return nil, err
	}
	if listing.Seller != caller {
		return nil, domain.ErrNotOwner
	}
	if newPrice <= 0 {
		return nil, domain.ErrInvalidPrice
	}
	if err := t.listings.SetPrice(assetID, newPrice); err != nil {
		return nil, err
	}
	return listing, nil
}

// Unlist removes the caller's listing without a sale.
func (t *Trader) Unlist(caller, assetID string) (*domain.Listing, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	listing, err := t.listings.Get(assetID)
	if err != nil {
		return nil, err
	}
	if listing.Seller != caller {
		return nil, domain.ErrNotOwner
	}
	return t.listings.Delete(assetID)
}

// Buy executes a listed sale at the listed price. The caller pays; the
// split, ownership transfer, listing removal, and revenue bookkeeping
// land together or not at all.
func (t *Trader) Buy(caller, assetID string) (*domain.Sale, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	listing, err := t.listings.Get(assetID)
	if err != nil {
		return nil, err
	}
	if caller == listing.Seller {
		return nil, domain.ErrSelfPurchase
	}
	balance, err := t.ledger.BalanceOf(caller)
	if err != nil {
		return nil, err
	}
	if balance < listing.Price {
		return nil, domain.ErrInsufficientFunds
	}

	return t.settle(caller, caller, listing.Seller, assetID, listing.Price, domain.SaleKindListing)
}

// MakeOffer records or replaces the caller's offer on an asset. The
// caller's balance is checked now but not escrowed; it is rechecked at
// acceptance and may legitimately fail then.
func (t *Trader) MakeOffer(caller, assetID string, amount int64, expiresAt uint64) (*domain.Offer, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	asset, err := t.assets.Get(assetID)
	if err != nil {
		return nil, err
	}
	if asset.Owner == caller {
		return nil, domain.ErrSelfPurchase
	}
	if amount <= 0 {
		return nil, domain.ErrInvalidPrice
	}
	height := t.chain.Height()
	if expiresAt <= height {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("expires_at must be above the current block height (%d)", height),
		}
	}
	balance, err := t.ledger.BalanceOf(caller)
	if err != nil {
		return nil, err
	}
	if balance < amount {
		return nil, domain.ErrInsufficientFunds
	}

	offer := &domain.Offer{
		AssetID:   assetID,
		Buyer:     caller,
		Amount:    amount,
		ExpiresAt: expiresAt,
		CreatedAt: height,
	}
	t.offers.Upsert(offer)
	return offer, nil
}

// CancelOffer withdraws the caller's own offer on an asset.
func (t *Trader) CancelOffer(caller, assetID string) (*domain.Offer, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.offers.Delete(assetID, caller)
}

// AcceptOffer sells the asset to the given buyer at their offered amount.
// Only the accepted offer is consumed; other buyers' offers survive and
// are revalidated at their own acceptance.
func (t *Trader) AcceptOffer(caller, assetID, buyer string) (*domain.Sale, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	asset, err := t.assets.Get(assetID)
	if err != nil {
		return nil, err
	}
	offer, err := t.offers.Get(assetID, buyer)
	if err != nil {
		return nil, err
	}
	if asset.Owner != caller {
		return nil, domain.ErrNotOwner
	}
	if buyer == caller {
		return nil, domain.ErrSelfPurchase
	}
	if offer.Expired(t.chain.Height()) {
		return nil, domain.ErrOfferExpired
	}
	// Funds were never escrowed, so the recheck is mandatory.
	balance, err := t.ledger.BalanceOf(buyer)
	if err != nil {
		return nil, err
	}
	if balance < offer.Amount {
		return nil, domain.ErrInsufficientFunds
	}

	sale, err := t.settle(buyer, buyer, caller, assetID, offer.Amount, domain.SaleKindOffer)
	if err != nil {
		return nil, err
	}
	t.offers.Delete(assetID, buyer)
	return sale, nil
}

// StartAuction opens an auction on an asset owned by the caller. An
// asset can carry at most one of a listing or an auction.
func (t *Trader) StartAuction(caller, assetID string, minBid int64, duration uint64, reservePrice int64) (*domain.Auction, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	asset, err := t.assets.Get(assetID)
	if err != nil {
		return nil, err
	}
	if asset.Owner != caller {
		return nil, domain.ErrNotOwner
	}
	if minBid <= 0 {
		return nil, domain.ErrInvalidPrice
	}
	if reservePrice < 0 {
		return nil, &domain.ValidationError{Message: "reserve_price must be >= 0"}
	}
	if duration < domain.MinAuctionDuration || duration > domain.MaxAuctionDuration {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("duration must be between %d and %d blocks", domain.MinAuctionDuration, domain.MaxAuctionDuration),
		}
	}
	if t.listings.Exists(assetID) {
		return nil, domain.ErrListingExists
	}

	height := t.chain.Height()
	auction := &domain.Auction{
		AssetID:      assetID,
		Seller:       caller,
		MinBid:       minBid,
		ReservePrice: reservePrice,
		ReserveMet:   reservePrice == 0,
		StartedAt:    height,
		EndBlock:     height + duration,
	}
	if err := t.auctions.Put(auction); err != nil {
		return nil, err
	}
	return auction, nil
}

// PlaceBid escrows a new leading bid, refunding the previous bidder in
// the same ledger batch. The refund entry comes first so the escrow
// account stays solvent throughout the batch. Returns the auction plus
// the outbid bidder and amount (empty/zero when this is the first bid).
func (t *Trader) PlaceBid(caller, assetID string, amount int64) (*domain.Auction, string, int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	auction, err := t.auctions.Get(assetID)
	if err != nil {
		return nil, "", 0, err
	}
	if caller == auction.Seller {
		return nil, "", 0, domain.ErrSelfPurchase
	}
	if auction.Ended(t.chain.Height()) {
		return nil, "", 0, domain.ErrAuctionEnded
	}
	balance, err := t.ledger.BalanceOf(caller)
	if err != nil {
		return nil, "", 0, err
	}
	if balance < amount {
		return nil, "", 0, domain.ErrInsufficientFunds
	}
	if amount < auction.MinimumNextBid() {
		return nil, "", 0, domain.ErrInvalidPrice
	}

	prevBidder, prevBid := auction.CurrentBidder, auction.CurrentBid

	var entries []store.Entry
	if auction.HasBid() {
		entries = append(entries, store.Entry{From: domain.EscrowAccountID, To: prevBidder, Amount: prevBid})
	}
	entries = append(entries, store.Entry{From: caller, To: domain.EscrowAccountID, Amount: amount})
	if err := t.ledger.Apply(entries); err != nil {
		return nil, "", 0, err
	}

	if err := t.auctions.RecordBid(assetID, caller, amount); err != nil {
		return nil, "", 0, err
	}
	return auction, prevBidder, prevBid, nil
}

// FinalizeAuction closes an auction past its end block. Callable by
// anyone. With a winner, the escrowed bid pays out exactly like a buy and
// ownership moves to the winner; with no bids, no funds move. Either way
// the auction record is deleted, so a second call reports not-found.
// Returns the closed auction and, when there was a winner, the sale.
func (t *Trader) FinalizeAuction(assetID string) (*domain.Auction, *domain.Sale, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	auction, err := t.auctions.Get(assetID)
	if err != nil {
		return nil, nil, err
	}
	if !auction.Ended(t.chain.Height()) {
		return nil, nil, domain.ErrAuctionActive
	}

	if !auction.HasBid() {
		t.auctions.Delete(assetID)
		return auction, nil, nil
	}

	sale, err := t.settle(domain.EscrowAccountID, auction.CurrentBidder, auction.Seller, assetID, auction.CurrentBid, domain.SaleKindAuction)
	if err != nil {
		return nil, nil, err
	}
	return auction, sale, nil
}

// CancelAuction withdraws an auction that has received no bids. Once a
// bid is escrowed, cancellation is refused so the bidder's funds can
// never be stranded.
func (t *Trader) CancelAuction(caller, assetID string) (*domain.Auction, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	auction, err := t.auctions.Get(assetID)
	if err != nil {
		return nil, err
	}
	if caller != auction.Seller {
		return nil, domain.ErrUnauthorized
	}
	if auction.HasBid() {
		return nil, domain.ErrAuctionActive
	}
	return t.auctions.Delete(assetID)
}

// settle executes one trade: computes the split, applies the transfer
// batch, moves ownership, purges any listing or auction on the asset,
// and records revenue and the sale. The payer is the buyer for listing
// and offer sales, and the escrow account for auction sales.
//
// The royalty transfer is skipped when the rate is zero or the creator
// is the seller; in the latter case the royalty share stays with the
// seller, so the recorded royalty is what was actually paid out.
func (t *Trader) settle(payer, buyer, seller, assetID string, price int64, kind domain.SaleKind) (*domain.Sale, error) {
	asset, err := t.assets.Get(assetID)
	if err != nil {
		return nil, err
	}

	split := SplitPrice(price, asset.RoyaltyBPS)
	royaltyPaid := split.Royalty
	sellerNet := split.Net
	if asset.Creator == seller {
		sellerNet += royaltyPaid
		royaltyPaid = 0
	}

	entries := []store.Entry{
		{From: payer, To: seller, Amount: sellerNet},
		{From: payer, To: t.platformAccount, Amount: split.Fee},
	}
	if royaltyPaid > 0 {
		entries = append(entries, store.Entry{From: payer, To: asset.Creator, Amount: royaltyPaid})
	}
	if err := t.ledger.Apply(entries); err != nil {
		return nil, err
	}

	// Funds are committed; everything below is infallible bookkeeping.
	t.assets.SetOwner(assetID, buyer)
	t.listings.Delete(assetID)
	t.auctions.Delete(assetID)
	t.revenue.Record(split.Fee, royaltyPaid, price)

	sale := &domain.Sale{
		SaleID:      uuid.New().String(),
		AssetID:     assetID,
		Seller:      seller,
		Buyer:       buyer,
		Kind:        kind,
		Price:       price,
		Fee:         split.Fee,
		Royalty:     royaltyPaid,
		NetProceeds: sellerNet,
		ExecutedAt:  t.chain.Height(),
		Timestamp:   time.Now(),
	}
	t.sales.Append(sale)
	return sale, nil
}
