package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/mintbay/mintbay/internal/domain"
	"github.com/mintbay/mintbay/internal/store"
)

const testPlatform = "marketplace.treasury"

// tradeEnv bundles a Trader with its stores and a manually advanced
// chain clock.
type tradeEnv struct {
	chain    *Chain
	ledger   *store.LedgerStore
	assets   *store.AssetStore
	listings *store.ListingStore
	offers   *store.OfferStore
	auctions *store.AuctionStore
	sales    *store.SaleStore
	revenue  *store.RevenueStore
	trader   *Trader
}

func newTradeEnv(t *testing.T) *tradeEnv {
	t.Helper()
	env := &tradeEnv{
		chain:    NewChain(time.Hour),
		ledger:   store.NewLedgerStore(),
		assets:   store.NewAssetStore(),
		listings: store.NewListingStore(),
		offers:   store.NewOfferStore(),
		auctions: store.NewAuctionStore(),
		sales:    store.NewSaleStore(),
		revenue:  store.NewRevenueStore(),
	}
	env.trader = NewTrader(env.chain, env.ledger, env.assets, env.listings, env.offers, env.auctions, env.sales, env.revenue, testPlatform)
	env.register(t, testPlatform, 0)
	env.register(t, domain.EscrowAccountID, 0)
	return env
}

func (env *tradeEnv) register(t *testing.T, id string, balance int64) {
	t.Helper()
	if err := env.ledger.CreateAccount(&domain.Account{AccountID: id, CreatedAt: time.Now()}); err != nil {
		t.Fatalf("create account %s: %v", id, err)
	}
	if balance > 0 {
		if err := env.ledger.Deposit(id, balance); err != nil {
			t.Fatalf("deposit to %s: %v", id, err)
		}
	}
}

// mint creates an asset owned by its creator.
func (env *tradeEnv) mint(t *testing.T, assetID, creator string, royaltyBPS int64) {
	t.Helper()
	err := env.assets.Create(&domain.Asset{
		AssetID:    assetID,
		Owner:      creator,
		Creator:    creator,
		RoyaltyBPS: royaltyBPS,
		MintedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("mint %s: %v", assetID, err)
	}
}

// mintOwnedBy mints by creator then hands the asset to owner, so royalty
// and proceeds go to different accounts.
func (env *tradeEnv) mintOwnedBy(t *testing.T, assetID, creator, owner string, royaltyBPS int64) {
	t.Helper()
	env.mint(t, assetID, creator, royaltyBPS)
	if err := env.assets.SetOwner(assetID, owner); err != nil {
		t.Fatalf("transfer %s to %s: %v", assetID, owner, err)
	}
}

func (env *tradeEnv) balance(t *testing.T, id string) int64 {
	t.Helper()
	b, err := env.ledger.BalanceOf(id)
	if err != nil {
		t.Fatalf("balance of %s: %v", id, err)
	}
	return b
}

// Listings.

func TestList(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "alice", 0)
	env.mint(t, "nft-1", "alice", 500)

	listing, err := env.trader.List("alice", "nft-1", 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listing.Seller != "alice" || listing.Price != 1000 {
		t.Errorf("unexpected listing: %+v", listing)
	}
	if !env.listings.Exists("nft-1") {
		t.Error("listing not stored")
	}
}

func TestList_Errors(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "alice", 0)
	env.register(t, "bob", 0)
	env.mint(t, "nft-1", "alice", 0)

	if _, err := env.trader.List("alice", "missing", 100); !errors.Is(err, domain.ErrAssetNotFound) {
		t.Errorf("unknown asset: expected ErrAssetNotFound, got %v", err)
	}
	if _, err := env.trader.List("bob", "nft-1", 100); !errors.Is(err, domain.ErrNotOwner) {
		t.Errorf("non-owner: expected ErrNotOwner, got %v", err)
	}
	if _, err := env.trader.List("alice", "nft-1", 0); !errors.Is(err, domain.ErrInvalidPrice) {
		t.Errorf("zero price: expected ErrInvalidPrice, got %v", err)
	}
	if _, err := env.trader.List("alice", "nft-1", -5); !errors.Is(err, domain.ErrInvalidPrice) {
		t.Errorf("negative price: expected ErrInvalidPrice, got %v", err)
	}

	if _, err := env.trader.List("alice", "nft-1", 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.trader.List("alice", "nft-1", 200); !errors.Is(err, domain.ErrListingExists) {
		t.Errorf("double list: expected ErrListingExists, got %v", err)
	}
}

func TestList_RejectedWhileAuctionActive(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "alice", 0)
	env.mint(t, "nft-1", "alice", 0)

	if _, err := env.trader.StartAuction("alice", "nft-1", 100, domain.MinAuctionDuration, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.trader.List("alice", "nft-1", 1000); !errors.Is(err, domain.ErrAuctionActive) {
		t.Errorf("expected ErrAuctionActive, got %v", err)
	}
}

func TestUpdatePrice(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "alice", 0)
	env.register(t, "bob", 0)
	env.mint(t, "nft-1", "alice", 0)
	if _, err := env.trader.List("alice", "nft-1", 1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := env.trader.UpdatePrice("bob", "nft-1", 500); !errors.Is(err, domain.ErrNotOwner) {
		t.Errorf("non-seller: expected ErrNotOwner, got %v", err)
	}
	if _, err := env.trader.UpdatePrice("alice", "nft-1", 0); !errors.Is(err, domain.ErrInvalidPrice) {
		t.Errorf("zero price: expected ErrInvalidPrice, got %v", err)
	}
	if _, err := env.trader.UpdatePrice("alice", "nft-1", 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	listing, err := env.listings.Get("nft-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listing.Price != 500 {
		t.Errorf("expected price 500, got %d", listing.Price)
	}
}

func TestUnlist(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "alice", 0)
	env.register(t, "bob", 0)
	env.mint(t, "nft-1", "alice", 0)
	if _, err := env.trader.List("alice", "nft-1", 1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := env.trader.Unlist("bob", "nft-1"); !errors.Is(err, domain.ErrNotOwner) {
		t.Errorf("non-seller: expected ErrNotOwner, got %v", err)
	}
	if _, err := env.trader.Unlist("alice", "nft-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.listings.Exists("nft-1") {
		t.Error("listing should be gone")
	}
	if _, err := env.trader.Unlist("alice", "nft-1"); !errors.Is(err, domain.ErrNotForSale) {
		t.Errorf("second unlist: expected ErrNotForSale, got %v", err)
	}
}

// Buys.

func TestBuy_SplitsPriceThreeWays(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "creator", 0)
	env.register(t, "seller", 0)
	env.register(t, "buyer", 1000)
	env.mintOwnedBy(t, "nft-1", "creator", "seller", 500)

	if _, err := env.trader.List("seller", "nft-1", 1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sale, err := env.trader.Buy("buyer", "nft-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sale.Price != 1000 || sale.Fee != 25 || sale.Royalty != 50 || sale.NetProceeds != 925 {
		t.Errorf("unexpected split: %+v", sale)
	}
	if got := env.balance(t, "buyer"); got != 0 {
		t.Errorf("buyer balance = %d, want 0", got)
	}
	if got := env.balance(t, "seller"); got != 925 {
		t.Errorf("seller balance = %d, want 925", got)
	}
	if got := env.balance(t, "creator"); got != 50 {
		t.Errorf("creator balance = %d, want 50", got)
	}
	if got := env.balance(t, testPlatform); got != 25 {
		t.Errorf("platform balance = %d, want 25", got)
	}

	owner, err := env.assets.OwnerOf("nft-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if owner != "buyer" {
		t.Errorf("owner = %s, want buyer", owner)
	}
	if env.listings.Exists("nft-1") {
		t.Error("listing should be consumed")
	}

	totals := env.revenue.Totals()
	if totals.TotalFees != 25 || totals.TotalRoyalties != 50 || totals.TotalVolume != 1000 || totals.SaleCount != 1 {
		t.Errorf("unexpected revenue totals: %+v", totals)
	}
	history := env.sales.GetByAsset("nft-1")
	if len(history) != 1 || history[0].Kind != domain.SaleKindListing {
		t.Errorf("unexpected sale history: %+v", history)
	}
}

func TestBuy_RoyaltyFoldedWhenCreatorSells(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "creator", 0)
	env.register(t, "buyer", 1000)
	env.mint(t, "nft-1", "creator", 500)

	if _, err := env.trader.List("creator", "nft-1", 1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sale, err := env.trader.Buy("buyer", "nft-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The royalty share stays with the creator-seller as proceeds.
	if sale.Fee != 25 || sale.Royalty != 0 || sale.NetProceeds != 975 {
		t.Errorf("unexpected split: %+v", sale)
	}
	if got := env.balance(t, "creator"); got != 975 {
		t.Errorf("creator balance = %d, want 975", got)
	}
	if totals := env.revenue.Totals(); totals.TotalRoyalties != 0 {
		t.Errorf("total royalties = %d, want 0", totals.TotalRoyalties)
	}
}

func TestBuy_Errors(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "alice", 0)
	env.register(t, "bob", 500)
	env.mint(t, "nft-1", "alice", 0)

	if _, err := env.trader.Buy("bob", "nft-1"); !errors.Is(err, domain.ErrNotForSale) {
		t.Errorf("not listed: expected ErrNotForSale, got %v", err)
	}

	if _, err := env.trader.List("alice", "nft-1", 1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.trader.Buy("alice", "nft-1"); !errors.Is(err, domain.ErrSelfPurchase) {
		t.Errorf("self purchase: expected ErrSelfPurchase, got %v", err)
	}
	if _, err := env.trader.Buy("bob", "nft-1"); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Errorf("poor buyer: expected ErrInsufficientFunds, got %v", err)
	}

	// A failed buy moves nothing.
	if got := env.balance(t, "bob"); got != 500 {
		t.Errorf("bob balance = %d, want 500", got)
	}
	if owner, _ := env.assets.OwnerOf("nft-1"); owner != "alice" {
		t.Errorf("owner = %s, want alice", owner)
	}
	if !env.listings.Exists("nft-1") {
		t.Error("listing should survive a failed buy")
	}
}

// Offers.

func TestMakeOffer(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "alice", 0)
	env.register(t, "bob", 500)
	env.mint(t, "nft-1", "alice", 0)
	env.chain.Advance(10)

	offer, err := env.trader.MakeOffer("bob", "nft-1", 300, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if offer.Buyer != "bob" || offer.Amount != 300 || offer.ExpiresAt != 100 || offer.CreatedAt != 10 {
		t.Errorf("unexpected offer: %+v", offer)
	}

	// Same buyer offers again: replaced, not duplicated.
	if _, err := env.trader.MakeOffer("bob", "nft-1", 400, 200); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	offers := env.offers.ListByAsset("nft-1")
	if len(offers) != 1 || offers[0].Amount != 400 {
		t.Errorf("expected single replaced offer of 400, got %+v", offers)
	}
}

func TestMakeOffer_Errors(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "alice", 0)
	env.register(t, "bob", 500)
	env.mint(t, "nft-1", "alice", 0)
	env.chain.Advance(10)

	if _, err := env.trader.MakeOffer("bob", "missing", 100, 100); !errors.Is(err, domain.ErrAssetNotFound) {
		t.Errorf("unknown asset: expected ErrAssetNotFound, got %v", err)
	}
	if _, err := env.trader.MakeOffer("alice", "nft-1", 100, 100); !errors.Is(err, domain.ErrSelfPurchase) {
		t.Errorf("owner offering: expected ErrSelfPurchase, got %v", err)
	}
	if _, err := env.trader.MakeOffer("bob", "nft-1", 0, 100); !errors.Is(err, domain.ErrInvalidPrice) {
		t.Errorf("zero amount: expected ErrInvalidPrice, got %v", err)
	}

	var vErr *domain.ValidationError
	if _, err := env.trader.MakeOffer("bob", "nft-1", 100, 10); !errors.As(err, &vErr) {
		t.Errorf("expires_at at current height: expected ValidationError, got %v", err)
	}
	if _, err := env.trader.MakeOffer("bob", "nft-1", 501, 100); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Errorf("over balance: expected ErrInsufficientFunds, got %v", err)
	}
}

func TestCancelOffer(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "alice", 0)
	env.register(t, "bob", 500)
	env.mint(t, "nft-1", "alice", 0)

	if _, err := env.trader.CancelOffer("bob", "nft-1"); !errors.Is(err, domain.ErrOfferNotFound) {
		t.Errorf("no offer: expected ErrOfferNotFound, got %v", err)
	}
	if _, err := env.trader.MakeOffer("bob", "nft-1", 300, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.trader.CancelOffer("bob", "nft-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := env.offers.ListByAsset("nft-1"); len(got) != 0 {
		t.Errorf("expected no offers, got %+v", got)
	}
}

func TestAcceptOffer(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "creator", 0)
	env.register(t, "seller", 0)
	env.register(t, "bob", 1000)
	env.register(t, "carol", 1000)
	env.mintOwnedBy(t, "nft-1", "creator", "seller", 500)

	// A live listing on the asset is purged by the offer sale.
	if _, err := env.trader.List("seller", "nft-1", 2000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.trader.MakeOffer("bob", "nft-1", 1000, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.trader.MakeOffer("carol", "nft-1", 800, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sale, err := env.trader.AcceptOffer("seller", "nft-1", "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sale.Kind != domain.SaleKindOffer || sale.Price != 1000 {
		t.Errorf("unexpected sale: %+v", sale)
	}
	if got := env.balance(t, "bob"); got != 0 {
		t.Errorf("bob balance = %d, want 0", got)
	}
	if got := env.balance(t, "seller"); got != 925 {
		t.Errorf("seller balance = %d, want 925", got)
	}
	if owner, _ := env.assets.OwnerOf("nft-1"); owner != "bob" {
		t.Errorf("owner = %s, want bob", owner)
	}
	if env.listings.Exists("nft-1") {
		t.Error("listing should be purged by the sale")
	}

	// Only the accepted offer is consumed.
	remaining := env.offers.ListByAsset("nft-1")
	if len(remaining) != 1 || remaining[0].Buyer != "carol" {
		t.Errorf("expected carol's offer to survive, got %+v", remaining)
	}
}

func TestAcceptOffer_Errors(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "alice", 0)
	env.register(t, "bob", 500)
	env.register(t, "carol", 0)
	env.mint(t, "nft-1", "alice", 0)

	if _, err := env.trader.AcceptOffer("alice", "nft-1", "bob"); !errors.Is(err, domain.ErrOfferNotFound) {
		t.Errorf("no offer: expected ErrOfferNotFound, got %v", err)
	}

	if _, err := env.trader.MakeOffer("bob", "nft-1", 300, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.trader.AcceptOffer("carol", "nft-1", "bob"); !errors.Is(err, domain.ErrNotOwner) {
		t.Errorf("non-owner: expected ErrNotOwner, got %v", err)
	}
}

func TestAcceptOffer_Expired(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "alice", 0)
	env.register(t, "bob", 500)
	env.mint(t, "nft-1", "alice", 0)

	if _, err := env.trader.MakeOffer("bob", "nft-1", 300, 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	env.chain.Advance(51)

	if _, err := env.trader.AcceptOffer("alice", "nft-1", "bob"); !errors.Is(err, domain.ErrOfferExpired) {
		t.Errorf("expected ErrOfferExpired, got %v", err)
	}
}

func TestAcceptOffer_BalanceDroppedSinceOffer(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "alice", 0)
	env.register(t, "bob", 500)
	env.register(t, "carol", 0)
	env.mint(t, "nft-1", "alice", 0)
	env.mint(t, "nft-2", "carol", 0)

	if _, err := env.trader.MakeOffer("bob", "nft-1", 500, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Bob spends his balance elsewhere before acceptance.
	if _, err := env.trader.List("carol", "nft-2", 400); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.trader.Buy("bob", "nft-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := env.trader.AcceptOffer("alice", "nft-1", "bob"); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
	// The offer stays on record and ownership is unchanged.
	if _, err := env.offers.Get("nft-1", "bob"); err != nil {
		t.Errorf("offer should survive failed acceptance: %v", err)
	}
	if owner, _ := env.assets.OwnerOf("nft-1"); owner != "alice" {
		t.Errorf("owner = %s, want alice", owner)
	}
}

// Auctions.

func TestStartAuction(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "alice", 0)
	env.mint(t, "nft-1", "alice", 0)
	env.chain.Advance(10)

	auction, err := env.trader.StartAuction("alice", "nft-1", 100, 200, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auction.StartedAt != 10 || auction.EndBlock != 210 {
		t.Errorf("unexpected window: %+v", auction)
	}
	if auction.ReserveMet {
		t.Error("reserve should not be met before any bid")
	}
	if auction.HasBid() {
		t.Error("fresh auction should have no bid")
	}
}

func TestStartAuction_NoReserveIsAlwaysMet(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "alice", 0)
	env.mint(t, "nft-1", "alice", 0)

	auction, err := env.trader.StartAuction("alice", "nft-1", 100, domain.MinAuctionDuration, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !auction.ReserveMet {
		t.Error("zero reserve should report met")
	}
}

func TestStartAuction_Errors(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "alice", 0)
	env.register(t, "bob", 0)
	env.mint(t, "nft-1", "alice", 0)
	env.mint(t, "nft-2", "alice", 0)

	if _, err := env.trader.StartAuction("bob", "nft-1", 100, 200, 0); !errors.Is(err, domain.ErrNotOwner) {
		t.Errorf("non-owner: expected ErrNotOwner, got %v", err)
	}
	if _, err := env.trader.StartAuction("alice", "nft-1", 0, 200, 0); !errors.Is(err, domain.ErrInvalidPrice) {
		t.Errorf("zero min bid: expected ErrInvalidPrice, got %v", err)
	}

	var vErr *domain.ValidationError
	if _, err := env.trader.StartAuction("alice", "nft-1", 100, domain.MinAuctionDuration-1, 0); !errors.As(err, &vErr) {
		t.Errorf("short duration: expected ValidationError, got %v", err)
	}
	if _, err := env.trader.StartAuction("alice", "nft-1", 100, domain.MaxAuctionDuration+1, 0); !errors.As(err, &vErr) {
		t.Errorf("long duration: expected ValidationError, got %v", err)
	}
	if _, err := env.trader.StartAuction("alice", "nft-1", 100, 200, -1); !errors.As(err, &vErr) {
		t.Errorf("negative reserve: expected ValidationError, got %v", err)
	}

	if _, err := env.trader.List("alice", "nft-2", 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.trader.StartAuction("alice", "nft-2", 100, 200, 0); !errors.Is(err, domain.ErrListingExists) {
		t.Errorf("listed asset: expected ErrListingExists, got %v", err)
	}

	if _, err := env.trader.StartAuction("alice", "nft-1", 100, 200, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.trader.StartAuction("alice", "nft-1", 100, 200, 0); !errors.Is(err, domain.ErrAuctionExists) {
		t.Errorf("double auction: expected ErrAuctionExists, got %v", err)
	}
}

func TestPlaceBid_EscrowsAndRefunds(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "alice", 0)
	env.register(t, "bob", 1000)
	env.register(t, "carol", 1000)
	env.mint(t, "nft-1", "alice", 0)

	if _, err := env.trader.StartAuction("alice", "nft-1", 100, 200, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// First bid must meet the minimum.
	if _, _, _, err := env.trader.PlaceBid("bob", "nft-1", 99); !errors.Is(err, domain.ErrInvalidPrice) {
		t.Errorf("below min: expected ErrInvalidPrice, got %v", err)
	}
	if _, prev, _, err := env.trader.PlaceBid("bob", "nft-1", 100); err != nil || prev != "" {
		t.Fatalf("first bid: prev=%q err=%v", prev, err)
	}
	if got := env.balance(t, "bob"); got != 900 {
		t.Errorf("bob balance = %d, want 900", got)
	}
	if got := env.balance(t, domain.EscrowAccountID); got != 100 {
		t.Errorf("escrow balance = %d, want 100", got)
	}

	// Raise must be at least 5%: 104 fails, 105 succeeds and refunds bob.
	if _, _, _, err := env.trader.PlaceBid("carol", "nft-1", 104); !errors.Is(err, domain.ErrInvalidPrice) {
		t.Errorf("short raise: expected ErrInvalidPrice, got %v", err)
	}
	_, prevBidder, prevBid, err := env.trader.PlaceBid("carol", "nft-1", 105)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prevBidder != "bob" || prevBid != 100 {
		t.Errorf("outbid = %s/%d, want bob/100", prevBidder, prevBid)
	}
	if got := env.balance(t, "bob"); got != 1000 {
		t.Errorf("bob balance after refund = %d, want 1000", got)
	}
	if got := env.balance(t, "carol"); got != 895 {
		t.Errorf("carol balance = %d, want 895", got)
	}
	if got := env.balance(t, domain.EscrowAccountID); got != 105 {
		t.Errorf("escrow balance = %d, want 105", got)
	}

	auction, err := env.auctions.Get("nft-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auction.CurrentBidder != "carol" || auction.CurrentBid != 105 {
		t.Errorf("unexpected leading bid: %+v", auction)
	}
}

// A leading bid below 20 makes the truncated 5% raise zero, so an equal
// bid from another bidder is accepted and takes the lead.
func TestPlaceBid_SmallBidZeroMinimumRaise(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "alice", 0)
	env.register(t, "bob", 100)
	env.register(t, "carol", 100)
	env.mint(t, "nft-1", "alice", 0)

	if _, err := env.trader.StartAuction("alice", "nft-1", 1, 200, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, _, err := env.trader.PlaceBid("bob", "nft-1", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, _, err := env.trader.PlaceBid("carol", "nft-1", 10); err != nil {
		t.Fatalf("equal bid under 20 should be accepted: %v", err)
	}

	auction, err := env.auctions.Get("nft-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auction.CurrentBidder != "carol" || auction.CurrentBid != 10 {
		t.Errorf("unexpected leading bid: %+v", auction)
	}
	if got := env.balance(t, "bob"); got != 100 {
		t.Errorf("bob should be refunded, balance = %d", got)
	}
}

func TestPlaceBid_Errors(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "alice", 0)
	env.register(t, "bob", 50)
	env.mint(t, "nft-1", "alice", 0)

	if _, _, _, err := env.trader.PlaceBid("bob", "nft-1", 100); !errors.Is(err, domain.ErrAuctionNotFound) {
		t.Errorf("no auction: expected ErrAuctionNotFound, got %v", err)
	}

	if _, err := env.trader.StartAuction("alice", "nft-1", 100, 200, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, _, err := env.trader.PlaceBid("alice", "nft-1", 100); !errors.Is(err, domain.ErrSelfPurchase) {
		t.Errorf("seller bidding: expected ErrSelfPurchase, got %v", err)
	}
	if _, _, _, err := env.trader.PlaceBid("bob", "nft-1", 100); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Errorf("over balance: expected ErrInsufficientFunds, got %v", err)
	}

	env.chain.Advance(201)
	if _, _, _, err := env.trader.PlaceBid("bob", "nft-1", 100); !errors.Is(err, domain.ErrAuctionEnded) {
		t.Errorf("ended auction: expected ErrAuctionEnded, got %v", err)
	}
}

func TestPlaceBid_ReserveMet(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "alice", 0)
	env.register(t, "bob", 1000)
	env.mint(t, "nft-1", "alice", 0)

	if _, err := env.trader.StartAuction("alice", "nft-1", 100, 200, 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, _, err := env.trader.PlaceBid("bob", "nft-1", 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a, _ := env.auctions.Get("nft-1"); a.ReserveMet {
		t.Error("reserve should not be met at 100")
	}
	if _, _, _, err := env.trader.PlaceBid("bob", "nft-1", 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a, _ := env.auctions.Get("nft-1"); !a.ReserveMet {
		t.Error("reserve should be met at 500")
	}
}

func TestFinalizeAuction_PaysOutFromEscrow(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "creator", 0)
	env.register(t, "seller", 0)
	env.register(t, "bob", 1000)
	env.mintOwnedBy(t, "nft-1", "creator", "seller", 500)

	if _, err := env.trader.StartAuction("seller", "nft-1", 100, 200, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, _, err := env.trader.PlaceBid("bob", "nft-1", 1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := env.trader.FinalizeAuction("nft-1"); !errors.Is(err, domain.ErrAuctionActive) {
		t.Errorf("before end: expected ErrAuctionActive, got %v", err)
	}

	env.chain.Advance(201)
	auction, sale, err := env.trader.FinalizeAuction("nft-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auction.CurrentBidder != "bob" {
		t.Errorf("winner = %s, want bob", auction.CurrentBidder)
	}
	if sale == nil || sale.Kind != domain.SaleKindAuction || sale.Price != 1000 {
		t.Fatalf("unexpected sale: %+v", sale)
	}

	if got := env.balance(t, domain.EscrowAccountID); got != 0 {
		t.Errorf("escrow balance = %d, want 0", got)
	}
	if got := env.balance(t, "seller"); got != 925 {
		t.Errorf("seller balance = %d, want 925", got)
	}
	if got := env.balance(t, "creator"); got != 50 {
		t.Errorf("creator balance = %d, want 50", got)
	}
	if got := env.balance(t, testPlatform); got != 25 {
		t.Errorf("platform balance = %d, want 25", got)
	}
	if owner, _ := env.assets.OwnerOf("nft-1"); owner != "bob" {
		t.Errorf("owner = %s, want bob", owner)
	}

	// Finalization is terminal.
	if _, _, err := env.trader.FinalizeAuction("nft-1"); !errors.Is(err, domain.ErrAuctionNotFound) {
		t.Errorf("second finalize: expected ErrAuctionNotFound, got %v", err)
	}
}

func TestFinalizeAuction_NoBids(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "alice", 0)
	env.mint(t, "nft-1", "alice", 0)

	if _, err := env.trader.StartAuction("alice", "nft-1", 100, 200, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	env.chain.Advance(201)

	auction, sale, err := env.trader.FinalizeAuction("nft-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sale != nil {
		t.Errorf("expected no sale, got %+v", sale)
	}
	if auction.HasBid() {
		t.Errorf("unexpected bid on auction: %+v", auction)
	}
	if env.auctions.Exists("nft-1") {
		t.Error("auction record should be deleted")
	}
	if owner, _ := env.assets.OwnerOf("nft-1"); owner != "alice" {
		t.Errorf("owner = %s, want alice", owner)
	}
	if totals := env.revenue.Totals(); totals.SaleCount != 0 {
		t.Errorf("sale count = %d, want 0", totals.SaleCount)
	}
}

func TestCancelAuction(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "alice", 0)
	env.register(t, "bob", 1000)
	env.mint(t, "nft-1", "alice", 0)

	if _, err := env.trader.StartAuction("alice", "nft-1", 100, 200, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := env.trader.CancelAuction("bob", "nft-1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("non-seller: expected ErrUnauthorized, got %v", err)
	}
	if _, err := env.trader.CancelAuction("alice", "nft-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.auctions.Exists("nft-1") {
		t.Error("auction should be gone")
	}
}

func TestCancelAuction_RefusedAfterBid(t *testing.T) {
	env := newTradeEnv(t)
	env.register(t, "alice", 0)
	env.register(t, "bob", 1000)
	env.mint(t, "nft-1", "alice", 0)

	if _, err := env.trader.StartAuction("alice", "nft-1", 100, 200, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, _, err := env.trader.PlaceBid("bob", "nft-1", 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := env.trader.CancelAuction("alice", "nft-1"); !errors.Is(err, domain.ErrAuctionActive) {
		t.Errorf("expected ErrAuctionActive, got %v", err)
	}
	// The bid stays escrowed.
	if got := env.balance(t, domain.EscrowAccountID); got != 100 {
		t.Errorf("escrow balance = %d, want 100", got)
	}
}
