package service

import (
	"testing"
	"time"

	"github.com/mintbay/mintbay/internal/domain"
	"github.com/mintbay/mintbay/internal/engine"
	"github.com/mintbay/mintbay/internal/store"
)

const testPlatform = "marketplace.treasury"

// testEnv wires up the full service stack over fresh stores, with a
// manually advanced chain and no webhook dispatch.
type testEnv struct {
	chain    *engine.Chain
	ledger   *store.LedgerStore
	assets   *store.AssetStore
	listings *store.ListingStore
	offers   *store.OfferStore
	auctions *store.AuctionStore
	sales    *store.SaleStore
	revenue  *store.RevenueStore

	accounts *AccountService
	assetSvc *AssetService
	market   *MarketService
	offerSvc *OfferService
	auction  *AuctionService
	stats    *StatsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		chain:    engine.NewChain(time.Hour),
		ledger:   store.NewLedgerStore(),
		assets:   store.NewAssetStore(),
		listings: store.NewListingStore(),
		offers:   store.NewOfferStore(),
		auctions: store.NewAuctionStore(),
		sales:    store.NewSaleStore(),
		revenue:  store.NewRevenueStore(),
	}
	for _, id := range []string{testPlatform, domain.EscrowAccountID} {
		if err := env.ledger.CreateAccount(&domain.Account{AccountID: id, CreatedAt: time.Now()}); err != nil {
			t.Fatalf("create system account %s: %v", id, err)
		}
	}

	trader := engine.NewTrader(env.chain, env.ledger, env.assets, env.listings, env.offers, env.auctions, env.sales, env.revenue, testPlatform)
	env.accounts = NewAccountService(env.ledger)
	env.assetSvc = NewAssetService(env.assets, env.ledger, env.listings, env.auctions)
	env.market = NewMarketService(trader, env.listings, nil)
	env.offerSvc = NewOfferService(trader, env.offers, env.assets, env.chain, nil)
	env.auction = NewAuctionService(trader, env.auctions, nil)
	env.stats = NewStatsService(env.revenue, env.sales, env.assets, env.chain)
	return env
}

func (env *testEnv) register(t *testing.T, id string, balance int64) {
	t.Helper()
	if _, err := env.accounts.Register(RegisterAccountRequest{AccountID: id, InitialBalance: balance}); err != nil {
		t.Fatalf("register %s: %v", id, err)
	}
}

func (env *testEnv) mint(t *testing.T, assetID, creator string, royaltyBPS int64) {
	t.Helper()
	if _, err := env.assetSvc.Mint(MintAssetRequest{AssetID: assetID, Creator: creator, RoyaltyBPS: royaltyBPS}); err != nil {
		t.Fatalf("mint %s: %v", assetID, err)
	}
}
