package handler

import (
	"time"

	"github.com/mintbay/mintbay/internal/domain"
	"github.com/mintbay/mintbay/internal/service"
)

// Shared JSON response shapes. Amounts are integer value units; heights
// are block heights; wall-clock timestamps are RFC 3339 UTC.

type accountResponse struct {
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
	CreatedAt string `json:"created_at"`
}

type assetResponse struct {
	AssetID    string `json:"asset_id"`
	Owner      string `json:"owner"`
	Creator    string `json:"creator"`
	RoyaltyBPS int64  `json:"royalty_bps"`
	TokenURI   string `json:"token_uri,omitempty"`
	MintedAt   string `json:"minted_at"`
}

type assetDetailResponse struct {
	assetResponse
	Listing *listingResponse `json:"listing"`
	Auction *auctionResponse `json:"auction"`
}

type listingResponse struct {
	AssetID  string `json:"asset_id"`
	Seller   string `json:"seller"`
	Price    int64  `json:"price"`
	ListedAt uint64 `json:"listed_at"`
}

type offerResponse struct {
	AssetID   string `json:"asset_id"`
	Buyer     string `json:"buyer"`
	Amount    int64  `json:"amount"`
	ExpiresAt uint64 `json:"expires_at"`
	CreatedAt uint64 `json:"created_at"`
	Expired   *bool  `json:"expired,omitempty"`
}

type auctionResponse struct {
	AssetID       string  `json:"asset_id"`
	Seller        string  `json:"seller"`
	MinBid        int64   `json:"min_bid"`
	ReservePrice  int64   `json:"reserve_price"`
	CurrentBid    int64   `json:"current_bid"`
	CurrentBidder *string `json:"current_bidder"`
	ReserveMet    bool    `json:"reserve_met"`
	StartedAt     uint64  `json:"started_at"`
	EndBlock      uint64  `json:"end_block"`
}

type saleResponse struct {
	SaleID      string `json:"sale_id"`
	AssetID     string `json:"asset_id"`
	Seller      string `json:"seller"`
	Buyer       string `json:"buyer"`
	Kind        string `json:"kind"`
	Price       int64  `json:"price"`
	Fee         int64  `json:"fee"`
	Royalty     int64  `json:"royalty"`
	NetProceeds int64  `json:"net_proceeds"`
	ExecutedAt  uint64 `json:"executed_at"`
	Timestamp   string `json:"timestamp"`
}

// pageResponse wraps paginated collections.
type pageResponse struct {
	Items any `json:"items"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

func buildAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		AccountID: a.AccountID,
		Balance:   a.Balance,
		CreatedAt: formatTime(a.CreatedAt),
	}
}

func buildAssetResponse(a *domain.Asset) assetResponse {
	return assetResponse{
		AssetID:    a.AssetID,
		Owner:      a.Owner,
		Creator:    a.Creator,
		RoyaltyBPS: a.RoyaltyBPS,
		TokenURI:   a.TokenURI,
		MintedAt:   formatTime(a.MintedAt),
	}
}

func buildAssetDetailResponse(d *service.AssetDetail) assetDetailResponse {
	resp := assetDetailResponse{assetResponse: buildAssetResponse(d.Asset)}
	if d.Listing != nil {
		l := buildListingResponse(d.Listing)
		resp.Listing = &l
	}
	if d.Auction != nil {
		a := buildAuctionResponse(d.Auction)
		resp.Auction = &a
	}
	return resp
}

func buildListingResponse(l *domain.Listing) listingResponse {
	return listingResponse{
		AssetID:  l.AssetID,
		Seller:   l.Seller,
		Price:    l.Price,
		ListedAt: l.ListedAt,
	}
}

func buildOfferResponse(o *domain.Offer) offerResponse {
	return offerResponse{
		AssetID:   o.AssetID,
		Buyer:     o.Buyer,
		Amount:    o.Amount,
		ExpiresAt: o.ExpiresAt,
		CreatedAt: o.CreatedAt,
	}
}

func buildOfferViewResponse(v service.OfferView) offerResponse {
	resp := buildOfferResponse(v.Offer)
	expired := v.Expired
	resp.Expired = &expired
	return resp
}

func buildAuctionResponse(a *domain.Auction) auctionResponse {
	resp := auctionResponse{
		AssetID:      a.AssetID,
		Seller:       a.Seller,
		MinBid:       a.MinBid,
		ReservePrice: a.ReservePrice,
		CurrentBid:   a.CurrentBid,
		ReserveMet:   a.ReserveMet,
		StartedAt:    a.StartedAt,
		EndBlock:     a.EndBlock,
	}
	if a.HasBid() {
		bidder := a.CurrentBidder
		resp.CurrentBidder = &bidder
	}
	return resp
}

func buildSaleResponse(s *domain.Sale) saleResponse {
	return saleResponse{
		SaleID:      s.SaleID,
		AssetID:     s.AssetID,
		Seller:      s.Seller,
		Buyer:       s.Buyer,
		Kind:        string(s.Kind),
		Price:       s.Price,
		Fee:         s.Fee,
		Royalty:     s.Royalty,
		NetProceeds: s.NetProceeds,
		ExecutedAt:  s.ExecutedAt,
		Timestamp:   formatTime(s.Timestamp),
	}
}
