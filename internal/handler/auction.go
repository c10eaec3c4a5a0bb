package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mintbay/mintbay/internal/service"
)

// AuctionHandler handles HTTP requests for auction endpoints.
type AuctionHandler struct {
	auctionSvc *service.AuctionService
}

// NewAuctionHandler creates a new AuctionHandler.
func NewAuctionHandler(auctionSvc *service.AuctionService) *AuctionHandler {
	return &AuctionHandler{auctionSvc: auctionSvc}
}

// startAuctionRequest is the JSON request body for POST /auctions.
type startAuctionRequest struct {
	AccountID    string `json:"account_id"`
	AssetID      string `json:"asset_id"`
	MinBid       int64  `json:"min_bid"`
	Duration     uint64 `json:"duration"`
	ReservePrice int64  `json:"reserve_price"`
}

// placeBidRequest is the JSON request body for POST /auctions/{asset_id}/bids.
type placeBidRequest struct {
	AccountID string `json:"account_id"`
	Amount    int64  `json:"amount"`
}

// finalizeResponse reports how an auction closed. Sale is null when the
// auction ended without bids.
type finalizeResponse struct {
	Auction auctionResponse `json:"auction"`
	Sale    *saleResponse   `json:"sale"`
}

// Start handles POST /auctions.
func (h *AuctionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startAuctionRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	auction, err := h.auctionSvc.Start(req.AccountID, req.AssetID, req.MinBid, req.Duration, req.ReservePrice)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, buildAuctionResponse(auction))
}

// Bid handles POST /auctions/{asset_id}/bids.
func (h *AuctionHandler) Bid(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "asset_id")

	var req placeBidRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	auction, err := h.auctionSvc.Bid(req.AccountID, assetID, req.Amount)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildAuctionResponse(auction))
}

// Finalize handles POST /auctions/{asset_id}/finalize. Callable by
// anyone once the auction is past its end block.
func (h *AuctionHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "asset_id")

	auction, sale, err := h.auctionSvc.Finalize(assetID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	resp := finalizeResponse{Auction: buildAuctionResponse(auction)}
	if sale != nil {
		s := buildSaleResponse(sale)
		resp.Sale = &s
	}
	WriteJSON(w, http.StatusOK, resp)
}

// Cancel handles DELETE /auctions/{asset_id}. The caller identifies
// itself via the account_id query parameter.
func (h *AuctionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "asset_id")
	accountID := r.URL.Query().Get("account_id")

	auction, err := h.auctionSvc.Cancel(accountID, assetID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildAuctionResponse(auction))
}

// Browse handles GET /auctions.
func (h *AuctionHandler) Browse(w http.ResponseWriter, r *http.Request) {
	page, limit, err := parsePagination(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	auctions, total, err := h.auctionSvc.Browse(page, limit)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	items := make([]auctionResponse, len(auctions))
	for i, a := range auctions {
		items[i] = buildAuctionResponse(a)
	}
	WriteJSON(w, http.StatusOK, pageResponse{
		Items: items,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}
