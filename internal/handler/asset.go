package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mintbay/mintbay/internal/service"
)

// AssetHandler handles HTTP requests for asset endpoints.
type AssetHandler struct {
	assetSvc *service.AssetService
	offerSvc *service.OfferService
	statsSvc *service.StatsService
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assetSvc *service.AssetService, offerSvc *service.OfferService, statsSvc *service.StatsService) *AssetHandler {
	return &AssetHandler{
		assetSvc: assetSvc,
		offerSvc: offerSvc,
		statsSvc: statsSvc,
	}
}

// mintAssetRequest is the JSON request body for POST /assets.
type mintAssetRequest struct {
	AssetID    string `json:"asset_id"`
	Creator    string `json:"creator"`
	RoyaltyBPS int64  `json:"royalty_bps"`
	TokenURI   string `json:"token_uri"`
}

// Mint handles POST /assets.
func (h *AssetHandler) Mint(w http.ResponseWriter, r *http.Request) {
	var req mintAssetRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	asset, err := h.assetSvc.Mint(service.MintAssetRequest{
		AssetID:    req.AssetID,
		Creator:    req.Creator,
		RoyaltyBPS: req.RoyaltyBPS,
		TokenURI:   req.TokenURI,
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, buildAssetResponse(asset))
}

// Get handles GET /assets/{asset_id}.
func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "asset_id")

	detail, err := h.assetSvc.Get(assetID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildAssetDetailResponse(detail))
}

// ListOffers handles GET /assets/{asset_id}/offers.
func (h *AssetHandler) ListOffers(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "asset_id")

	views, err := h.offerSvc.ListByAsset(assetID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	resp := make([]offerResponse, len(views))
	for i, v := range views {
		resp[i] = buildOfferViewResponse(v)
	}
	WriteJSON(w, http.StatusOK, resp)
}

// ListSales handles GET /assets/{asset_id}/sales.
func (h *AssetHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "asset_id")

	sales, err := h.statsSvc.SalesByAsset(assetID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	resp := make([]saleResponse, len(sales))
	for i, s := range sales {
		resp[i] = buildSaleResponse(s)
	}
	WriteJSON(w, http.StatusOK, resp)
}
