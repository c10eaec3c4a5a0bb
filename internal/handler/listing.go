package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mintbay/mintbay/internal/service"
)

// ListingHandler handles HTTP requests for fixed-price listing endpoints.
type ListingHandler struct {
	marketSvc *service.MarketService
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(marketSvc *service.MarketService) *ListingHandler {
	return &ListingHandler{marketSvc: marketSvc}
}

// createListingRequest is the JSON request body for POST /listings.
type createListingRequest struct {
	AccountID string `json:"account_id"`
	AssetID   string `json:"asset_id"`
	Price     int64  `json:"price"`
}

// updateListingRequest is the JSON request body for PATCH /listings/{asset_id}.
type updateListingRequest struct {
	AccountID string `json:"account_id"`
	Price     int64  `json:"price"`
}

// buyRequest is the JSON request body for POST /listings/{asset_id}/buy.
type buyRequest struct {
	AccountID string `json:"account_id"`
}

// Create handles POST /listings.
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createListingRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	listing, err := h.marketSvc.List(req.AccountID, req.AssetID, req.Price)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, buildListingResponse(listing))
}

// UpdatePrice handles PATCH /listings/{asset_id}.
func (h *ListingHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "asset_id")

	var req updateListingRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	listing, err := h.marketSvc.UpdatePrice(req.AccountID, assetID, req.Price)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildListingResponse(listing))
}

// Delete handles DELETE /listings/{asset_id}. The caller identifies
// itself via the account_id query parameter.
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "asset_id")
	accountID := r.URL.Query().Get("account_id")

	listing, err := h.marketSvc.Unlist(accountID, assetID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildListingResponse(listing))
}

// Buy handles POST /listings/{asset_id}/buy.
func (h *ListingHandler) Buy(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "asset_id")

	var req buyRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	sale, err := h.marketSvc.Buy(req.AccountID, assetID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildSaleResponse(sale))
}

// Browse handles GET /listings.
func (h *ListingHandler) Browse(w http.ResponseWriter, r *http.Request) {
	page, limit, err := parsePagination(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	listings, total, err := h.marketSvc.Browse(page, limit)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	items := make([]listingResponse, len(listings))
	for i, l := range listings {
		items[i] = buildListingResponse(l)
	}
	WriteJSON(w, http.StatusOK, pageResponse{
		Items: items,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// parsePagination reads optional page/limit query parameters with
// defaults of 1 and 20. Range validation happens in the service layer.
func parsePagination(r *http.Request) (page, limit int, err error) {
	page, limit = 1, 20
	if v := r.URL.Query().Get("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, errInvalidPagination
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, errInvalidPagination
		}
	}
	return page, limit, nil
}
