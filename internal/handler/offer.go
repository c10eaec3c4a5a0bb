package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mintbay/mintbay/internal/service"
)

// OfferHandler handles HTTP requests for offer endpoints.
type OfferHandler struct {
	offerSvc *service.OfferService
}

// NewOfferHandler creates a new OfferHandler.
func NewOfferHandler(offerSvc *service.OfferService) *OfferHandler {
	return &OfferHandler{offerSvc: offerSvc}
}

// makeOfferRequest is the JSON request body for POST /offers.
type makeOfferRequest struct {
	AccountID string `json:"account_id"`
	AssetID   string `json:"asset_id"`
	Amount    int64  `json:"amount"`
	ExpiresAt uint64 `json:"expires_at"`
}

// acceptOfferRequest is the JSON request body for POST /offers/{asset_id}/accept.
type acceptOfferRequest struct {
	AccountID string `json:"account_id"`
	Buyer     string `json:"buyer"`
}

// Make handles POST /offers.
func (h *OfferHandler) Make(w http.ResponseWriter, r *http.Request) {
	var req makeOfferRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	offer, err := h.offerSvc.Make(req.AccountID, req.AssetID, req.Amount, req.ExpiresAt)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, buildOfferResponse(offer))
}

// Cancel handles DELETE /offers/{asset_id}. The caller identifies itself
// via the account_id query parameter; only the caller's own offer is
// cancellable.
func (h *OfferHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "asset_id")
	accountID := r.URL.Query().Get("account_id")

	offer, err := h.offerSvc.Cancel(accountID, assetID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildOfferResponse(offer))
}

// Accept handles POST /offers/{asset_id}/accept.
func (h *OfferHandler) Accept(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "asset_id")

	var req acceptOfferRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	sale, err := h.offerSvc.Accept(req.AccountID, assetID, req.Buyer)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildSaleResponse(sale))
}
