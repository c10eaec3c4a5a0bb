package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mintbay/mintbay/internal/service"
)

// AccountHandler handles HTTP requests for account endpoints.
type AccountHandler struct {
	accountSvc *service.AccountService
	assetSvc   *service.AssetService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountSvc *service.AccountService, assetSvc *service.AssetService) *AccountHandler {
	return &AccountHandler{
		accountSvc: accountSvc,
		assetSvc:   assetSvc,
	}
}

// registerAccountRequest is the JSON request body for POST /accounts.
type registerAccountRequest struct {
	AccountID      string `json:"account_id"`
	InitialBalance int64  `json:"initial_balance"`
}

// depositRequest is the JSON request body for POST /accounts/{id}/deposits.
type depositRequest struct {
	Amount int64 `json:"amount"`
}

// Register handles POST /accounts.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerAccountRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	account, err := h.accountSvc.Register(service.RegisterAccountRequest{
		AccountID:      req.AccountID,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, buildAccountResponse(account))
}

// Deposit handles POST /accounts/{account_id}/deposits.
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "account_id")

	var req depositRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	account, err := h.accountSvc.Deposit(accountID, req.Amount)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildAccountResponse(account))
}

// GetBalance handles GET /accounts/{account_id}/balance.
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "account_id")

	account, err := h.accountSvc.GetBalance(accountID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildAccountResponse(account))
}

// ListAssets handles GET /accounts/{account_id}/assets.
func (h *AccountHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "account_id")

	assets, err := h.assetSvc.ListByOwner(accountID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	resp := make([]assetResponse, len(assets))
	for i, a := range assets {
		resp[i] = buildAssetResponse(a)
	}
	WriteJSON(w, http.StatusOK, resp)
}
