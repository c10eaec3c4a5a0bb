package handler

import (
	"net/http"

	"github.com/mintbay/mintbay/internal/service"
)

// StatsHandler handles HTTP requests for the read-only stats endpoints.
type StatsHandler struct {
	statsSvc *service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsSvc *service.StatsService) *StatsHandler {
	return &StatsHandler{statsSvc: statsSvc}
}

// revenueResponse is the JSON response for GET /stats/revenue.
type revenueResponse struct {
	TotalFees      int64 `json:"total_fees"`
	TotalRoyalties int64 `json:"total_royalties"`
	TotalVolume    int64 `json:"total_volume"`
	SaleCount      int64 `json:"sale_count"`
}

// chainResponse is the JSON response for GET /chain.
type chainResponse struct {
	Height uint64 `json:"height"`
}

// Revenue handles GET /stats/revenue.
func (h *StatsHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	totals := h.statsSvc.Revenue()
	WriteJSON(w, http.StatusOK, revenueResponse{
		TotalFees:      totals.TotalFees,
		TotalRoyalties: totals.TotalRoyalties,
		TotalVolume:    totals.TotalVolume,
		SaleCount:      totals.SaleCount,
	})
}

// Chain handles GET /chain.
func (h *StatsHandler) Chain(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, chainResponse{Height: h.statsSvc.Height()})
}
