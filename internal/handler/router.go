package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mintbay/mintbay/internal/service"
)

// NewRouter creates a chi router with all routes registered, request
// logging, and Content-Type validation middleware.
func NewRouter(
	accountSvc *service.AccountService,
	assetSvc *service.AssetService,
	marketSvc *service.MarketService,
	offerSvc *service.OfferService,
	auctionSvc *service.AuctionService,
	statsSvc *service.StatsService,
	eventSvc *service.EventService,
	logger *slog.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger))
	r.Use(contentTypeJSON)

	// Create handlers.
	accountH := NewAccountHandler(accountSvc, assetSvc)
	assetH := NewAssetHandler(assetSvc, offerSvc, statsSvc)
	listingH := NewListingHandler(marketSvc)
	offerH := NewOfferHandler(offerSvc)
	auctionH := NewAuctionHandler(auctionSvc)
	statsH := NewStatsHandler(statsSvc)
	webhookH := NewWebhookHandler(eventSvc)

	// Health check and chain clock.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/chain", statsH.Chain)

	// Account routes.
	r.Post("/accounts", accountH.Register)
	r.Get("/accounts/{account_id}/balance", accountH.GetBalance)
	r.Post("/accounts/{account_id}/deposits", accountH.Deposit)
	r.Get("/accounts/{account_id}/assets", accountH.ListAssets)

	// Asset routes.
	r.Post("/assets", assetH.Mint)
	r.Get("/assets/{asset_id}", assetH.Get)
	r.Get("/assets/{asset_id}/offers", assetH.ListOffers)
	r.Get("/assets/{asset_id}/sales", assetH.ListSales)

	// Listing routes.
	r.Get("/listings", listingH.Browse)
	r.Post("/listings", listingH.Create)
	r.Patch("/listings/{asset_id}", listingH.UpdatePrice)
	r.Delete("/listings/{asset_id}", listingH.Delete)
	r.Post("/listings/{asset_id}/buy", listingH.Buy)

	// Offer routes.
	r.Post("/offers", offerH.Make)
	r.Delete("/offers/{asset_id}", offerH.Cancel)
	r.Post("/offers/{asset_id}/accept", offerH.Accept)

	// Auction routes.
	r.Get("/auctions", auctionH.Browse)
	r.Post("/auctions", auctionH.Start)
	r.Post("/auctions/{asset_id}/bids", auctionH.Bid)
	r.Post("/auctions/{asset_id}/finalize", auctionH.Finalize)
	r.Delete("/auctions/{asset_id}", auctionH.Cancel)

	// Stats routes.
	r.Get("/stats/revenue", statsH.Revenue)

	// Webhook routes.
	r.Post("/webhooks", webhookH.Upsert)
	r.Get("/webhooks", webhookH.List)
	r.Delete("/webhooks/{webhook_id}", webhookH.Delete)

	return r
}

// requestLogging returns middleware that logs each request's method, path,
// status code, and duration using slog.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// contentTypeJSON is middleware that validates Content-Type for POST, PUT,
// and PATCH requests. If the Content-Type header doesn't start with
// "application/json", it returns 400 Bad Request before the handler runs.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct == "" || !strings.HasPrefix(ct, "application/json") {
				WriteError(w, http.StatusBadRequest, "invalid_request",
					"Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
