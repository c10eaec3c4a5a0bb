package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mintbay/mintbay/internal/config"
	"github.com/mintbay/mintbay/internal/domain"
	"github.com/mintbay/mintbay/internal/engine"
	"github.com/mintbay/mintbay/internal/handler"
	"github.com/mintbay/mintbay/internal/service"
	"github.com/mintbay/mintbay/internal/store"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Instantiate stores.
	ledger := store.NewLedgerStore()
	assets := store.NewAssetStore()
	listings := store.NewListingStore()
	offers := store.NewOfferStore()
	auctions := store.NewAuctionStore()
	sales := store.NewSaleStore()
	revenue := store.NewRevenueStore()
	webhooks := store.NewWebhookStore()

	// System accounts: platform treasury collects fees, escrow holds
	// leading auction bids.
	for _, id := range []string{cfg.PlatformAccount, domain.EscrowAccountID} {
		if err := ledger.CreateAccount(&domain.Account{AccountID: id, CreatedAt: time.Now()}); err != nil {
			logger.Error("failed to create system account", slog.String("account", id), slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Engine.
	chain := engine.NewChain(cfg.BlockInterval)
	trader := engine.NewTrader(chain, ledger, assets, listings, offers, auctions, sales, revenue, cfg.PlatformAccount)

	// Services (events first — needed by the trading services).
	eventSvc := service.NewEventService(webhooks, ledger, cfg.WebhookTimeout)
	accountSvc := service.NewAccountService(ledger)
	assetSvc := service.NewAssetService(assets, ledger, listings, auctions)
	marketSvc := service.NewMarketService(trader, listings, eventSvc)
	offerSvc := service.NewOfferService(trader, offers, assets, chain, eventSvc)
	auctionSvc := service.NewAuctionService(trader, auctions, eventSvc)
	statsSvc := service.NewStatsService(revenue, sales, assets, chain)

	// Router.
	router := handler.NewRouter(accountSvc, assetSvc, marketSvc, offerSvc, auctionSvc, statsSvc, eventSvc, logger)

	// Start the block clock with a cancellable context.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go chain.Start(ctx)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown: stop HTTP server, cancel context (stops the
	// block clock).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	cancel()

	logger.Info("server stopped")
}
