package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/gobblego/config"
	"github.com/yeremiapane/gobblego/middlewares"
	"github.com/yeremiapane/gobblego/notify"
	"github.com/yeremiapane/gobblego/router"
	"github.com/yeremiapane/gobblego/services"
	"github.com/yeremiapane/gobblego/utils"
)

func main() {
	// Load .env file di awal sebelum apapun
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found")
	}

	cfg := config.Load()
	utils.InitLoggerWithLevel(cfg.LogLevel)

	// Set gin mode
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := config.InitStore(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to open client store: %v", err)
	}
	defer store.Close()

	hub := notify.NewHub(100)
	backend := services.NewBackendService(&cfg.Backend)
	sessions := services.NewSessionService(backend, store, hub)
	menu := services.NewMenuService(backend, hub)
	cart := services.NewCartService(backend, sessions, menu, store, hub)
	orders := services.NewOrderService(backend, sessions, cart, hub, cfg.Currency)
	assets := config.InitAssets(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Restore identity dan badge dari store lokal
	sessions.Load(ctx)
	cart.RestoreSnapshot(ctx)
	if _, err := menu.Fetch(ctx, ""); err != nil {
		utils.ErrorLogger.Warnf("Menu not loaded at startup: %v", err)
	}

	poller := services.NewCartPoller(cart, orders, sessions, cfg.PollInterval)
	poller.Start(ctx)

	r := router.SetupRouter(&router.Dependencies{
		Sessions:    sessions,
		Menu:        menu,
		Cart:        cart,
		Orders:      orders,
		Assets:      assets,
		Hub:         hub,
		Currency:    cfg.Currency,
		JoinURLBase: cfg.JoinURLBase,
		CORSOrigins: cfg.CORSOrigins,
		RateLimiter: middlewares.NewRateLimiter(cfg.RateLimit, cfg.RateBurst),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Backend.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s (backend %s)", cfg.Port, cfg.Backend.BaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.InfoLogger.Println("Shutting down...")
	// view ditutup dulu supaya respons poll yang dibatalkan tidak diterapkan
	cart.Close()
	orders.Close()
	poller.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Errorf("Server forced to shutdown: %v", err)
	}
	utils.InfoLogger.Println("Server exited")
}
