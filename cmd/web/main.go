package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/gateway"
	"storefront/internal/httpserver"
	"storefront/internal/notifier"
	"storefront/internal/session"
	"storefront/internal/ws"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[web] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	backend := gateway.New(cfg.BackendBaseURL, cfg.BackendTimeout, cfg.BackendPricesInCents, logger)
	sessions := session.NewManager(session.NewPostgres(dbpool), cfg.SessionTTL)
	bus := notifier.NewBus()
	carts := cart.NewRegistry(backend, bus, logger)
	orchestrator := checkout.New(backend, cfg.PublicBaseURL, logger)
	hub := ws.NewHub(logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Products:          backend,
		Auth:              backend,
		History:           backend,
		Carts:             carts,
		Checkout:          orchestrator,
		Sessions:          sessions,
		Bus:               bus,
		Hub:               hub,
		AllowedOrigins:    cfg.AllowedOrigins,
		BadgePollInterval: cfg.BadgePollInterval,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	hub.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
