package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codyseavey/tcg-pricewatch/internal/api"
	"github.com/codyseavey/tcg-pricewatch/internal/config"
	"github.com/codyseavey/tcg-pricewatch/internal/database"
	"github.com/codyseavey/tcg-pricewatch/internal/services"
)

func main() {
	cfg := config.Load()

	db, err := database.Initialize(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	store := services.NewSnapshotStore(db)
	resolver := services.NewResolver(
		services.NewTCGdexClient(cfg),
		services.NewPokemonTCGClient(cfg),
	)
	fetcher := services.NewFetcher(cfg, resolver, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the background fetch worker only when an interval is configured;
	// deployments that ingest via cron run cmd/fetch instead.
	var worker *services.FetchWorker
	if cfg.FetchInterval > 0 {
		worker = services.NewFetchWorker(fetcher, cfg.FetchInterval)
		go worker.Start(ctx)
	}

	router := api.SetupRouter(cfg, store, worker)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
