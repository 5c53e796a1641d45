package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/codyseavey/tcg-pricewatch/internal/config"
	"github.com/codyseavey/tcg-pricewatch/internal/database"
	"github.com/codyseavey/tcg-pricewatch/internal/services"
	"github.com/codyseavey/tcg-pricewatch/internal/watchlist"
)

func main() {
	var watchlistPath string
	var debug bool
	flag.StringVar(&watchlistPath, "watchlist", "", "path to watchlist.json (default from WATCHLIST_PATH)")
	flag.BoolVar(&debug, "debug", false, "log per-card fetch outcomes")
	flag.Parse()

	cfg := config.Load()
	if watchlistPath != "" {
		cfg.WatchlistPath = watchlistPath
	}

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
	fetcher.SetDebug(debug)

	if debug {
		keyState := "MISSING (add to .env)"
		if cfg.PokemonTCGAPIKey != "" {
			keyState = "set"
		}
		log.Printf("Pokemon TCG API key: %s", keyState)
	}

	n, err := fetcher.Run(context.Background())
	if err != nil {
		var missing *watchlist.ErrNotFound
		if errors.As(err, &missing) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Saved prices for %d cards.\n", n)
}
