package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/codyseavey/tcg-pricewatch/internal/config"
	"github.com/codyseavey/tcg-pricewatch/internal/watchlist"
)

func writeWatchlist(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "watchlist.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write watchlist: %v", err)
	}
	return path
}

func fetcherConfig(watchlistPath string) *config.Config {
	return &config.Config{
		RequestDelay:  time.Millisecond,
		WatchlistPath: watchlistPath,
		WatchlistMax:  200,
	}
}

func TestFetcherRun_FallbackSavesCard(t *testing.T) {
	// Primary has never heard of the card, fallback has one priced variant.
	primary := &stubProvider{name: "primary", fetchErrs: map[string]error{
		"swsh7-169": notFoundErr("swsh7-169"),
	}}
	fallback := &stubProvider{name: "fallback"}

	store := newTestStore(t)
	path := writeWatchlist(t, `{"card_ids": ["swsh7-169"]}`)
	fetcher := NewFetcher(fetcherConfig(path), NewResolver(primary, fallback), store)

	n, err := fetcher.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 card processed, got %d", n)
	}

	card, err := store.GetCard("swsh7-169")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card == nil {
		t.Fatal("expected the card to be persisted")
	}
	history, err := store.History("swsh7-169", "", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("expected 1 snapshot row, got %d", len(history))
	}
}

func TestFetcherRun_SkipsUnresolvableCards(t *testing.T) {
	primary := &stubProvider{name: "primary", fetchErrs: map[string]error{
		"gone-1": notFoundErr("gone-1"),
	}}
	fallback := &stubProvider{name: "fallback", fetchErrs: map[string]error{
		"gone-1": &TransientError{Provider: "fallback", Err: errors.New("status 503")},
	}}

	store := newTestStore(t)
	path := writeWatchlist(t, `{"card_ids": ["gone-1", "swsh7-169"]}`)
	fetcher := NewFetcher(fetcherConfig(path), NewResolver(primary, fallback), store)

	n, err := fetcher.Run(context.Background())
	if err != nil {
		t.Fatalf("a skipped card must not fail the run: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 processed (1 skipped), got %d", n)
	}

	if card, _ := store.GetCard("gone-1"); card != nil {
		t.Error("unresolvable card must not be persisted")
	}
}

func TestFetcherRun_ResolvesNames(t *testing.T) {
	provider := &stubProvider{name: "primary"}

	store := newTestStore(t)
	path := writeWatchlist(t, `{"card_names": ["Charizard"]}`)
	fetcher := NewFetcher(fetcherConfig(path), NewResolver(provider), store)

	n, err := fetcher.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 card processed, got %d", n)
	}
	if provider.searchCalls != 1 {
		t.Errorf("expected a name to go through search, got %d calls", provider.searchCalls)
	}

	card, err := store.GetCard("found-Charizard")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card == nil {
		t.Error("expected the searched card to be persisted under its resolved ID")
	}
}

func TestFetcherRun_MissingWatchlistFailsRun(t *testing.T) {
	store := newTestStore(t)
	path := filepath.Join(t.TempDir(), "watchlist.json")
	fetcher := NewFetcher(fetcherConfig(path), NewResolver(&stubProvider{name: "primary"}), store)

	_, err := fetcher.Run(context.Background())
	var missing *watchlist.ErrNotFound
	if !errors.As(err, &missing) {
		t.Fatalf("expected watchlist.ErrNotFound, got %v", err)
	}
	if missing.Path != path {
		t.Errorf("expected the error to name the expected path, got %s", missing.Path)
	}
}

func TestFetcherRun_StoreFailureAbortsRun(t *testing.T) {
	provider := &stubProvider{name: "primary"}
	store := newTestStore(t)

	// Closing the underlying connection makes every write fail.
	sqlDB, err := store.db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.Close()

	path := writeWatchlist(t, `{"card_ids": ["swsh7-169", "swsh7-170"]}`)
	fetcher := NewFetcher(fetcherConfig(path), NewResolver(provider), store)

	n, err := fetcher.Run(context.Background())
	if err == nil {
		t.Fatal("expected a store failure to abort the run")
	}
	if n != 0 {
		t.Errorf("expected 0 processed before the abort, got %d", n)
	}
	if provider.fetchCalls != 1 {
		t.Errorf("expected the run to stop after the first store failure, got %d fetches", provider.fetchCalls)
	}
}

func TestFetcherRun_ContextCancellation(t *testing.T) {
	store := newTestStore(t)
	path := writeWatchlist(t, `{"card_ids": ["swsh7-169"]}`)
	fetcher := NewFetcher(fetcherConfig(path), NewResolver(&stubProvider{name: "primary"}), store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fetcher.Run(ctx)
	if err == nil {
		t.Fatal("expected a cancelled context to stop the run")
	}
}
