package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/codyseavey/tcg-pricewatch/internal/config"
	"github.com/codyseavey/tcg-pricewatch/internal/metrics"
	"github.com/codyseavey/tcg-pricewatch/internal/models"
	"github.com/codyseavey/tcg-pricewatch/internal/watchlist"
)

// Fetcher orchestrates one ingestion run: load the watchlist, resolve every
// entry through the provider fallback chain, persist what resolves.
//
// Execution is strictly sequential with a fixed inter-request delay. That is
// a deliberate throughput cap against provider rate limits, not an
// oversight; do not parallelize without re-deriving a rate budget.
type Fetcher struct {
	resolver *Resolver
	store    *SnapshotStore
	limiter  *rate.Limiter

	watchlistPath string
	watchlistMax  int
	debug         bool
}

func NewFetcher(cfg *config.Config, resolver *Resolver, store *SnapshotStore) *Fetcher {
	return &Fetcher{
		resolver:      resolver,
		store:         store,
		limiter:       rate.NewLimiter(rate.Every(cfg.RequestDelay), 1),
		watchlistPath: cfg.WatchlistPath,
		watchlistMax:  cfg.WatchlistMax,
	}
}

// SetDebug enables per-card logging of skips and saves.
func (f *Fetcher) SetDebug(debug bool) {
	f.debug = debug
}

// Run executes one full ingestion pass and returns the number of cards for
// which fetched data reached the store. A missing watchlist fails the whole
// run; a card both providers give up on is skipped and counted; a store
// error aborts the remainder of the run.
func (f *Fetcher) Run(ctx context.Context) (int, error) {
	wl, err := watchlist.Load(f.watchlistPath, f.watchlistMax)
	if err != nil {
		return 0, err
	}

	runID := uuid.New().String()[:8]
	start := time.Now()
	metrics.FetchRunsTotal.Inc()
	log.Printf("Fetcher[%s]: starting run, %d IDs and %d names", runID, len(wl.CardIDs), len(wl.CardNames))

	processed := 0
	skipped := 0

	for _, id := range wl.CardIDs {
		if err := f.limiter.Wait(ctx); err != nil {
			return processed, err
		}
		payload, err := f.resolver.ResolveByID(ctx, id)
		if err != nil {
			skipped++
			if f.debug {
				log.Printf("Fetcher[%s]: %s skipped: %v", runID, id, err)
			}
			continue
		}
		if err := f.persist(runID, payload.ID, payload); err != nil {
			return processed, err
		}
		processed++
	}

	for _, name := range wl.CardNames {
		if err := f.limiter.Wait(ctx); err != nil {
			return processed, err
		}
		payload, err := f.resolver.ResolveByName(ctx, name, "")
		if err != nil {
			skipped++
			if f.debug {
				log.Printf("Fetcher[%s]: search %q skipped: %v", runID, name, err)
			}
			continue
		}
		if f.debug {
			log.Printf("Fetcher[%s]: search %q resolved to %s", runID, name, payload.ID)
		}
		if err := f.persist(runID, payload.ID, payload); err != nil {
			return processed, err
		}
		processed++
	}

	metrics.CardsSkippedTotal.Add(float64(skipped))
	metrics.FetchRunDuration.Observe(time.Since(start).Seconds())
	log.Printf("Fetcher[%s]: run complete, %d processed, %d skipped in %v", runID, processed, skipped, time.Since(start).Round(time.Millisecond))
	return processed, nil
}

// persist hands one card to the store. Storage errors are not recoverable
// mid-run, unlike a single provider's data being unavailable.
func (f *Fetcher) persist(runID, cardID string, payload *models.CardPayload) error {
	rows, err := f.store.Persist(cardID, payload)
	if err != nil {
		return fmt.Errorf("failed to persist card %s: %w", cardID, err)
	}
	metrics.CardsProcessedTotal.Inc()
	if f.debug {
		log.Printf("Fetcher[%s]: %s saved, %d price rows", runID, cardID, rows)
	}
	return nil
}
