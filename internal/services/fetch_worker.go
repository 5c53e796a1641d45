package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/codyseavey/tcg-pricewatch/internal/watchlist"
)

// FetchWorker re-runs the ingestion pipeline on a fixed interval. Runs are
// strictly sequential; a run must finish before the next tick is honored.
type FetchWorker struct {
	fetcher  *Fetcher
	interval time.Duration

	mu           sync.RWMutex
	lastRunTime  time.Time
	lastRunCount int
	lastRunError string
}

// FetchStatus is the worker state exposed by the API.
type FetchStatus struct {
	LastRunTime  time.Time `json:"last_run_time"`
	NextRunTime  time.Time `json:"next_run_time"`
	LastRunCount int       `json:"last_run_count"`
	LastRunError string    `json:"last_run_error,omitempty"`
}

func NewFetchWorker(fetcher *Fetcher, interval time.Duration) *FetchWorker {
	return &FetchWorker{
		fetcher:  fetcher,
		interval: interval,
	}
}

// Start begins the background fetch loop. It runs once immediately, then on
// every tick until the context is canceled. A missing watchlist stops the
// worker: no amount of ticking will make the file appear.
func (w *FetchWorker) Start(ctx context.Context) {
	log.Printf("Fetch worker started: will refresh watchlist prices every %v", w.interval)

	if fatal := w.runOnce(ctx); fatal {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Fetch worker stopping...")
			return
		case <-ticker.C:
			if fatal := w.runOnce(ctx); fatal {
				return
			}
		}
	}
}

func (w *FetchWorker) runOnce(ctx context.Context) (fatal bool) {
	count, err := w.fetcher.Run(ctx)

	w.mu.Lock()
	w.lastRunTime = time.Now()
	w.lastRunCount = count
	w.lastRunError = ""
	if err != nil {
		w.lastRunError = err.Error()
	}
	w.mu.Unlock()

	if err != nil {
		var missing *watchlist.ErrNotFound
		if errors.As(err, &missing) {
			log.Printf("Fetch worker: %v - stopping", err)
			return true
		}
		log.Printf("Fetch worker: run failed: %v", err)
		return false
	}

	log.Printf("Fetch worker: run saved prices for %d cards", count)
	return false
}

// GetStatus returns the current worker status.
func (w *FetchWorker) GetStatus() FetchStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()

	status := FetchStatus{
		LastRunTime:  w.lastRunTime,
		LastRunCount: w.lastRunCount,
		LastRunError: w.lastRunError,
	}
	if !w.lastRunTime.IsZero() {
		status.NextRunTime = w.lastRunTime.Add(w.interval)
	}
	return status
}
