package services

import (
	"context"
	"errors"
	"log"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/codyseavey/tcg-pricewatch/internal/metrics"
	"github.com/codyseavey/tcg-pricewatch/internal/models"
)

const nameCacheSize = 512

// Resolver tries providers in a fixed priority order and falls through to
// the next one when the previous yields no usable pricing data. The order is
// deliberate (cheapest, most reliable provider first) and not configurable
// per call so the fetch loop stays deterministic.
type Resolver struct {
	providers []ProviderClient

	// Memoizes name -> card ID within a process so repeated name entries
	// skip the search round-trip.
	nameCache *lru.Cache[string, string]
}

func NewResolver(providers ...ProviderClient) *Resolver {
	cache, _ := lru.New[string, string](nameCacheSize)
	return &Resolver{
		providers: providers,
		nameCache: cache,
	}
}

// ResolveByID fetches a card by identifier, trying each provider in order.
// NotFound and transient failures advance to the next provider; when every
// provider fails the last error is returned and the caller skips the card.
func (r *Resolver) ResolveByID(ctx context.Context, id string) (*models.CardPayload, error) {
	var lastErr error
	for _, p := range r.providers {
		payload, err := p.FetchCard(ctx, id)
		if err == nil {
			return payload, nil
		}
		if !errors.Is(err, ErrNotFound) && !IsTransient(err) {
			return nil, err
		}
		log.Printf("Resolver: %s has no data for %s: %v", p.Name(), id, err)
		lastErr = err
	}
	return nil, lastErr
}

// ResolveByName resolves a free-text card name through provider search,
// same fallback order as ResolveByID.
func (r *Resolver) ResolveByName(ctx context.Context, name, setHint string) (*models.CardPayload, error) {
	if id, ok := r.nameCache.Get(name); ok {
		metrics.NameCacheHits.Inc()
		payload, err := r.ResolveByID(ctx, id)
		if err == nil {
			return payload, nil
		}
		// Cached ID went stale (provider dropped the card); fall back to a
		// fresh search.
		r.nameCache.Remove(name)
	}
	metrics.NameCacheMisses.Inc()

	var lastErr error
	for _, p := range r.providers {
		payload, err := p.SearchCard(ctx, name, setHint)
		if err == nil {
			r.nameCache.Add(name, payload.ID)
			return payload, nil
		}
		if !errors.Is(err, ErrNotFound) && !IsTransient(err) {
			return nil, err
		}
		log.Printf("Resolver: %s search found nothing for %q: %v", p.Name(), name, err)
		lastErr = err
	}
	return nil, lastErr
}
