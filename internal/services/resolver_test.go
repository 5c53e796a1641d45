package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/codyseavey/tcg-pricewatch/internal/models"
)

// stubProvider is a canned ProviderClient for resolver and fetcher tests.
// Errors map by card ID (fetch) or name (search); anything not listed
// succeeds with a minimal priced payload.
type stubProvider struct {
	name        string
	fetchErrs   map[string]error
	searchErrs  map[string]error
	fetchCalls  int
	searchCalls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) FetchCard(ctx context.Context, id string) (*models.CardPayload, error) {
	s.fetchCalls++
	if err, ok := s.fetchErrs[id]; ok {
		return nil, err
	}
	return stubPayload(id), nil
}

func (s *stubProvider) SearchCard(ctx context.Context, name, setHint string) (*models.CardPayload, error) {
	s.searchCalls++
	if err, ok := s.searchErrs[name]; ok {
		return nil, err
	}
	return stubPayload("found-" + name), nil
}

func stubPayload(id string) *models.CardPayload {
	return &models.CardPayload{
		ID:   id,
		Name: "Stub Card",
		TCGPlayer: map[string]models.VariantPrices{
			"normal": {Market: fptr(2.5)},
		},
	}
}

func notFoundErr(id string) error {
	return fmt.Errorf("stub: card %s: %w", id, ErrNotFound)
}

func TestResolveByID_FirstProviderWins(t *testing.T) {
	a := &stubProvider{name: "a"}
	b := &stubProvider{name: "b"}
	r := NewResolver(a, b)

	payload, err := r.ResolveByID(context.Background(), "swsh7-169")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.ID != "swsh7-169" {
		t.Errorf("expected swsh7-169, got %s", payload.ID)
	}
	if b.fetchCalls != 0 {
		t.Errorf("fallback provider must not be called when primary succeeds, got %d calls", b.fetchCalls)
	}
}

func TestResolveByID_FallsThroughOnNotFound(t *testing.T) {
	a := &stubProvider{name: "a", fetchErrs: map[string]error{"swsh7-169": notFoundErr("swsh7-169")}}
	b := &stubProvider{name: "b"}
	r := NewResolver(a, b)

	payload, err := r.ResolveByID(context.Background(), "swsh7-169")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.ID != "swsh7-169" {
		t.Errorf("expected fallback payload, got %s", payload.ID)
	}
	if a.fetchCalls != 1 || b.fetchCalls != 1 {
		t.Errorf("expected one call each, got a=%d b=%d", a.fetchCalls, b.fetchCalls)
	}
}

func TestResolveByID_FallsThroughOnTransient(t *testing.T) {
	a := &stubProvider{name: "a", fetchErrs: map[string]error{
		"swsh7-169": &TransientError{Provider: "a", Err: errors.New("status 503")},
	}}
	b := &stubProvider{name: "b"}
	r := NewResolver(a, b)

	payload, err := r.ResolveByID(context.Background(), "swsh7-169")
	if err != nil {
		t.Fatalf("expected fallback to absorb transient primary failure, got %v", err)
	}
	if payload.ID != "swsh7-169" {
		t.Errorf("expected fallback payload, got %s", payload.ID)
	}
}

func TestResolveByID_AllFailReturnsLastError(t *testing.T) {
	a := &stubProvider{name: "a", fetchErrs: map[string]error{"gone-1": notFoundErr("gone-1")}}
	b := &stubProvider{name: "b", fetchErrs: map[string]error{
		"gone-1": &TransientError{Provider: "b", Err: errors.New("status 500")},
	}}
	r := NewResolver(a, b)

	_, err := r.ResolveByID(context.Background(), "gone-1")
	if err == nil {
		t.Fatal("expected error when every provider fails")
	}
	if !IsTransient(err) {
		t.Errorf("expected the last provider's error, got %v", err)
	}
}

func TestResolveByID_UnexpectedErrorStopsFallback(t *testing.T) {
	boom := errors.New("disk on fire")
	a := &stubProvider{name: "a", fetchErrs: map[string]error{"swsh7-169": boom}}
	b := &stubProvider{name: "b"}
	r := NewResolver(a, b)

	_, err := r.ResolveByID(context.Background(), "swsh7-169")
	if !errors.Is(err, boom) {
		t.Fatalf("expected unexpected error returned as-is, got %v", err)
	}
	if b.fetchCalls != 0 {
		t.Error("fallback must not run after an unexpected error")
	}
}

func TestResolveByName_CachesID(t *testing.T) {
	a := &stubProvider{name: "a"}
	r := NewResolver(a)

	first, err := r.ResolveByName(context.Background(), "Charizard", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := r.ResolveByName(context.Background(), "Charizard", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.searchCalls != 1 {
		t.Errorf("expected the second resolve to hit the name cache, got %d searches", a.searchCalls)
	}
	if a.fetchCalls != 1 {
		t.Errorf("expected one fetch via the cached ID, got %d", a.fetchCalls)
	}
	if first.ID != second.ID {
		t.Errorf("cache changed the resolution: %s vs %s", first.ID, second.ID)
	}
}

func TestResolveByName_StaleCacheFallsBackToSearch(t *testing.T) {
	a := &stubProvider{
		name:      "a",
		fetchErrs: map[string]error{"found-Charizard": notFoundErr("found-Charizard")},
	}
	r := NewResolver(a)

	// Prime the cache with an ID the provider will then refuse to fetch.
	if _, err := r.ResolveByName(context.Background(), "Charizard", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payload, err := r.ResolveByName(context.Background(), "Charizard", "")
	if err != nil {
		t.Fatalf("expected stale cache entry to trigger a fresh search, got %v", err)
	}
	if payload.ID != "found-Charizard" {
		t.Errorf("expected fresh search result, got %s", payload.ID)
	}
	if a.searchCalls != 2 {
		t.Errorf("expected 2 searches (initial + stale recovery), got %d", a.searchCalls)
	}
}

func TestResolveByName_SearchFallback(t *testing.T) {
	a := &stubProvider{name: "a", searchErrs: map[string]error{"Charizard": notFoundErr("Charizard")}}
	b := &stubProvider{name: "b"}
	r := NewResolver(a, b)

	payload, err := r.ResolveByName(context.Background(), "Charizard", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.ID != "found-Charizard" {
		t.Errorf("expected fallback search result, got %s", payload.ID)
	}
	if b.searchCalls != 1 {
		t.Errorf("expected fallback search, got %d calls", b.searchCalls)
	}
}
