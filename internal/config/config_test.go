package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.TCGdexBaseURL != "https://api.tcgdex.net/v2/en" {
		t.Errorf("unexpected TCGdex base URL: %s", cfg.TCGdexBaseURL)
	}
	if cfg.PokemonTCGBaseURL != "https://api.pokemontcg.io/v2" {
		t.Errorf("unexpected Pokemon TCG base URL: %s", cfg.PokemonTCGBaseURL)
	}
	if cfg.RequestDelay != 500*time.Millisecond {
		t.Errorf("unexpected request delay: %v", cfg.RequestDelay)
	}
	if cfg.MaxRetries != 2 {
		t.Errorf("unexpected max retries: %d", cfg.MaxRetries)
	}
	if cfg.RetryBaseDelay != 2*time.Second {
		t.Errorf("unexpected retry base delay: %v", cfg.RetryBaseDelay)
	}
	if len(cfg.PreferredSetHints) != 1 || cfg.PreferredSetHints[0] != "promo" {
		t.Errorf("unexpected set hints: %v", cfg.PreferredSetHints)
	}
	if cfg.WatchlistMax != 200 {
		t.Errorf("unexpected watchlist max: %d", cfg.WatchlistMax)
	}
	if cfg.FetchInterval != 0 {
		t.Errorf("expected background fetching disabled by default, got %v", cfg.FetchInterval)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/other.db")
	t.Setenv("REQUEST_DELAY", "2s")
	t.Setenv("MAX_RETRIES", "5")
	t.Setenv("PREFERRED_SET_HINTS", "promo, celebrations")
	t.Setenv("FETCH_INTERVAL", "6h")

	cfg := Load()

	if cfg.DBPath != "/tmp/other.db" {
		t.Errorf("unexpected db path: %s", cfg.DBPath)
	}
	if cfg.RequestDelay != 2*time.Second {
		t.Errorf("unexpected request delay: %v", cfg.RequestDelay)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("unexpected max retries: %d", cfg.MaxRetries)
	}
	if len(cfg.PreferredSetHints) != 2 || cfg.PreferredSetHints[1] != "celebrations" {
		t.Errorf("expected comma list trimmed and split, got %v", cfg.PreferredSetHints)
	}
	if cfg.FetchInterval != 6*time.Hour {
		t.Errorf("unexpected fetch interval: %v", cfg.FetchInterval)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("MAX_RETRIES", "many")
	t.Setenv("REQUEST_TIMEOUT", "soon")

	cfg := Load()

	if cfg.MaxRetries != 2 {
		t.Errorf("expected unparseable int to fall back, got %d", cfg.MaxRetries)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("expected unparseable duration to fall back, got %v", cfg.RequestTimeout)
	}
}
