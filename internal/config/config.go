package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries all process-wide settings. It is loaded once in main and
// passed explicitly into the services so the pipeline stays testable without
// touching process state.
type Config struct {
	// Database
	DBPath string

	// Providers
	PokemonTCGAPIKey  string // free key at dev.pokemontcg.io, optional
	PokemonTCGBaseURL string
	TCGdexBaseURL     string

	// Fetch behavior
	RequestDelay   time.Duration // polite delay between provider calls
	RequestTimeout time.Duration
	MaxRetries     int           // timeout retries per request
	RetryBaseDelay time.Duration // retry k waits k * RetryBaseDelay

	// Name-search tie-break: prefer a search result whose set ID contains
	// one of these substrings. Empty disables the preference.
	PreferredSetHints []string

	// Watchlist
	WatchlistPath string
	WatchlistMax  int

	// Server
	Port          string
	CORSOrigins   []string
	FetchInterval time.Duration // 0 disables the background fetch worker
}

// Load reads configuration from the environment, with .env support.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBPath: envStr("DB_PATH", "./pricewatch.db"),

		PokemonTCGAPIKey:  envStr("POKEMON_TCG_API_KEY", ""),
		PokemonTCGBaseURL: envStr("POKEMON_TCG_BASE_URL", "https://api.pokemontcg.io/v2"),
		TCGdexBaseURL:     envStr("TCGDEX_BASE_URL", "https://api.tcgdex.net/v2/en"),

		RequestDelay:   envDuration("REQUEST_DELAY", 500*time.Millisecond),
		RequestTimeout: envDuration("REQUEST_TIMEOUT", 30*time.Second),
		MaxRetries:     envInt("MAX_RETRIES", 2),
		RetryBaseDelay: envDuration("RETRY_BASE_DELAY", 2*time.Second),

		PreferredSetHints: envList("PREFERRED_SET_HINTS", []string{"promo"}),

		WatchlistPath: envStr("WATCHLIST_PATH", "./config/watchlist.json"),
		WatchlistMax:  envInt("WATCHLIST_MAX", 200),

		Port:          envStr("PORT", "8080"),
		CORSOrigins:   envList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		FetchInterval: envDuration("FETCH_INTERVAL", 0),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}
