package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/codyseavey/tcg-pricewatch/internal/config"
	"github.com/codyseavey/tcg-pricewatch/internal/metrics"
	"github.com/codyseavey/tcg-pricewatch/internal/models"
)

// TCGdexClient fetches cards from TCGdex (free, no API key). It is the
// primary provider in the fallback order.
type TCGdexClient struct {
	client     *http.Client
	baseURL    string
	maxRetries int
	retryDelay time.Duration
	setHints   []string
}

func NewTCGdexClient(cfg *config.Config) *TCGdexClient {
	return &TCGdexClient{
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:    cfg.TCGdexBaseURL,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryBaseDelay,
		setHints:   cfg.PreferredSetHints,
	}
}

func (s *TCGdexClient) Name() string {
	return "tcgdex"
}

type tcgdexCard struct {
	ID       string          `json:"id"`
	LocalID  json.RawMessage `json:"localId"` // string or number depending on set
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Rarity   string          `json:"rarity"`
	Image    string          `json:"image"`
	Set      tcgdexSet       `json:"set"`
	Pricing  *tcgdexPricing  `json:"pricing"`
}

type tcgdexSet struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type tcgdexPricing struct {
	TCGPlayer  map[string]json.RawMessage `json:"tcgplayer"`
	CardMarket *tcgdexCardMarket          `json:"cardmarket"`
}

type tcgdexVariantPrices struct {
	LowPrice       *float64 `json:"lowPrice"`
	MidPrice       *float64 `json:"midPrice"`
	HighPrice      *float64 `json:"highPrice"`
	MarketPrice    *float64 `json:"marketPrice"`
	DirectLowPrice *float64 `json:"directLowPrice"`
}

type tcgdexCardMarket struct {
	Low   *float64 `json:"low"`
	Trend *float64 `json:"trend"`
	Avg   *float64 `json:"avg"`
	Avg1  *float64 `json:"avg1"`
	Avg7  *float64 `json:"avg7"`
	Avg30 *float64 `json:"avg30"`
}

type tcgdexSearchResult struct {
	ID      string          `json:"id"`
	LocalID json.RawMessage `json:"localId"`
	Name    string          `json:"name"`
}

// FetchCard fetches a single card with pricing from TCGdex. A card without a
// pricing block is reported as ErrNotFound: metadata alone is useless here.
func (s *TCGdexClient) FetchCard(ctx context.Context, id string) (*models.CardPayload, error) {
	reqURL := fmt.Sprintf("%s/cards/%s", s.baseURL, url.PathEscape(id))

	resp, err := doWithRetry(ctx, s.client, s.Name(), s.maxRetries, s.retryDelay, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		metrics.ProviderRequestsTotal.WithLabelValues(s.Name(), "not_found").Inc()
		return nil, fmt.Errorf("tcgdex: card %s: %w", id, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.ProviderRequestsTotal.WithLabelValues(s.Name(), "transient").Inc()
		return nil, &TransientError{Provider: s.Name(), Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var card tcgdexCard
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, fmt.Errorf("failed to decode tcgdex response: %w", err)
	}

	payload := s.convertToPayload(card)
	if !payload.HasPricing() {
		metrics.ProviderRequestsTotal.WithLabelValues(s.Name(), "not_found").Inc()
		return nil, fmt.Errorf("tcgdex: card %s has no pricing: %w", id, ErrNotFound)
	}

	metrics.ProviderRequestsTotal.WithLabelValues(s.Name(), "ok").Inc()
	return payload, nil
}

// SearchCard searches TCGdex by exact card name and fetches the chosen
// match. Provider order is kept except for the configurable set-hint
// preference (promo printings usually carry the interesting price).
func (s *TCGdexClient) SearchCard(ctx context.Context, name, setHint string) (*models.CardPayload, error) {
	reqURL := fmt.Sprintf("%s/cards?name=%s", s.baseURL, url.QueryEscape("eq:"+name))

	resp, err := doWithRetry(ctx, s.client, s.Name(), s.maxRetries, s.retryDelay, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		metrics.ProviderRequestsTotal.WithLabelValues(s.Name(), "not_found").Inc()
		return nil, fmt.Errorf("tcgdex: search %q: %w", name, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.ProviderRequestsTotal.WithLabelValues(s.Name(), "transient").Inc()
		return nil, &TransientError{Provider: s.Name(), Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var results []tcgdexSearchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode tcgdex search response: %w", err)
	}
	if len(results) == 0 {
		metrics.ProviderRequestsTotal.WithLabelValues(s.Name(), "not_found").Inc()
		return nil, fmt.Errorf("tcgdex: search %q returned no results: %w", name, ErrNotFound)
	}

	// TCGdex card IDs are prefixed with the set ID, so the ID doubles as the
	// set identifier for the tie-break.
	candidateIDs := make([]string, len(results))
	for i, r := range results {
		candidateIDs[i] = r.ID
	}
	chosen := results[pickPreferred(candidateIDs, setHint, s.setHints)]
	if chosen.ID == "" {
		return nil, fmt.Errorf("tcgdex: search %q returned result without id: %w", name, ErrNotFound)
	}

	return s.FetchCard(ctx, chosen.ID)
}

func (s *TCGdexClient) convertToPayload(tc tcgdexCard) *models.CardPayload {
	supertype := tc.Category
	if supertype == "Pokemon" {
		supertype = "Pokémon"
	}

	imageURL := tc.Image
	if imageURL != "" {
		imageURL += "/high.webp"
	}

	payload := &models.CardPayload{
		ID:        tc.ID,
		Name:      tc.Name,
		SetID:     tc.Set.ID,
		SetName:   tc.Set.Name,
		Number:    rawToString(tc.LocalID),
		Rarity:    tc.Rarity,
		Supertype: supertype,
		ImageURL:  imageURL,
	}

	if tc.Pricing == nil {
		return payload
	}

	if len(tc.Pricing.TCGPlayer) > 0 {
		variants := make(map[string]models.VariantPrices)
		for variant, raw := range tc.Pricing.TCGPlayer {
			if variant == "updated" || variant == "unit" {
				continue
			}
			var vp tcgdexVariantPrices
			if err := json.Unmarshal(raw, &vp); err != nil {
				continue
			}
			variants[variant] = models.VariantPrices{
				Low:       vp.LowPrice,
				Mid:       vp.MidPrice,
				High:      vp.HighPrice,
				Market:    vp.MarketPrice,
				DirectLow: vp.DirectLowPrice,
			}
		}
		if len(variants) > 0 {
			payload.TCGPlayer = variants
		}
	}

	if cm := tc.Pricing.CardMarket; cm != nil {
		payload.CardMarket = &models.ScalarPrices{
			LowPrice:         cm.Low,
			TrendPrice:       cm.Trend,
			AverageSellPrice: cm.Avg,
			Avg1:             cm.Avg1,
			Avg7:             cm.Avg7,
			Avg30:            cm.Avg30,
		}
	}

	return payload
}

// rawToString renders a JSON value that may be a string or a number
// (TCGdex localId is either, depending on the set).
func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
