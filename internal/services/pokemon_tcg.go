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

// PokemonTCGClient fetches cards from the Pokemon TCG API
// (pokemontcg.io). It is the fallback provider: rate-limited without a key,
// so TCGdex is tried first.
type PokemonTCGClient struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	maxRetries int
	retryDelay time.Duration
	setHints   []string
}

func NewPokemonTCGClient(cfg *config.Config) *PokemonTCGClient {
	return &PokemonTCGClient{
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:    cfg.PokemonTCGBaseURL,
		apiKey:     cfg.PokemonTCGAPIKey,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryBaseDelay,
		setHints:   cfg.PreferredSetHints,
	}
}

func (s *PokemonTCGClient) Name() string {
	return "pokemontcg"
}

type pokemonCard struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Number     string             `json:"number"`
	Rarity     string             `json:"rarity"`
	Supertype  string             `json:"supertype"`
	Set        pokemonSet         `json:"set"`
	Images     pokemonImages      `json:"images"`
	TCGPlayer  *pokemonTCGPlayer  `json:"tcgplayer"`
	CardMarket *pokemonCardMarket `json:"cardmarket"`
}

type pokemonSet struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type pokemonImages struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

type pokemonTCGPlayer struct {
	URL       string                          `json:"url"`
	UpdatedAt string                          `json:"updatedAt"`
	Prices    map[string]models.VariantPrices `json:"prices"`
}

type pokemonCardMarket struct {
	URL       string               `json:"url"`
	UpdatedAt string               `json:"updatedAt"`
	Prices    *models.ScalarPrices `json:"prices"`
}

type pokemonSearchResponse struct {
	Data       []pokemonCard `json:"data"`
	TotalCount int           `json:"totalCount"`
}

// FetchCard fetches a single card by ID.
func (s *PokemonTCGClient) FetchCard(ctx context.Context, id string) (*models.CardPayload, error) {
	reqURL := fmt.Sprintf("%s/cards/%s", s.baseURL, url.PathEscape(id))

	resp, err := doWithRetry(ctx, s.client, s.Name(), s.maxRetries, s.retryDelay, func() (*http.Request, error) {
		return s.newRequest(ctx, reqURL)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		metrics.ProviderRequestsTotal.WithLabelValues(s.Name(), "not_found").Inc()
		return nil, fmt.Errorf("pokemontcg: card %s: %w", id, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.ProviderRequestsTotal.WithLabelValues(s.Name(), "transient").Inc()
		return nil, &TransientError{Provider: s.Name(), Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var response struct {
		Data pokemonCard `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode pokemontcg response: %w", err)
	}

	payload := s.convertToPayload(response.Data)
	if !payload.HasPricing() {
		metrics.ProviderRequestsTotal.WithLabelValues(s.Name(), "not_found").Inc()
		return nil, fmt.Errorf("pokemontcg: card %s has no pricing: %w", id, ErrNotFound)
	}

	metrics.ProviderRequestsTotal.WithLabelValues(s.Name(), "ok").Inc()
	return payload, nil
}

// SearchCard searches by exact name, optionally narrowed by a set name hint.
func (s *PokemonTCGClient) SearchCard(ctx context.Context, name, setHint string) (*models.CardPayload, error) {
	q := fmt.Sprintf("name:%q", name)
	if setHint != "" {
		q += " set.name:" + setHint
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("pageSize", "3")
	reqURL := fmt.Sprintf("%s/cards?%s", s.baseURL, params.Encode())

	resp, err := doWithRetry(ctx, s.client, s.Name(), s.maxRetries, s.retryDelay, func() (*http.Request, error) {
		return s.newRequest(ctx, reqURL)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ProviderRequestsTotal.WithLabelValues(s.Name(), "transient").Inc()
		return nil, &TransientError{Provider: s.Name(), Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var searchResp pokemonSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode pokemontcg search response: %w", err)
	}
	if len(searchResp.Data) == 0 {
		metrics.ProviderRequestsTotal.WithLabelValues(s.Name(), "not_found").Inc()
		return nil, fmt.Errorf("pokemontcg: search %q returned no results: %w", name, ErrNotFound)
	}

	candidateIDs := make([]string, len(searchResp.Data))
	for i, c := range searchResp.Data {
		candidateIDs[i] = c.Set.ID
	}
	chosen := searchResp.Data[pickPreferred(candidateIDs, "", s.setHints)]

	payload := s.convertToPayload(chosen)
	if !payload.HasPricing() {
		metrics.ProviderRequestsTotal.WithLabelValues(s.Name(), "not_found").Inc()
		return nil, fmt.Errorf("pokemontcg: search %q found %s without pricing: %w", name, chosen.ID, ErrNotFound)
	}

	metrics.ProviderRequestsTotal.WithLabelValues(s.Name(), "ok").Inc()
	return payload, nil
}

func (s *PokemonTCGClient) newRequest(ctx context.Context, reqURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if s.apiKey != "" {
		req.Header.Set("X-Api-Key", s.apiKey)
	}
	return req, nil
}

func (s *PokemonTCGClient) convertToPayload(pc pokemonCard) *models.CardPayload {
	imageURL := pc.Images.Large
	if imageURL == "" {
		imageURL = pc.Images.Small
	}

	payload := &models.CardPayload{
		ID:        pc.ID,
		Name:      pc.Name,
		SetID:     pc.Set.ID,
		SetName:   pc.Set.Name,
		Number:    pc.Number,
		Rarity:    pc.Rarity,
		Supertype: pc.Supertype,
		ImageURL:  imageURL,
	}

	if pc.TCGPlayer != nil && len(pc.TCGPlayer.Prices) > 0 {
		payload.TCGPlayer = pc.TCGPlayer.Prices
	}
	if pc.CardMarket != nil && pc.CardMarket.Prices != nil {
		payload.CardMarket = pc.CardMarket.Prices
	}

	return payload
}
