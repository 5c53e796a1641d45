package services

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/codyseavey/tcg-pricewatch/internal/metrics"
	"github.com/codyseavey/tcg-pricewatch/internal/models"
)

// ProviderClient is the contract both pricing providers implement. Adapters
// map their provider's wire format into the unified CardPayload; the rest of
// the pipeline never sees raw provider JSON.
//
// Errors follow the taxonomy in errors.go: ErrNotFound for permanent
// absence, *TransientError for network-level failures.
type ProviderClient interface {
	Name() string
	FetchCard(ctx context.Context, id string) (*models.CardPayload, error)
	SearchCard(ctx context.Context, name, setHint string) (*models.CardPayload, error)
}

// doWithRetry issues an HTTP request, retrying timeouts with a linearly
// increasing delay (retry k waits k * baseDelay). All other transport errors
// return immediately: they rarely resolve on an immediate retry, so the
// budget is spent on timeouts only. buildReq is called per attempt because
// request bodies are consumed on each attempt.
func doWithRetry(ctx context.Context, client *http.Client, provider string, maxRetries int, baseDelay time.Duration, buildReq func() (*http.Request, error)) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		req, err := buildReq()
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err == nil {
			return resp, nil
		}

		if !isTimeout(err) {
			metrics.ProviderRequestsTotal.WithLabelValues(provider, "transient").Inc()
			return nil, &TransientError{Provider: provider, Err: err}
		}

		if attempt >= maxRetries {
			metrics.ProviderRequestsTotal.WithLabelValues(provider, "transient").Inc()
			return nil, &TransientError{Provider: provider, Err: err}
		}

		metrics.ProviderRetriesTotal.WithLabelValues(provider).Inc()
		delay := time.Duration(attempt+1) * baseDelay
		select {
		case <-ctx.Done():
			return nil, &TransientError{Provider: provider, Err: ctx.Err()}
		case <-time.After(delay):
		}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// pickPreferred selects a search result from candidate IDs. An explicit set
// hint wins, then the configured hint substrings (promo and friends), then
// provider order. Returns the index of the chosen candidate.
func pickPreferred(candidateSetIDs []string, setHint string, hints []string) int {
	if setHint != "" {
		for i, id := range candidateSetIDs {
			if strings.Contains(strings.ToLower(id), strings.ToLower(setHint)) {
				return i
			}
		}
	}
	for _, hint := range hints {
		for i, id := range candidateSetIDs {
			if strings.Contains(strings.ToLower(id), strings.ToLower(hint)) {
				return i
			}
		}
	}
	return 0
}
