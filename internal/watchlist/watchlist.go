// Package watchlist loads the file-backed list of cards the pipeline tracks.
package watchlist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when the watchlist file does not exist. It is a
// configuration error: the whole run fails, nothing is fetched.
type ErrNotFound struct {
	Path string
}

func (e *ErrNotFound) Error() string {
	example := filepath.Join(filepath.Dir(e.Path), "watchlist.example.json")
	return fmt.Sprintf("no watchlist at %s; copy %s to watchlist.json and add card IDs", e.Path, example)
}

// Watchlist is the bounded set of card IDs and free-text names to track.
// Names are resolved through provider search when an ID is not known.
type Watchlist struct {
	CardIDs   []string `json:"card_ids"`
	CardNames []string `json:"card_names"`
}

// Load reads and bounds the watchlist at path. Card IDs are deduplicated in
// order; the max cap is shared between IDs and names, IDs first.
func Load(path string, max int) (*Watchlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ErrNotFound{Path: path}
		}
		return nil, fmt.Errorf("failed to read watchlist: %w", err)
	}

	var wl Watchlist
	if err := json.Unmarshal(data, &wl); err != nil {
		return nil, fmt.Errorf("failed to parse watchlist %s: %w", path, err)
	}

	wl.CardIDs = dedupe(wl.CardIDs)
	if max > 0 {
		if len(wl.CardIDs) > max {
			wl.CardIDs = wl.CardIDs[:max]
		}
		remaining := max - len(wl.CardIDs)
		if len(wl.CardNames) > remaining {
			wl.CardNames = wl.CardNames[:remaining]
		}
	}

	return &wl, nil
}

// Size returns the total number of entries.
func (w *Watchlist) Size() int {
	return len(w.CardIDs) + len(w.CardNames)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
