package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/tcg-pricewatch/internal/watchlist"
)

type WatchlistHandler struct {
	path string
	max  int
}

func NewWatchlistHandler(path string, max int) *WatchlistHandler {
	return &WatchlistHandler{path: path, max: max}
}

// GetWatchlist returns the configured watchlist. A missing file is reported
// as an empty watchlist here; only the ingestion run treats it as fatal.
func (h *WatchlistHandler) GetWatchlist(c *gin.Context) {
	wl, err := watchlist.Load(h.path, h.max)
	if err != nil {
		var missing *watchlist.ErrNotFound
		if errors.As(err, &missing) {
			c.JSON(http.StatusOK, gin.H{"card_ids": []string{}, "card_names": []string{}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"card_ids": wl.CardIDs, "card_names": wl.CardNames})
}
