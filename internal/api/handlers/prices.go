package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/tcg-pricewatch/internal/models"
	"github.com/codyseavey/tcg-pricewatch/internal/services"
)

type PriceHandler struct {
	store  *services.SnapshotStore
	worker *services.FetchWorker
}

func NewPriceHandler(store *services.SnapshotStore, worker *services.FetchWorker) *PriceHandler {
	return &PriceHandler{
		store:  store,
		worker: worker,
	}
}

type pricePoint struct {
	Date    string   `json:"date"`
	Variant string   `json:"variant"`
	Source  string   `json:"source"`
	Market  *float64 `json:"market"`
	Low     *float64 `json:"low"`
	Mid     *float64 `json:"mid"`
	High    *float64 `json:"high"`
	Avg7    *float64 `json:"avg_7"`
	Avg30   *float64 `json:"avg_30"`
	SMA     *float64 `json:"sma,omitempty"`
}

// GetPriceHistory returns the snapshot series for a card. Optional query
// filters: variant, source, days (lookback window), window (adds a simple
// moving average of market price over that many points).
func (h *PriceHandler) GetPriceHistory(c *gin.Context) {
	cardID := c.Param("id")
	variant := c.Query("variant")
	source := c.Query("source")

	days := 0
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a non-negative integer"})
			return
		}
		days = n
	}

	window := 0
	if v := c.Query("window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "window must be a positive integer"})
			return
		}
		window = n
	}

	snaps, err := h.store.History(cardID, variant, source, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	points := make([]pricePoint, len(snaps))
	for i, s := range snaps {
		points[i] = pricePoint{
			Date:    s.SnapshotDate.Format("2006-01-02"),
			Variant: s.Variant,
			Source:  s.Source,
			Market:  s.Market,
			Low:     s.Low,
			Mid:     s.Mid,
			High:    s.High,
			Avg7:    s.Avg7,
			Avg30:   s.Avg30,
		}
	}

	if window > 0 {
		applyMovingAverage(points, snaps, window)
	}

	c.JSON(http.StatusOK, gin.H{"card_id": cardID, "prices": points})
}

// applyMovingAverage fills SMA for each point with the mean market price of
// the trailing window ending at that point. Points whose market is unknown
// are excluded from the mean.
func applyMovingAverage(points []pricePoint, snaps []models.PriceSnapshot, window int) {
	for i := range points {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		sum := 0.0
		n := 0
		for j := start; j <= i; j++ {
			if snaps[j].Market != nil {
				sum += *snaps[j].Market
				n++
			}
		}
		if n > 0 {
			avg := sum / float64(n)
			points[i].SMA = &avg
		}
	}
}

// GetFetchStatus reports the background fetch worker state.
func (h *PriceHandler) GetFetchStatus(c *gin.Context) {
	if h.worker == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}
	c.JSON(http.StatusOK, h.worker.GetStatus())
}
