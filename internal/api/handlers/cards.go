package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/tcg-pricewatch/internal/models"
	"github.com/codyseavey/tcg-pricewatch/internal/services"
)

type CardHandler struct {
	store *services.SnapshotStore
}

func NewCardHandler(store *services.SnapshotStore) *CardHandler {
	return &CardHandler{store: store}
}

// cardResponse is a catalog row plus its most recent price reading.
type cardResponse struct {
	models.Card
	LatestPrice *latestPrice `json:"latest_price"`
}

type latestPrice struct {
	Variant string   `json:"variant"`
	Source  string   `json:"source"`
	Date    string   `json:"date"`
	Market  *float64 `json:"market"`
	Low     *float64 `json:"low"`
	Mid     *float64 `json:"mid"`
	High    *float64 `json:"high"`
}

func (h *CardHandler) toResponse(card models.Card) (cardResponse, error) {
	resp := cardResponse{Card: card}
	snap, err := h.store.LatestPrice(card.ID)
	if err != nil {
		return resp, err
	}
	if snap != nil {
		resp.LatestPrice = &latestPrice{
			Variant: snap.Variant,
			Source:  snap.Source,
			Date:    snap.SnapshotDate.Format("2006-01-02"),
			Market:  snap.Market,
			Low:     snap.Low,
			Mid:     snap.Mid,
			High:    snap.High,
		}
	}
	return resp, nil
}

// ListCards returns the whole catalog with latest prices.
func (h *CardHandler) ListCards(c *gin.Context) {
	cards, err := h.store.ListCards()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result := make([]cardResponse, 0, len(cards))
	for _, card := range cards {
		resp, err := h.toResponse(card)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		result = append(result, resp)
	}

	c.JSON(http.StatusOK, gin.H{"cards": result})
}

// GetCard returns a single card with its latest price.
func (h *CardHandler) GetCard(c *gin.Context) {
	cardID := c.Param("id")

	card, err := h.store.GetCard(cardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if card == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}

	resp, err := h.toResponse(*card)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}
