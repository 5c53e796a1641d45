package services

import (
	"sort"
	"time"

	"github.com/codyseavey/tcg-pricewatch/internal/models"
)

// Normalize flattens a CardPayload into price snapshot rows, one per
// (variant, source) pair, dated to today's UTC calendar day.
//
// TCGPlayer is variant-keyed: one row per variant present. CardMarket is
// trend-keyed: exactly one row with the default variant, market set to the
// trend price when present and the average sell price otherwise. Missing
// numeric fields stay nil; zero is a real price, not an absence marker.
func Normalize(payload *models.CardPayload, now time.Time) []models.PriceSnapshot {
	day := models.SnapshotDay(now)
	var rows []models.PriceSnapshot

	variants := make([]string, 0, len(payload.TCGPlayer))
	for variant := range payload.TCGPlayer {
		variants = append(variants, variant)
	}
	sort.Strings(variants)

	for _, variant := range variants {
		p := payload.TCGPlayer[variant]
		rows = append(rows, models.PriceSnapshot{
			CardID:       payload.ID,
			SnapshotDate: day,
			Variant:      variant,
			Source:       models.SourceTCGPlayer,
			Low:          coalesce(p.Low, p.LowPrice),
			Mid:          coalesce(p.Mid, p.MidPrice),
			High:         coalesce(p.High, p.HighPrice),
			Market:       coalesce(p.Market, p.MarketPrice),
			DirectLow:    coalesce(p.DirectLow, p.DirectLowPrice),
		})
	}

	if cm := payload.CardMarket; cm != nil {
		rows = append(rows, models.PriceSnapshot{
			CardID:       payload.ID,
			SnapshotDate: day,
			Variant:      models.DefaultVariant,
			Source:       models.SourceCardMarket,
			Low:          coalesce(cm.LowPrice, cm.Low),
			Market:       coalesce(cm.TrendPrice, cm.Trend, cm.AverageSellPrice, cm.Avg),
			DirectLow:    cm.LowPriceExPlus,
			Avg1:         cm.Avg1,
			Avg7:         cm.Avg7,
			Avg30:        cm.Avg30,
		})
	}

	return rows
}

// coalesce returns the first non-nil value, preserving nil when every
// candidate is absent.
func coalesce(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
