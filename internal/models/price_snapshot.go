package models

import (
	"time"
)

// Price sources. TCGPlayer prices are variant-keyed (one price set per
// printing), CardMarket reports a single trend-keyed set per card.
const (
	SourceTCGPlayer  = "tcgplayer"
	SourceCardMarket = "cardmarket"
)

// DefaultVariant is the sentinel variant for sources that have no variant
// breakdown.
const DefaultVariant = "normal"

// PriceSnapshot is one observed price reading. Natural key is
// (card_id, snapshot_date, variant, source); the composite unique index
// backs the at-most-one-row-per-day guarantee.
//
// All price fields are pointers: nil means the provider did not report the
// field. Zero is a valid price and must stay distinguishable from missing.
type PriceSnapshot struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CardID       string    `json:"card_id" gorm:"not null;index;uniqueIndex:idx_snapshot_natural"`
	SnapshotDate time.Time `json:"snapshot_date" gorm:"not null;index;uniqueIndex:idx_snapshot_natural"`
	Variant      string    `json:"variant" gorm:"not null;uniqueIndex:idx_snapshot_natural"` // normal, holofoil, reverseHolofoil, ...
	Source       string    `json:"source" gorm:"not null;uniqueIndex:idx_snapshot_natural"`  // tcgplayer, cardmarket
	Low          *float64  `json:"low"`
	Mid          *float64  `json:"mid"`
	High         *float64  `json:"high"`
	Market       *float64  `json:"market"`
	DirectLow    *float64  `json:"direct_low"`
	Avg1         *float64  `json:"avg_1"`  // CardMarket 1-day average
	Avg7         *float64  `json:"avg_7"`  // CardMarket 7-day average
	Avg30        *float64  `json:"avg_30"` // CardMarket 30-day average
}

// SnapshotDay truncates t to UTC midnight so that two fetches on the same
// calendar date collide on the natural key.
func SnapshotDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
