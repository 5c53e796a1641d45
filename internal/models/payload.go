package models

// CardPayload is the provider-independent shape every client adapter maps
// into. Each adapter is a pure function from its provider's raw JSON to this
// struct, so the two wire formats never leak past the client boundary.
type CardPayload struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SetID     string `json:"set_id"`
	SetName   string `json:"set_name"`
	Number    string `json:"number"`
	Rarity    string `json:"rarity"`
	Supertype string `json:"supertype"`
	ImageURL  string `json:"image_url"`

	// TCGPlayer prices keyed by variant name (normal, holofoil, ...).
	TCGPlayer map[string]VariantPrices `json:"tcgplayer,omitempty"`

	// CardMarket scalar price set, no variant breakdown.
	CardMarket *ScalarPrices `json:"cardmarket,omitempty"`
}

// HasPricing reports whether the payload carries any pricing block at all.
// Catalog metadata without prices is useless to the pipeline and counts as
// not found for fallback purposes.
func (p *CardPayload) HasPricing() bool {
	return len(p.TCGPlayer) > 0 || p.CardMarket != nil
}

// VariantPrices is one variant-keyed price set. Both field spellings are
// kept because pokemontcg.io reports the short names while TCGdex reports
// the *Price forms; the normalizer coalesces them, short names first.
type VariantPrices struct {
	Low       *float64 `json:"low,omitempty"`
	Mid       *float64 `json:"mid,omitempty"`
	High      *float64 `json:"high,omitempty"`
	Market    *float64 `json:"market,omitempty"`
	DirectLow *float64 `json:"directLow,omitempty"`

	LowPrice       *float64 `json:"lowPrice,omitempty"`
	MidPrice       *float64 `json:"midPrice,omitempty"`
	HighPrice      *float64 `json:"highPrice,omitempty"`
	MarketPrice    *float64 `json:"marketPrice,omitempty"`
	DirectLowPrice *float64 `json:"directLowPrice,omitempty"`
}

// ScalarPrices is the trend-keyed CardMarket price set. Same dual-spelling
// rule: pokemontcg.io uses lowPrice/trendPrice/averageSellPrice, TCGdex uses
// low/trend/avg.
type ScalarPrices struct {
	LowPrice         *float64 `json:"lowPrice,omitempty"`
	TrendPrice       *float64 `json:"trendPrice,omitempty"`
	AverageSellPrice *float64 `json:"averageSellPrice,omitempty"`
	LowPriceExPlus   *float64 `json:"lowPriceExPlus,omitempty"`

	Low   *float64 `json:"low,omitempty"`
	Trend *float64 `json:"trend,omitempty"`
	Avg   *float64 `json:"avg,omitempty"`

	Avg1  *float64 `json:"avg1,omitempty"`
	Avg7  *float64 `json:"avg7,omitempty"`
	Avg30 *float64 `json:"avg30,omitempty"`
}
