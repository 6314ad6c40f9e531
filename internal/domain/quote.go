package domain

// Defaults applied when the provider omits an identity field.
const (
	UnknownName        = "Unknown"
	UnknownSlug        = "unknown"
	UnknownLastUpdated = "Unknown"
)

// QuoteRecord is one normalized quote snapshot. Every field is populated:
// absent or malformed provider values are replaced at construction time.
type QuoteRecord struct {
	Name             string  `json:"name"`
	Symbol           string  `json:"symbol"`
	Slug             string  `json:"slug"`
	Price            float64 `json:"price"`
	MarketCap        float64 `json:"market_cap"`
	Volume24h        float64 `json:"volume_24h"`
	PercentChange24h float64 `json:"percent_change_24h"`
	PercentChange7d  float64 `json:"percent_change_7d"`
	LastUpdated      string  `json:"last_updated"`
}

// NarrativeItem is one synthesized article about a quote.
type NarrativeItem struct {
	Title  string `json:"title"`
	Source string `json:"source"`
	Body   string `json:"body"`
}

// Narrative slots, in display order.
const (
	SlotPriceTrend = iota
	SlotWeeklyTrend
	SlotMarketPosition
	NarrativeSlots
)

// Briefing pairs a quote with the narrative generated from it.
type Briefing struct {
	Symbol string                        `json:"symbol"`
	Quote  QuoteRecord                   `json:"quote"`
	Items  [NarrativeSlots]NarrativeItem `json:"items"`
}
