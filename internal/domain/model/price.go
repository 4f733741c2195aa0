package model

import "time"

// Trend is the coarse direction label attached to a price report.
type Trend string

// Trend values.
const (
	TrendRising   Trend = "rising"
	TrendFalling  Trend = "falling"
	TrendStable   Trend = "stable"
	TrendVolatile Trend = "volatile"
	TrendUnknown  Trend = "unknown"
)

// PriceObservation is one normalized quote from one source or variant.
// Price is always positive.
type PriceObservation struct {
	Source    string  `json:"source"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Condition string  `json:"condition"`
	URL       string  `json:"url"`
	InStock   bool    `json:"in_stock"`
	Seller    string  `json:"seller,omitempty"`
}

// PriceReport merges the observations collected for one card.
// MarketPrice is nil iff Observations is empty, and SourceCount always equals
// len(Observations).
type PriceReport struct {
	Observations []PriceObservation `json:"prices"`
	MarketPrice  *float64           `json:"market_price"`
	Trend        Trend              `json:"trend"`
	LastUpdated  time.Time          `json:"last_updated"`
	SourceCount  int                `json:"total_sources"`
}

// Prices returns the observation prices in report order.
func (r PriceReport) Prices() []float64 {
	out := make([]float64, len(r.Observations))
	for i, o := range r.Observations {
		out[i] = o.Price
	}
	return out
}
