package pricing

import (
	"github.com/okian/tcgprice/internal/domain/model"
	"github.com/shopspring/decimal"
)

// volatilityThreshold is the (max-min)/mean ratio above which a series is
// labelled volatile.
const volatilityThreshold = 0.3

const priceDecimals = 2

// Catalog variant conditions and defaults.
const (
	catalogSource    = "TCGPlayer"
	catalogSeller    = "TCGPlayer Market"
	catalogFallback  = "https://www.tcgplayer.com"
	catalogCurrency  = "USD"
	conditionNormal  = "Near Mint"
	conditionHolo    = "Near Mint (Holofoil)"
	conditionReverse = "Near Mint (Reverse Holo)"
	conditionFirst   = "Near Mint (1st Edition)"
)

// ExtractCatalogPrices turns a catalog price block into observations, one per
// variant whose market value is still positive after rounding, in the fixed
// order normal, holofoil, reverse holofoil, first edition.
func ExtractCatalogPrices(block *model.SourcePriceBlock) []model.PriceObservation {
	if block == nil {
		return nil
	}
	url := block.URL
	if url == "" {
		url = catalogFallback
	}

	variants := []struct {
		price     *model.VariantPrice
		condition string
	}{
		{block.Normal, conditionNormal},
		{block.Holofoil, conditionHolo},
		{block.ReverseHolofoil, conditionReverse},
		{block.FirstEdition, conditionFirst},
	}

	var out []model.PriceObservation
	for _, v := range variants {
		if v.price == nil || v.price.Market == nil {
			continue
		}
		price := Round(*v.price.Market)
		if price <= 0 {
			continue
		}
		out = append(out, model.PriceObservation{
			Source:    catalogSource,
			Price:     price,
			Currency:  catalogCurrency,
			Condition: v.condition,
			URL:       url,
			InStock:   true,
			Seller:    catalogSeller,
		})
	}
	return out
}

// MarketPrice is the arithmetic mean rounded to two decimals, or nil when
// there are no prices.
func MarketPrice(prices []float64) *float64 {
	if len(prices) == 0 {
		return nil
	}
	sum := decimal.Zero
	for _, p := range prices {
		sum = sum.Add(decimal.NewFromFloat(p))
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(prices)))).Round(priceDecimals).InexactFloat64()
	return &mean
}

// ClassifyTrend labels an ordered price series. It is a heuristic over the
// order observations were collected in, not a time series.
func ClassifyTrend(prices []float64) model.Trend {
	if len(prices) == 0 {
		return model.TrendUnknown
	}

	lo, hi, sum := prices[0], prices[0], 0.0
	for _, p := range prices {
		lo = min(lo, p)
		hi = max(hi, p)
		sum += p
	}
	mean := sum / float64(len(prices))

	variation := 0.0
	if mean != 0 {
		variation = (hi - lo) / mean
	}

	last := prices[len(prices)-1]
	switch {
	case variation > volatilityThreshold:
		return model.TrendVolatile
	case last == hi:
		return model.TrendRising
	case last == lo:
		return model.TrendFalling
	default:
		return model.TrendStable
	}
}

// Round rounds a price half away from zero to two decimals.
func Round(price float64) float64 {
	return decimal.NewFromFloat(price).Round(priceDecimals).InexactFloat64()
}
