// Package demo provides randomized stand-ins for marketplaces that have no
// public price API. Quotes are plausible, not real.
package demo

import (
	"context"
	"math/rand/v2"
	"net/url"
	"strings"
	"sync"

	"github.com/okian/tcgprice/internal/domain/model"
	"github.com/okian/tcgprice/internal/domain/pricing"
)

const currency = "USD"

type quote struct {
	condition string
	factor    float64
	urlSuffix string
}

// Marketplace quotes a random base price in [low, high) and derives one
// observation per configured condition from it.
type Marketplace struct {
	name      string
	seller    string
	low, high float64
	quotes    []quote
	searchURL func(cardName, setName string) string

	mu  sync.Mutex
	rng *rand.Rand
}

var _ pricing.Source = (*Marketplace)(nil)

// TCGPlayer quotes near mint and lightly played prices.
func TCGPlayer(opts ...Option) *Marketplace {
	return newMarketplace("TCGPlayer", "TCGPlayer Market", 5, 50, []quote{
		{condition: "Near Mint", factor: 1},
		{condition: "Lightly Played", factor: 0.85},
	}, func(cardName, _ string) string {
		return "https://www.tcgplayer.com/search/pokemon/product?q=" + url.QueryEscape(cardName)
	}, opts)
}

// EBay quotes a near mint and a graded price.
func EBay(opts ...Option) *Marketplace {
	return newMarketplace("eBay", "Various Sellers", 8, 55, []quote{
		{condition: "Near Mint", factor: 1},
		{condition: "Mint/PSA Graded", factor: 1.15, urlSuffix: "&LH_PrefLoc=1"},
	}, func(cardName, setName string) string {
		terms := strings.Join(strings.Fields(cardName+" "+setName+" Pokemon Card"), " ")
		return "https://www.ebay.com/sch/i.html?_nkw=" + url.QueryEscape(terms)
	}, opts)
}

// Cardmarket quotes a single near mint price.
func Cardmarket(opts ...Option) *Marketplace {
	return newMarketplace("Cardmarket", "Cardmarket Sellers", 6, 45, []quote{
		{condition: "Near Mint", factor: 1},
	}, func(cardName, _ string) string {
		return "https://www.cardmarket.com/en/Pokemon/Products/Search?searchString=" + url.QueryEscape(cardName)
	}, opts)
}

// All returns the three demo marketplaces in their canonical order.
func All(opts ...Option) []pricing.Source {
	return []pricing.Source{TCGPlayer(opts...), EBay(opts...), Cardmarket(opts...)}
}

func newMarketplace(
	name, seller string,
	low, high float64,
	quotes []quote,
	searchURL func(string, string) string,
	opts []Option,
) *Marketplace {
	m := &Marketplace{
		name:      name,
		seller:    seller,
		low:       low,
		high:      high,
		quotes:    quotes,
		searchURL: searchURL,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return m
}

// Name returns the marketplace name.
func (m *Marketplace) Name() string { return m.name }

// Quote returns one observation per condition, all derived from the same
// random base price.
func (m *Marketplace) Quote(ctx context.Context, cardName, setName string) ([]model.PriceObservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	base := m.low + m.rng.Float64()*(m.high-m.low)
	m.mu.Unlock()

	link := m.searchURL(cardName, setName)
	out := make([]model.PriceObservation, 0, len(m.quotes))
	for _, q := range m.quotes {
		out = append(out, model.PriceObservation{
			Source:    m.name,
			Price:     pricing.Round(base * q.factor),
			Currency:  currency,
			Condition: q.condition,
			URL:       link + q.urlSuffix,
			InStock:   true,
			Seller:    m.seller,
		})
	}
	return out, nil
}
