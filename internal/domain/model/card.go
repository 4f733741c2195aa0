// Package model contains domain models passed between layers.
package model

// Identification is the recognizer's best guess for a card photo. Every field
// is free text and untrusted.
type Identification struct {
	Name            string `json:"card_name"`
	SetName         string `json:"set_name"`
	Number          string `json:"card_number"` // "25/102" or "25"
	SpecialFeatures string `json:"special_features,omitempty"`
	Confidence      string `json:"confidence,omitempty"` // high, medium, low
}

// CanonicalCard is the resolved identity of a card. Synthetic records are
// produced when the catalog is unreachable or has no match.
type CanonicalCard struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	SetName       string            `json:"set_name"`
	SetID         string            `json:"set_id,omitempty"`
	Series        string            `json:"series,omitempty"`
	Number        string            `json:"number"`
	Rarity        string            `json:"rarity,omitempty"`
	Artist        string            `json:"artist,omitempty"`
	HP            string            `json:"hp,omitempty"`
	Types         []string          `json:"types,omitempty"`
	ImageURL      string            `json:"image_url,omitempty"`
	ImageURLSmall string            `json:"image_url_small,omitempty"`
	CardmarketURL string            `json:"cardmarket_url,omitempty"`
	SourcePrices  *SourcePriceBlock `json:"source_prices,omitempty"`
	Synthetic     bool              `json:"synthetic"`
}

// SourcePriceBlock carries per-variant prices supplied by the catalog itself.
type SourcePriceBlock struct {
	URL             string        `json:"url,omitempty"`
	UpdatedAt       string        `json:"updated_at,omitempty"`
	Normal          *VariantPrice `json:"normal,omitempty"`
	Holofoil        *VariantPrice `json:"holofoil,omitempty"`
	ReverseHolofoil *VariantPrice `json:"reverse_holofoil,omitempty"`
	FirstEdition    *VariantPrice `json:"first_edition,omitempty"`
}

// VariantPrice holds the optional price points of one printing.
type VariantPrice struct {
	Low    *float64 `json:"low,omitempty"`
	Mid    *float64 `json:"mid,omitempty"`
	High   *float64 `json:"high,omitempty"`
	Market *float64 `json:"market,omitempty"`
}
