package catalog

import "github.com/okian/tcgprice/internal/domain/model"

// rawCard mirrors the subset of the catalog's card document we read.
type rawCard struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Number string   `json:"number"`
	Rarity string   `json:"rarity"`
	Artist string   `json:"artist"`
	HP     string   `json:"hp"`
	Types  []string `json:"types"`
	Set    struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Series string `json:"series"`
	} `json:"set"`
	Images struct {
		Small string `json:"small"`
		Large string `json:"large"`
	} `json:"images"`
	TCGPlayer *struct {
		URL       string `json:"url"`
		UpdatedAt string `json:"updatedAt"`
		Prices    struct {
			Normal          *rawVariant `json:"normal"`
			Holofoil        *rawVariant `json:"holofoil"`
			ReverseHolofoil *rawVariant `json:"reverseHolofoil"`
			FirstEdition    *rawVariant `json:"1stEdition"`
		} `json:"prices"`
	} `json:"tcgplayer"`
	Cardmarket *struct {
		URL string `json:"url"`
	} `json:"cardmarket"`
}

type rawVariant struct {
	Low    *float64 `json:"low"`
	Mid    *float64 `json:"mid"`
	High   *float64 `json:"high"`
	Market *float64 `json:"market"`
}

func (v *rawVariant) variant() *model.VariantPrice {
	if v == nil {
		return nil
	}
	return &model.VariantPrice{Low: v.Low, Mid: v.Mid, High: v.High, Market: v.Market}
}

func (r rawCard) canonical() model.CanonicalCard {
	card := model.CanonicalCard{
		ID:            r.ID,
		Name:          r.Name,
		SetName:       r.Set.Name,
		SetID:         r.Set.ID,
		Series:        r.Set.Series,
		Number:        r.Number,
		Rarity:        r.Rarity,
		Artist:        r.Artist,
		HP:            r.HP,
		Types:         r.Types,
		ImageURL:      r.Images.Large,
		ImageURLSmall: r.Images.Small,
	}
	if r.Cardmarket != nil {
		card.CardmarketURL = r.Cardmarket.URL
	}
	if r.TCGPlayer != nil {
		p := r.TCGPlayer.Prices
		card.SourcePrices = &model.SourcePriceBlock{
			URL:             r.TCGPlayer.URL,
			UpdatedAt:       r.TCGPlayer.UpdatedAt,
			Normal:          p.Normal.variant(),
			Holofoil:        p.Holofoil.variant(),
			ReverseHolofoil: p.ReverseHolofoil.variant(),
			FirstEdition:    p.FirstEdition.variant(),
		}
	}
	return card
}
