package pricing_test

import (
	"testing"

	"github.com/okian/tcgprice/internal/domain/model"
	"github.com/okian/tcgprice/internal/domain/pricing"
	"github.com/smartystreets/goconvey/convey"
)

func TestClassifyTrend(t *testing.T) {
	convey.Convey("Given ordered price series", t, func() {
		convey.Convey("Then an empty series is unknown", func() {
			convey.So(pricing.ClassifyTrend(nil), convey.ShouldEqual, model.TrendUnknown)
			convey.So(pricing.ClassifyTrend([]float64{}), convey.ShouldEqual, model.TrendUnknown)
		})

		convey.Convey("Then a single price ends on its maximum and is rising", func() {
			convey.So(pricing.ClassifyTrend([]float64{12}), convey.ShouldEqual, model.TrendRising)
		})

		convey.Convey("Then a series ending on its maximum is rising", func() {
			convey.So(pricing.ClassifyTrend([]float64{10, 10.5, 11}), convey.ShouldEqual, model.TrendRising)
		})

		convey.Convey("Then a series ending on its minimum is falling", func() {
			convey.So(pricing.ClassifyTrend([]float64{11, 10.5, 10}), convey.ShouldEqual, model.TrendFalling)
		})

		convey.Convey("Then a series ending in the middle is stable", func() {
			convey.So(pricing.ClassifyTrend([]float64{10, 11, 10.5}), convey.ShouldEqual, model.TrendStable)
		})

		convey.Convey("Then a wide spread is volatile before anything else", func() {
			convey.So(pricing.ClassifyTrend([]float64{10, 10.5, 40}), convey.ShouldEqual, model.TrendVolatile)
		})

		convey.Convey("Then equal prices end on the maximum", func() {
			convey.So(pricing.ClassifyTrend([]float64{7, 7}), convey.ShouldEqual, model.TrendRising)
		})
	})
}

func TestMarketPrice(t *testing.T) {
	convey.Convey("Given price lists", t, func() {
		convey.So(pricing.MarketPrice(nil), convey.ShouldBeNil)
		convey.So(*pricing.MarketPrice([]float64{10, 20, 15}), convey.ShouldEqual, 15.0)
		convey.So(*pricing.MarketPrice([]float64{1, 2, 2}), convey.ShouldEqual, 1.67)
		convey.So(*pricing.MarketPrice([]float64{0.1, 0.2}), convey.ShouldEqual, 0.15)
	})
}

func TestExtractCatalogPrices(t *testing.T) {
	convey.Convey("Given a catalog price block", t, func() {
		market := func(v float64) *model.VariantPrice { return &model.VariantPrice{Market: &v} }

		convey.Convey("When it is absent", func() {
			convey.So(pricing.ExtractCatalogPrices(nil), convey.ShouldBeEmpty)
		})

		convey.Convey("When every variant has a market price", func() {
			block := &model.SourcePriceBlock{
				FirstEdition:    market(400),
				ReverseHolofoil: market(3.333),
				Holofoil:        market(12),
				Normal:          market(1.5),
			}
			got := pricing.ExtractCatalogPrices(block)

			convey.Convey("Then variants come out in fixed order", func() {
				convey.So(len(got), convey.ShouldEqual, 4)
				convey.So(got[0].Condition, convey.ShouldEqual, "Near Mint")
				convey.So(got[1].Condition, convey.ShouldEqual, "Near Mint (Holofoil)")
				convey.So(got[2].Condition, convey.ShouldEqual, "Near Mint (Reverse Holo)")
				convey.So(got[3].Condition, convey.ShouldEqual, "Near Mint (1st Edition)")
				convey.So(got[2].Price, convey.ShouldEqual, 3.33)
			})

			convey.Convey("Then the fallback URL and marketplace attribution are used", func() {
				for _, o := range got {
					convey.So(o.Source, convey.ShouldEqual, "TCGPlayer")
					convey.So(o.Seller, convey.ShouldEqual, "TCGPlayer Market")
					convey.So(o.Currency, convey.ShouldEqual, "USD")
					convey.So(o.URL, convey.ShouldEqual, "https://www.tcgplayer.com")
					convey.So(o.InStock, convey.ShouldBeTrue)
				}
			})
		})

		convey.Convey("When variants lack a market value", func() {
			low := 2.0
			block := &model.SourcePriceBlock{
				URL:      "https://prices.example/card",
				Normal:   &model.VariantPrice{Low: &low},
				Holofoil: market(-1),
			}
			convey.So(pricing.ExtractCatalogPrices(block), convey.ShouldBeEmpty)
		})

		convey.Convey("When a market value rounds down to zero", func() {
			block := &model.SourcePriceBlock{
				Normal:   market(0.004),
				Holofoil: market(0.005),
			}
			got := pricing.ExtractCatalogPrices(block)

			convey.Convey("Then only variants still priced after rounding are kept", func() {
				convey.So(len(got), convey.ShouldEqual, 1)
				convey.So(got[0].Condition, convey.ShouldEqual, "Near Mint (Holofoil)")
				convey.So(got[0].Price, convey.ShouldEqual, 0.01)
			})
		})

		convey.Convey("When the only market value rounds down to zero", func() {
			got := pricing.ExtractCatalogPrices(&model.SourcePriceBlock{Normal: market(0.004)})
			convey.So(got, convey.ShouldBeEmpty)
		})
	})
}

func TestBuild(t *testing.T) {
	convey.Convey("Given collected observations", t, func() {
		report := pricing.Build([]model.PriceObservation{{Price: 10}, {Price: 20}, {Price: 15}}, fixedClock())

		convey.So(*report.MarketPrice, convey.ShouldEqual, 15.0)
		convey.So(report.Trend, convey.ShouldEqual, model.TrendVolatile)
		convey.So(report.SourceCount, convey.ShouldEqual, 3)
	})
}
