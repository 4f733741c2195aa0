package model_test

import (
	"encoding/json"
	"testing"
	"time"

	model "github.com/okian/tcgprice/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestPriceReport(t *testing.T) {
	convey.Convey("Given a price report", t, func() {
		market := 15.0
		report := model.PriceReport{
			Observations: []model.PriceObservation{
				{Source: "TCGPlayer", Price: 10, Currency: "USD", Condition: "Near Mint", InStock: true},
				{Source: "eBay", Price: 20, Currency: "USD", Condition: "Near Mint", InStock: true, Seller: "Various Sellers"},
			},
			MarketPrice: &market,
			Trend:       model.TrendRising,
			LastUpdated: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC),
			SourceCount: 2,
		}

		convey.Convey("When reading prices", func() {
			convey.So(report.Prices(), convey.ShouldResemble, []float64{10, 20})
		})

		convey.Convey("When encoding to JSON", func() {
			raw, err := json.Marshal(report)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the wire names match the public API", func() {
				var decoded map[string]any
				convey.So(json.Unmarshal(raw, &decoded), convey.ShouldBeNil)
				convey.So(decoded, convey.ShouldContainKey, "prices")
				convey.So(decoded["market_price"], convey.ShouldEqual, 15.0)
				convey.So(decoded["trend"], convey.ShouldEqual, "rising")
				convey.So(decoded["total_sources"], convey.ShouldEqual, 2.0)
				convey.So(decoded["last_updated"], convey.ShouldEqual, "2026-10-15T12:00:00Z")
			})
		})

		convey.Convey("When the report is empty", func() {
			empty := model.PriceReport{Trend: model.TrendUnknown}
			raw, err := json.Marshal(empty)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then market_price is encoded as null", func() {
				convey.So(string(raw), convey.ShouldContainSubstring, `"market_price":null`)
				convey.So(empty.Prices(), convey.ShouldBeEmpty)
			})
		})
	})
}
