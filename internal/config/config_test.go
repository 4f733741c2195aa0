package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/tcgprice/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
			convey.So(cfg.CatalogBaseURL, convey.ShouldEqual, "https://api.pokemontcg.io/v2")
			convey.So(cfg.CatalogTimeout(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.CatalogPageSize, convey.ShouldEqual, 10)
			convey.So(cfg.SourceMode, convey.ShouldEqual, config.SourceModeDemo)
			convey.So(cfg.SourceTimeout(), convey.ShouldEqual, 5*time.Second)
			convey.So(cfg.VisionModel, convey.ShouldEqual, "gpt-4o")
			convey.So(cfg.VisionTimeout(), convey.ShouldEqual, time.Minute)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
