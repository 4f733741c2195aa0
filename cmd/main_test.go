package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/okian/tcgprice/internal/bootstrap"
	"github.com/okian/tcgprice/internal/config"
	"github.com/okian/tcgprice/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	if err := logger.InitWithWriter(io.Discard); err != nil {
		t.Fatalf("init logger: %v", err)
	}

	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			// Test with environment variables
			_ = os.Setenv("TCGPRICE_ADDR", ":9090")
			_ = os.Setenv("TCGPRICE_SOURCE_MODE", "none")
			defer func() {
				_ = os.Unsetenv("TCGPRICE_ADDR")
				_ = os.Unsetenv("TCGPRICE_SOURCE_MODE")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.SourceMode, convey.ShouldEqual, config.SourceModeNone)
			})
		})

		convey.Convey("When wiring the HTTP server", func() {
			ctx := context.Background()
			cfg := config.New(ctx)
			svc, err := bootstrap.Build(cfg, logger.Get())
			convey.So(err, convey.ShouldBeNil)

			srv := newHTTPServer(ctx, cfg, svc)

			convey.Convey("Then server timeouts should be applied", func() {
				convey.So(srv.Addr, convey.ShouldEqual, cfg.Addr)
				convey.So(srv.ReadTimeout, convey.ShouldEqual, readTimeout)
				convey.So(srv.WriteTimeout, convey.ShouldEqual, writeTimeout)
				convey.So(srv.ReadHeaderTimeout, convey.ShouldEqual, readHeaderTimeout)
			})

			convey.Convey("Then health should follow the service lifecycle", func() {
				w := httptest.NewRecorder()
				srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
				convey.So(w.Code, convey.ShouldEqual, http.StatusServiceUnavailable)

				convey.So(svc.Start(ctx), convey.ShouldBeNil)
				defer svc.Stop()

				w = httptest.NewRecorder()
				srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("X-Request-ID"), convey.ShouldNotBeEmpty)
			})

			convey.Convey("Then metrics should be exposed", func() {
				w := httptest.NewRecorder()
				srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			})
		})
	})
}
