package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	service "github.com/okian/tcgprice/internal/app"
	"github.com/okian/tcgprice/internal/domain/model"
)

const baseSetSearch = `{"data": [
  {"id": "base1-4", "name": "Charizard", "number": "4", "rarity": "Rare Holo",
   "set": {"id": "base1", "name": "Base", "series": "Base"},
   "images": {"small": "s", "large": "l"},
   "tcgplayer": {"url": "https://prices.pokemontcg.io/tcgplayer/base1-4",
     "prices": {"normal": {"market": 100}, "holofoil": {"low": 300, "market": 350.456, "high": 500},
       "1stEdition": {"market": 900}}}}
]}`

func newCatalogServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cards":
			_, _ = w.Write([]byte(baseSetSearch))
		case "/cards/base1-4":
			_, _ = w.Write([]byte(`{"data": {"id": "base1-4", "name": "Charizard", "number": "4", "set": {"name": "Base"},
			  "tcgplayer": {"prices": {"holofoil": {"market": 350}}}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func writeConfig(t *testing.T, catalogURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cardctl.yaml")
	content := fmt.Sprintf("catalog_base_url: %q\nsource_mode: none\ncatalog_timeout_ms: 2000\n", catalogURL)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(args []string, configPath string) (string, string, error) {
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCLI(t *testing.T) {
	srv := newCatalogServer()
	defer srv.Close()
	configPath := writeConfig(t, srv.URL)

	convey.Convey("Given cardctl pointed at a catalog", t, func() {
		convey.Convey("When resolving a catalogued card as JSON", func() {
			out, _, err := runCLI([]string{"resolve", "--name", "Charizard", "--set", "base", "--number", "4/102"}, configPath)
			convey.So(err, convey.ShouldBeNil)

			var got struct {
				Card       model.CanonicalCard `json:"card"`
				Resolution string              `json:"resolution"`
			}
			convey.So(json.Unmarshal([]byte(out), &got), convey.ShouldBeNil)
			convey.So(got.Card.ID, convey.ShouldEqual, "base1-4")
			convey.So(got.Resolution, convey.ShouldEqual, "matched")
		})

		convey.Convey("When pricing by name", func() {
			out, _, err := runCLI([]string{"price", "--name", "Charizard", "-o", "json"}, configPath)
			convey.So(err, convey.ShouldBeNil)

			var got service.PriceCheck
			convey.So(json.Unmarshal([]byte(out), &got), convey.ShouldBeNil)
			convey.So(got.CardID, convey.ShouldEqual, "base1-4")
			convey.So(got.TotalSources, convey.ShouldEqual, 3)
			convey.So(got.PriceTrend, convey.ShouldEqual, model.TrendVolatile)
			convey.So(got.Prices[1].Price, convey.ShouldEqual, 350.46)
		})

		convey.Convey("When pricing by id as a table", func() {
			out, _, err := runCLI([]string{"price", "--id", "base1-4", "-o", "table"}, configPath)
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "Charizard (base1-4)")
			convey.So(out, convey.ShouldContainSubstring, "market $350.00")
			convey.So(out, convey.ShouldContainSubstring, "TCGPlayer")
		})

		convey.Convey("When pricing by id as JSON", func() {
			out, _, err := runCLI([]string{"price", "--id", "base1-4", "-o", "json"}, configPath)
			convey.So(err, convey.ShouldBeNil)

			var got service.PriceCheck
			convey.So(json.Unmarshal([]byte(out), &got), convey.ShouldBeNil)
			convey.So(got.CardName, convey.ShouldEqual, "Charizard")
			convey.So(got.SetName, convey.ShouldEqual, "Base")
			convey.So(got.CardNumber, convey.ShouldEqual, "4")
			convey.So(got.Resolution, convey.ShouldEqual, "matched")
			convey.So(got.PriceTrend, convey.ShouldEqual, model.TrendRising)
		})

		convey.Convey("When pricing an unknown id", func() {
			_, _, err := runCLI([]string{"price", "--id", "nope-1"}, configPath)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When price has neither id nor name", func() {
			_, _, err := runCLI([]string{"price"}, configPath)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "--id or --name")
		})

		convey.Convey("When searching as a table", func() {
			out, _, err := runCLI([]string{"search", "Charizard", "-o", "table"}, configPath)
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "base1-4")
			convey.So(out, convey.ShouldContainSubstring, "Rare Holo")
		})

		convey.Convey("When identifying without a vision key", func() {
			img := filepath.Join(t.TempDir(), "card.png")
			png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
			convey.So(os.WriteFile(img, png, 0o600), convey.ShouldBeNil)

			_, _, err := runCLI([]string{"identify", img}, configPath)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "recognizer")
		})

		convey.Convey("When identifying a file that is not an image", func() {
			txt := filepath.Join(t.TempDir(), "notes.txt")
			convey.So(os.WriteFile(txt, []byte("just text"), 0o600), convey.ShouldBeNil)

			_, _, err := runCLI([]string{"identify", txt}, configPath)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "not an image")
		})

		convey.Convey("When the output format is unknown", func() {
			_, _, err := runCLI([]string{"search", "Charizard", "-o", "xml"}, configPath)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When the source override is invalid", func() {
			_, _, err := runCLI([]string{"--sources", "scrape", "search", "Charizard"}, configPath)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestRenderTable(t *testing.T) {
	convey.Convey("Given table rows", t, func() {
		out := renderTable([]string{"Source", "Price"}, [][]string{{"eBay", "$10.00"}, {"short"}}, []columnAlignment{alignLeft, alignRight})
		convey.So(out, convey.ShouldContainSubstring, "eBay")
		convey.So(out, convey.ShouldContainSubstring, "$10.00")
		convey.So(out, convey.ShouldContainSubstring, "short")
		convey.So(renderTable(nil, nil, nil), convey.ShouldEqual, "")
	})

	convey.Convey("Given nil and set prices", t, func() {
		p := 4.1
		convey.So(formatPrice(nil), convey.ShouldEqual, "-")
		convey.So(formatPrice(&p), convey.ShouldEqual, "$4.10")
	})
}
