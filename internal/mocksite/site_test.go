package mocksite_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/futdash/internal/domain/model"
	"github.com/okian/futdash/internal/mocksite"
	. "github.com/smartystreets/goconvey/convey"
)

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url) //nolint:noctx // test helper
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestGenerate(t *testing.T) {
	Convey("Given the default generator config", t, func() {
		cfg := mocksite.DefaultGeneratorConfig()
		a := mocksite.Generate(cfg)
		b := mocksite.Generate(cfg)

		Convey("Then the population is deterministic and covers every kind", func() {
			So(len(a), ShouldEqual, cfg.Players)
			So(a, ShouldResemble, b)

			kinds := map[mocksite.Kind]int{}
			reduced := 0
			for i, p := range a {
				So(p.ID, ShouldEqual, i+1)
				kinds[p.Kind]++
				if p.Kind == mocksite.KindPlayer && p.IntlRep == "" {
					reduced++
				}
			}
			So(kinds[mocksite.KindMissing], ShouldBeGreaterThan, 0)
			So(kinds[mocksite.KindGoalkeeper], ShouldBeGreaterThan, 0)
			So(reduced, ShouldBeGreaterThan, 0)
		})

		Convey("Then expected records have the fixed width", func() {
			for _, p := range a {
				So(len(p.Record("ps").Values()), ShouldEqual, len(model.Columns))
			}
		})
	})
}

func TestSiteHandler(t *testing.T) {
	Convey("Given a served site", t, func() {
		site := mocksite.NewSite("20")
		p := mocksite.Generate(mocksite.GeneratorConfig{Players: 3, Seed: 1, PriceDays: 3})[2]
		site.Add(p)
		srv := httptest.NewServer(site.Handler())
		defer srv.Close()

		Convey("Then the latest page links the newest player first", func() {
			code, body := get(t, srv.URL+"/latest")
			So(code, ShouldEqual, http.StatusOK)
			So(body, ShouldContainSubstring, `href="/20/player/3/`)
		})

		Convey("Then the profile carries the scraped markers", func() {
			code, body := get(t, srv.URL+"/20/player/3")
			So(code, ShouldEqual, http.StatusOK)
			So(body, ShouldContainSubstring, `class="header_name"`)
			So(body, ShouldContainSubstring, `data-player-resource="`+p.ResourceID+`"`)
			So(strings.Count(body, "ps4-pgp-data"), ShouldEqual, 4)
			So(body, ShouldContainSubstring, "player_stats_json")
		})

		Convey("Then unknown ids render a page without a name", func() {
			code, body := get(t, srv.URL+"/20/player/99")
			So(code, ShouldEqual, http.StatusOK)
			So(body, ShouldNotContainSubstring, "header_name")
		})

		Convey("Then the price graph serves the platform series", func() {
			code, body := get(t, srv.URL+"/20/playerGraph?type=daily_graph&year=20&player="+p.ResourceID)
			So(code, ShouldEqual, http.StatusOK)
			So(body, ShouldContainSubstring, `"ps":[[`)
		})

		Convey("When failures are injected", func() {
			site.Fail(3, 1)
			first, _ := get(t, srv.URL+"/20/player/3")
			second, _ := get(t, srv.URL+"/20/player/3")

			So(first, ShouldEqual, http.StatusServiceUnavailable)
			So(second, ShouldEqual, http.StatusOK)
			So(site.Hits("/20/player/3"), ShouldEqual, 2)
		})
	})
}
