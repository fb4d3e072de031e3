package dashboard_test

import (
	"errors"
	"testing"

	"github.com/okian/futdash/internal/domain/dashboard"
	"github.com/okian/futdash/internal/domain/model"
	"github.com/okian/futdash/internal/domain/pipeline"
	"github.com/okian/futdash/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func card(id int, resource, name, overall, position, nation, league string, price int) model.PlayerRecord {
	return model.PlayerRecord{
		PlayerID:    id,
		PlayerName:  name,
		Overall:     overall,
		ResourceID:  resource,
		Position:    position,
		NumGames:    "100",
		AvgGoals:    "0.5",
		AvgAssists:  "0.25",
		Nationality: nation,
		League:      league,
		Price:       price,
		Status:      model.StatusOK,
	}
}

func derivedRows() []model.DerivedRow {
	records := []model.PlayerRecord{
		card(1, "r1", "Lacazette", "85", "ST", "France", "Premier League", 300_000),
		card(2, "r1", "Lacazette", "86", "ST", "France", "Premier League", 400_000),
		card(3, "r2", "Werner", "87", "ST", "Germany", "Bundesliga", 450_000),
		card(4, "r3", "Kante", "88", "CDM", "France", "Premier League", 350_000),
		card(5, "r4", "Cheap", "84", "ST", "Spain", "LaLiga", 150_000),
		card(6, "r5", "Pricey", "88", "ST", "Spain", "LaLiga", 600_000),
		card(7, "r6", "Icon", "95", "ST", "Brazil", "Icons", 400_000),
		model.NewMissingRecord(8, model.StatusMissing),
	}
	rows, err := pipeline.Process(records)
	if err != nil {
		panic(err)
	}
	return rows
}

func TestFilter(t *testing.T) {
	Convey("Given the default filter", t, func() {
		f := dashboard.DefaultFilter()

		So(f.Position, ShouldEqual, "ST")
		So(f.Contribution, ShouldEqual, dashboard.Both)
		So(f.Ratings, ShouldResemble, types.Range{Min: 84, Max: 88})
		So(f.Validate(), ShouldBeNil)

		Convey("Then the price slider is a log scale of thousands", func() {
			f.Prices = types.Range{Min: 2, Max: 3}
			lo, hi := f.PriceRange()
			So(lo, ShouldAlmostEqual, 100_000, 1e-6)
			So(hi, ShouldAlmostEqual, 1_000_000, 1e-6)
		})

		Convey("When values leave the slider bounds", func() {
			f.Ratings = types.Range{Min: 70, Max: 88}
			So(errors.Is(f.Validate(), dashboard.ErrInvalidFilter), ShouldBeTrue)

			f = dashboard.DefaultFilter()
			f.Prices = types.Range{Min: 3, Max: 2}
			So(errors.Is(f.Validate(), dashboard.ErrInvalidFilter), ShouldBeTrue)

			f = dashboard.DefaultFilter()
			f.Contribution = "Saves"
			So(errors.Is(f.Validate(), dashboard.ErrInvalidFilter), ShouldBeTrue)
		})
	})
}

func TestScatter(t *testing.T) {
	Convey("Given derived rows", t, func() {
		rows := derivedRows()
		f := dashboard.DefaultFilter()

		Convey("When the default filter is applied", func() {
			s := dashboard.Scatter(rows, f)

			Convey("Then one point is emitted per resource id inside every range", func() {
				So(s.Metric, ShouldEqual, "avg_contributions")
				labels := []string{}
				for _, series := range s.Series {
					So(len(series.Points), ShouldEqual, 1)
					labels = append(labels, series.Label)
				}
				// 10^2.3 thousand is about 199.5K, 10^2.7 thousand about 501K
				So(labels, ShouldResemble, []string{"Lacazette 86", "Werner 87"})
				So(s.Series[0].Points[0].PlayerID, ShouldEqual, 2)
				So(s.Series[0].Points[0].X, ShouldAlmostEqual, 0.75, 1e-9)
				So(s.Series[0].Points[0].Y, ShouldEqual, 400_000)
			})
		})

		Convey("When the position filter is cleared and a country chosen", func() {
			f.Position = ""
			f.Country = "France"
			f.Contribution = dashboard.Goals
			s := dashboard.Scatter(rows, f)

			So(s.Metric, ShouldEqual, "avg_goals")
			So(len(s.Series), ShouldEqual, 2)
			So(s.Series[1].Label, ShouldEqual, "Kante 88")
			So(s.Series[1].Points[0].X, ShouldAlmostEqual, 0.5, 1e-9)
		})

		Convey("When a league matches nothing", func() {
			f.League = "Serie A"
			s := dashboard.Scatter(rows, f)
			So(s.Series, ShouldBeEmpty)
			So(s.Series, ShouldNotBeNil)
		})
	})
}

func TestOptions(t *testing.T) {
	Convey("Given derived rows", t, func() {
		opts := dashboard.Options(derivedRows())

		Convey("Then distinct values keep first appearance order", func() {
			So(opts.Countries, ShouldResemble, []string{"France", "Germany", "Spain", "Brazil"})
			So(opts.Leagues, ShouldResemble, []string{"Premier League", "Bundesliga", "LaLiga", "Icons"})
			So(opts.Positions, ShouldResemble, []string{"ST", "CDM"})
		})

		Convey("Then the sliders carry bounds and marks", func() {
			So(opts.RatingBounds, ShouldResemble, types.Range{Min: 75, Max: 99})
			So(opts.PriceBounds, ShouldResemble, types.Range{Min: 1, Max: 4.5})
			So(len(opts.RatingMarks), ShouldEqual, 6)
			So(opts.RatingMarks[0].Label, ShouldEqual, "84")
			So(opts.PriceMarks[2], ShouldResemble, types.Mark{Value: 3, Label: "1M"})
			So(opts.Contributions, ShouldResemble, []string{"Goals", "Assists", "Both"})
			So(opts.Defaults.Position, ShouldEqual, "ST")
		})
	})

	Convey("Given derived rows for stats", t, func() {
		stats := dashboard.Summarize(derivedRows())

		So(stats.Rows, ShouldEqual, 8)
		So(stats.Resources, ShouldEqual, 6)
		So(stats.ByPosition["Attacker"], ShouldEqual, 6)
		So(stats.ByPosition["Midfielder"], ShouldEqual, 1)
		So(stats.ByStatus["missing"], ShouldEqual, 1)
	})
}
