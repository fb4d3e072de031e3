package model_test

import (
	"errors"
	"testing"
	"time"

	model "github.com/okian/futdash/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/smartystreets/goconvey/convey"
)

func TestTable(t *testing.T) {
	convey.Convey("Given an unordered table", t, func() {
		table := model.Table{sampleRecord(3), model.NewMissingRecord(1, model.StatusFailed), sampleRecord(2)}

		convey.So(table.MaxPlayerID(), convey.ShouldEqual, 3)
		convey.So(model.Table{}.MaxPlayerID(), convey.ShouldEqual, 0)

		convey.Convey("When sorted", func() {
			table.SortByPlayerID()
			convey.So(table.PlayerIDs(), convey.ShouldResemble, []int{1, 2, 3})
		})

		convey.Convey("Then failed rows can be listed", func() {
			convey.So(table.IDsWithStatus(model.StatusFailed), convey.ShouldResemble, []int{1})
			convey.So(table.CountByStatus()[model.StatusOK], convey.ShouldEqual, 2)
		})

		convey.Convey("When an id repeats", func() {
			convey.So(table.Validate(), convey.ShouldBeNil)
			table = append(table, sampleRecord(2))
			convey.So(errors.Is(table.Validate(), model.ErrDuplicatePlayer), convey.ShouldBeTrue)
		})
	})
}

func TestIDRange(t *testing.T) {
	convey.Convey("Given id bounds", t, func() {
		convey.So(model.IDRange(3, 6), convey.ShouldResemble, []int{4, 5, 6})
		convey.So(model.IDRange(6, 6), convey.ShouldBeEmpty)
		convey.So(model.IDRange(7, 6), convey.ShouldBeEmpty)

		jobs := model.JobsFor([]int{10, 11})
		convey.So(jobs, convey.ShouldResemble, []model.Job{{Seq: 0, PlayerID: 10}, {Seq: 1, PlayerID: 11}})
	})
}

func TestHistoryRow(t *testing.T) {
	convey.Convey("Given an update observed at a time of day", t, func() {
		r := sampleRecord(9)
		at := time.Date(2019, 11, 2, 17, 30, 0, 0, time.UTC)
		h := model.NewHistoryRow(at, r, model.PGPUpdate{PlayerID: 9, NumGames: "40", AvgGoals: "1.1", AvgAssists: "0.2", Price: 700, OK: true})

		convey.So(h.Date, convey.ShouldEqual, time.Date(2019, 11, 2, 0, 0, 0, 0, time.UTC))
		convey.So(h.ResourceID, convey.ShouldEqual, "231747")
		convey.So(len(h.Values()), convey.ShouldEqual, len(model.HistoryColumns))

		back, err := model.ParseHistoryRow(h.Values())
		convey.So(err, convey.ShouldBeNil)
		convey.So(back, convey.ShouldResemble, h)

		_, err = model.ParseHistoryRow([]string{"2019-13-40", "9", "", "", "", "", "", "0"})
		convey.So(errors.Is(err, model.ErrInvalidValue), convey.ShouldBeTrue)
	})
}

func TestDerivedRowEncoding(t *testing.T) {
	convey.Convey("Given a derived row", t, func() {
		d := model.DerivedRow{
			Player:          sampleRecord(4),
			Games:           decimal.NewFromInt(1234),
			Goals:           decimal.RequireFromString("0.91"),
			Assists:         decimal.RequireFromString("0.33"),
			Rating:          decimal.NewFromInt(89),
			Contributions:   decimal.RequireFromString("1.24"),
			GeneralPosition: model.Attacker,
			PopularNations:  true,
		}
		d.Player = d.Record()

		convey.Convey("Then the schema drops quality and adds features", func() {
			cols := model.DerivedColumns(false)
			convey.So(cols, convey.ShouldNotContain, "quality")
			convey.So(cols, convey.ShouldContain, "general_position")
			convey.So(len(d.Values()), convey.ShouldEqual, len(cols))
			convey.So(len(model.DerivedColumns(true)), convey.ShouldEqual, len(cols)+4)
		})

		convey.Convey("Then it parses back", func() {
			back, err := model.ParseDerivedRow(d.Values(), false)
			convey.So(err, convey.ShouldBeNil)
			convey.So(back.Values(), convey.ShouldResemble, d.Values())
			convey.So(back.PopularNations, convey.ShouldBeTrue)
			convey.So(back.PopularLeagues, convey.ShouldBeFalse)
			convey.So(back.Player.NumGames, convey.ShouldEqual, "1234")
		})

		convey.Convey("Then the time-series variant parses back", func() {
			d.TimeSeries = true
			d.Date = time.Date(2019, 11, 4, 0, 0, 0, 0, time.UTC)
			d.DaysAvailable = 46
			d.DaysSinceLaunch = 2
			d.Weekday = "Monday"

			back, err := model.ParseDerivedRow(d.Values(), true)
			convey.So(err, convey.ShouldBeNil)
			convey.So(back.Date, convey.ShouldEqual, d.Date)
			convey.So(back.Weekday, convey.ShouldEqual, "Monday")
			convey.So(back.DaysAvailable, convey.ShouldEqual, 46)
		})
	})
}
