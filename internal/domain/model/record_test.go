package model_test

import (
	"errors"
	"testing"

	model "github.com/okian/futdash/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func sampleRecord(id int) model.PlayerRecord {
	r := model.PlayerRecord{
		PlayerID:    id,
		PlayerName:  "Kylian Mbappe",
		Overall:     "89",
		Quality:     "gold rare",
		ResourceID:  "231747",
		Position:    "ST",
		NumGames:    "1,234",
		AvgGoals:    "0.91",
		AvgAssists:  "0.33",
		Club:        "Paris SG",
		Nationality: "France",
		League:      "Ligue 1",
		SkillMoves:  "5",
		WeakFoot:    "4",
		IntlRep:     "3",
		PrefFoot:    "Right",
		Height:      "178",
		Weight:      "73",
		Revision:    "Normal",
		DefWorkrate: "Low",
		AttWorkrate: "High",
		AddedDate:   "2019-09-19",
		Origin:      "Prime",
		Age:         "20",
		Price:       1_250_000,
		Status:      model.StatusOK,
	}
	for i := range r.Skills {
		r.Skills[i] = 60 + i
	}
	return r
}

func TestColumns(t *testing.T) {
	convey.Convey("Given the raw schema", t, func() {
		convey.So(len(model.DescriptiveColumns), convey.ShouldEqual, 24)
		convey.So(len(model.SkillColumns), convey.ShouldEqual, model.SkillCount)
		convey.So(model.SkillCount, convey.ShouldEqual, 35)
		convey.So(len(model.Columns), convey.ShouldEqual, 61)
		convey.So(model.Columns[0], convey.ShouldEqual, "player_id")
		convey.So(model.Columns[len(model.Columns)-2], convey.ShouldEqual, "price")
		convey.So(model.Columns[len(model.Columns)-1], convey.ShouldEqual, "fetch_status")
	})
}

func TestPlaceholderRecords(t *testing.T) {
	convey.Convey("Given a missing player", t, func() {
		r := model.NewMissingRecord(77, model.StatusMissing)
		values := r.Values()

		convey.Convey("Then it has the fixed width with every non-identity column zero", func() {
			convey.So(len(values), convey.ShouldEqual, len(model.Columns))
			convey.So(values[0], convey.ShouldEqual, "77")
			for _, v := range values[1 : len(values)-1] {
				convey.So(v, convey.ShouldEqual, "0")
			}
			convey.So(values[len(values)-1], convey.ShouldEqual, "missing")
		})
	})

	convey.Convey("Given a failed fetch", t, func() {
		r := model.NewMissingRecord(78, model.StatusFailed)

		convey.Convey("Then it is distinguishable from a missing player", func() {
			convey.So(r.Status, convey.ShouldEqual, model.StatusFailed)
			convey.So(r.PlayerName, convey.ShouldEqual, "0")
		})
	})

	convey.Convey("Given a goalkeeper", t, func() {
		r := model.NewGoalkeeperRecord(5, "Alisson", "90", "gold rare", "212831")
		values := r.Values()

		convey.Convey("Then the header survives and the rest is zero", func() {
			convey.So(len(values), convey.ShouldEqual, len(model.Columns))
			convey.So(values[1:6], convey.ShouldResemble, []string{"Alisson", "90", "gold rare", "212831", "GK"})
			for _, v := range values[6 : len(values)-1] {
				convey.So(v, convey.ShouldEqual, "0")
			}
			convey.So(r.Status, convey.ShouldEqual, model.StatusGoalkeeper)
		})
	})
}

func TestParseRecord(t *testing.T) {
	convey.Convey("Given an encoded record", t, func() {
		in := sampleRecord(1001)

		convey.Convey("When it is parsed back", func() {
			out, err := model.ParseRecord(in.Values())

			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldResemble, in)
		})

		convey.Convey("When a column is missing", func() {
			_, err := model.ParseRecord(in.Values()[1:])
			convey.So(errors.Is(err, model.ErrColumnCount), convey.ShouldBeTrue)
		})

		convey.Convey("When the fetch status is unknown", func() {
			values := in.Values()
			values[len(values)-1] = "pending"
			_, err := model.ParseRecord(values)
			convey.So(errors.Is(err, model.ErrInvalidValue), convey.ShouldBeTrue)
		})

		convey.Convey("When the price was cleared by a left join", func() {
			values := in.Values()
			values[len(values)-2] = ""
			out, err := model.ParseRecord(values)
			convey.So(err, convey.ShouldBeNil)
			convey.So(out.Price, convey.ShouldEqual, 0)
		})
	})
}

func TestVolatileColumns(t *testing.T) {
	convey.Convey("Given a record", t, func() {
		r := sampleRecord(1)

		convey.Convey("When cleared and updated", func() {
			r.ClearVolatile()
			convey.So(r.NumGames, convey.ShouldBeEmpty)
			convey.So(r.Price, convey.ShouldEqual, 0)

			r.ApplyUpdate(model.PGPUpdate{PlayerID: 1, NumGames: "12", AvgGoals: "0.5", AvgAssists: "0.1", Price: 900, OK: true})

			convey.So(r.NumGames, convey.ShouldEqual, "12")
			convey.So(r.AvgGoals, convey.ShouldEqual, "0.5")
			convey.So(r.AvgAssists, convey.ShouldEqual, "0.1")
			convey.So(r.Price, convey.ShouldEqual, 900)
			convey.So(r.Club, convey.ShouldEqual, "Paris SG")
		})
	})
}
