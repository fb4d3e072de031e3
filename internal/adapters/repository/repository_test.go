package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/futdash/internal/adapters/repository"
	"github.com/okian/futdash/internal/domain/model"
	"github.com/okian/futdash/internal/domain/pipeline"
	logging "github.com/okian/futdash/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logging.Init(); err != nil {
		panic(err)
	}
	_ = logging.SetLevelString("error")
	os.Exit(m.Run())
}

func record(id int, name string) model.PlayerRecord {
	r := model.NewMissingRecord(id, model.StatusOK)
	r.PlayerName = name
	r.Overall = "86"
	r.Quality = "gold rare"
	r.ResourceID = "5000" + strings.Repeat("1", id%3)
	r.Position = "CAM"
	r.NumGames = "1,024"
	r.AvgGoals = "0.5"
	r.AvgAssists = "0.25"
	r.Club = "Club, \"Quoted\""
	r.Nationality = "Spain"
	r.League = "LaLiga"
	r.AddedDate = "2019-09-19"
	r.Price = 15_750
	return r
}

func TestRecordTable(t *testing.T) {
	convey.Convey("Given a record table in a temp dir", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "nested", "players.csv")
		table := repository.NewRecordTable(path)

		convey.Convey("When it was never saved", func() {
			_, err := table.Load(ctx)

			convey.Convey("Then Load reports ErrNotFound", func() {
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a table is saved and loaded", func() {
			in := model.Table{record(1, "Isco"), model.NewMissingRecord(2, model.StatusMissing), record(3, "Koke")}
			convey.So(table.Save(ctx, in), convey.ShouldBeNil)
			out, err := table.Load(ctx)

			convey.Convey("Then every row comes back unchanged", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldResemble, in)
			})

			convey.Convey("Then no temp file is left behind", func() {
				entries, err := os.ReadDir(filepath.Dir(path))
				convey.So(err, convey.ShouldBeNil)
				convey.So(entries, convey.ShouldHaveLength, 1)
				convey.So(entries[0].Name(), convey.ShouldEqual, "players.csv")
			})

			convey.Convey("Then the header is the raw schema", func() {
				data, err := os.ReadFile(path)
				convey.So(err, convey.ShouldBeNil)
				first := strings.SplitN(string(data), "\n", 2)[0]
				convey.So(first, convey.ShouldEqual, strings.Join(model.Columns, ","))
			})
		})

		convey.Convey("When the header drifted", func() {
			header := append([]string{}, model.Columns...)
			header[1] = "name"
			content := strings.Join(header, ",") + "\n"
			convey.So(os.MkdirAll(filepath.Dir(path), 0o755), convey.ShouldBeNil)
			convey.So(os.WriteFile(path, []byte(content), 0o600), convey.ShouldBeNil)
			_, err := table.Load(ctx)

			convey.Convey("Then Load reports ErrSchemaMismatch", func() {
				convey.So(errors.Is(err, repository.ErrSchemaMismatch), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the file is empty", func() {
			convey.So(os.MkdirAll(filepath.Dir(path), 0o755), convey.ShouldBeNil)
			convey.So(os.WriteFile(path, nil, 0o600), convey.ShouldBeNil)
			_, err := table.Load(ctx)

			convey.Convey("Then Load reports ErrSchemaMismatch", func() {
				convey.So(errors.Is(err, repository.ErrSchemaMismatch), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a row has too few cells", func() {
			content := strings.Join(model.Columns, ",") + "\n1,short\n"
			convey.So(os.MkdirAll(filepath.Dir(path), 0o755), convey.ShouldBeNil)
			convey.So(os.WriteFile(path, []byte(content), 0o600), convey.ShouldBeNil)
			_, err := table.Load(ctx)

			convey.Convey("Then Load reports ErrInvalidRow", func() {
				convey.So(errors.Is(err, repository.ErrInvalidRow), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the table holds a duplicate player", func() {
			err := table.Save(ctx, model.Table{record(1, "Isco"), record(1, "Isco")})

			convey.Convey("Then Save refuses it", func() {
				convey.So(errors.Is(err, model.ErrDuplicatePlayer), convey.ShouldBeTrue)
			})
		})
	})
}

func TestDerivedTable(t *testing.T) {
	convey.Convey("Given derived rows from the pipeline", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		records := []model.PlayerRecord{record(1, "Isco"), record(2, "Koke")}

		convey.Convey("When the plain variant is saved and loaded", func() {
			rows, err := pipeline.Process(records)
			convey.So(err, convey.ShouldBeNil)
			table := repository.NewDerivedTable(filepath.Join(dir, "players_dash.csv"), false)
			convey.So(table.Save(ctx, rows), convey.ShouldBeNil)
			out, err := table.Load(ctx)

			convey.Convey("Then the encoded rows match", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldHaveLength, len(rows))
				for i := range rows {
					convey.So(out[i].Values(), convey.ShouldResemble, rows[i].Values())
				}
				convey.So(out[0].Contributions.String(), convey.ShouldEqual, "0.75")
			})

			convey.Convey("Then the time-series table rejects the file", func() {
				_, err := repository.NewDerivedTable(table.Path(), true).Load(ctx)
				convey.So(errors.Is(err, repository.ErrSchemaMismatch), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the time-series variant is saved and loaded", func() {
			day := time.Date(2019, 11, 2, 0, 0, 0, 0, time.UTC)
			history := []model.HistoryRow{
				model.NewHistoryRow(day, records[0], model.PGPUpdate{PlayerID: 1, NumGames: "12", AvgGoals: "1", AvgAssists: "0", Price: 900, OK: true}),
			}
			rows, err := pipeline.ProcessHistory(records, history)
			convey.So(err, convey.ShouldBeNil)
			table := repository.NewDerivedTable(filepath.Join(dir, "history_dash.csv"), true)
			convey.So(table.TimeSeries(), convey.ShouldBeTrue)
			convey.So(table.Save(ctx, rows), convey.ShouldBeNil)
			out, err := table.Load(ctx)

			convey.Convey("Then the time-series columns survive", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldHaveLength, 1)
				convey.So(out[0].Values(), convey.ShouldResemble, rows[0].Values())
				convey.So(out[0].Weekday, convey.ShouldEqual, "Saturday")
			})

			convey.Convey("Then the plain table refuses time-series rows", func() {
				err := repository.NewDerivedTable(filepath.Join(dir, "plain.csv"), false).Save(ctx, rows)
				convey.So(errors.Is(err, repository.ErrInvalidRow), convey.ShouldBeTrue)
			})
		})
	})
}

func TestSQLiteHistory(t *testing.T) {
	convey.Convey("Given a history database", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "history.db")
		store, err := repository.OpenHistory(ctx, path)
		convey.So(err, convey.ShouldBeNil)
		defer store.Close()

		day1 := time.Date(2019, 11, 1, 0, 0, 0, 0, time.UTC)
		day2 := day1.AddDate(0, 0, 1)
		row := func(date time.Time, id, price int) model.HistoryRow {
			return model.HistoryRow{
				Date: date, PlayerID: id, ResourceID: "50001", Revision: "Normal",
				NumGames: "10", AvgGoals: "0.4", AvgAssists: "0.1", Price: price,
			}
		}

		convey.Convey("When it is empty", func() {
			all, err := store.All(ctx)
			n, cerr := store.Count(ctx)

			convey.Convey("Then nothing is returned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cerr, convey.ShouldBeNil)
				convey.So(all, convey.ShouldBeEmpty)
				convey.So(n, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When rows for two days are appended out of order", func() {
			convey.So(store.Append(ctx, []model.HistoryRow{row(day2, 2, 300), row(day1, 2, 100), row(day1, 1, 200)}), convey.ShouldBeNil)
			all, err := store.All(ctx)

			convey.Convey("Then they come back ordered by date and player", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(all, convey.ShouldHaveLength, 3)
				convey.So(all[0].PlayerID, convey.ShouldEqual, 1)
				convey.So(all[1].PlayerID, convey.ShouldEqual, 2)
				convey.So(all[1].Date.Equal(day1), convey.ShouldBeTrue)
				convey.So(all[2].Date.Equal(day2), convey.ShouldBeTrue)
				convey.So(all[2].Price, convey.ShouldEqual, 300)
			})

			convey.Convey("And the same day is appended again", func() {
				convey.So(store.Append(ctx, []model.HistoryRow{row(day1, 2, 150)}), convey.ShouldBeNil)
				all, err := store.All(ctx)
				n, _ := store.Count(ctx)

				convey.Convey("Then the observation is replaced, not duplicated", func() {
					convey.So(err, convey.ShouldBeNil)
					convey.So(n, convey.ShouldEqual, 3)
					convey.So(all[1].Price, convey.ShouldEqual, 150)
				})
			})

			convey.Convey("And the database is reopened", func() {
				convey.So(store.Close(), convey.ShouldBeNil)
				reopened, err := repository.OpenHistory(ctx, path)
				convey.So(err, convey.ShouldBeNil)
				defer reopened.Close()
				n, err := reopened.Count(ctx)

				convey.Convey("Then the rows persisted", func() {
					convey.So(err, convey.ShouldBeNil)
					convey.So(n, convey.ShouldEqual, 3)
				})
			})
		})
	})
}

func TestInMemoryHistory(t *testing.T) {
	convey.Convey("Given an in-memory history database", t, func() {
		ctx := context.Background()
		store, err := repository.OpenHistory(ctx, ":memory:", repository.WithTableLabel("history_test"))
		convey.So(err, convey.ShouldBeNil)
		defer store.Close()

		convey.Convey("When a row is appended", func() {
			day := time.Date(2020, 1, 5, 0, 0, 0, 0, time.UTC)
			convey.So(store.Append(ctx, []model.HistoryRow{{Date: day, PlayerID: 9, Price: 1}}), convey.ShouldBeNil)
			n, err := store.Count(ctx)

			convey.Convey("Then it is visible on the same store", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(n, convey.ShouldEqual, 1)
			})
		})
	})
}
