// Package pipeline turns raw player records into dashboard-ready rows.
// Every function here is pure: inputs are never mutated.
package pipeline

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/okian/futdash/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Process coerces stats and derives features for every record.
func Process(records []model.PlayerRecord) ([]model.DerivedRow, error) {
	rows := make([]model.DerivedRow, 0, len(records))
	for _, r := range records {
		d, err := derive(r)
		if err != nil {
			return nil, err
		}
		rows = append(rows, d)
	}
	flagPopular(rows)
	return rows, nil
}

// ProcessHistory joins daily observations onto records by player id and
// derives the time-series columns. Observations without a published record
// are skipped; placeholder rows carry no added date. A record whose added
// date was lost to layout drift keeps its observations with days_available 0.
// Output is ordered by date then player id.
func ProcessHistory(records []model.PlayerRecord, history []model.HistoryRow) ([]model.DerivedRow, error) {
	byID := make(map[int]model.PlayerRecord, len(records))
	for _, r := range records {
		if r.Status == model.StatusOK {
			byID[r.PlayerID] = r
		}
	}

	obs := slices.Clone(history)
	slices.SortStableFunc(obs, func(a, b model.HistoryRow) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})

	rows := make([]model.DerivedRow, 0, len(obs))
	var launch time.Time
	for _, h := range obs {
		r, ok := byID[h.PlayerID]
		if !ok {
			continue
		}
		r.NumGames, r.AvgGoals, r.AvgAssists, r.Price = h.NumGames, h.AvgGoals, h.AvgAssists, h.Price

		d, err := derive(r)
		if err != nil {
			return nil, err
		}
		if r.AddedDate != model.Zero {
			added, err := time.Parse(model.DateLayout, r.AddedDate)
			if err != nil {
				return nil, &SchemaViolationError{PlayerID: r.PlayerID, Column: "added_date", Value: r.AddedDate}
			}
			d.DaysAvailable = days(h.Date.Sub(added))
		}
		if launch.IsZero() {
			launch = h.Date
		}
		d.TimeSeries = true
		d.Date = h.Date
		d.DaysSinceLaunch = days(h.Date.Sub(launch))
		d.Weekday = h.Date.Weekday().String()
		rows = append(rows, d)
	}
	flagPopular(rows)
	return rows, nil
}

// Undated counts rows whose added date was lost to layout drift.
func Undated(rows []model.DerivedRow) int {
	n := 0
	for _, d := range rows {
		if d.Player.AddedDate == model.Zero {
			n++
		}
	}
	return n
}

// LatestByResource keeps the last row per resource id, in order of first appearance.
func LatestByResource(rows []model.DerivedRow) []model.DerivedRow {
	idx := make(map[string]int)
	var out []model.DerivedRow
	for _, d := range rows {
		if i, ok := idx[d.Player.ResourceID]; ok {
			out[i] = d
			continue
		}
		idx[d.Player.ResourceID] = len(out)
		out = append(out, d)
	}
	return out
}

func derive(r model.PlayerRecord) (model.DerivedRow, error) {
	d := model.DerivedRow{Player: r, GeneralPosition: GeneralPosition(r.Position)}
	d.Player.Quality = ""

	for _, f := range []struct {
		dst *decimal.Decimal
		col string
		raw string
	}{
		{&d.Games, "num_games", r.NumGames},
		{&d.Goals, "avg_goals", r.AvgGoals},
		{&d.Assists, "avg_assists", r.AvgAssists},
		{&d.Rating, "overall", r.Overall},
	} {
		v, err := Coerce(r.PlayerID, f.col, f.raw)
		if err != nil {
			return d, fmt.Errorf("derive: %w", err)
		}
		*f.dst = v
	}
	d.Contributions = d.Goals.Add(d.Assists)
	d.Player = d.Record()
	return d, nil
}

func flagPopular(rows []model.DerivedRow) {
	players := make([]model.PlayerRecord, len(rows))
	for i, d := range rows {
		players[i] = d.Player
	}
	nations := PopularValues(players, nationality)
	leagues := PopularValues(players, league)
	for i := range rows {
		rows[i].PopularNations = nations[rows[i].Player.Nationality]
		rows[i].PopularLeagues = leagues[rows[i].Player.League]
	}
}

func days(d time.Duration) int {
	return int(d.Hours() / 24)
}
