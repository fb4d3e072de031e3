package model

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Coarse role buckets derived from position.
const (
	Attacker     = "Attacker"
	Midfielder   = "Midfielder"
	Defender     = "Defender"
	Unclassified = ""
)

// Derived-only column names.
var featureColumns = []string{"avg_contributions", "general_position", "popular_nations", "popular_leagues"} //nolint:gochecknoglobals // fixed schema

var timeSeriesColumns = []string{"date", "days_available", "days_since_launch", "weekday"} //nolint:gochecknoglobals // fixed schema

// DerivedColumns returns the derived table schema. timeSeries adds the per-observation columns.
func DerivedColumns(timeSeries bool) []string {
	cols := make([]string, 0, len(Columns)+len(featureColumns)+len(timeSeriesColumns))
	for _, c := range Columns {
		if c != "quality" {
			cols = append(cols, c)
		}
	}
	cols = append(cols, featureColumns...)
	if timeSeries {
		cols = append(cols, timeSeriesColumns...)
	}
	return cols
}

// DerivedRow is a player row after coercion and feature engineering.
// Player keeps the textual columns; its quality is always empty.
type DerivedRow struct {
	Player PlayerRecord

	Games         decimal.Decimal
	Goals         decimal.Decimal
	Assists       decimal.Decimal
	Rating        decimal.Decimal
	Contributions decimal.Decimal

	GeneralPosition string
	PopularNations  bool
	PopularLeagues  bool

	// Set only by the time-series variant.
	TimeSeries      bool
	Date            time.Time
	DaysAvailable   int
	DaysSinceLaunch int
	Weekday         string
}

// Record re-encodes the coerced values as a raw record.
func (d DerivedRow) Record() PlayerRecord {
	r := d.Player
	r.Quality = ""
	r.Overall = d.Rating.String()
	r.NumGames = d.Games.String()
	r.AvgGoals = d.Goals.String()
	r.AvgAssists = d.Assists.String()
	return r
}

// Values encodes d in DerivedColumns(d.TimeSeries) order.
func (d DerivedRow) Values() []string {
	raw := d.Record().Values()
	out := make([]string, 0, len(raw)+len(featureColumns)+len(timeSeriesColumns))
	out = append(out, raw[:qualityIndex]...)
	out = append(out, raw[qualityIndex+1:]...)
	out = append(out,
		d.Contributions.String(),
		d.GeneralPosition,
		flag(d.PopularNations),
		flag(d.PopularLeagues),
	)
	if d.TimeSeries {
		out = append(out,
			d.Date.Format(DateLayout),
			strconv.Itoa(d.DaysAvailable),
			strconv.Itoa(d.DaysSinceLaunch),
			d.Weekday,
		)
	}
	return out
}

var qualityIndex = slices.Index(Columns, "quality") //nolint:gochecknoglobals // fixed schema

// ParseDerivedRow decodes a row in DerivedColumns(timeSeries) order.
func ParseDerivedRow(values []string, timeSeries bool) (DerivedRow, error) {
	var d DerivedRow
	want := len(DerivedColumns(timeSeries))
	if len(values) != want {
		return d, fmt.Errorf("%w: got %d, want %d", ErrColumnCount, len(values), want)
	}
	base := len(Columns) - 1

	raw := make([]string, 0, len(Columns))
	raw = append(raw, values[:qualityIndex]...)
	raw = append(raw, "")
	raw = append(raw, values[qualityIndex:base]...)
	rec, err := ParseRecord(raw)
	if err != nil {
		return d, err
	}
	d.Player = rec

	for _, f := range []struct {
		dst *decimal.Decimal
		src string
		col string
	}{
		{&d.Rating, rec.Overall, "overall"},
		{&d.Games, rec.NumGames, "num_games"},
		{&d.Goals, rec.AvgGoals, "avg_goals"},
		{&d.Assists, rec.AvgAssists, "avg_assists"},
		{&d.Contributions, values[base], "avg_contributions"},
	} {
		if *f.dst, err = decimal.NewFromString(f.src); err != nil {
			return d, fmt.Errorf("%w: player %d column %s %q", ErrInvalidValue, rec.PlayerID, f.col, f.src)
		}
	}
	d.GeneralPosition = values[base+1]
	d.PopularNations = values[base+2] == "1"
	d.PopularLeagues = values[base+3] == "1"

	if !timeSeries {
		return d, nil
	}
	ts := values[base+4:]
	d.TimeSeries = true
	if d.Date, err = time.Parse(DateLayout, ts[0]); err != nil {
		return d, fmt.Errorf("%w: player %d date %q", ErrInvalidValue, rec.PlayerID, ts[0])
	}
	if d.DaysAvailable, err = strconv.Atoi(ts[1]); err != nil {
		return d, fmt.Errorf("%w: player %d days_available %q", ErrInvalidValue, rec.PlayerID, ts[1])
	}
	if d.DaysSinceLaunch, err = strconv.Atoi(ts[2]); err != nil {
		return d, fmt.Errorf("%w: player %d days_since_launch %q", ErrInvalidValue, rec.PlayerID, ts[2])
	}
	d.Weekday = ts[3]
	return d, nil
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
