package dashboard

import (
	"slices"

	"github.com/okian/futdash/internal/domain/model"
	"github.com/okian/futdash/internal/domain/pipeline"
	"github.com/okian/futdash/internal/domain/types"
	"github.com/shopspring/decimal"
)

// PriceMarks label the log price slider.
var PriceMarks = []types.Mark{ //nolint:gochecknoglobals // fixed labels
	{Value: 1, Label: "10K"},
	{Value: 2, Label: "100K"},
	{Value: 3, Label: "1M"},
	{Value: 4, Label: "10M"},
}

type metric struct {
	column string
	title  string
	value  func(model.DerivedRow) decimal.Decimal
}

var metrics = map[Contribution]metric{ //nolint:gochecknoglobals // fixed lookup
	Both:    {"avg_contributions", "Average Number of Contributions per Game", func(d model.DerivedRow) decimal.Decimal { return d.Contributions }},
	Goals:   {"avg_goals", "Average Number of Goals per Game", func(d model.DerivedRow) decimal.Decimal { return d.Goals }},
	Assists: {"avg_assists", "Average Number of Assists per Game", func(d model.DerivedRow) decimal.Decimal { return d.Assists }},
}

// Match reports whether d passes every filter.
func (f Filter) Match(d model.DerivedRow) bool {
	rating := d.Rating.InexactFloat64()
	if rating < f.Ratings.Min || rating > f.Ratings.Max {
		return false
	}
	lo, hi := f.PriceRange()
	if price := float64(d.Player.Price); price < lo || price > hi {
		return false
	}
	if f.Country != "" && d.Player.Nationality != f.Country {
		return false
	}
	if f.League != "" && d.Player.League != f.League {
		return false
	}
	return f.Position == "" || d.Player.Position == f.Position
}

// Scatter builds one series per distinct resource id with the point of its latest matching row.
func Scatter(rows []model.DerivedRow, f Filter) types.Scatter {
	m, ok := metrics[f.Contribution]
	if !ok {
		m = metrics[Both]
	}
	var matched []model.DerivedRow
	for _, d := range rows {
		if f.Match(d) {
			matched = append(matched, d)
		}
	}

	out := types.Scatter{Metric: m.column, XTitle: m.title, YTitle: "Price", Series: []types.ScatterSeries{}}
	for _, d := range pipeline.LatestByResource(matched) {
		out.Series = append(out.Series, types.ScatterSeries{
			ResourceID: d.Player.ResourceID,
			Label:      d.Player.PlayerName + " " + d.Rating.String(),
			Points: []types.ScatterPoint{{
				PlayerID: d.Player.PlayerID,
				X:        m.value(d).InexactFloat64(),
				Y:        d.Player.Price,
			}},
		})
	}
	return out
}

// Options lists the distinct filter values present in rows, in order of first appearance.
// Placeholder rows for missing or failed players are ignored.
func Options(rows []model.DerivedRow) types.FilterOptions {
	var countries, leagues, positions distinct
	var ratings []float64
	seenRating := map[string]bool{}
	for _, d := range rows {
		if !published(d) {
			continue
		}
		countries.add(d.Player.Nationality)
		leagues.add(d.Player.League)
		positions.add(d.Player.Position)
		if s := d.Rating.String(); !seenRating[s] {
			seenRating[s] = true
			ratings = append(ratings, d.Rating.InexactFloat64())
		}
	}
	slices.Sort(ratings)

	marks := make([]types.Mark, 0, len(ratings))
	for _, r := range ratings {
		marks = append(marks, types.Mark{Value: r, Label: decimal.NewFromFloat(r).String()})
	}
	contributions := make([]string, len(Contributions))
	for i, c := range Contributions {
		contributions[i] = string(c)
	}
	def := DefaultFilter()
	return types.FilterOptions{
		Countries:     countries.list(),
		Leagues:       leagues.list(),
		Positions:     positions.list(),
		Contributions: contributions,
		RatingBounds:  RatingBounds,
		RatingMarks:   marks,
		PriceBounds:   PriceBounds,
		PriceMarks:    PriceMarks,
		Defaults: types.FilterDefaults{
			Position:     def.Position,
			Contribution: string(def.Contribution),
			Ratings:      def.Ratings,
			Prices:       def.Prices,
		},
	}
}

// distinct keeps non-empty values in insertion order.
type distinct struct {
	seen   map[string]bool
	values []string
}

func (d *distinct) add(v string) {
	if v == "" || d.seen[v] {
		return
	}
	if d.seen == nil {
		d.seen = map[string]bool{}
	}
	d.seen[v] = true
	d.values = append(d.values, v)
}

func (d *distinct) list() []string {
	if d.values == nil {
		return []string{}
	}
	return d.values
}

// Summarize counts rows, resources, positions and fetch statuses.
func Summarize(rows []model.DerivedRow) types.Stats {
	s := types.Stats{
		Rows:       len(rows),
		Resources:  len(pipeline.LatestByResource(slices.DeleteFunc(slices.Clone(rows), unpublished))),
		ByPosition: map[string]int{},
		ByStatus:   map[string]int{},
	}
	for _, d := range rows {
		pos := d.GeneralPosition
		if pos == model.Unclassified {
			pos = "Unclassified"
		}
		s.ByPosition[pos]++
		s.ByStatus[string(d.Player.Status)]++
	}
	return s
}

func published(d model.DerivedRow) bool {
	return d.Player.Status == model.StatusOK || d.Player.Status == model.StatusGoalkeeper
}

func unpublished(d model.DerivedRow) bool { return !published(d) }
