// Package mocksite serves a deterministic imitation of the futbin player pages.
// It backs the fetcher tests and the mock-site binary used for local runs.
package mocksite

import (
	"encoding/json"

	"github.com/okian/futdash/internal/domain/model"
)

// Kind selects how a player page renders.
type Kind int

const (
	KindPlayer Kind = iota
	KindGoalkeeper
	KindMissing
)

// PricePoint is one [timestamp, price] pair of a price series.
type PricePoint struct {
	UnixMilli int64
	Price     int
}

// Player is one served profile. An empty IntlRep renders the reduced info table.
type Player struct {
	ID         int
	Kind       Kind
	Name       string
	Overall    string
	Quality    string
	ResourceID string
	Position   string

	Games   string
	Goals   string
	Assists string

	Club        string
	Nationality string
	League      string
	SkillMoves  string
	WeakFoot    string
	IntlRep     string
	PrefFoot    string
	Height      string
	Weight      string
	Revision    string
	DefWorkrate string
	AttWorkrate string
	AddedDate   string
	Origin      string
	Age         string

	Skills [model.SkillCount]int
	// Prices per platform key, e.g. "ps".
	Prices map[string][]PricePoint
	// BrokenPrice serves an undecodable price payload.
	BrokenPrice bool
}

type infoRow struct {
	Label string
	Value string
}

// infoRows renders the tabular info block. The reduced layout has no reputation row.
func (p Player) infoRows() []infoRow {
	rows := []infoRow{
		{"Name", p.Name},
		{"Club", p.Club},
		{"Nation", p.Nationality},
		{"League", p.League},
		{"Skills", p.SkillMoves},
		{"Weak Foot", p.WeakFoot},
	}
	if p.IntlRep != "" {
		rows = append(rows, infoRow{"Intl. Rep", p.IntlRep})
	}
	return append(rows,
		infoRow{"Foot", p.PrefFoot},
		infoRow{"Height", p.Height},
		infoRow{"Weight", p.Weight},
		infoRow{"Revision", p.Revision},
		infoRow{"Def. WR", p.DefWorkrate},
		infoRow{"Att. WR", p.AttWorkrate},
		infoRow{"Added on", p.AddedDate},
		infoRow{"Origin", p.Origin},
		infoRow{"ID", p.ResourceID},
		infoRow{"Age", p.Age},
	)
}

type statValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// statsJSON renders the attribute blob: one object mapping category to values.
func (p Player) statsJSON() string {
	categories := []struct {
		key   string
		count int
	}{
		{"pace", model.PaceCount},
		{"shooting", model.ShootingCount},
		{"passing", model.PassingCount},
		{"dribbling", model.DribblingCount},
		{"defending", model.DefendingCount},
		{"physical", model.PhysicalCount},
	}
	blob := map[string][]statValue{}
	i := 0
	for _, c := range categories {
		values := make([]statValue, c.count)
		for k := range values {
			values[k] = statValue{Name: model.SkillColumns[i], Value: p.Skills[i]}
			i++
		}
		blob[c.key] = values
	}
	b, _ := json.Marshal([]map[string][]statValue{blob})
	return string(b)
}

func (p Player) priceJSON() string {
	series := map[string][][2]int64{}
	for platform, points := range p.Prices {
		pairs := make([][2]int64, len(points))
		for i, pt := range points {
			pairs[i] = [2]int64{pt.UnixMilli, int64(pt.Price)}
		}
		series[platform] = pairs
	}
	b, _ := json.Marshal(series)
	return string(b)
}

// Record is the row a correct fetch of p produces.
func (p Player) Record(platform string) model.PlayerRecord {
	switch p.Kind {
	case KindMissing:
		return model.NewMissingRecord(p.ID, model.StatusMissing)
	case KindGoalkeeper:
		return model.NewGoalkeeperRecord(p.ID, p.Name, truncate(p.Overall, 2), p.Quality, p.ResourceID)
	}
	intl := p.IntlRep
	if intl == "" {
		intl = "0"
	}
	return model.PlayerRecord{
		PlayerID:    p.ID,
		PlayerName:  p.Name,
		Overall:     truncate(p.Overall, 2),
		Quality:     p.Quality,
		ResourceID:  p.ResourceID,
		Position:    p.Position,
		NumGames:    p.Games,
		AvgGoals:    p.Goals,
		AvgAssists:  p.Assists,
		Club:        p.Club,
		Nationality: p.Nationality,
		League:      p.League,
		SkillMoves:  p.SkillMoves,
		WeakFoot:    p.WeakFoot,
		IntlRep:     intl,
		PrefFoot:    p.PrefFoot,
		Height:      truncate(p.Height, 3),
		Weight:      p.Weight,
		Revision:    p.Revision,
		DefWorkrate: p.DefWorkrate,
		AttWorkrate: p.AttWorkrate,
		AddedDate:   p.AddedDate,
		Origin:      p.Origin,
		Age:         p.Age,
		Skills:      p.Skills,
		Price:       p.LatestPrice(platform),
		Status:      model.StatusOK,
	}
}

// LatestPrice is the last point of the platform series, or 0.
func (p Player) LatestPrice(platform string) int {
	points := p.Prices[platform]
	if p.BrokenPrice || len(points) == 0 {
		return 0
	}
	return points[len(points)-1].Price
}

// Goalkeeper reports whether the page omits the outfield blocks.
func (p Player) Goalkeeper() bool { return p.Kind == KindGoalkeeper }

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
