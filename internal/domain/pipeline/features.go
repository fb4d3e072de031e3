package pipeline

import (
	"cmp"
	"slices"

	"github.com/okian/futdash/internal/domain/model"
)

// PopularTop is the number of values flagged as popular.
const PopularTop = 10

var positionBuckets = map[string]string{ //nolint:gochecknoglobals // fixed lookup
	"LM": model.Attacker, "LW": model.Attacker, "LF": model.Attacker,
	"CF": model.Attacker, "ST": model.Attacker, "RM": model.Attacker,
	"RW": model.Attacker, "RF": model.Attacker, "CAM": model.Attacker,

	"CDM": model.Midfielder, "CM": model.Midfielder,

	"LWB": model.Defender, "LB": model.Defender, "CB": model.Defender,
	"RWB": model.Defender, "RB": model.Defender,
}

// GeneralPosition buckets a position code. Unknown codes are unclassified.
func GeneralPosition(position string) string {
	if g, ok := positionBuckets[position]; ok {
		return g
	}
	return model.Unclassified
}

// PopularValues returns the PopularTop most frequent values of field,
// counted once per resource id using its last row in input order.
// Ties keep the order in which values first appear.
func PopularValues(records []model.PlayerRecord, field func(model.PlayerRecord) string) map[string]bool {
	last := make(map[string]int)
	var order []string
	for i, r := range records {
		if r.Status != model.StatusOK {
			continue
		}
		if _, ok := last[r.ResourceID]; !ok {
			order = append(order, r.ResourceID)
		}
		last[r.ResourceID] = i
	}

	type tally struct {
		value string
		count int
	}
	var tallies []tally
	pos := make(map[string]int)
	for _, rid := range order {
		v := field(records[last[rid]])
		if i, ok := pos[v]; ok {
			tallies[i].count++
			continue
		}
		pos[v] = len(tallies)
		tallies = append(tallies, tally{value: v, count: 1})
	}
	slices.SortStableFunc(tallies, func(a, b tally) int { return cmp.Compare(b.count, a.count) })

	top := make(map[string]bool, PopularTop)
	for i := 0; i < len(tallies) && i < PopularTop; i++ {
		top[tallies[i].value] = true
	}
	return top
}

func nationality(r model.PlayerRecord) string { return r.Nationality }
func league(r model.PlayerRecord) string      { return r.League }
