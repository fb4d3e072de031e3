package futbin

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/futdash/internal/domain/model"
)

// infoField maps one info cell to a record column.
type infoField struct {
	cell  int
	width int // keep the first width runes, 0 keeps all
	field func(*model.PlayerRecord) *string
}

// infoLayout is one known shape of the info table.
type infoLayout struct {
	name     string
	minCells int
	fields   []infoField
	// constant columns the layout does not carry
	fill func(*model.PlayerRecord)
}

func club(r *model.PlayerRecord) *string        { return &r.Club }
func nationality(r *model.PlayerRecord) *string { return &r.Nationality }
func league(r *model.PlayerRecord) *string      { return &r.League }
func skillMoves(r *model.PlayerRecord) *string  { return &r.SkillMoves }
func weakFoot(r *model.PlayerRecord) *string    { return &r.WeakFoot }
func intlRep(r *model.PlayerRecord) *string     { return &r.IntlRep }
func prefFoot(r *model.PlayerRecord) *string    { return &r.PrefFoot }
func height(r *model.PlayerRecord) *string      { return &r.Height }
func weight(r *model.PlayerRecord) *string      { return &r.Weight }
func revision(r *model.PlayerRecord) *string    { return &r.Revision }
func defWorkrate(r *model.PlayerRecord) *string { return &r.DefWorkrate }
func attWorkrate(r *model.PlayerRecord) *string { return &r.AttWorkrate }
func addedDate(r *model.PlayerRecord) *string   { return &r.AddedDate }
func origin(r *model.PlayerRecord) *string      { return &r.Origin }
func age(r *model.PlayerRecord) *string         { return &r.Age }

// Cell 0 is the name row and the cell before age holds the card id; neither is kept.
var fullLayout = infoLayout{ //nolint:gochecknoglobals // fixed layout
	name:     "full",
	minCells: 17,
	fields: []infoField{
		{cell: 1, field: club},
		{cell: 2, field: nationality},
		{cell: 3, field: league},
		{cell: 4, field: skillMoves},
		{cell: 5, field: weakFoot},
		{cell: 6, field: intlRep},
		{cell: 7, field: prefFoot},
		{cell: 8, width: 3, field: height},
		{cell: 9, field: weight},
		{cell: 10, field: revision},
		{cell: 11, field: defWorkrate},
		{cell: 12, field: attWorkrate},
		{cell: 13, field: addedDate},
		{cell: 14, field: origin},
		{cell: 16, field: age},
	},
}

var reducedLayout = infoLayout{ //nolint:gochecknoglobals // fixed layout
	name:     "reduced",
	minCells: 16,
	fields: []infoField{
		{cell: 1, field: club},
		{cell: 2, field: nationality},
		{cell: 3, field: league},
		{cell: 4, field: skillMoves},
		{cell: 5, field: weakFoot},
		{cell: 6, field: prefFoot},
		{cell: 7, width: 3, field: height},
		{cell: 8, field: weight},
		{cell: 9, field: revision},
		{cell: 10, field: defWorkrate},
		{cell: 11, field: attWorkrate},
		{cell: 12, field: addedDate},
		{cell: 13, field: origin},
		{cell: 15, field: age},
	},
	fill: func(r *model.PlayerRecord) { r.IntlRep = model.Zero },
}

var reputationLabels = []string{"intl. rep", "international reputation"} //nolint:gochecknoglobals // probe labels

// detectLayout picks the info layout by looking for the reputation label.
func detectLayout(doc *goquery.Document) infoLayout {
	found := false
	doc.Find("th, td").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("table-row-text") {
			return true
		}
		label := strings.ToLower(strings.TrimSpace(s.Text()))
		for _, want := range reputationLabels {
			if strings.Contains(label, want) {
				found = true
				return false
			}
		}
		return true
	})
	if found {
		return fullLayout
	}
	return reducedLayout
}

// apply copies the layout's cells into r. It reports false and sets every
// info column to "0" when the table is too short for the layout.
func (l infoLayout) apply(cells *goquery.Selection, r *model.PlayerRecord) bool {
	if cells.Length() < l.minCells {
		for _, f := range fullLayout.fields {
			*f.field(r) = model.Zero
		}
		return false
	}
	for _, f := range l.fields {
		v := strings.TrimSpace(cells.Eq(f.cell).Text())
		if f.width > 0 {
			v = truncate(v, f.width)
		}
		*f.field(r) = v
	}
	if l.fill != nil {
		l.fill(r)
	}
	return true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
