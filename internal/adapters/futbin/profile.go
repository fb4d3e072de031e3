package futbin

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/futdash/internal/domain/model"
	"github.com/okian/futdash/pkg/logger"
	"github.com/okian/futdash/pkg/metrics"
)

// header holds the fields read above the info table.
type header struct {
	name       string
	overall    string
	quality    string
	resourceID string
	position   string
}

// parseHeader reports false when the page has no player name.
func parseHeader(doc *goquery.Document) (header, []string, bool) {
	name := doc.Find("span.header_name").First()
	if name.Length() == 0 {
		return header{}, nil, false
	}
	h := header{name: strings.TrimSpace(name.Text())}
	var drift []string

	h.overall = truncate(strings.TrimSpace(doc.Find("h1.player_header").First().Text()), 2)
	if h.overall == "" {
		h.overall, drift = "0", append(drift, "overall")
	}

	classes := strings.Fields(doc.Find("#Player-card").First().AttrOr("class", ""))
	if n := len(classes); n >= 3 {
		h.quality = classes[n-3] + " " + classes[n-2]
	} else {
		h.quality, drift = "0", append(drift, "quality")
	}

	info := doc.Find("#page-info").First()
	h.resourceID = info.AttrOr("data-player-resource", "")
	h.position = info.AttrOr("data-position", "")
	if h.resourceID == "" {
		h.resourceID, drift = "0", append(drift, "resource_id")
	}
	if h.position == "" {
		h.position, drift = "0", append(drift, "position")
	}
	return h, drift, true
}

// parsePGP reads games, goals and assists from the last three pgp blocks.
func parsePGP(doc *goquery.Document) (games, goals, assists string, ok bool) {
	blocks := doc.Find("div.ps4-pgp-data")
	n := blocks.Length()
	if n < 3 {
		return "0", "0", "0", false
	}
	return lastToken(blocks.Eq(n - 1)), lastToken(blocks.Eq(n - 2)), lastToken(blocks.Eq(n - 3)), true
}

func lastToken(s *goquery.Selection) string {
	fields := strings.Fields(s.Text())
	if len(fields) == 0 {
		return "0"
	}
	return fields[len(fields)-1]
}

// skillCategories is the blob order of the attribute columns.
var skillCategories = []struct { //nolint:gochecknoglobals // fixed layout
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

type statValue struct {
	Value flexInt `json:"value"`
}

// flexInt accepts a JSON number or a quoted number.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = flexInt(v)
	return nil
}

// parseSkills decodes the attribute blob. Missing or short categories are zero
// and reported by name.
func parseSkills(doc *goquery.Document) ([model.SkillCount]int, []string) {
	var skills [model.SkillCount]int
	var blob []map[string][]statValue
	raw := strings.TrimSpace(doc.Find("#player_stats_json").First().Text())
	if err := json.Unmarshal([]byte(raw), &blob); err != nil || len(blob) == 0 {
		return skills, []string{"skills"}
	}
	var drift []string
	i := 0
	for _, c := range skillCategories {
		values := blob[0][c.key]
		if len(values) < c.count {
			drift = append(drift, c.key)
		}
		for k := 0; k < c.count; k++ {
			if k < len(values) {
				skills[i] = int(values[k].Value)
			}
			i++
		}
	}
	return skills, drift
}

// FetchPlayer scrapes one profile. It never fails: transport failures yield a
// failed placeholder and absent players a missing one.
func (c *Client) FetchPlayer(ctx context.Context, id int) model.PlayerRecord {
	log := c.log.With(logger.Int("player_id", id))
	body, err := c.get(ctx, kindProfile, c.urls.Profile(id))
	if err != nil {
		log.Warn(ctx, "profile fetch failed", logger.Error(err))
		return model.NewMissingRecord(id, model.StatusFailed)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		log.Warn(ctx, "profile parse failed", logger.Error(err))
		return model.NewMissingRecord(id, model.StatusMissing)
	}

	h, drift, ok := parseHeader(doc)
	if !ok {
		log.Debug(ctx, "no player at id")
		return model.NewMissingRecord(id, model.StatusMissing)
	}
	if h.position == "GK" {
		c.reportDrift(ctx, log, drift)
		return model.NewGoalkeeperRecord(id, h.name, h.overall, h.quality, h.resourceID)
	}

	r := model.PlayerRecord{
		PlayerID:   id,
		PlayerName: h.name,
		Overall:    h.overall,
		Quality:    h.quality,
		ResourceID: h.resourceID,
		Position:   h.position,
		Status:     model.StatusOK,
	}
	var pgpOK bool
	r.NumGames, r.AvgGoals, r.AvgAssists, pgpOK = parsePGP(doc)
	if !pgpOK {
		drift = append(drift, "pgp")
	}

	l := detectLayout(doc)
	if !l.apply(doc.Find("td.table-row-text"), &r) {
		drift = append(drift, "info_"+l.name)
	}

	var skillDrift []string
	r.Skills, skillDrift = parseSkills(doc)
	drift = append(drift, skillDrift...)
	c.reportDrift(ctx, log, drift)

	r.Price = c.FetchPrice(ctx, h.resourceID).Price
	return r
}

// FetchUpdate re-reads the volatile columns of one player. OK is false when
// the page could not be fetched or carries no resource id or pgp blocks.
func (c *Client) FetchUpdate(ctx context.Context, id int) model.PGPUpdate {
	u := model.PGPUpdate{PlayerID: id}
	log := c.log.With(logger.Int("player_id", id))
	body, err := c.get(ctx, kindUpdate, c.urls.Profile(id))
	if err != nil {
		log.Warn(ctx, "update fetch failed", logger.Error(err))
		return u
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		log.Warn(ctx, "update parse failed", logger.Error(err))
		return u
	}
	u.ResourceID = doc.Find("#page-info").First().AttrOr("data-player-resource", "")
	if u.ResourceID == "" {
		log.Debug(ctx, "no resource id on page")
		return u
	}
	var ok bool
	if u.NumGames, u.AvgGoals, u.AvgAssists, ok = parsePGP(doc); !ok {
		c.reportDrift(ctx, log, []string{"pgp"})
		return u
	}
	u.Price = c.FetchPrice(ctx, u.ResourceID).Price
	u.OK = true
	return u
}

func (c *Client) reportDrift(ctx context.Context, log logger.Logger, sections []string) {
	if len(sections) == 0 {
		return
	}
	for _, s := range sections {
		metrics.RecordLayoutDrift(s)
	}
	log.Warn(ctx, "layout drift, defaults substituted", logger.String("sections", strings.Join(sections, ",")))
}
