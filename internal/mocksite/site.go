package mocksite

import (
	"html/template"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// Site is an in-memory futbin imitation. It is safe for concurrent use.
type Site struct {
	mu         sync.RWMutex
	season     string
	players    map[int]Player
	latest     int
	failing    map[int]int // id -> remaining failed responses, -1 forever
	wrapPrices bool
	hits       map[string]int
}

// NewSite creates an empty site for season, e.g. "20".
func NewSite(season string) *Site {
	return &Site{
		season:  season,
		players: make(map[int]Player),
		failing: make(map[int]int),
		hits:    make(map[string]int),
	}
}

// Season returns the season path segment.
func (s *Site) Season() string { return s.season }

// Add publishes players and advances the latest id.
func (s *Site) Add(players ...Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range players {
		s.players[p.ID] = p
		if p.Kind != KindMissing {
			s.latest = max(s.latest, p.ID)
		}
	}
}

// Player returns the published player with id.
func (s *Site) Player(id int) (Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	return p, ok
}

// Update replaces a published player.
func (s *Site) Update(p Player) {
	s.mu.Lock()
	s.players[p.ID] = p
	s.mu.Unlock()
}

// SetLatest overrides the id listed first on the latest page.
func (s *Site) SetLatest(id int) {
	s.mu.Lock()
	s.latest = id
	s.mu.Unlock()
}

// Fail makes the next n profile requests for id answer 503. n < 0 fails forever, 0 heals.
func (s *Site) Fail(id, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n == 0 {
		delete(s.failing, id)
		return
	}
	s.failing[id] = n
}

// WrapPrices serves price payloads inside an HTML document.
func (s *Site) WrapPrices(wrap bool) {
	s.mu.Lock()
	s.wrapPrices = wrap
	s.mu.Unlock()
}

// Hits returns how many requests reached path.
func (s *Site) Hits(path string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hits[path]
}

// Handler returns the HTTP surface of the site.
func (s *Site) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{season}/player/{id}", s.handleProfile)
	mux.HandleFunc("GET /{season}/player/{id}/{slug}", s.handleProfile)
	mux.HandleFunc("GET /{season}/playerGraph", s.handlePrice)
	mux.HandleFunc("GET /latest", s.handleLatest)
	return mux
}

func (s *Site) hit(path string) {
	s.mu.Lock()
	s.hits[path]++
	s.mu.Unlock()
}

func (s *Site) shouldFail(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.failing[id]
	if !ok {
		return false
	}
	if n > 0 {
		if n == 1 {
			delete(s.failing, id)
		} else {
			s.failing[id] = n - 1
		}
	}
	return true
}

func (s *Site) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.hit(r.URL.Path)
	if r.PathValue("season") != s.season {
		http.NotFound(w, r)
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if s.shouldFail(id) {
		http.Error(w, "upstream unavailable", http.StatusServiceUnavailable)
		return
	}
	p, ok := s.Player(id)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if !ok || p.Kind == KindMissing {
		_ = notFoundPage.Execute(w, s.season)
		return
	}
	_ = profilePage.Execute(w, profileView{Player: p, Season: s.season, Info: p.infoRows(), Stats: p.statsJSON()})
}

func (s *Site) handlePrice(w http.ResponseWriter, r *http.Request) {
	s.hit(r.URL.Path)
	q := r.URL.Query()
	if q.Get("type") != "daily_graph" || q.Get("year") != s.season {
		http.Error(w, "bad graph query", http.StatusBadRequest)
		return
	}
	var (
		p     Player
		found bool
	)
	s.mu.RLock()
	rid := q.Get("player")
	for _, candidate := range s.players {
		if candidate.ResourceID == rid && candidate.Kind != KindMissing {
			p, found = candidate, true
			break
		}
	}
	wrap := s.wrapPrices
	s.mu.RUnlock()

	body := "{}"
	switch {
	case found && p.BrokenPrice:
		body = "<html><body>rate limited</body></html>"
	case found:
		body = p.priceJSON()
	}
	if wrap {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = wrappedPrice.Execute(w, body)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func (s *Site) handleLatest(w http.ResponseWriter, r *http.Request) {
	s.hit(r.URL.Path)
	s.mu.RLock()
	var listed []Player
	for id := s.latest; id > 0 && len(listed) < latestPageSize; id-- {
		if p, ok := s.players[id]; ok && p.Kind != KindMissing {
			listed = append(listed, p)
		}
	}
	if len(listed) == 0 || listed[0].ID != s.latest {
		// latest was overridden past the published players
		listed = slices.Insert(listed, 0, Player{ID: s.latest, Name: "Unreleased"})
	}
	s.mu.RUnlock()

	rows := make([]latestRow, len(listed))
	for i, p := range listed {
		rows[i] = latestRow{Href: "/" + s.season + "/player/" + strconv.Itoa(p.ID) + "/" + slugify(p.Name), Name: p.Name}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = latestPage.Execute(w, rows)
}

const latestPageSize = 30

type profileView struct {
	Player
	Season string
	Info   []infoRow
	Stats  string
}

type latestRow struct {
	Href string
	Name string
}

func slugify(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}

var profilePage = template.Must(template.New("profile").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Name}} FIFA {{.Season}}</title></head>
<body>
<div id="page-info" data-player-resource="{{.ResourceID}}" data-position="{{.Position}}" data-year="{{.Season}}"></div>
<div class="player-header">
  <h1 class="player_header header_top pb-0">{{.Overall}} {{.Name}}</h1>
  <span class="header_name">{{.Name}}</span>
</div>
<div id="Player-card" class="pcdisplay ut{{.Season}} {{.Quality}} large"></div>
{{if not .Goalkeeper}}
<div class="pgp-block">
  <div class="ps4-pgp-data"><span>Rank</span> 1</div>
  <div class="ps4-pgp-data"><span>Assists</span> {{.Assists}}</div>
  <div class="ps4-pgp-data"><span>Goals</span> {{.Goals}}</div>
  <div class="ps4-pgp-data"><span>Games</span> {{.Games}}</div>
</div>
<table class="table table-info">
{{range .Info}}  <tr><th>{{.Label}}</th><td class="table-row-text">{{.Value}}</td></tr>
{{end}}</table>
<div id="player_stats_json" style="display: none">{{.Stats}}</div>
{{end}}
</body>
</html>
`)) //nolint:gochecknoglobals // parsed once

var notFoundPage = template.Must(template.New("missing").Parse(`<!DOCTYPE html>
<html><head><title>FIFA {{.}}</title></head>
<body><h1 class="error">Player not found</h1></body></html>
`)) //nolint:gochecknoglobals // parsed once

var latestPage = template.Must(template.New("latest").Parse(`<!DOCTYPE html>
<html><head><title>Latest players</title></head>
<body>
<table id="latest">
{{range .}}  <tr><td><a href="{{.Href}}">{{.Name}}</a></td></tr>
{{end}}</table>
<table id="popular"><tr><td><a href="/20/player/1/ignored">Ignored</a></td></tr></table>
</body></html>
`)) //nolint:gochecknoglobals // parsed once

var wrappedPrice = template.Must(template.New("price").Parse(`<html><body><p>{{.}}</p></body></html>`)) //nolint:gochecknoglobals // parsed once
