package mocksite

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/okian/futdash/internal/domain/model"
)

// GeneratorConfig shapes a generated player population.
type GeneratorConfig struct {
	Players int
	Seed    uint64
	// Every n-th id is left unpublished, 0 disables.
	MissingEvery int
	// Every n-th published id is a goalkeeper, 0 disables.
	GoalkeeperEvery int
	// Every n-th outfield id lacks the reputation row, 0 disables.
	ReducedEvery int
	// Every n-th outfield id reissues the previous card under its resource id, 0 disables.
	RevisionEvery int
	// PriceDays is the length of each generated price series.
	PriceDays int
	// Launch is the first price timestamp.
	Launch time.Time
}

// DefaultGeneratorConfig returns a small mixed population.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Players:         200,
		Seed:            20,
		MissingEvery:    17,
		GoalkeeperEvery: 11,
		ReducedEvery:    5,
		RevisionEvery:   9,
		PriceDays:       14,
		Launch:          time.Date(2019, 9, 19, 0, 0, 0, 0, time.UTC),
	}
}

//nolint:gochecknoglobals // fixtures
var (
	firstNames  = []string{"Luca", "Mateo", "Kai", "Noah", "Theo", "Leon", "Rafael", "Joao", "Ivan", "Sami", "Ander", "Milan"}
	lastNames   = []string{"Silva", "Costa", "Muller", "Rossi", "Dubois", "Novak", "Garcia", "Jansen", "Kowalski", "Moreau", "Petrov", "Santos"}
	nations     = []string{"France", "Spain", "Germany", "Brazil", "Argentina", "England", "Italy", "Portugal", "Netherlands", "Belgium", "Croatia", "Uruguay", "Poland", "Senegal", "Japan"}
	leagues     = []string{"Premier League", "LaLiga Santander", "Bundesliga", "Serie A TIM", "Ligue 1 Conforama", "Eredivisie", "Liga NOS", "MLS"}
	clubs       = []string{"Northbridge FC", "Real Costa", "Union Berg", "Atletico Sol", "Olympique Est", "Sporting Norte", "Inter Lago", "Dynamo Rio"}
	outfield    = []string{"ST", "CF", "LW", "RW", "CAM", "LM", "RM", "CM", "CDM", "LB", "RB", "CB", "LWB", "RWB"}
	qualities   = []string{"gold rare", "gold non-rare", "silver rare", "if gold", "totw gold"}
	workrates   = []string{"Low", "Med", "High"}
	feet        = []string{"Right", "Left"}
	revisions   = []string{"Normal", "Rare", "IF", "TOTW", "SBC"}
	origins     = []string{"Prime", "Packs", "SBC", "Objectives"}
	platformSet = []string{"ps", "xbox", "pc"}
)

// Generate builds a deterministic population for ids 1..cfg.Players.
func Generate(cfg GeneratorConfig) []Player {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	pick := func(from []string) string { return from[rng.IntN(len(from))] }

	players := make([]Player, 0, cfg.Players)
	var (
		prev    Player
		hasPrev bool
	)
	resource := 150_000
	for id := 1; id <= cfg.Players; id++ {
		if every(cfg.MissingEvery, id) {
			players = append(players, Player{ID: id, Kind: KindMissing})
			continue
		}
		resource += 1 + rng.IntN(50)
		p := Player{
			ID:         id,
			Kind:       KindPlayer,
			Name:       pick(firstNames) + " " + pick(lastNames),
			Overall:    strconv.Itoa(70 + rng.IntN(27)),
			Quality:    pick(qualities),
			ResourceID: strconv.Itoa(resource),
		}
		if every(cfg.GoalkeeperEvery, id) {
			p.Kind = KindGoalkeeper
			p.Position = "GK"
			players = append(players, p)
			continue
		}
		if hasPrev && every(cfg.RevisionEvery, id) {
			// a reissued card keeps identity and gets a boost
			p.Name, p.ResourceID, p.Nationality = prev.Name, prev.ResourceID, prev.Nationality
			p.Overall = strconv.Itoa(min(99, atoi(prev.Overall)+2))
		} else {
			p.Nationality = pick(nations)
		}
		p.Position = pick(outfield)
		p.Games = thousands(rng.IntN(5000))
		p.Goals = fmt.Sprintf("%.2f", rng.Float64()*1.2)
		p.Assists = fmt.Sprintf("%.2f", rng.Float64()*0.6)
		if rng.IntN(10) == 0 {
			p.Games, p.Goals, p.Assists = "-", "-", "-"
		}
		p.Club = pick(clubs)
		p.League = pick(leagues)
		p.SkillMoves = strconv.Itoa(2 + rng.IntN(4))
		p.WeakFoot = strconv.Itoa(2 + rng.IntN(4))
		if !every(cfg.ReducedEvery, id) {
			p.IntlRep = strconv.Itoa(1 + rng.IntN(5))
		}
		p.PrefFoot = pick(feet)
		cm := 165 + rng.IntN(30)
		p.Height = fmt.Sprintf("%dcm | %d'%d\"", cm, cm*100/3048, (cm*100/254)%12)
		p.Weight = strconv.Itoa(60 + rng.IntN(30))
		p.Revision = pick(revisions)
		p.DefWorkrate = pick(workrates)
		p.AttWorkrate = pick(workrates)
		p.AddedDate = cfg.Launch.AddDate(0, 0, rng.IntN(30)).Format(model.DateLayout)
		p.Origin = pick(origins)
		p.Age = strconv.Itoa(18 + rng.IntN(18))
		for i := range p.Skills {
			p.Skills[i] = 30 + rng.IntN(66)
		}
		p.Prices = genPrices(rng, cfg)

		players = append(players, p)
		prev, hasPrev = p, true
	}
	return players
}

// NewGeneratedSite serves a generated population.
func NewGeneratedSite(season string, cfg GeneratorConfig) *Site {
	s := NewSite(season)
	s.Add(Generate(cfg)...)
	return s
}

func genPrices(rng *rand.Rand, cfg GeneratorConfig) map[string][]PricePoint {
	days := max(cfg.PriceDays, 1)
	out := make(map[string][]PricePoint, len(platformSet))
	for _, platform := range platformSet {
		price := 1_000 * (1 + rng.IntN(900))
		points := make([]PricePoint, days)
		for d := range points {
			price = max(200, price+price*(rng.IntN(21)-10)/100)
			points[d] = PricePoint{UnixMilli: cfg.Launch.AddDate(0, 0, d).UnixMilli(), Price: price}
		}
		out[platform] = points
	}
	return out
}

func every(n, id int) bool {
	return n > 0 && id%n == 0
}

func thousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	return s[:len(s)-3] + "," + s[len(s)-3:]
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
