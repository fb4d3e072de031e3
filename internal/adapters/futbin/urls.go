package futbin

import (
	"fmt"
	"net/url"
	"strings"
)

// URLs builds the upstream endpoints for one season.
type URLs struct {
	Base   string
	Season string
}

// Profile is the player page for id.
func (u URLs) Profile(id int) string {
	return fmt.Sprintf("%s/%s/player/%d", u.Base, u.Season, id)
}

// PriceGraph is the daily price series for a resource id.
func (u URLs) PriceGraph(resourceID string) string {
	q := url.Values{}
	q.Set("type", "daily_graph")
	q.Set("year", u.Season)
	q.Set("player", resourceID)
	return fmt.Sprintf("%s/%s/playerGraph?%s", u.Base, u.Season, q.Encode())
}

// Latest lists the most recently published players.
func (u URLs) Latest() string {
	return u.Base + "/latest"
}

func newURLs(base, season string) URLs {
	return URLs{Base: strings.TrimRight(base, "/"), Season: season}
}
