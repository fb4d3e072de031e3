package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/okian/futdash/internal/domain/dashboard"
	"github.com/okian/futdash/internal/domain/types"
)

// handlePlayers handles GET /players. Query parameters mirror dashboard.Filter;
// omitted ones take the dashboard defaults and an empty position matches any.
func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_players"
	rows, _, ok := s.snapshot()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "not_loaded", NewKind(op, ErrNotLoaded))
		return
	}
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, dashboard.Scatter(rows, f))
}

func parseFilter(q url.Values) (dashboard.Filter, error) {
	f := dashboard.DefaultFilter()
	f.Country = q.Get("country")
	f.League = q.Get("league")
	if q.Has("position") {
		f.Position = q.Get("position")
	}
	if v := q.Get("contribution"); v != "" {
		f.Contribution = dashboard.Contribution(v)
	}

	var err error
	if f.Ratings, err = parseRange(q, "rating", f.Ratings); err != nil {
		return f, err
	}
	if f.Prices, err = parseRange(q, "price", f.Prices); err != nil {
		return f, err
	}
	return f, f.Validate()
}

// parseRange reads name_min and name_max, keeping def for absent ones.
func parseRange(q url.Values, name string, def types.Range) (types.Range, error) {
	out := def
	for _, b := range []struct {
		key string
		dst *float64
	}{
		{name + "_min", &out.Min},
		{name + "_max", &out.Max},
	} {
		v := q.Get(b.key)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return def, fmt.Errorf("%s: %q is not a number", b.key, v)
		}
		*b.dst = n
	}
	return out, nil
}
