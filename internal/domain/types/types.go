// Package types contains the read shapes served by the dashboard API.
package types

import "time"

// ScatterPoint is one player card on the chart.
type ScatterPoint struct {
	PlayerID int     `json:"player_id"`
	X        float64 `json:"x"`
	Y        int     `json:"y"`
}

// ScatterSeries groups the points of one resource id under its label.
type ScatterSeries struct {
	ResourceID string         `json:"resource_id"`
	Label      string         `json:"label"`
	Points     []ScatterPoint `json:"points"`
}

// Scatter is the chart payload for one filter.
type Scatter struct {
	Metric string          `json:"metric"`
	XTitle string          `json:"x_title"`
	YTitle string          `json:"y_title"`
	Series []ScatterSeries `json:"series"`
}

// Range is an inclusive slider interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Mark labels a slider position.
type Mark struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// FilterDefaults is the filter applied when a query omits a parameter.
type FilterDefaults struct {
	Position     string `json:"position"`
	Contribution string `json:"contribution"`
	Ratings      Range  `json:"ratings"`
	Prices       Range  `json:"prices"`
}

// FilterOptions lists everything a client needs to build the filter widgets.
type FilterOptions struct {
	Countries     []string       `json:"countries"`
	Leagues       []string       `json:"leagues"`
	Positions     []string       `json:"positions"`
	Contributions []string       `json:"contributions"`
	RatingBounds  Range          `json:"rating_bounds"`
	RatingMarks   []Mark         `json:"rating_marks"`
	PriceBounds   Range          `json:"price_bounds"`
	PriceMarks    []Mark         `json:"price_marks"`
	Defaults      FilterDefaults `json:"defaults"`
}

// Stats summarizes the loaded derived table.
type Stats struct {
	Rows       int            `json:"rows"`
	Resources  int            `json:"resources"`
	ByPosition map[string]int `json:"by_general_position"`
	ByStatus   map[string]int `json:"by_fetch_status"`
	LoadedAt   time.Time      `json:"loaded_at"`
	Source     string         `json:"source"`
}
