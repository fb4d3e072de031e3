package model

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the calendar date encoding used in every table.
const DateLayout = "2006-01-02"

// HistoryColumns is the daily price/PGP history schema.
var HistoryColumns = []string{ //nolint:gochecknoglobals // fixed schema
	"date", "player_id", "resource_id", "revision", "num_games", "avg_goals", "avg_assists", "price",
}

// HistoryRow is one daily observation of a player's volatile columns.
type HistoryRow struct {
	Date       time.Time
	PlayerID   int
	ResourceID string
	Revision   string
	NumGames   string
	AvgGoals   string
	AvgAssists string
	Price      int
}

// NewHistoryRow builds the observation of u for record r on date.
func NewHistoryRow(date time.Time, r PlayerRecord, u PGPUpdate) HistoryRow {
	resourceID := u.ResourceID
	if resourceID == "" {
		resourceID = r.ResourceID
	}
	return HistoryRow{
		Date:       truncateDay(date),
		PlayerID:   r.PlayerID,
		ResourceID: resourceID,
		Revision:   r.Revision,
		NumGames:   u.NumGames,
		AvgGoals:   u.AvgGoals,
		AvgAssists: u.AvgAssists,
		Price:      u.Price,
	}
}

// Values encodes h in HistoryColumns order.
func (h HistoryRow) Values() []string {
	return []string{
		h.Date.Format(DateLayout), strconv.Itoa(h.PlayerID), h.ResourceID, h.Revision,
		h.NumGames, h.AvgGoals, h.AvgAssists, strconv.Itoa(h.Price),
	}
}

// ParseHistoryRow decodes a row in HistoryColumns order.
func ParseHistoryRow(values []string) (HistoryRow, error) {
	var h HistoryRow
	if len(values) != len(HistoryColumns) {
		return h, fmt.Errorf("%w: got %d, want %d", ErrColumnCount, len(values), len(HistoryColumns))
	}
	date, err := time.Parse(DateLayout, values[0])
	if err != nil {
		return h, fmt.Errorf("%w: date %q", ErrInvalidValue, values[0])
	}
	id, err := strconv.Atoi(values[1])
	if err != nil {
		return h, fmt.Errorf("%w: player_id %q", ErrInvalidValue, values[1])
	}
	price, err := parseIntColumn(values[7])
	if err != nil {
		return h, fmt.Errorf("%w: price %q", ErrInvalidValue, values[7])
	}
	return HistoryRow{
		Date:       date,
		PlayerID:   id,
		ResourceID: values[2],
		Revision:   values[3],
		NumGames:   values[4],
		AvgGoals:   values[5],
		AvgAssists: values[6],
		Price:      price,
	}, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
