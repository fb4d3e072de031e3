package model

import "time"

// PGPUpdate carries the volatile columns refreshed for one player.
type PGPUpdate struct {
	PlayerID   int
	ResourceID string
	NumGames   string
	AvgGoals   string
	AvgAssists string
	Price      int
	// OK is false when the profile could not be fetched or parsed.
	OK bool
}

// PriceObservation is the latest point of a player's price series.
type PriceObservation struct {
	ResourceID string
	Timestamp  time.Time
	Price      int
}
