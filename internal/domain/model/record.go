// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strconv"
)

// FetchStatus tags how a PlayerRecord was produced.
type FetchStatus string

const (
	StatusOK         FetchStatus = "ok"
	StatusMissing    FetchStatus = "missing"    // profile page has no player
	StatusGoalkeeper FetchStatus = "goalkeeper" // header only, the rest zeroed
	StatusFailed     FetchStatus = "failed"     // transport failure, zero-filled
)

// Valid reports whether s is a known status.
func (s FetchStatus) Valid() bool {
	switch s {
	case StatusOK, StatusMissing, StatusGoalkeeper, StatusFailed:
		return true
	}
	return false
}

// Skill category sizes in blob order.
const (
	PaceCount      = 3
	ShootingCount  = 7
	PassingCount   = 7
	DribblingCount = 7
	DefendingCount = 6
	PhysicalCount  = 5

	SkillCount = PaceCount + ShootingCount + PassingCount + DribblingCount + DefendingCount + PhysicalCount
)

// Zero is the encoding of every non-identity column of a placeholder record
// and of info cells lost to layout drift.
const Zero = "0"

// DescriptiveColumns are the leading text columns of the raw table.
var DescriptiveColumns = []string{ //nolint:gochecknoglobals // fixed schema
	"player_id", "player_name", "overall", "quality", "resource_id", "position",
	"num_games", "avg_goals", "avg_assists", "club", "nationality", "league", "skill_moves",
	"weak_foot", "intl_rep", "pref_foot", "height", "weight", "revision",
	"def_workrate", "att_workrate", "added_date", "origin", "age",
}

// SkillColumns are the attribute columns in category order.
var SkillColumns = []string{ //nolint:gochecknoglobals // fixed schema
	"pace", "pace_acceleration", "pace_sprint_speed",
	"shooting", "shoot_positioning", "shoot_finishing", "shoot_shot_power", "shoot_long_shots", "shoot_volleys", "shoot_penalties",
	"passing", "pass_vision", "pass_crossing", "pass_free_kick", "pass_short", "pass_long", "pass_curve",
	"dribbling", "drib_agility", "drib_balance", "drib_reactions", "drib_ball_control", "drib_dribbling", "drib_composure",
	"defending", "def_interceptions", "def_heading", "def_marking", "def_stand_tackle", "def_slid_tackle",
	"physicality", "phys_jumping", "phys_stamina", "phys_strength", "phys_aggression",
}

// Columns is the raw table schema shared by every stage.
var Columns = buildColumns() //nolint:gochecknoglobals // fixed schema

func buildColumns() []string {
	cols := make([]string, 0, len(DescriptiveColumns)+len(SkillColumns)+2)
	cols = append(cols, DescriptiveColumns...)
	cols = append(cols, SkillColumns...)
	return append(cols, "price", "fetch_status")
}

// VolatileColumns are refreshed by the update stage.
var VolatileColumns = []string{"num_games", "avg_goals", "avg_assists", "price"} //nolint:gochecknoglobals // fixed schema

// PlayerRecord is one scraped player card.
// Stat columns stay textual; the feature pipeline coerces them.
type PlayerRecord struct {
	PlayerID    int
	PlayerName  string
	Overall     string
	Quality     string
	ResourceID  string
	Position    string
	NumGames    string
	AvgGoals    string
	AvgAssists  string
	Club        string
	Nationality string
	League      string
	SkillMoves  string
	WeakFoot    string
	IntlRep     string
	PrefFoot    string
	Height      string
	Weight      string
	Revision    string
	DefWorkrate string
	AttWorkrate string
	AddedDate   string
	Origin      string
	Age         string
	Skills      [SkillCount]int
	Price       int
	Status      FetchStatus
}

// NewMissingRecord returns the placeholder for an id with no usable profile.
// status is StatusMissing or StatusFailed.
func NewMissingRecord(id int, status FetchStatus) PlayerRecord {
	r := PlayerRecord{PlayerID: id, Status: status}
	r.fillHeader(Zero)
	r.fillBody(Zero)
	return r
}

// NewGoalkeeperRecord keeps the header fields and zeroes the rest.
func NewGoalkeeperRecord(id int, name, overall, quality, resourceID string) PlayerRecord {
	r := PlayerRecord{
		PlayerID:   id,
		PlayerName: name,
		Overall:    overall,
		Quality:    quality,
		ResourceID: resourceID,
		Position:   "GK",
		Status:     StatusGoalkeeper,
	}
	r.fillBody(Zero)
	return r
}

func (r *PlayerRecord) fillHeader(v string) {
	r.PlayerName, r.Overall, r.Quality, r.ResourceID, r.Position = v, v, v, v, v
}

func (r *PlayerRecord) fillBody(v string) {
	for _, p := range r.bodyFields() {
		*p = v
	}
	r.Skills = [SkillCount]int{}
	r.Price = 0
}

// bodyFields are the text columns after position.
func (r *PlayerRecord) bodyFields() []*string {
	return []*string{
		&r.NumGames, &r.AvgGoals, &r.AvgAssists, &r.Club, &r.Nationality, &r.League,
		&r.SkillMoves, &r.WeakFoot, &r.IntlRep, &r.PrefFoot, &r.Height, &r.Weight,
		&r.Revision, &r.DefWorkrate, &r.AttWorkrate, &r.AddedDate, &r.Origin, &r.Age,
	}
}

// textFields are the descriptive columns after player_id, in column order.
func (r *PlayerRecord) textFields() []*string {
	head := []*string{&r.PlayerName, &r.Overall, &r.Quality, &r.ResourceID, &r.Position}
	return append(head, r.bodyFields()...)
}

// ApplyUpdate overwrites the volatile columns from u.
func (r *PlayerRecord) ApplyUpdate(u PGPUpdate) {
	r.NumGames, r.AvgGoals, r.AvgAssists, r.Price = u.NumGames, u.AvgGoals, u.AvgAssists, u.Price
}

// ClearVolatile empties the columns the update stage refreshes.
func (r *PlayerRecord) ClearVolatile() {
	r.NumGames, r.AvgGoals, r.AvgAssists, r.Price = "", "", "", 0
}

// Values encodes r in Columns order.
func (r PlayerRecord) Values() []string {
	out := make([]string, 0, len(Columns))
	out = append(out, strconv.Itoa(r.PlayerID))
	for _, p := range r.textFields() {
		out = append(out, *p)
	}
	for _, s := range r.Skills {
		out = append(out, strconv.Itoa(s))
	}
	return append(out, strconv.Itoa(r.Price), string(r.Status))
}

// ParseRecord decodes a row in Columns order.
func ParseRecord(values []string) (PlayerRecord, error) {
	var r PlayerRecord
	if len(values) != len(Columns) {
		return r, fmt.Errorf("%w: got %d, want %d", ErrColumnCount, len(values), len(Columns))
	}
	id, err := strconv.Atoi(values[0])
	if err != nil {
		return r, fmt.Errorf("%w: player_id %q", ErrInvalidValue, values[0])
	}
	r.PlayerID = id

	i := 1
	for _, p := range r.textFields() {
		*p = values[i]
		i++
	}
	for s := range r.Skills {
		v, err := parseIntColumn(values[i])
		if err != nil {
			return r, fmt.Errorf("%w: player %d column %s %q", ErrInvalidValue, id, Columns[i], values[i])
		}
		r.Skills[s] = v
		i++
	}
	if r.Price, err = parseIntColumn(values[i]); err != nil {
		return r, fmt.Errorf("%w: player %d column price %q", ErrInvalidValue, id, values[i])
	}
	r.Status = FetchStatus(values[i+1])
	if !r.Status.Valid() {
		return r, fmt.Errorf("%w: player %d fetch_status %q", ErrInvalidValue, id, values[i+1])
	}
	return r, nil
}

// parseIntColumn treats an empty cell as 0 so left-joined rows decode.
func parseIntColumn(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
