package model

import (
	"cmp"
	"fmt"
	"slices"
)

// Table is the ordered raw per-player dataset.
type Table []PlayerRecord

// MaxPlayerID returns the highest player id, or 0 for an empty table.
func (t Table) MaxPlayerID() int {
	maxID := 0
	for _, r := range t {
		maxID = max(maxID, r.PlayerID)
	}
	return maxID
}

// SortByPlayerID orders rows by ascending player id.
func (t Table) SortByPlayerID() {
	slices.SortStableFunc(t, func(a, b PlayerRecord) int { return cmp.Compare(a.PlayerID, b.PlayerID) })
}

// Validate checks that player ids are unique.
func (t Table) Validate() error {
	seen := make(map[int]struct{}, len(t))
	for _, r := range t {
		if _, dup := seen[r.PlayerID]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicatePlayer, r.PlayerID)
		}
		seen[r.PlayerID] = struct{}{}
	}
	return nil
}

// PlayerIDs returns the ids in table order.
func (t Table) PlayerIDs() []int {
	ids := make([]int, len(t))
	for i, r := range t {
		ids[i] = r.PlayerID
	}
	return ids
}

// IDsWithStatus returns the ids of rows tagged with status, in table order.
func (t Table) IDsWithStatus(status FetchStatus) []int {
	var ids []int
	for _, r := range t {
		if r.Status == status {
			ids = append(ids, r.PlayerID)
		}
	}
	return ids
}

// CountByStatus tallies rows per fetch status.
func (t Table) CountByStatus() map[FetchStatus]int {
	out := make(map[FetchStatus]int, 4)
	for _, r := range t {
		out[r.Status]++
	}
	return out
}
