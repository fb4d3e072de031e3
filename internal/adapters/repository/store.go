// Package repository persists the raw, derived and history tables.
package repository

import (
	"context"

	"github.com/okian/futdash/internal/domain/model"
)

// RecordStore reads and writes the raw player table.
type RecordStore interface {
	// Load returns the stored table. Returns ErrNotFound if it was never saved.
	Load(ctx context.Context) (model.Table, error)
	// Save replaces the stored table atomically.
	Save(ctx context.Context, t model.Table) error
}

// DerivedStore reads and writes a pipeline output table.
type DerivedStore interface {
	Load(ctx context.Context) ([]model.DerivedRow, error)
	Save(ctx context.Context, rows []model.DerivedRow) error
}

// HistoryStore keeps one price/PGP observation per player and date.
type HistoryStore interface {
	// Append upserts rows keyed by (date, player_id).
	Append(ctx context.Context, rows []model.HistoryRow) error
	// All returns every observation ordered by date then player_id.
	All(ctx context.Context) ([]model.HistoryRow, error)
	// Count returns the number of stored observations.
	Count(ctx context.Context) (int, error)
	Close() error
}
