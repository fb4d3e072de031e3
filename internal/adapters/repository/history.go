package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/futdash/internal/domain/model"
	"github.com/okian/futdash/pkg/logger"
	"github.com/okian/futdash/pkg/metrics"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

const (
	upsertHistory = `INSERT INTO price_history
    (date, player_id, resource_id, revision, num_games, avg_goals, avg_assists, price)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (date, player_id) DO UPDATE SET
    resource_id = excluded.resource_id,
    revision = excluded.revision,
    num_games = excluded.num_games,
    avg_goals = excluded.avg_goals,
    avg_assists = excluded.avg_assists,
    price = excluded.price`

	selectHistory = `SELECT date, player_id, resource_id, revision, num_games, avg_goals, avg_assists, price
FROM price_history
ORDER BY date, player_id`

	countHistory = `SELECT COUNT(*) FROM price_history`
)

// SQLiteHistory is a HistoryStore on an SQLite file.
type SQLiteHistory struct {
	db     *sql.DB
	label  string
	logger logger.Logger
}

// OpenHistory opens or creates the history database at path.
// Use ":memory:" for a private in-memory database.
func OpenHistory(ctx context.Context, path string, opts ...Option) (*SQLiteHistory, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", filepath.Dir(path), err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// one connection keeps ":memory:" a single database and serialises writers
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema to %s: %w", path, err)
	}

	s := &SQLiteHistory{db: db, label: "price_history"}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("history")
	}
	return s, nil
}

// Append upserts rows in one transaction.
func (s *SQLiteHistory) Append(ctx context.Context, rows []model.HistoryRow) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertHistory)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, h := range rows {
		_, err := stmt.ExecContext(ctx,
			h.Date.Format(model.DateLayout), h.PlayerID, h.ResourceID, h.Revision,
			h.NumGames, h.AvgGoals, h.AvgAssists, h.Price,
		)
		if err != nil {
			return fmt.Errorf("upsert player %d on %s: %w", h.PlayerID, h.Date.Format(model.DateLayout), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	metrics.RecordRowsWritten(s.label, len(rows))
	s.logger.Debug(ctx, "history appended", logger.Int("rows", len(rows)))
	return nil
}

// All returns every observation ordered by date then player_id.
func (s *SQLiteHistory) All(ctx context.Context) ([]model.HistoryRow, error) {
	rows, err := s.db.QueryContext(ctx, selectHistory)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []model.HistoryRow
	for rows.Next() {
		var (
			h    model.HistoryRow
			date string
		)
		if err := rows.Scan(&date, &h.PlayerID, &h.ResourceID, &h.Revision, &h.NumGames, &h.AvgGoals, &h.AvgAssists, &h.Price); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		h.Date, err = time.Parse(model.DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("%w: history date %q", ErrInvalidRow, date)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}

// Count returns the number of stored observations.
func (s *SQLiteHistory) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, countHistory).Scan(&n); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return n, nil
}

// Close releases the database.
func (s *SQLiteHistory) Close() error {
	return s.db.Close()
}
