package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/okian/futdash/internal/adapters/mq/worker"
	"github.com/okian/futdash/internal/domain/dedupe"
	"github.com/okian/futdash/internal/domain/model"
	"github.com/okian/futdash/pkg/logger"
	"github.com/okian/futdash/pkg/metrics"
)

// Batch stage names used in logs and metrics.
const (
	StageFetch   = "fetch"
	StageRepair  = "repair"
	StageUpdate  = "update"
	StageProcess = "process"
)

func newPool[T any](s *Service, name string) *worker.Pool[T] {
	return worker.NewPool[T](s.workerCount,
		worker.WithName(name),
		worker.WithQueueSize(s.queueSize),
		worker.WithLogger(s.logger.Named(name)),
	)
}

// FetchNewPlayers fetches every id above the table's highest one up to the
// newest published id, then returns the table with those records appended,
// deduplicated on player_id and sorted. The input table is not modified.
func (s *Service) FetchNewPlayers(ctx context.Context, table model.Table) (model.Table, error) {
	last := table.MaxPlayerID()
	latest, err := s.fetcher.LatestPlayerID(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve latest player: %w", err)
	}

	ids := model.IDRange(last, latest)
	s.logger.Info(ctx, "fetching new players",
		logger.Int("last_known", last),
		logger.Int("latest", latest),
		logger.Int("count", len(ids)),
	)

	fetched, err := newPool[model.PlayerRecord](s, "fetch-pool").Map(ctx, model.JobsFor(ids),
		func(ctx context.Context, job model.Job) model.PlayerRecord {
			return s.fetcher.FetchPlayer(ctx, job.PlayerID)
		})
	if err != nil {
		return nil, fmt.Errorf("fetch players: %w", err)
	}

	seen := dedupe.FromIDs(table.PlayerIDs())
	out := slices.Clone(table)
	for _, r := range fetched {
		metrics.RecordBatchRecord(StageFetch, string(r.Status))
		if seen.SeenAndRecord(r.PlayerID) {
			s.logger.Warn(ctx, "dropping duplicate player", logger.Int("player_id", r.PlayerID))
			continue
		}
		out = append(out, r)
	}
	out.SortByPlayerID()
	return out, nil
}

// RepairFailed re-fetches rows whose last fetch failed in transport and
// replaces them in place. Rows that fail again stay failed.
func (s *Service) RepairFailed(ctx context.Context, table model.Table) (model.Table, error) {
	ids := table.IDsWithStatus(model.StatusFailed)
	out := slices.Clone(table)
	if len(ids) == 0 {
		return out, nil
	}
	s.logger.Info(ctx, "repairing failed players", logger.Int("count", len(ids)))

	fetched, err := newPool[model.PlayerRecord](s, "repair-pool").Map(ctx, model.JobsFor(ids),
		func(ctx context.Context, job model.Job) model.PlayerRecord {
			return s.fetcher.FetchPlayer(ctx, job.PlayerID)
		})
	if err != nil {
		return nil, fmt.Errorf("repair players: %w", err)
	}

	byID := make(map[int]model.PlayerRecord, len(fetched))
	for _, r := range fetched {
		metrics.RecordBatchRecord(StageRepair, string(r.Status))
		byID[r.PlayerID] = r
	}
	for i := range out {
		if r, ok := byID[out[i].PlayerID]; ok {
			out[i] = r
		}
	}
	return out, nil
}

// UpdateExisting refreshes the volatile columns of every row and returns the
// updated table plus one history row per successful update, dated date.
// Rows without an update keep empty stats and a zero price. Row count and
// non-volatile columns are preserved. Observations are appended to the
// history store when one is configured.
func (s *Service) UpdateExisting(ctx context.Context, table model.Table, date time.Time) (model.Table, []model.HistoryRow, error) {
	out := slices.Clone(table)
	for i := range out {
		out[i].ClearVolatile()
	}

	ids := out.PlayerIDs()
	s.logger.Info(ctx, "updating players", logger.Int("count", len(ids)))
	updates, err := newPool[model.PGPUpdate](s, "update-pool").Map(ctx, model.JobsFor(ids),
		func(ctx context.Context, job model.Job) model.PGPUpdate {
			return s.fetcher.FetchUpdate(ctx, job.PlayerID)
		})
	if err != nil {
		return nil, nil, fmt.Errorf("update players: %w", err)
	}

	byID := make(map[int]model.PGPUpdate, len(updates))
	for _, u := range updates {
		if u.OK {
			byID[u.PlayerID] = u
		}
	}

	var history []model.HistoryRow
	for i := range out {
		u, ok := byID[out[i].PlayerID]
		if !ok {
			metrics.RecordBatchRecord(StageUpdate, "skipped")
			continue
		}
		metrics.RecordBatchRecord(StageUpdate, "ok")
		out[i].ApplyUpdate(u)
		history = append(history, model.NewHistoryRow(date, out[i], u))
	}

	if s.history != nil {
		if err := s.history.Append(ctx, history); err != nil {
			return nil, nil, fmt.Errorf("append history: %w", err)
		}
	}
	s.logger.Info(ctx, "players updated",
		logger.Int("rows", len(out)),
		logger.Int("updated", len(history)),
	)
	return out, history, nil
}
