package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/okian/futdash/internal/adapters/repository"
	"github.com/okian/futdash/internal/domain/model"
	"github.com/okian/futdash/internal/domain/pipeline"
	"github.com/okian/futdash/pkg/logger"
	"github.com/okian/futdash/pkg/metrics"
)

// ErrStoreNotConfigured reports a stage that needs a store the service lacks.
var ErrStoreNotConfigured = errors.New("store not configured")

// Report summarises one stage run.
type Report struct {
	RunID      string
	Stage      string
	Rows       int
	Added      int
	Repaired   int
	Updated    int
	Derived    int
	TimeSeries int
	ByStatus   map[model.FetchStatus]int
	Elapsed    time.Duration
}

// Process runs the feature pipeline over records.
func (s *Service) Process(ctx context.Context, records []model.PlayerRecord) ([]model.DerivedRow, error) {
	start := time.Now()
	rows, err := pipeline.Process(records)
	metrics.RecordPipelineDuration(float64(time.Since(start).Milliseconds()))
	if err != nil {
		s.recordViolation(ctx, err)
		return nil, err
	}
	metrics.UpdatePipelineRows("derived", len(rows))
	return rows, nil
}

// ProcessHistory runs the time-series pipeline over records and history.
func (s *Service) ProcessHistory(ctx context.Context, records []model.PlayerRecord, history []model.HistoryRow) ([]model.DerivedRow, error) {
	start := time.Now()
	rows, err := pipeline.ProcessHistory(records, history)
	metrics.RecordPipelineDuration(float64(time.Since(start).Milliseconds()))
	if err != nil {
		s.recordViolation(ctx, err)
		return nil, err
	}
	if n := pipeline.Undated(rows); n > 0 {
		s.logger.Warn(ctx, "time-series rows without an added date",
			logger.Int("rows", n),
		)
	}
	metrics.UpdatePipelineRows("time_series", len(rows))
	return rows, nil
}

func (s *Service) recordViolation(ctx context.Context, err error) {
	var sv *pipeline.SchemaViolationError
	if errors.As(err, &sv) {
		metrics.RecordSchemaViolation(sv.Column)
		s.logger.Error(ctx, "schema violation",
			logger.Int("player_id", sv.PlayerID),
			logger.String("column", sv.Column),
			logger.String("value", sv.Value),
		)
	}
}

// RunFetch loads the raw table, appends new players, repairs failed rows and saves it.
// A missing raw table starts from empty.
func (s *Service) RunFetch(ctx context.Context) (Report, error) {
	return s.stage(ctx, StageFetch, func(ctx context.Context, s *Service, rep *Report) error {
		table, err := s.loadRecords(ctx, true)
		if err != nil {
			return err
		}
		before := len(table)

		table, err = s.FetchNewPlayers(ctx, table)
		if err != nil {
			return err
		}
		rep.Added = len(table) - before
		rep.Repaired = len(table.IDsWithStatus(model.StatusFailed))

		table, err = s.RepairFailed(ctx, table)
		if err != nil {
			return err
		}
		rep.Repaired -= len(table.IDsWithStatus(model.StatusFailed))

		rep.Rows = len(table)
		rep.ByStatus = table.CountByStatus()
		return s.records.Save(ctx, table)
	})
}

// RunUpdate refreshes the volatile columns of the stored raw table.
func (s *Service) RunUpdate(ctx context.Context) (Report, error) {
	return s.stage(ctx, StageUpdate, func(ctx context.Context, s *Service, rep *Report) error {
		table, err := s.loadRecords(ctx, false)
		if err != nil {
			return err
		}
		table, history, err := s.UpdateExisting(ctx, table, s.now())
		if err != nil {
			return err
		}
		rep.Rows = len(table)
		rep.Updated = len(history)
		rep.ByStatus = table.CountByStatus()
		return s.records.Save(ctx, table)
	})
}

// RunProcess derives the dashboard tables from the stored raw table and history.
func (s *Service) RunProcess(ctx context.Context) (Report, error) {
	return s.stage(ctx, StageProcess, func(ctx context.Context, s *Service, rep *Report) error {
		if s.derived == nil {
			return fmt.Errorf("derived table: %w", ErrStoreNotConfigured)
		}
		table, err := s.loadRecords(ctx, false)
		if err != nil {
			return err
		}
		rep.Rows = len(table)

		rows, err := s.Process(ctx, table)
		if err != nil {
			return err
		}
		if err := s.derived.Save(ctx, rows); err != nil {
			return err
		}
		rep.Derived = len(rows)

		if s.history == nil || s.timeSeries == nil {
			return nil
		}
		history, err := s.history.All(ctx)
		if err != nil {
			return err
		}
		series, err := s.ProcessHistory(ctx, table, history)
		if err != nil {
			return err
		}
		rep.TimeSeries = len(series)
		return s.timeSeries.Save(ctx, series)
	})
}

// Run executes fetch, update and process in order and stops at the first error.
func (s *Service) Run(ctx context.Context) ([]Report, error) {
	var reports []Report
	for _, run := range []func(context.Context) (Report, error){s.RunFetch, s.RunUpdate, s.RunProcess} {
		rep, err := run(ctx)
		reports = append(reports, rep)
		if err != nil {
			return reports, err
		}
	}
	return reports, nil
}

func (s *Service) loadRecords(ctx context.Context, allowMissing bool) (model.Table, error) {
	if s.records == nil {
		return nil, fmt.Errorf("raw table: %w", ErrStoreNotConfigured)
	}
	table, err := s.records.Load(ctx)
	if errors.Is(err, repository.ErrNotFound) && allowMissing {
		s.logger.Info(ctx, "raw table not found, starting empty")
		return model.Table{}, nil
	}
	return table, err
}

// stage tags the run with an id, times it and records its outcome.
// fn receives a copy of s whose logger carries the run id.
func (s *Service) stage(ctx context.Context, name string, fn func(context.Context, *Service, *Report) error) (Report, error) {
	rep := Report{RunID: uuid.NewString(), Stage: name}
	run := *s
	run.logger = s.logger.With(logger.String("run_id", rep.RunID), logger.String("stage", name))

	start := time.Now()
	run.logger.Info(ctx, "stage started")
	err := fn(ctx, &run, &rep)
	rep.Elapsed = time.Since(start)

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.RecordBatchRun(name, outcome, rep.Elapsed)
	if err != nil {
		run.logger.Error(ctx, "stage failed", logger.Error(err), logger.Duration("elapsed", rep.Elapsed))
		return rep, fmt.Errorf("%s: %w", name, err)
	}
	run.logger.Info(ctx, "stage finished",
		logger.Int("rows", rep.Rows),
		logger.Duration("elapsed", rep.Elapsed),
	)
	return rep, nil
}
