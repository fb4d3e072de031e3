package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/futdash/internal/adapters/futbin"
	"github.com/okian/futdash/internal/adapters/repository"
	service "github.com/okian/futdash/internal/app"
	"github.com/okian/futdash/internal/config"
	"github.com/okian/futdash/pkg/logger"
)

// runner owns the service and the stores opened for one command.
type runner struct {
	svc     *service.Service
	history *repository.SQLiteHistory
}

func newFetcher(cfg *config.Config) *futbin.Client {
	return futbin.New(cfg.BaseURL, cfg.Season,
		futbin.WithTimeout(time.Duration(cfg.RequestTimeoutMS)*time.Millisecond),
		futbin.WithRetry(cfg.RetryCount, 0, 0),
		futbin.WithRateLimit(cfg.RequestsPerSecond, cfg.Burst),
		futbin.WithBreaker(cfg.BreakerFailures, 0),
		futbin.WithUserAgent(cfg.UserAgent),
		futbin.WithPlatform(cfg.Platform),
		futbin.WithLogger(logger.Named("futbin")),
	)
}

func openRunner(ctx context.Context, cfg *config.Config) (*runner, error) {
	history, err := repository.OpenHistory(ctx, cfg.HistoryDBPath())
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	svc := service.New(newFetcher(cfg),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithRecordStore(repository.NewRecordTable(cfg.RawTablePath())),
		service.WithDerivedStore(repository.NewDerivedTable(cfg.DerivedTablePath(), false)),
		service.WithTimeSeriesStore(repository.NewDerivedTable(cfg.HistoryTablePath(), true)),
		service.WithHistoryStore(history),
		service.WithLogger(logger.Named("service")),
	)
	return &runner{svc: svc, history: history}, nil
}

func (r *runner) Close() error {
	return r.history.Close()
}

func (r *runner) run(ctx context.Context) ([]service.Report, error) {
	return r.svc.Run(ctx)
}

func (r *runner) fetch(ctx context.Context) ([]service.Report, error) {
	rep, err := r.svc.RunFetch(ctx)
	return []service.Report{rep}, err
}

func (r *runner) update(ctx context.Context) ([]service.Report, error) {
	rep, err := r.svc.RunUpdate(ctx)
	return []service.Report{rep}, err
}

func (r *runner) process(ctx context.Context) ([]service.Report, error) {
	rep, err := r.svc.RunProcess(ctx)
	return []service.Report{rep}, err
}
