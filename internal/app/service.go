// Package service runs the futdash batch stages: fetch, update and process.
package service

import (
	"context"
	"time"

	"github.com/okian/futdash/internal/adapters/repository"
	"github.com/okian/futdash/internal/domain/model"
	"github.com/okian/futdash/pkg/logger"
)

// Default service configuration constants.
const (
	defaultWorkerCount = 10
	defaultQueueSize   = 1000
)

// Fetcher reads players from the upstream site. Only LatestPlayerID may fail;
// the per-player calls encode failures in the returned record.
type Fetcher interface {
	FetchPlayer(ctx context.Context, id int) model.PlayerRecord
	FetchUpdate(ctx context.Context, id int) model.PGPUpdate
	LatestPlayerID(ctx context.Context) (int, error)
}

// Service wires the fetcher, the worker pool and the stores into batch stages.
type Service struct {
	fetcher Fetcher

	// Stores; any of them may be nil when a stage does not need it.
	records    repository.RecordStore
	derived    repository.DerivedStore
	timeSeries repository.DerivedStore
	history    repository.HistoryStore

	// Configuration
	workerCount int
	queueSize   int
	now         func() time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of concurrent fetch workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the bound of the job queue feeding the workers.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithRecordStore sets where the raw table lives.
func WithRecordStore(store repository.RecordStore) Option {
	return func(s *Service) { s.records = store }
}

// WithDerivedStore sets where the pipeline writes the derived table.
func WithDerivedStore(store repository.DerivedStore) Option {
	return func(s *Service) { s.derived = store }
}

// WithTimeSeriesStore sets where the pipeline writes the time-series table.
func WithTimeSeriesStore(store repository.DerivedStore) Option {
	return func(s *Service) { s.timeSeries = store }
}

// WithHistoryStore sets where daily observations are appended.
func WithHistoryStore(store repository.HistoryStore) Option {
	return func(s *Service) { s.history = store }
}

// WithClock overrides the time source used to date update observations.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service around fetcher.
func New(fetcher Fetcher, opts ...Option) *Service {
	s := &Service{
		fetcher:     fetcher,
		workerCount: defaultWorkerCount,
		queueSize:   defaultQueueSize,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	return s
}

// WorkerCount returns the configured pool width.
func (s *Service) WorkerCount() int {
	return s.workerCount
}
