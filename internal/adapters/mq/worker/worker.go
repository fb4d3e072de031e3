// Package worker runs a fixed-width pool that maps jobs to ordered results.
package worker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/okian/futdash/internal/adapters/mq/queue"
	"github.com/okian/futdash/internal/domain/model"
	"github.com/okian/futdash/pkg/logger"
	"github.com/okian/futdash/pkg/metrics"
)

// Default pool configuration constants.
const (
	defaultWidth     = 10
	defaultQueueSize = 1000
)

// ErrInvalidJob reports a job whose Seq does not address a result slot.
var ErrInvalidJob = errors.New("invalid job sequence")

// Func processes one job. It must not share mutable state with other calls.
type Func[T any] func(ctx context.Context, job model.Job) T

// Result pairs a value with the Seq of the job that produced it.
type Result[T any] struct {
	Seq   int
	Value T
}

// Pool fans jobs out over a fixed number of workers and joins the results.
type Pool[T any] struct {
	width     int
	queueSize int
	name      string
	logger    logger.Logger
}

// NewPool creates a pool of width workers. A width below 1 uses the default.
func NewPool[T any](width int, opts ...Option) *Pool[T] {
	if width < 1 {
		width = defaultWidth
	}
	s := settings{name: "worker-pool", queueSize: defaultQueueSize}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = logger.Named(s.name)
	}
	return &Pool[T]{
		width:     width,
		queueSize: s.queueSize,
		name:      s.name,
		logger:    s.logger,
	}
}

// Width returns the configured number of workers.
func (p *Pool[T]) Width() int {
	return p.width
}

// Map runs fn for every job and returns the values in Seq order.
// It returns only after every dispatched job finished. Job Seqs must be
// distinct and in [0, len(jobs)).
func (p *Pool[T]) Map(ctx context.Context, jobs []model.Job, fn Func[T]) ([]T, error) {
	if err := checkSeqs(jobs); err != nil {
		return nil, err
	}
	out := make([]T, len(jobs))
	if len(jobs) == 0 {
		return out, nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	width := min(p.width, len(jobs))
	metrics.UpdatePoolWidth(width)
	start := time.Now()

	q := queue.NewInMemoryQueue(queue.WithCapacity(p.queueSize))
	results := make(chan Result[T], width)

	go func() {
		defer func() { _ = q.Close() }()
		for _, j := range jobs {
			if err := q.Put(runCtx, j); err != nil {
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := range width {
		wg.Add(1)
		w := &worker[T]{id: i, fn: fn, logger: p.logger.Named("worker-" + strconv.Itoa(i))}
		go func() {
			defer wg.Done()
			w.run(runCtx, q.Dequeue(runCtx), results)
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	done := 0
	for r := range results {
		out[r.Seq] = r.Value
		done++
	}

	if err := ctx.Err(); err != nil {
		p.logger.Warn(ctx, "pool run cancelled",
			logger.Int("completed", done),
			logger.Int("jobs", len(jobs)),
			logger.Error(err),
		)
		return nil, err
	}
	if done != len(jobs) {
		return nil, fmt.Errorf("pool %s: %d of %d jobs completed", p.name, done, len(jobs))
	}
	p.logger.Debug(ctx, "pool run finished",
		logger.Int("jobs", len(jobs)),
		logger.Int("width", width),
		logger.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

func checkSeqs(jobs []model.Job) error {
	seen := make([]bool, len(jobs))
	for _, j := range jobs {
		if j.Seq < 0 || j.Seq >= len(jobs) || seen[j.Seq] {
			return fmt.Errorf("%w: seq %d for player %d", ErrInvalidJob, j.Seq, j.PlayerID)
		}
		seen[j.Seq] = true
	}
	return nil
}

type worker[T any] struct {
	id     int
	fn     Func[T]
	logger logger.Logger
}

func (w *worker[T]) run(ctx context.Context, jobs <-chan model.Job, results chan<- Result[T]) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			r := w.process(ctx, job)
			select {
			case results <- r:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (w *worker[T]) process(ctx context.Context, job model.Job) Result[T] {
	start := time.Now()
	metrics.AddPoolInFlight(1)
	defer func() {
		metrics.AddPoolInFlight(-1)
		metrics.RecordJobLatency(float64(time.Since(start).Milliseconds()))
	}()

	w.logger.Debug(ctx, "processing job", logger.Int("seq", job.Seq), logger.Int("player_id", job.PlayerID))
	return Result[T]{Seq: job.Seq, Value: w.fn(ctx, job)}
}
