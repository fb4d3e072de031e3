package worker_test

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/futdash/internal/adapters/mq/worker"
	"github.com/okian/futdash/internal/domain/model"
	logging "github.com/okian/futdash/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logging.Init(); err != nil {
		panic(err)
	}
	_ = logging.SetLevelString("error")
	m.Run()
}

func double(_ context.Context, job model.Job) int {
	return job.PlayerID * 2
}

func TestPoolMap(t *testing.T) {
	convey.Convey("Given jobs for a contiguous id range", t, func() {
		ids := model.IDRange(100, 187)
		jobs := model.JobsFor(ids)
		ctx := context.Background()

		for _, width := range []int{1, 3, 10, 200} {
			convey.Convey("When a pool of width "+strconv.Itoa(width)+" maps them", func() {
				pool := worker.NewPool[int](width, worker.WithQueueSize(4))
				out, err := pool.Map(ctx, jobs, double)

				convey.Convey("Then there is exactly one result per id in input order", func() {
					convey.So(err, convey.ShouldBeNil)
					convey.So(out, convey.ShouldHaveLength, len(ids))
					for i, id := range ids {
						convey.So(out[i], convey.ShouldEqual, id*2)
					}
				})
			})
		}

		convey.Convey("When jobs finish out of order", func() {
			pool := worker.NewPool[int](4)
			slowFirst := func(_ context.Context, job model.Job) int {
				if job.Seq%4 == 0 {
					time.Sleep(5 * time.Millisecond)
				}
				return job.PlayerID
			}
			out, err := pool.Map(ctx, jobs[:12], slowFirst)

			convey.Convey("Then results still follow Seq", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldResemble, ids[:12])
			})
		})
	})
}

func TestPoolBarrier(t *testing.T) {
	convey.Convey("Given a pool and a job function that counts calls", t, func() {
		var calls atomic.Int64
		var inFlight, peak atomic.Int64
		fn := func(_ context.Context, job model.Job) int {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inFlight.Add(-1)
			calls.Add(1)
			return job.Seq
		}
		pool := worker.NewPool[int](3)

		convey.Convey("When Map returns", func() {
			_, err := pool.Map(context.Background(), model.JobsFor(model.IDRange(0, 30)), fn)

			convey.Convey("Then every job ran and none is still running", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(calls.Load(), convey.ShouldEqual, 30)
				convey.So(inFlight.Load(), convey.ShouldEqual, 0)
				convey.So(peak.Load(), convey.ShouldBeLessThanOrEqualTo, 3)
			})
		})
	})
}

func TestPoolEdgeCases(t *testing.T) {
	convey.Convey("Given a pool", t, func() {
		pool := worker.NewPool[int](0)

		convey.Convey("Then a non-positive width falls back to the default", func() {
			convey.So(pool.Width(), convey.ShouldEqual, 10)
		})

		convey.Convey("When mapping no jobs", func() {
			out, err := pool.Map(context.Background(), nil, double)

			convey.Convey("Then the result is empty", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When jobs carry duplicate sequence numbers", func() {
			jobs := []model.Job{{Seq: 0, PlayerID: 1}, {Seq: 0, PlayerID: 2}}
			_, err := pool.Map(context.Background(), jobs, double)

			convey.Convey("Then Map rejects them", func() {
				convey.So(errors.Is(err, worker.ErrInvalidJob), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a sequence number is out of range", func() {
			_, err := pool.Map(context.Background(), []model.Job{{Seq: 1, PlayerID: 1}}, double)

			convey.Convey("Then Map rejects it", func() {
				convey.So(errors.Is(err, worker.ErrInvalidJob), convey.ShouldBeTrue)
			})
		})
	})
}

func TestPoolCancellation(t *testing.T) {
	convey.Convey("Given a context cancelled mid-run", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		var started atomic.Int64
		fn := func(ctx context.Context, job model.Job) int {
			if started.Add(1) == 5 {
				cancel()
			}
			select {
			case <-ctx.Done():
			case <-time.After(time.Millisecond):
			}
			return job.Seq
		}
		pool := worker.NewPool[int](2, worker.WithName("cancel-pool"))

		convey.Convey("When Map runs", func() {
			out, err := pool.Map(ctx, model.JobsFor(model.IDRange(0, 500)), fn)

			convey.Convey("Then it aborts with the context error", func() {
				convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
				convey.So(out, convey.ShouldBeNil)
				convey.So(started.Load(), convey.ShouldBeLessThan, 500)
			})
		})
	})
}
